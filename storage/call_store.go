// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package storage

import (
	"github.com/dgraph-io/badger/v3"
)

// callStore keeps queued async calls in issue order.
// Head and tail ids are persisted so the queue survives a restart.
type callStore struct {
	db *badger.DB
}

func (cs *callStore) enqueueCall(data []byte) (uint64, error) {
	var id uint64
	err := cs.db.Update(func(txn *badger.Txn) error {
		id = cs.counter(txn, colCallQueueTail)
		if err := txn.Set(cs.callKey(id), data); err != nil {
			return err
		}
		return txn.Set([]byte{colCallQueueTail}, uint64ToBytes(id+1))
	})
	return id, err
}

func (cs *callStore) dequeueCall() (uint64, []byte, error) {
	var (
		id   uint64
		data []byte
	)
	err := cs.db.Update(func(txn *badger.Txn) error {
		id = cs.counter(txn, colCallQueueHead)
		item, err := txn.Get(cs.callKey(id))
		if err != nil {
			return err
		}
		if data, err = item.ValueCopy(nil); err != nil {
			return err
		}
		if err = txn.Delete(cs.callKey(id)); err != nil {
			return err
		}
		return txn.Set([]byte{colCallQueueHead}, uint64ToBytes(id+1))
	})
	return id, data, err
}

func (cs *callStore) pendingCallCount() uint64 {
	var count uint64
	cs.db.View(func(txn *badger.Txn) error {
		count = cs.counter(txn, colCallQueueTail) - cs.counter(txn, colCallQueueHead)
		return nil
	})
	return count
}

func (cs *callStore) pendingCalls() ([][]byte, error) {
	ret := make([][]byte, 0)
	err := cs.db.View(func(txn *badger.Txn) error {
		head := cs.counter(txn, colCallQueueHead)
		tail := cs.counter(txn, colCallQueueTail)
		for id := head; id < tail; id++ {
			item, err := txn.Get(cs.callKey(id))
			if err != nil {
				return err
			}
			data, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			ret = append(ret, data)
		}
		return nil
	})
	return ret, err
}

func (cs *callStore) counter(txn *badger.Txn, col byte) uint64 {
	item, err := txn.Get([]byte{col})
	if err != nil {
		return 0
	}
	var val uint64
	item.Value(func(b []byte) error {
		val = bytesToUint64(b)
		return nil
	})
	return val
}

func (cs *callStore) callKey(id uint64) []byte {
	return concatBytes([]byte{colQueuedCallByID}, uint64ToBytes(id))
}
