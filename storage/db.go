// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package storage

import (
	"bytes"
	"encoding/binary"

	"github.com/dgraph-io/badger/v3"
)

// data collection prefixes
const (
	_                 byte = iota
	colStateValueByKey     // contract state value by state key
	colQueuedCallByID      // queued async call by call id
	colCallQueueHead       // id of the next call to resolve
	colCallQueueTail       // id for the next queued call
	colReceiptByHash       // invocation receipt by invocation hash
)

// NewDB opens a badger database at the given directory
func NewDB(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	return badger.Open(opts)
}

// NewInMemoryDB opens an ephemeral badger database for tests
func NewInMemoryDB() (*badger.DB, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil
	return badger.Open(opts)
}

type updateFunc func(txn *badger.Txn) error

func getValue(db *badger.DB, key []byte) ([]byte, error) {
	var val []byte
	err := db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err == nil {
			val, err = item.ValueCopy(nil)
		}
		return err
	})
	return val, err
}

func updateDB(db *badger.DB, fns []updateFunc) error {
	return db.Update(func(txn *badger.Txn) error {
		for _, fn := range fns {
			if err := fn(txn); err != nil {
				return err
			}
		}
		return nil
	})
}

func uint64ToBytes(i uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, i)
	return b
}

func bytesToUint64(b []byte) uint64 {
	if len(b) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func concatBytes(srcs ...[]byte) []byte {
	buf := bytes.NewBuffer(nil)
	size := 0
	for _, src := range srcs {
		size += len(src)
	}
	buf.Grow(size)
	for _, src := range srcs {
		buf.Write(src)
	}
	return buf.Bytes()
}
