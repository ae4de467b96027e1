// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package storage

import (
	"github.com/dgraph-io/badger/v3"

	"github.com/nyeinchan/promisechain/core"
)

type stateStore struct {
	db *badger.DB
}

func (ss *stateStore) getState(key []byte) []byte {
	val, err := getValue(ss.db, concatBytes([]byte{colStateValueByKey}, key))
	if err != nil {
		return nil
	}
	return val
}

func (ss *stateStore) commitStateChanges(scList []*core.StateChange) []updateFunc {
	ret := make([]updateFunc, 0, len(scList))
	for _, sc := range scList {
		ret = append(ret, ss.setState(sc.Key(), sc.Value()))
	}
	return ret
}

func (ss *stateStore) setState(key, value []byte) updateFunc {
	return func(txn *badger.Txn) error {
		return txn.Set(concatBytes([]byte{colStateValueByKey}, key), value)
	}
}
