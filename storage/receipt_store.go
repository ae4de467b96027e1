// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package storage

import (
	"github.com/dgraph-io/badger/v3"

	"github.com/nyeinchan/promisechain/core"
)

type receiptStore struct {
	db *badger.DB
}

func (rs *receiptStore) getReceipt(invocHash []byte) (*core.Receipt, error) {
	b, err := getValue(rs.db, concatBytes([]byte{colReceiptByHash}, invocHash))
	if err != nil {
		return nil, err
	}
	rcp := core.NewReceipt()
	return rcp, rcp.Unmarshal(b)
}

func (rs *receiptStore) setReceipt(rcp *core.Receipt) updateFunc {
	return func(txn *badger.Txn) error {
		b, err := rcp.Marshal()
		if err != nil {
			return err
		}
		return txn.Set(concatBytes([]byte{colReceiptByHash}, rcp.InvocationHash()), b)
	}
}
