// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package storage

import (
	"github.com/dgraph-io/badger/v3"

	"github.com/nyeinchan/promisechain/core"
)

// Storage persists contract state, the async call queue and receipts
type Storage struct {
	db           *badger.DB
	stateStore   *stateStore
	callStore    *callStore
	receiptStore *receiptStore
}

func New(db *badger.DB) *Storage {
	strg := new(Storage)
	strg.db = db
	strg.stateStore = &stateStore{db}
	strg.callStore = &callStore{db}
	strg.receiptStore = &receiptStore{db}
	return strg
}

// GetState returns the stored value for key, nil when not found
func (strg *Storage) GetState(key []byte) []byte {
	return strg.stateStore.getState(key)
}

// Commit stores the state changes and the receipt of one invocation
// in a single transaction
func (strg *Storage) Commit(scList []*core.StateChange, rcp *core.Receipt) error {
	updFns := strg.stateStore.commitStateChanges(scList)
	if rcp != nil {
		updFns = append(updFns, strg.receiptStore.setReceipt(rcp))
	}
	return updateDB(strg.db, updFns)
}

// EnqueueCall appends an encoded async call to the pending queue
// and returns its call id
func (strg *Storage) EnqueueCall(data []byte) (uint64, error) {
	return strg.callStore.enqueueCall(data)
}

// DequeueCall removes and returns the oldest pending call
func (strg *Storage) DequeueCall() (uint64, []byte, error) {
	return strg.callStore.dequeueCall()
}

// PendingCallCount returns the number of queued calls
func (strg *Storage) PendingCallCount() uint64 {
	return strg.callStore.pendingCallCount()
}

// PendingCalls returns the encoded queued calls in issue order
func (strg *Storage) PendingCalls() ([][]byte, error) {
	return strg.callStore.pendingCalls()
}

// GetReceipt returns the receipt stored for an invocation hash
func (strg *Storage) GetReceipt(invocHash []byte) (*core.Receipt, error) {
	return strg.receiptStore.getReceipt(invocHash)
}
