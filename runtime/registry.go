// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package runtime

import (
	"errors"
	"sync"

	"github.com/nyeinchan/promisechain/runtime/contract"
)

var (
	ErrContractNotFound = errors.New("contract not found")
	ErrAddressTaken     = errors.New("address already registered")
)

// contractRegistry maps deployed addresses to contract instances
type contractRegistry struct {
	mtx       sync.RWMutex
	contracts map[string]contract.Contract
}

func newContractRegistry() *contractRegistry {
	return &contractRegistry{
		contracts: make(map[string]contract.Contract),
	}
}

func (reg *contractRegistry) register(addr []byte, cc contract.Contract) error {
	reg.mtx.Lock()
	defer reg.mtx.Unlock()

	if _, found := reg.contracts[string(addr)]; found {
		return ErrAddressTaken
	}
	reg.contracts[string(addr)] = cc
	return nil
}

func (reg *contractRegistry) getInstance(addr []byte) (contract.Contract, error) {
	reg.mtx.RLock()
	defer reg.mtx.RUnlock()

	cc, ok := reg.contracts[string(addr)]
	if !ok {
		return nil, ErrContractNotFound
	}
	return cc, nil
}
