// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package runtime

import (
	"bytes"
	"sort"
	"sync"

	"github.com/nyeinchan/promisechain/core"
)

type StateRO interface {
	GetState(key []byte) []byte
}

type State interface {
	StateRO
	SetState(key, value []byte)
}

// stateTracker tracks state changes of one invocation.
// Reads fall through to the base state for untouched keys.
// Changes reach the base state only through an explicit merge,
// so a failed invocation leaves no partial writes behind.
type stateTracker struct {
	keyPrefix []byte
	baseState StateRO

	changes map[string][]byte

	mtx sync.RWMutex
}

var _ State = (*stateTracker)(nil)

func newStateTracker(state StateRO, keyPrefix []byte) *stateTracker {
	return &stateTracker{
		keyPrefix: keyPrefix,
		baseState: state,

		changes: make(map[string][]byte),
	}
}

func (trk *stateTracker) GetState(key []byte) []byte {
	trk.mtx.RLock()
	defer trk.mtx.RUnlock()
	return trk.getState(key)
}

func (trk *stateTracker) SetState(key, value []byte) {
	trk.mtx.Lock()
	defer trk.mtx.Unlock()
	trk.setState(key, value)
}

// spawn creates a new tracker with the current tracker as base state
func (trk *stateTracker) spawn(keyPrefix []byte) *stateTracker {
	return newStateTracker(trk, keyPrefix)
}

func (trk *stateTracker) merge(trk1 *stateTracker) {
	trk.mtx.Lock()
	defer trk.mtx.Unlock()

	trk1.mtx.RLock()
	defer trk1.mtx.RUnlock()

	for key, value := range trk1.changes {
		trk.setState([]byte(key), value)
	}
}

// getStateChanges returns the changes sorted by key
func (trk *stateTracker) getStateChanges() []*core.StateChange {
	trk.mtx.RLock()
	defer trk.mtx.RUnlock()

	keys := make([]string, 0, len(trk.changes))
	for key := range trk.changes {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	scList := make([]*core.StateChange, len(keys))
	for i, key := range keys {
		scList[i] = core.NewStateChange().
			SetKey([]byte(key)).
			SetValue(trk.changes[key])
	}
	return scList
}

func (trk *stateTracker) getState(key []byte) []byte {
	key = concatBytes(trk.keyPrefix, key)
	if value, ok := trk.changes[string(key)]; ok {
		return value
	}
	return trk.baseState.GetState(key)
}

func (trk *stateTracker) setState(key, value []byte) {
	key = concatBytes(trk.keyPrefix, key)
	trk.changes[string(key)] = value
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
