// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type mapStateStore struct {
	stateMap map[string][]byte
}

func newMapStateStore() *mapStateStore {
	return &mapStateStore{
		stateMap: make(map[string][]byte),
	}
}

func (store *mapStateStore) GetState(key []byte) []byte {
	return store.stateMap[string(key)]
}

func TestStateTracker(t *testing.T) {
	assert := assert.New(t)

	store := newMapStateStore()
	store.stateMap["key1"] = []byte("v1")

	trk := newStateTracker(store, nil)

	assert.Equal([]byte("v1"), trk.GetState([]byte("key1")), "fall through to base")

	trk.SetState([]byte("key1"), []byte("v2"))
	assert.Equal([]byte("v2"), trk.GetState([]byte("key1")))
	assert.Equal([]byte("v1"), store.GetState([]byte("key1")),
		"base state untouched before merge")

	scList := trk.getStateChanges()
	assert.Len(scList, 1)
	assert.Equal([]byte("key1"), scList[0].Key())
	assert.Equal([]byte("v2"), scList[0].Value())
}

func TestStateTrackerSpawnMerge(t *testing.T) {
	assert := assert.New(t)

	trk := newStateTracker(newMapStateStore(), nil)

	child := trk.spawn([]byte("addr1"))
	child.SetState([]byte("k"), []byte("v"))

	assert.Equal([]byte("v"), child.GetState([]byte("k")))
	assert.Nil(trk.GetState([]byte("addr1k")), "parent unchanged before merge")

	trk.merge(child)
	assert.Equal([]byte("v"), trk.GetState(concatBytes([]byte("addr1"), []byte("k"))),
		"child keys are prefixed with the spawn prefix")

	// discarded tracker leaves nothing behind
	dropped := trk.spawn([]byte("addr2"))
	dropped.SetState([]byte("k"), []byte("x"))
	assert.Nil(trk.GetState(concatBytes([]byte("addr2"), []byte("k"))))
}
