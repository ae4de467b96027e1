// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package core

// StateChange is one key value update produced by an invocation
type StateChange struct {
	key   []byte
	value []byte
}

func NewStateChange() *StateChange {
	return new(StateChange)
}

func (sc *StateChange) Key() []byte   { return sc.key }
func (sc *StateChange) Value() []byte { return sc.value }

func (sc *StateChange) SetKey(val []byte) *StateChange {
	sc.key = val
	return sc
}

func (sc *StateChange) SetValue(val []byte) *StateChange {
	sc.value = val
	return sc
}
