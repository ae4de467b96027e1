// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package emitter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmitter(t *testing.T) {
	assert := assert.New(t)

	emt := New()
	sub1 := emt.Subscribe(5)
	sub2 := emt.Subscribe(5)

	emt.Emit("one")
	emt.Emit("two")

	assert.Equal("one", <-sub1.Events())
	assert.Equal("two", <-sub1.Events())
	assert.Equal("one", <-sub2.Events())

	sub2.Unsubscribe()
	emt.Emit("three")

	assert.Equal("three", <-sub1.Events())

	// sub2 channel is closed after unsubscribe, pending event remains
	assert.Equal("two", <-sub2.Events())
	_, ok := <-sub2.Events()
	assert.False(ok)
}

func TestEmitterSlowSubscriber(t *testing.T) {
	assert := assert.New(t)

	emt := New()
	sub := emt.Subscribe(1)

	emt.Emit(1)
	emt.Emit(2) // dropped, buffer full

	assert.Equal(1, <-sub.Events())
	select {
	case e := <-sub.Events():
		assert.Fail("unexpected event", "%v", e)
	default:
	}
}
