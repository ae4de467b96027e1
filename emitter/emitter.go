// Copyright (C) 2023 Nyein Chan
// Licensed under the GNU General Public License v3.0

package emitter

import (
	"sync"
)

// Event is an opaque value fanned out to subscribers
type Event interface{}

// Subscription receives events from an Emitter until unsubscribed
type Subscription struct {
	emt *Emitter
	id  int
	ch  chan Event
}

// Events returns the receiving channel
func (sub *Subscription) Events() <-chan Event {
	return sub.ch
}

// Unsubscribe detaches the subscription and closes its channel
func (sub *Subscription) Unsubscribe() {
	sub.emt.remove(sub.id)
	close(sub.ch)
}

// Emitter fans out events to all active subscriptions.
// Slow subscribers drop events instead of blocking the emitter.
type Emitter struct {
	mtx    sync.RWMutex
	nextID int
	subs   map[int]*Subscription
}

func New() *Emitter {
	return &Emitter{
		subs: make(map[int]*Subscription),
	}
}

// Subscribe creates a subscription with the given channel buffer
func (emt *Emitter) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 1
	}
	emt.mtx.Lock()
	defer emt.mtx.Unlock()

	sub := &Subscription{
		emt: emt,
		id:  emt.nextID,
		ch:  make(chan Event, buffer),
	}
	emt.subs[sub.id] = sub
	emt.nextID++
	return sub
}

// Emit sends the event to every subscription
func (emt *Emitter) Emit(event Event) {
	emt.mtx.RLock()
	defer emt.mtx.RUnlock()
	for _, sub := range emt.subs {
		select {
		case sub.ch <- event:
		default: // drop for slow subscriber
		}
	}
}

func (emt *Emitter) remove(id int) {
	emt.mtx.Lock()
	defer emt.mtx.Unlock()
	delete(emt.subs, id)
}
