// Package livequery provides in-process change notifications for the
// relational store. Repositories write through gorm as usual; a gorm plugin
// publishes a table-level event after every committed statement, and watchers
// subscribe to the tables backing their query so they know when to re-read.
package livequery

import (
	"context"
	"sync"
	"time"
)

// Op classifies the statement that produced an event.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event signals that rows in Table may have changed. Events carry no row
// data; subscribers re-run their query against the store.
type Event struct {
	Table string    `json:"table"`
	Op    Op        `json:"op"`
	At    time.Time `json:"at"`
}

const subscriptionBuffer = 16

// Subscription is a registered watcher on one or more tables.
type Subscription struct {
	bus    *Bus
	tables map[string]struct{}
	ch     chan Event

	closeOnce sync.Once
}

// Events returns the channel delivering change notifications.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Close unregisters the subscription and closes its channel.
func (s *Subscription) Close() {
	s.closeOnce.Do(func() {
		s.bus.remove(s)
		close(s.ch)
	})
}

func (s *Subscription) wants(table string) bool {
	if len(s.tables) == 0 {
		return true
	}
	_, ok := s.tables[table]
	return ok
}

// Bus fans change events out to subscribers.
type Bus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a watcher for the given tables. With no tables the
// subscription receives every event.
func (b *Bus) Subscribe(tables ...string) *Subscription {
	sub := &Subscription{
		bus: b,
		ch:  make(chan Event, subscriptionBuffer),
	}
	if len(tables) > 0 {
		sub.tables = make(map[string]struct{}, len(tables))
		for _, t := range tables {
			sub.tables[t] = struct{}{}
		}
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Publish delivers the event to every matching subscription without
// blocking. When a subscriber's buffer is full the oldest queued event is
// dropped; the newest notification is the one that matters.
func (b *Bus) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		if !sub.wants(ev.Table) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			select {
			case <-sub.ch:
			default:
			}
			select {
			case sub.ch <- ev:
			default:
			}
		}
	}
}

// Watch subscribes to the given tables and invokes fn for each event until
// the context is canceled.
func (b *Bus) Watch(ctx context.Context, tables []string, fn func(Event)) {
	sub := b.Subscribe(tables...)
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.Events():
			if !ok {
				return
			}
			fn(ev)
		}
	}
}

// Close terminates every open subscription. The bus accepts new
// subscriptions afterwards; Close is a shutdown convenience, not a seal.
func (b *Bus) Close() {
	b.mu.Lock()
	subs := make([]*Subscription, 0, len(b.subs))
	for sub := range b.subs {
		subs = append(subs, sub)
	}
	b.mu.Unlock()

	for _, sub := range subs {
		sub.Close()
	}
}

func (b *Bus) remove(sub *Subscription) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
}
