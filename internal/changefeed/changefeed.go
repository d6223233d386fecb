// Package changefeed delivers row-level change notifications from the store
// to in-process consumers such as the live leaderboard.
//
// Consumers register interest in {table, event} topics. A notification only
// says "something changed"; consumers are expected to refetch whatever they
// need, so a dropped notification to a slow subscriber loses nothing that the
// next one will not repair.
package changefeed

import (
	"sync"
)

// Event is the kind of row change.
type Event string

const (
	EventInsert Event = "insert"
	EventUpdate Event = "update"
	EventDelete Event = "delete"
)

// Change describes one committed row change.
type Change struct {
	Table string `json:"table"`
	Event Event  `json:"event"`
	RowID string `json:"rowId"`
}

// Topic selects changes by table and event. An empty Event matches every
// event on the table.
type Topic struct {
	Table string
	Event Event
}

func (t Topic) matches(c Change) bool {
	return t.Table == c.Table && (t.Event == "" || t.Event == c.Event)
}

// Publisher is implemented by Feed; the store depends on this, not on Feed.
type Publisher interface {
	Publish(c Change)
}

const subscriberBuffer = 16

// Feed is an in-process pub/sub for row changes.
type Feed struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func New() *Feed {
	return &Feed{
		subs: make(map[*Subscription]struct{}),
	}
}

// Subscription receives the changes matching its topics until Close is called.
type Subscription struct {
	feed   *Feed
	topics []Topic
	ch     chan Change
	once   sync.Once
}

// Subscribe returns a subscription for the given topics. With no topics the
// subscription matches nothing.
func (f *Feed) Subscribe(topics ...Topic) *Subscription {
	s := &Subscription{
		feed:   f,
		topics: append([]Topic(nil), topics...),
		ch:     make(chan Change, subscriberBuffer),
	}
	f.mu.Lock()
	f.subs[s] = struct{}{}
	f.mu.Unlock()
	return s
}

// Publish delivers c to every matching subscriber without blocking.
func (f *Feed) Publish(c Change) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for s := range f.subs {
		if !s.wants(c) {
			continue
		}
		select {
		case s.ch <- c:
		default:
			// Drop if subscriber is slow.
		}
	}
}

// Subscribers returns the number of open subscriptions.
func (f *Feed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}

func (s *Subscription) wants(c Change) bool {
	for _, t := range s.topics {
		if t.matches(c) {
			return true
		}
	}
	return false
}

// C returns the channel changes are delivered on. It is closed by Close.
func (s *Subscription) C() <-chan Change {
	return s.ch
}

// Close unsubscribes and closes the delivery channel. Safe to call twice.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.feed.mu.Lock()
		delete(s.feed.subs, s)
		close(s.ch)
		s.feed.mu.Unlock()
	})
}
