package changefeed

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrFeedClosed = errors.New("change feed closed")

// MemoryFeed fans changes out to subscribers in the same process.
type MemoryFeed struct {
	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	buffer int
	closed bool
}

func NewMemoryFeed(buffer int) *MemoryFeed {
	return &MemoryFeed{
		subs:   make(map[*Subscription]struct{}),
		buffer: buffer,
	}
}

// Publish never blocks. A subscriber whose buffer is full misses the change
// and gets an error on its Errors channel.
func (f *MemoryFeed) Publish(ctx context.Context, change Change) error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.closed {
		return ErrFeedClosed
	}

	for sub := range f.subs {
		if !sub.Filter.Matches(change.Row) {
			continue
		}
		select {
		case sub.changes <- change:
		default:
			sub.reportError(fmt.Errorf("subscriber %s lagging, dropped %s of order %s", sub.Filter, change.Op, change.Row.ID))
		}
	}

	return nil
}

func (f *MemoryFeed) Subscribe(ctx context.Context, filter Filter) (*Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil, ErrFeedClosed
	}

	var sub *Subscription
	sub = newSubscription(filter, f.buffer, func() { f.remove(sub) })
	f.subs[sub] = struct{}{}

	return sub, nil
}

func (f *MemoryFeed) remove(sub *Subscription) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.subs[sub]; ok {
		delete(f.subs, sub)
		close(sub.changes)
	}
}

func (f *MemoryFeed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.closed = true
	for sub := range f.subs {
		delete(f.subs, sub)
		close(sub.changes)
	}
	return nil
}

// Subscribers returns how many subscriptions are open.
func (f *MemoryFeed) Subscribers() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.subs)
}
