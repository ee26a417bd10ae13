package events

import (
	"context"
	"sync"
)

// Subscription is a handle to a stream of update notifications
type Subscription struct {
	ch   chan struct{}
	mgr  *SubscriptionManager
	once sync.Once
}

// Chan returns a read-only channel delivering event notifications
func (s *Subscription) Chan() <-chan struct{} { return s.ch }

// Cancel unsubscribes and closes the channel. Safe for repeated calls.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.mgr.unsubscribe(s.ch)
	})
}

// SubscriptionManager fans out update notifications to subscribers
type SubscriptionManager struct {
	mu          sync.RWMutex
	subscribers map[chan struct{}]struct{}
}

// NewSubscriptionManager creates a new subscription manager
func NewSubscriptionManager() *SubscriptionManager {
	return &SubscriptionManager{
		subscribers: make(map[chan struct{}]struct{}),
	}
}

// Subscribe creates a new subscription
func (m *SubscriptionManager) Subscribe() *Subscription {
	ch := make(chan struct{}, 1)

	m.mu.Lock()
	m.subscribers[ch] = struct{}{}
	m.mu.Unlock()

	return &Subscription{ch: ch, mgr: m}
}

func (m *SubscriptionManager) unsubscribe(ch chan struct{}) {
	m.mu.Lock()
	if _, ok := m.subscribers[ch]; ok {
		delete(m.subscribers, ch)
		close(ch)
	}
	m.mu.Unlock()
}

// Emit sends a notification to all subscribers. Subscribers with a full
// channel are skipped rather than blocked on.
func (m *SubscriptionManager) Emit(ctx context.Context) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for sub := range m.subscribers {
		// Checked before each send: a ready Done channel inside the
		// select would still race against the send
		if ctx.Err() != nil {
			return
		}
		select {
		case sub <- struct{}{}:
		default:
		}
	}
}
