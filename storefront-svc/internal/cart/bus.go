package cart

import (
	"context"
	"sync"
)

// EventCartUpdated is the name of the signal fired after every cart mutation.
const EventCartUpdated = "cartUpdated"

// Bus broadcasts payload-less cartUpdated signals per session. Subscribers
// re-read the store when signalled.
type Bus interface {
	Publish(ctx context.Context, session string) error
	Subscribe(session string) (<-chan struct{}, func())
}

// LocalBus fans signals out to subscribers inside this process.
type LocalBus struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan struct{}
}

func NewLocalBus() *LocalBus {
	return &LocalBus{subs: make(map[string]map[int]chan struct{})}
}

func (b *LocalBus) Publish(_ context.Context, session string) error {
	b.Notify(session)
	return nil
}

// Notify signals every subscriber of session. A subscriber that has not
// drained its previous signal is skipped; signals carry no payload so
// coalescing them loses nothing.
func (b *LocalBus) Notify(session string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[session] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (b *LocalBus) Subscribe(session string) (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan struct{}, 1)
	if b.subs[session] == nil {
		b.subs[session] = make(map[int]chan struct{})
	}
	b.subs[session][id] = ch

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs[session], id)
			if len(b.subs[session]) == 0 {
				delete(b.subs, session)
			}
			close(ch)
		})
	}
	return ch, unsubscribe
}

// Subscribers reports how many listeners session currently has.
func (b *LocalBus) Subscribers(session string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[session])
}

var _ Bus = (*LocalBus)(nil)
