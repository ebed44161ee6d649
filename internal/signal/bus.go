// Package signal provides a process-wide named broadcast bus used to request
// popup dismissal with an outcome. Delivery is synchronous on the publishing
// goroutine; every current subscriber of a name receives every publish.
package signal

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Payload carries caller-defined contextual data from the triggering signal
// into the popup callback. No schema is enforced.
type Payload map[string]any

// Handler is invoked for each delivered signal.
type Handler func(payload Payload)

// Token identifies one subscription. Tokens are ULIDs so they sort by
// subscription time.
type Token string

// Bus is a named broadcast channel supporting subscribe, unsubscribe and
// publish. The zero value is not usable; use NewBus.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string]map[Token]Handler
	entropy  *ulid.MonotonicEntropy
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string]map[Token]Handler),
		entropy:  ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// Subscribe registers a handler for the named signal and returns its token.
func (b *Bus) Subscribe(name string, handler Handler) Token {
	b.mu.Lock()
	defer b.mu.Unlock()

	token := Token(ulid.MustNew(ulid.Timestamp(time.Now()), b.entropy).String())
	if b.handlers[name] == nil {
		b.handlers[name] = make(map[Token]Handler)
	}
	b.handlers[name][token] = handler
	return token
}

// Unsubscribe removes the subscription identified by token from the named
// signal. Unsubscribing an unknown token is a no-op.
func (b *Bus) Unsubscribe(name string, token Token) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if subs, ok := b.handlers[name]; ok {
		delete(subs, token)
		if len(subs) == 0 {
			delete(b.handlers, name)
		}
	}
}

// Publish broadcasts the named signal with an optional payload to all current
// subscribers. Handlers run synchronously on the caller's goroutine, outside
// the bus lock.
func (b *Bus) Publish(name string, payload Payload) {
	b.mu.RLock()
	snapshot := make([]Handler, 0, len(b.handlers[name]))
	for _, h := range b.handlers[name] {
		snapshot = append(snapshot, h)
	}
	b.mu.RUnlock()

	for _, h := range snapshot {
		h(payload)
	}
}

// SubscriberCount returns the number of subscribers for the named signal.
func (b *Bus) SubscriberCount(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[name])
}

var (
	defaultOnce sync.Once
	defaultBus  *Bus
)

// Default returns the process-wide bus shared by every popup instance.
func Default() *Bus {
	defaultOnce.Do(func() {
		defaultBus = NewBus()
	})
	return defaultBus
}
