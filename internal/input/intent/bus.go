package intent

import (
	"sync"
	"sync/atomic"
)

// Handler handles an event delivered on a channel.
type Handler func(*Event)

// Disposer detaches a listener. Calling it more than once is a no-op.
type Disposer func()

// Source delivers field events to listeners.
type Source interface {
	// Listen registers h on channel and returns its disposer.
	Listen(channel Channel, h Handler) Disposer

	// SupportsBeforeInput reports whether the source classifies edits into
	// BeforeInput intents. Sources that do not deliver raw KeyDown events
	// plus Paste instead.
	SupportsBeforeInput() bool
}

type listener struct {
	handler Handler
	active  atomic.Bool
}

// Bus is a synchronous in-process Source.
// Handlers run on the dispatching goroutine in registration order.
type Bus struct {
	mu          sync.Mutex
	listeners   map[Channel][]*listener
	beforeInput bool
}

// BusOption configures a Bus.
type BusOption func(*Bus)

// WithoutBeforeInput makes the bus report that it cannot deliver
// BeforeInput intents, as a keys-only host would.
func WithoutBeforeInput() BusOption {
	return func(b *Bus) {
		b.beforeInput = false
	}
}

// NewBus creates a bus that supports BeforeInput unless told otherwise.
func NewBus(opts ...BusOption) *Bus {
	b := &Bus{
		listeners:   make(map[Channel][]*listener),
		beforeInput: true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SupportsBeforeInput implements Source.
func (b *Bus) SupportsBeforeInput() bool {
	return b.beforeInput
}

// Listen implements Source.
func (b *Bus) Listen(channel Channel, h Handler) Disposer {
	l := &listener{handler: h}
	l.active.Store(true)

	b.mu.Lock()
	b.listeners[channel] = append(b.listeners[channel], l)
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.active.Store(false)
			b.remove(channel, l)
		})
	}
}

func (b *Bus) remove(channel Channel, target *listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ls := b.listeners[channel]
	for i, l := range ls {
		if l == target {
			b.listeners[channel] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// Dispatch delivers e to every listener of channel and reports whether the
// default action was prevented. Listeners disposed during dispatch are
// skipped.
func (b *Bus) Dispatch(channel Channel, e *Event) bool {
	b.mu.Lock()
	ls := append([]*listener(nil), b.listeners[channel]...)
	b.mu.Unlock()

	for _, l := range ls {
		if l.active.Load() {
			l.handler(e)
		}
	}
	return e.DefaultPrevented()
}

// ListenerCount returns the number of listeners on channel.
func (b *Bus) ListenerCount(channel Channel) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners[channel])
}
