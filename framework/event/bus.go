package event

import (
	"sync"

	"go.uber.org/zap"

	"github.com/hoowhoami/gospring/framework/logging"
)

// Bus routes events to listeners.
//
//	// Spring: ApplicationEventMulticaster
type Bus interface {
	// Publish delivers e to every listener that supports its name.
	Publish(e Event)
	AddListener(l Listener)
	// RemoveListener drops the listener registered under name. Unknown
	// names are ignored.
	RemoveListener(name string)
	ListenerCount() int
}

// ── Synchronous bus ──────────────────────────────────────────────────────

// SyncBus delivers events in-line on the publisher's goroutine, in listener
// registration order. A panicking listener is logged and skipped; the rest
// still receive the event.
type SyncBus struct {
	mu        sync.RWMutex
	listeners []Listener
}

func NewSyncBus() *SyncBus {
	return &SyncBus{}
}

func (b *SyncBus) AddListener(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, l)
}

func (b *SyncBus) RemoveListener(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, l := range b.listeners {
		if l.ListenerName() == name {
			b.listeners = append(b.listeners[:i], b.listeners[i+1:]...)
			return
		}
	}
}

func (b *SyncBus) ListenerCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}

func (b *SyncBus) Publish(e Event) {
	b.mu.RLock()
	matched := make([]Listener, 0, len(b.listeners))
	for _, l := range b.listeners {
		if l.Supports(e.EventName()) {
			matched = append(matched, l)
		}
	}
	b.mu.RUnlock()

	for _, l := range matched {
		deliver(l, e)
	}
}

// ── Asynchronous bus ─────────────────────────────────────────────────────

const asyncQueueSize = 64

// AsyncBus gives every listener its own queue and delivery goroutine.
// Publish returns once the event is enqueued; each listener still sees one
// publisher's events in publish order, but ordering across listeners is
// unspecified.
type AsyncBus struct {
	mu        sync.Mutex
	listeners map[string]*asyncListener
	order     []string
	closed    bool
}

type asyncListener struct {
	listener Listener
	queue    chan Event
}

func NewAsyncBus() *AsyncBus {
	return &AsyncBus{listeners: make(map[string]*asyncListener)}
}

func (b *AsyncBus) AddListener(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	name := l.ListenerName()
	if _, exists := b.listeners[name]; exists {
		return
	}
	al := &asyncListener{listener: l, queue: make(chan Event, asyncQueueSize)}
	b.listeners[name] = al
	b.order = append(b.order, name)
	go al.run()
}

func (al *asyncListener) run() {
	for e := range al.queue {
		deliver(al.listener, e)
	}
}

func (b *AsyncBus) RemoveListener(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	al, ok := b.listeners[name]
	if !ok {
		return
	}
	delete(b.listeners, name)
	for i, n := range b.order {
		if n == name {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
	close(al.queue)
}

func (b *AsyncBus) ListenerCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.listeners)
}

func (b *AsyncBus) Publish(e Event) {
	b.mu.Lock()
	matched := make([]*asyncListener, 0, len(b.order))
	for _, name := range b.order {
		al := b.listeners[name]
		if al.listener.Supports(e.EventName()) {
			matched = append(matched, al)
		}
	}
	b.mu.Unlock()

	for _, al := range matched {
		al.send(e)
	}
}

// send tolerates the queue being closed between the snapshot and the send,
// which happens when a listener is removed mid-publish.
func (al *asyncListener) send(e Event) {
	defer func() {
		_ = recover()
	}()
	al.queue <- e
}

// Close stops every delivery goroutine after its queue drains. Publishing
// after Close panics, so shut the bus down last.
func (b *AsyncBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, al := range b.listeners {
		close(al.queue)
	}
	b.listeners = make(map[string]*asyncListener)
	b.order = nil
}

func deliver(l Listener, e Event) {
	defer func() {
		if r := recover(); r != nil {
			logging.L().Error("event listener panicked",
				zap.String("listener", l.ListenerName()),
				zap.String("event", e.EventName()),
				zap.Any("panic", r))
		}
	}()
	l.OnEvent(e)
}
