package events

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dmitrymomot/emailkit/pkg/logger"
)

// Listener handles an event synchronously.
type Listener func(ctx context.Context, e Event)

type listener struct {
	id uint64
	fn Listener
}

// Emitter fans events out to listeners and channel subscribers.
// All methods are safe for concurrent use.
type Emitter struct {
	mu          sync.RWMutex
	listeners   map[string][]listener
	nextID      uint64
	subscribers map[*subscription]struct{}
	bufferSize  int
	closed      bool
	wg          sync.WaitGroup
	log         *slog.Logger
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithLogger sets the logger used for recovered listener panics.
func WithLogger(l *slog.Logger) Option {
	return func(e *Emitter) {
		if l != nil {
			e.log = l
		}
	}
}

// WithBufferSize sets the per-subscriber channel buffer. Minimum 1.
func WithBufferSize(n int) Option {
	return func(e *Emitter) { e.bufferSize = max(n, 1) }
}

// NewEmitter creates an Emitter.
func NewEmitter(opts ...Option) *Emitter {
	e := &Emitter{
		listeners:   make(map[string][]listener),
		subscribers: make(map[*subscription]struct{}),
		bufferSize:  64,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// On registers fn for events named name, or for all events when name is
// Wildcard. The returned function removes the registration.
func (e *Emitter) On(name string, fn Listener) func() {
	if e == nil || fn == nil {
		return func() {}
	}
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	e.listeners[name] = append(e.listeners[name], listener{id: id, fn: fn})
	e.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { e.off(name, id) })
	}
}

func (e *Emitter) off(name string, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	ls := e.listeners[name]
	for i, l := range ls {
		if l.id == id {
			e.listeners[name] = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(e.listeners[name]) == 0 {
		delete(e.listeners, name)
	}
}

// Emit queues ev for subscribers and then calls matching listeners. A zero
// Time is set to now.
func (e *Emitter) Emit(ctx context.Context, ev Event) {
	if e == nil {
		return
	}
	if ev.Time.IsZero() {
		ev.Time = time.Now().UTC()
	}

	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return
	}
	// snapshot so listeners may call On/off without deadlocking
	matched := make([]listener, 0, len(e.listeners[ev.Name])+len(e.listeners[Wildcard]))
	matched = append(matched, e.listeners[ev.Name]...)
	if ev.Name != Wildcard {
		matched = append(matched, e.listeners[Wildcard]...)
	}
	for sub := range e.subscribers {
		sub.send(ev)
	}
	e.mu.RUnlock()

	for _, l := range matched {
		e.call(ctx, l.fn, ev)
	}
}

func (e *Emitter) call(ctx context.Context, fn Listener, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			e.log.ErrorContext(ctx, "event listener panicked",
				logger.Event(ev.Name),
				logger.EntityID(ev.EntityID),
				logger.Error(fmt.Errorf("panic: %v", r)),
			)
		}
	}()
	fn(ctx, ev)
}

// Subscribe returns a channel receiving every event emitted until ctx is
// cancelled or the emitter is closed. Events are dropped when the buffer
// is full.
func (e *Emitter) Subscribe(ctx context.Context) <-chan Event {
	if e == nil {
		ch := make(chan Event)
		close(ch)
		return ch
	}
	sub := &subscription{
		ch:   make(chan Event, e.bufferSize),
		stop: make(chan struct{}),
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		sub.close()
		return sub.ch
	}
	e.subscribers[sub] = struct{}{}

	if ctx.Done() != nil {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			select {
			case <-ctx.Done():
				e.unsubscribe(sub)
			case <-sub.done():
			}
		}()
	}
	return sub.ch
}

func (e *Emitter) unsubscribe(sub *subscription) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.subscribers, sub)
	sub.close()
}

// ListenerCount returns the number of listeners registered for name.
func (e *Emitter) ListenerCount(name string) int {
	if e == nil {
		return 0
	}
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[name])
}

// Close closes every subscriber channel and stops delivery. Safe to call
// more than once.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	for sub := range e.subscribers {
		sub.close()
	}
	clear(e.subscribers)
	clear(e.listeners)
	e.mu.Unlock()

	e.wg.Wait()
	return nil
}

type subscription struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
	stop   chan struct{}
}

func (s *subscription) done() <-chan struct{} { return s.stop }

func (s *subscription) send(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	select {
	case s.ch <- ev:
	default:
	}
}

func (s *subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
	close(s.stop)
}
