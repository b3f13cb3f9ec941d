package dialog

import (
	"context"
	"log/slog"
	"sync"
)

// DefaultQueueDepth is the per-visitor event buffer. Ingestion never
// blocks; events beyond the buffer are dropped and logged.
const DefaultQueueDepth = 64

// DispatcherOpts holds configuration options for the Dispatcher.
type DispatcherOpts struct {
	QueueDepth int
}

// DispatcherOption defines a configuration option for the Dispatcher.
type DispatcherOption func(*DispatcherOpts)

// WithQueueDepth sets the per-visitor event buffer size.
func WithQueueDepth(depth int) DispatcherOption {
	return func(o *DispatcherOpts) { o.QueueDepth = depth }
}

// Dispatcher serializes event handling per visitor. Each user identifier
// gets a single-consumer queue, so duplicate or concurrent deliveries for
// one session can never interleave their mutations, while different
// visitors still progress in parallel.
type Dispatcher struct {
	engine *Engine
	depth  int

	mu      sync.Mutex
	queues  map[string]chan Event
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a dispatcher driving the given engine.
func NewDispatcher(engine *Engine, opts ...DispatcherOption) *Dispatcher {
	cfg := DispatcherOpts{QueueDepth: DefaultQueueDepth}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Dispatcher{
		engine: engine,
		depth:  cfg.QueueDepth,
		queues: make(map[string]chan Event),
	}
}

// Enqueue hands an event to the visitor's queue, creating the queue and its
// worker on first contact. It never blocks the caller: when the queue is
// full the event is dropped and logged. The send happens under the mutex,
// which excludes Stop closing the queue mid-send.
func (d *Dispatcher) Enqueue(ev Event) {
	if ev.UserID == "" {
		slog.Warn("Dispatcher dropping event without user id")
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		slog.Warn("Dispatcher dropping event after stop", "user_id", ev.UserID)
		return
	}
	q, exists := d.queues[ev.UserID]
	if !exists {
		q = make(chan Event, d.depth)
		d.queues[ev.UserID] = q
		d.wg.Add(1)
		go d.consume(ev.UserID, q)
	}

	select {
	case q <- ev:
	default:
		slog.Warn("Dispatcher queue full, dropping event", "user_id", ev.UserID)
	}
}

// Stop closes every queue and waits for in-flight events to finish.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, q := range d.queues {
		close(q)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// consume drains one visitor's queue sequentially.
func (d *Dispatcher) consume(userID string, q chan Event) {
	defer d.wg.Done()
	for ev := range q {
		if err := d.engine.Handle(context.Background(), ev); err != nil {
			slog.Error("Dispatcher event handling failed", "error", err, "user_id", userID)
		}
	}
}
