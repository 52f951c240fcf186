package email

import (
	"context"
	"sync"

	"github.com/Fingel/fastastro/internal/logger"
)

const queueSize = 64

// Dispatcher hands messages to a single background worker so request
// handlers never wait on mail delivery. Delivery is at-most-once with no
// retry: a failed send is logged and dropped, never surfaced to the caller.
type Dispatcher struct {
	backend Backend
	queue   chan Message
	once    sync.Once

	mu      sync.Mutex
	cond    *sync.Cond
	pending int
	stopped bool
}

func NewDispatcher(backend Backend) *Dispatcher {
	d := &Dispatcher{
		backend: backend,
		queue:   make(chan Message, queueSize),
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// Start launches the worker once. Cancel the context to stop it; queued
// messages are dropped on shutdown so Flush never waits on undeliverable
// mail.
func (d *Dispatcher) Start(ctx context.Context) {
	d.once.Do(func() {
		go d.run(ctx)
	})
}

func (d *Dispatcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			d.shutdown()
			return
		case m := <-d.queue:
			if err := d.backend.Send(m); err != nil {
				logger.Error("failed to send mail",
					"to", m.To,
					"subject", m.Subject,
					"error", err,
				)
			}
			d.settle()
		}
	}
}

// shutdown marks the dispatcher stopped before draining, so no Enqueue can
// slip a message in after the final drain and wedge Flush.
func (d *Dispatcher) shutdown() {
	d.mu.Lock()
	d.stopped = true
	for {
		select {
		case m := <-d.queue:
			logger.Warn("mail dispatcher stopping, dropping queued message",
				"to", m.To, "subject", m.Subject)
			d.pending--
		default:
			d.cond.Broadcast()
			d.mu.Unlock()
			logger.Info("mail dispatcher stopped")
			return
		}
	}
}

func (d *Dispatcher) settle() {
	d.mu.Lock()
	d.pending--
	d.cond.Broadcast()
	d.mu.Unlock()
}

// Enqueue schedules a message without blocking. When the queue is full, or
// the dispatcher has stopped, the message is dropped and logged, matching
// the no-retry delivery policy.
func (d *Dispatcher) Enqueue(m Message) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		logger.Warn("mail dispatcher stopped, dropping message", "to", m.To, "subject", m.Subject)
		return
	}

	select {
	case d.queue <- m:
		d.pending++
	default:
		logger.Warn("mail queue full, dropping message", "to", m.To, "subject", m.Subject)
	}
}

// Flush blocks until every enqueued message has been attempted or the
// dispatcher has shut down. Used by tests that assert on the outbox right
// after a request returns.
func (d *Dispatcher) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for d.pending > 0 {
		d.cond.Wait()
	}
}
