// Package eventbus carries dispatch lifecycle events from the service layer
// to listeners such as the audit logger. Events are buffered in a channel
// and delivered by a small worker pool.
package eventbus

import (
	"log/slog"
	"sync"
	"time"

	"github.com/shaharia-lab/notificator/internal/metrics"
)

const (
	defaultWorkers    = 2
	defaultBufferSize = 100
)

// EventBus publishes events to every subscribed listener.
type EventBus interface {
	// Publish enqueues an event. It never blocks; when the buffer is full
	// the event is dropped and counted.
	Publish(eventType string, payload map[string]string)

	// Subscribe registers a listener for all subsequent events. Call it
	// before the first Publish.
	Subscribe(listener Listener)

	// Close stops accepting events and waits until queued ones are handled.
	Close()
}

type inMemoryBus struct {
	ch        chan Event
	logger    *slog.Logger
	listeners []Listener
	mu        sync.RWMutex
	wg        sync.WaitGroup
	closeOnce sync.Once
	closed    bool
}

// New creates an in-memory EventBus. workers <= 0 selects the default pool
// size. A nil logger discards bus diagnostics.
func New(logger *slog.Logger, workers int) EventBus {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	b := &inMemoryBus{
		ch:     make(chan Event, defaultBufferSize),
		logger: logger,
	}
	for i := 0; i < workers; i++ {
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			for e := range b.ch {
				b.dispatch(e)
			}
		}()
	}
	return b
}

func (b *inMemoryBus) dispatch(e Event) {
	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners))
	copy(listeners, b.listeners)
	b.mu.RUnlock()

	for _, l := range listeners {
		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("event listener panicked", "event", e.Type, "panic", r)
				}
			}()
			l(e)
		}()
	}
}

func (b *inMemoryBus) Publish(eventType string, payload map[string]string) {
	e := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		metrics.EventsDropped.WithLabelValues(eventType).Inc()
		return
	}
	select {
	case b.ch <- e:
	default:
		metrics.EventsDropped.WithLabelValues(eventType).Inc()
		b.logger.Warn("event buffer full, dropping event", "event", eventType)
	}
}

func (b *inMemoryBus) Subscribe(listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners = append(b.listeners, listener)
}

func (b *inMemoryBus) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		close(b.ch)
		b.mu.Unlock()
		b.wg.Wait()
	})
}

// LogListener returns a listener that writes every event to logger.
func LogListener(logger *slog.Logger) Listener {
	return func(e Event) {
		attrs := make([]any, 0, 2+2*len(e.Payload))
		attrs = append(attrs, "event", e.Type)
		for k, v := range e.Payload {
			attrs = append(attrs, k, v)
		}
		logger.Info("dispatch event", attrs...)
	}
}
