package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/equine-practice/internal/events"
)

type Event struct {
	PracticeID uint
	UserID     *uint
	Action     string
	EntityType string
	EntityID   uint
	Diff       any
}

// RoutingKey is the topic the event is published under, e.g. "invoice.update".
func (e Event) RoutingKey() string {
	return e.EntityType + "." + e.Action
}

// Dispatcher records audit entries off the request path. A failed or
// dropped entry never fails the mutation that produced it.
type Dispatcher struct {
	logger    *Logger
	publisher events.Publisher
	log       *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

func NewDispatcher(logger *Logger, publisher events.Publisher, log *zap.Logger) *Dispatcher {
	if publisher == nil {
		publisher = events.Nop{}
	}

	d := &Dispatcher{
		logger:    logger,
		publisher: publisher,
		log:       log,
		queue:     make(chan Event, 256),
		done:      make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		if err := d.logger.Log(ctx, ev); err != nil {
			d.log.Warn("audit write failed",
				zap.String("action", ev.Action),
				zap.String("entity_type", ev.EntityType),
				zap.Uint("entity_id", ev.EntityID),
				zap.Error(err),
			)
		}

		if err := d.publisher.Publish(ctx, ev.RoutingKey(), eventPayload(ev)); err != nil {
			d.log.Warn("event publish failed",
				zap.String("routing_key", ev.RoutingKey()),
				zap.Error(err),
			)
		}

		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	select {
	case d.queue <- ev:
	default:
		d.log.Warn("audit queue full, dropping event",
			zap.String("action", ev.Action),
			zap.String("entity_type", ev.EntityType),
		)
	}
}

// Close stops accepting events and waits for queued ones to be written.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	<-d.done
}

func eventPayload(ev Event) map[string]any {
	return map[string]any{
		"practiceId": ev.PracticeID,
		"userId":     ev.UserID,
		"action":     ev.Action,
		"entityType": ev.EntityType,
		"entityId":   ev.EntityID,
		"diff":       ev.Diff,
		"at":         time.Now().UTC(),
	}
}
