package eventpublisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/iho/gowallet/internal/domain"
	"github.com/iho/gowallet/internal/infrastructure/metrics"
)

// Publisher delivers a single event to an external system.
type Publisher interface {
	Publish(ctx context.Context, event *domain.TransactionEvent) error
}

// Dispatcher queues accepted-transaction events and delivers them in
// the background. The queue is bounded; when it fills up, new events
// are dropped and counted instead of blocking the accept path. Events
// are delivered in the order they were accepted.
type Dispatcher struct {
	publisher Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	queue     chan *domain.TransactionEvent
	timeout   time.Duration
}

// Config for Dispatcher.
type Config struct {
	Publisher      Publisher
	Logger         *slog.Logger
	Metrics        *metrics.Metrics
	QueueSize      int           // Buffered events before new ones are dropped
	PublishTimeout time.Duration // Per-event delivery timeout
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(cfg Config) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 256
	}
	if cfg.PublishTimeout == 0 {
		cfg.PublishTimeout = 5 * time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Publisher == nil {
		cfg.Publisher = NewLogPublisher(cfg.Logger)
	}

	return &Dispatcher{
		publisher: cfg.Publisher,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		queue:     make(chan *domain.TransactionEvent, cfg.QueueSize),
		timeout:   cfg.PublishTimeout,
	}
}

// Publish enqueues an event for delivery. It never blocks; the event is
// dropped when the queue is full.
func (d *Dispatcher) Publish(event *domain.TransactionEvent) {
	select {
	case d.queue <- event:
	default:
		d.logger.Warn("event queue full, dropping event",
			slog.String("event_id", event.EventID),
			slog.String("event_type", event.EventType))
		d.countDropped()
	}
}

// Start runs the delivery worker.
// It runs continuously until the context is cancelled.
func (d *Dispatcher) Start(ctx context.Context) error {
	d.logger.Info("event dispatcher started",
		slog.Int("queue_size", cap(d.queue)))

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("event dispatcher shutting down")
			return ctx.Err()
		case event := <-d.queue:
			d.deliver(ctx, event)
		}
	}
}

// deliver publishes a single event. Failures are logged and counted;
// the worker moves on to the next event.
func (d *Dispatcher) deliver(ctx context.Context, event *domain.TransactionEvent) {
	publishCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	if err := d.publisher.Publish(publishCtx, event); err != nil {
		d.logger.Error("failed to publish event",
			slog.String("event_id", event.EventID),
			slog.String("event_type", event.EventType),
			slog.String("error", err.Error()))
		d.countDropped()
		return
	}

	d.logger.Debug("event published",
		slog.String("event_id", event.EventID),
		slog.String("event_type", event.EventType))

	if d.metrics != nil {
		d.metrics.EventsPublished.Inc()
	}
}

func (d *Dispatcher) countDropped() {
	if d.metrics != nil {
		d.metrics.EventsDropped.Inc()
	}
}

// LogPublisher writes events to the log. It backs deployments that run
// without a message broker.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a new LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

// Publish logs the event.
func (p *LogPublisher) Publish(ctx context.Context, event *domain.TransactionEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	p.logger.Info("EVENT PUBLISHED",
		slog.String("event_id", event.EventID),
		slog.String("event_type", event.EventType),
		slog.String("payload", string(payload)))

	return nil
}
