package eventbus

import (
	"context"
	"sync/atomic"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// EventHandler handles one kind of event from the bus.
type EventHandler interface {
	HandlerName() string
	EventName() string
	Handle(ctx context.Context, envelope *EventEnvelope) error
}

// FailureHandler is implemented by handlers that report their own failures,
// for instance to say which recipient missed a mail.
type FailureHandler interface {
	Failed(ctx context.Context, envelope *EventEnvelope, err error)
}

// Stats counts handler outcomes since the router was created.
type Stats struct {
	Delivered uint64
	Failed    uint64
}

// Router feeds bus events to their handlers. Every event is acked whatever
// the handler returns, so a failed delivery is reported once and never
// redelivered. A panicking handler counts as a failure.
type Router struct {
	router   *message.Router
	eventBus *EventBus
	logger   watermill.LoggerAdapter

	delivered atomic.Uint64
	failed    atomic.Uint64
}

func NewRouter(eventBus *EventBus, logger watermill.LoggerAdapter) (*Router, error) {
	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, err
	}

	return &Router{
		router:   router,
		eventBus: eventBus,
		logger:   logger,
	}, nil
}

// AddHandler registers handler. Handlers must be added before Run.
func (r *Router) AddHandler(handler EventHandler) {
	r.router.AddNoPublisherHandler(
		handler.HandlerName(),
		Topic,
		r.eventBus.Subscriber(),
		r.deliver(handler),
	)
}

func (r *Router) deliver(handler EventHandler) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		envelope, err := MessageToEnvelope(msg)
		if err != nil {
			r.logger.Error("failed to parse message", err, watermill.LogFields{"message_uuid": msg.UUID})
			return nil
		}
		if envelope.EventName != handler.EventName() {
			return nil
		}

		handle := middleware.Recoverer(func(msg *message.Message) ([]*message.Message, error) {
			return nil, handler.Handle(msg.Context(), envelope)
		})
		if _, err := handle(msg); err != nil {
			r.failed.Add(1)
			r.logger.Error("event delivery failed", err, watermill.LogFields{
				"handler":    handler.HandlerName(),
				"event_name": envelope.EventName,
				"event_id":   envelope.EventID,
			})
			if f, ok := handler.(FailureHandler); ok {
				f.Failed(msg.Context(), envelope, err)
			}
			return nil
		}

		r.delivered.Add(1)
		return nil
	}
}

// Stats returns the delivery counters.
func (r *Router) Stats() Stats {
	return Stats{Delivered: r.delivered.Load(), Failed: r.failed.Load()}
}

// Run starts the router and blocks until ctx is done or Close is called.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running is closed once the router is consuming.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

// Close stops the router, waiting for in-flight handlers.
func (r *Router) Close() error {
	return r.router.Close()
}
