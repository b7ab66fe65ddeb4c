package notify

import (
	"context"

	"go-shortview/internal/infra/eventbus"
	"go-shortview/internal/tracking/domain"
	"go-shortview/internal/tracking/usecase"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Queue hands notifications to the event bus. The mail is delivered by a
// MailHandler subscribed to the same bus.
type Queue struct {
	bus    *eventbus.EventBus
	clock  domain.Clock
	logger *zap.Logger
}

var _ usecase.Dispatcher = (*Queue)(nil)

// NewQueue creates a dispatcher publishing to bus.
func NewQueue(bus *eventbus.EventBus, clock domain.Clock, logger *zap.Logger) *Queue {
	return &Queue{bus: bus, clock: clock, logger: logger}
}

// Dispatch publishes the notification. Failures are logged and dropped.
func (q *Queue) Dispatch(n domain.Notification) {
	evt := NotificationRequested{
		ID:           uuid.Must(uuid.NewV7()).String(),
		Notification: n,
		RequestedAt:  q.clock.Now(),
	}

	if err := q.bus.Publish(context.Background(), evt); err != nil {
		q.logger.Error("failed to queue notification",
			zap.String("to", n.To),
			zap.String("subject", n.Subject),
			zap.Error(err),
		)
	}
}
