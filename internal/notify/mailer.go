package notify

import (
	"context"
	"fmt"

	"go-shortview/internal/infra/eventbus"

	"go.uber.org/zap"
)

// MailHandler delivers queued notifications through a Transport.
type MailHandler struct {
	transport Transport
	logger    *zap.Logger
}

var (
	_ eventbus.EventHandler   = (*MailHandler)(nil)
	_ eventbus.FailureHandler = (*MailHandler)(nil)
)

// NewMailHandler creates the bus handler for NotificationRequested events.
func NewMailHandler(transport Transport, logger *zap.Logger) *MailHandler {
	return &MailHandler{transport: transport, logger: logger}
}

func (h *MailHandler) HandlerName() string {
	return "notify.mailer"
}

func (h *MailHandler) EventName() string {
	return EventNotificationRequested
}

// Handle sends the mail. A transport error is returned to the bus, which
// reports it through Failed and does not redeliver.
func (h *MailHandler) Handle(ctx context.Context, envelope *eventbus.EventEnvelope) error {
	var evt NotificationRequested
	if err := envelope.Decode(&evt); err != nil {
		return fmt.Errorf("decode notification: %w", err)
	}

	if err := h.transport.Send(ctx, evt.Notification); err != nil {
		return fmt.Errorf("send notification: %w", err)
	}

	h.logger.Debug("notification sent", zap.String("event_id", evt.ID), zap.String("to", evt.Notification.To))
	return nil
}

// Failed logs a notification the owner will not receive.
func (h *MailHandler) Failed(ctx context.Context, envelope *eventbus.EventEnvelope, err error) {
	var evt NotificationRequested
	if decodeErr := envelope.Decode(&evt); decodeErr != nil {
		evt.ID = envelope.EventID
	}

	h.logger.Error("failed to send notification",
		zap.String("event_id", evt.ID),
		zap.String("to", evt.Notification.To),
		zap.String("subject", evt.Notification.Subject),
		zap.Time("requested_at", evt.RequestedAt),
		zap.Error(err),
	)
}
