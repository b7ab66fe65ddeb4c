package notify

import (
	"time"

	"go-shortview/internal/infra/eventbus"
	"go-shortview/internal/tracking/domain"
)

// EventNotificationRequested is published for every owner mail to deliver.
const EventNotificationRequested = "notification.requested"

// NotificationRequested asks the mailer to deliver one notification.
type NotificationRequested struct {
	ID           string              `json:"id"`
	Notification domain.Notification `json:"notification"`
	RequestedAt  time.Time           `json:"requested_at"`
}

var _ eventbus.Event = NotificationRequested{}

func (e NotificationRequested) EventID() string       { return e.ID }
func (e NotificationRequested) EventName() string     { return EventNotificationRequested }
func (e NotificationRequested) AggregateID() string   { return e.Notification.To }
func (e NotificationRequested) OccurredAt() time.Time { return e.RequestedAt }
