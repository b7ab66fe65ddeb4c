package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go-shortview/internal/infra/eventbus"
	"go-shortview/internal/notify"
	"go-shortview/internal/testutil"
	"go-shortview/internal/tracking/domain"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var testNotification = domain.Notification{
	Subject: `[ShortView] Your link "landing" was clicked`,
	From:    "noreply@sv.example",
	To:      "owner@example.com",
	Text:    "Hello,",
	HTML:    "<p>Hello,</p>",
}

func startBus(t *testing.T, handler eventbus.EventHandler) *eventbus.EventBus {
	t.Helper()

	bus := eventbus.NewEventBus(watermill.NopLogger{})
	router, err := eventbus.NewRouter(bus, watermill.NopLogger{})
	require.NoError(t, err)
	router.AddHandler(handler)

	ctx, cancel := context.WithCancel(context.Background())
	go router.Run(ctx) //nolint:errcheck
	<-router.Running()

	t.Cleanup(func() {
		cancel()
		router.Close()
		bus.Close()
	})
	return bus
}

// TestQueue_Dispatch_DeliversThroughTransport tests the full dispatch path over the bus
func TestQueue_Dispatch_DeliversThroughTransport(t *testing.T) {
	// Setup
	transport := &testutil.MockTransport{}
	delivered := make(chan domain.Notification, 1)
	transport.On("Send", mock.Anything, testNotification).
		Run(func(args mock.Arguments) { delivered <- args.Get(1).(domain.Notification) }).
		Return(nil)

	bus := startBus(t, notify.NewMailHandler(transport, zap.NewNop()))
	queue := notify.NewQueue(bus, domain.SystemClock{}, zap.NewNop())

	// Act
	queue.Dispatch(testNotification)

	// Assert
	select {
	case n := <-delivered:
		assert.Equal(t, testNotification, n)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered")
	}
	transport.AssertExpectations(t)
}

func notificationEnvelope(t *testing.T) *eventbus.EventEnvelope {
	t.Helper()
	msg, err := eventbus.EventToMessage(notify.NotificationRequested{ID: "n1", Notification: testNotification, RequestedAt: time.Now()})
	require.NoError(t, err)
	envelope, err := eventbus.MessageToEnvelope(msg)
	require.NoError(t, err)
	return envelope
}

// TestMailHandler_TransportFailure_IsReturned tests that send errors surface to the bus
func TestMailHandler_TransportFailure_IsReturned(t *testing.T) {
	// Setup
	transport := &testutil.MockTransport{}
	transport.On("Send", mock.Anything, testNotification).Return(errors.New("connection refused")).Once()
	handler := notify.NewMailHandler(transport, zap.NewNop())

	// Act
	err := handler.Handle(context.Background(), notificationEnvelope(t))

	// Assert
	assert.ErrorContains(t, err, "connection refused")
	transport.AssertNumberOfCalls(t, "Send", 1)
}

// TestMailHandler_Failed_LogsRecipient tests the report for an undelivered mail
func TestMailHandler_Failed_LogsRecipient(t *testing.T) {
	// Setup
	core, logs := observer.New(zap.ErrorLevel)
	handler := notify.NewMailHandler(notify.NewLogTransport(zap.NewNop()), zap.New(core))

	// Act
	handler.Failed(context.Background(), notificationEnvelope(t), errors.New("connection refused"))

	// Assert
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "failed to send notification", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "n1", fields["event_id"])
	assert.Equal(t, "owner@example.com", fields["to"])
	assert.Equal(t, testNotification.Subject, fields["subject"])
}

// TestMailHandler_TransportFailure_IsLoggedNotRetried tests the failure path over the bus
func TestMailHandler_TransportFailure_IsLoggedNotRetried(t *testing.T) {
	// Setup
	core, logs := observer.New(zap.ErrorLevel)
	transport := &testutil.MockTransport{}
	transport.On("Send", mock.Anything, testNotification).Return(errors.New("connection refused"))

	bus := startBus(t, notify.NewMailHandler(transport, zap.New(core)))
	queue := notify.NewQueue(bus, domain.SystemClock{}, zap.NewNop())

	// Act
	queue.Dispatch(testNotification)

	// Assert
	assert.Eventually(t, func() bool {
		return logs.FilterMessage("failed to send notification").Len() == 1
	}, 2*time.Second, 10*time.Millisecond)
	time.Sleep(100 * time.Millisecond)
	transport.AssertNumberOfCalls(t, "Send", 1)
}

func TestMailHandler_Names(t *testing.T) {
	handler := notify.NewMailHandler(notify.NewLogTransport(zap.NewNop()), zap.NewNop())

	assert.Equal(t, "notify.mailer", handler.HandlerName())
	assert.Equal(t, notify.EventNotificationRequested, handler.EventName())
}

func TestLogTransport_Send(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	transport := notify.NewLogTransport(zap.New(core))

	require.NoError(t, transport.Send(context.Background(), testNotification))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "owner@example.com", logs.All()[0].ContextMap()["to"])
}

func TestNewTransport_PicksByHost(t *testing.T) {
	assert.IsType(t, &notify.LogTransport{}, notify.NewTransport(notify.SMTPConfig{}, zap.NewNop()))
	assert.IsType(t, &notify.SMTPTransport{}, notify.NewTransport(notify.SMTPConfig{Host: "smtp.example.com", Port: 587}, zap.NewNop()))
}

func TestSMTPTransport_InvalidRecipient_FailsBeforeDialing(t *testing.T) {
	transport := notify.NewSMTPTransport(notify.SMTPConfig{Host: "127.0.0.1", Port: 1})
	n := testNotification
	n.To = "not an address"

	err := transport.Send(context.Background(), n)

	assert.ErrorContains(t, err, "invalid to address")
}
