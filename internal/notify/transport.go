package notify

import (
	"context"
	"fmt"

	"go-shortview/internal/tracking/domain"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Transport delivers a composed notification.
type Transport interface {
	Send(ctx context.Context, n domain.Notification) error
}

// SMTPConfig holds the outgoing mail server settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPTransport sends mail through an SMTP relay.
type SMTPTransport struct {
	cfg SMTPConfig
}

// NewSMTPTransport creates an SMTP transport. Authentication is used only when
// a username is configured.
func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	return &SMTPTransport{cfg: cfg}
}

func (t *SMTPTransport) client() (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithPort(t.cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if t.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(t.cfg.Username),
			mail.WithPassword(t.cfg.Password),
		)
	}
	return mail.NewClient(t.cfg.Host, opts...)
}

// Send delivers n as a multipart text and html message.
func (t *SMTPTransport) Send(ctx context.Context, n domain.Notification) error {
	msg, err := buildMessage(n)
	if err != nil {
		return err
	}

	client, err := t.client()
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send mail: %w", err)
	}
	return nil
}

func buildMessage(n domain.Notification) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(n.From); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(n.To); err != nil {
		return nil, fmt.Errorf("invalid to address: %w", err)
	}
	msg.Subject(n.Subject)
	msg.SetBodyString(mail.TypeTextPlain, n.Text)
	if n.HTML != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, n.HTML)
	}
	return msg, nil
}

// LogTransport writes notifications to the log instead of sending them.
type LogTransport struct {
	logger *zap.Logger
}

// NewLogTransport creates a transport for development setups without SMTP.
func NewLogTransport(logger *zap.Logger) *LogTransport {
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Send(_ context.Context, n domain.Notification) error {
	t.logger.Info("notification",
		zap.String("from", n.From),
		zap.String("to", n.To),
		zap.String("subject", n.Subject),
		zap.String("text", n.Text),
	)
	return nil
}

// NewTransport picks SMTP when a host is configured and logging otherwise.
func NewTransport(cfg SMTPConfig, logger *zap.Logger) Transport {
	if cfg.Host == "" {
		return NewLogTransport(logger)
	}
	return NewSMTPTransport(cfg)
}
