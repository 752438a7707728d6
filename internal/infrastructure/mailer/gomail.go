package mailer

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/config"
)

// SMTPMailer sends transactional mail through SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
	logger *zap.Logger
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(cfg config.EmailConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:   cfg.From,
		logger: logger,
	}
}

func (m *SMTPMailer) SendRenewalReminder(ctx context.Context, to, name, renewalLink string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Your membership renewal is coming up")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Dear %s,</p><p>Your membership is due for renewal soon. "+
			"You can renew online here: <a href=%q>%s</a></p>",
		name, renewalLink, renewalLink))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send renewal reminder: %w", err)
	}

	m.logger.Info("Renewal reminder sent", zap.String("to", to))
	return nil
}

func (m *SMTPMailer) SendDonationReceipt(ctx context.Context, to, name string, amount decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Thank you for your donation")
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Dear %s,</p><p>Thank you for your generous donation of $%s.</p>",
		name, amount.StringFixed(2)))

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send donation receipt: %w", err)
	}

	m.logger.Info("Donation receipt sent", zap.String("to", to))
	return nil
}
