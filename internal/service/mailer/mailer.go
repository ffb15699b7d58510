package mailer

import (
	"fmt"

	gomail "gopkg.in/gomail.v2"

	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/config"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/core/logger"
	"github.com/Jeremy-Luyckfasseel/pitstop-sub000/internal/model"
)

// Mailer delivers contact-form submissions to the site operators.
type Mailer interface {
	SendContact(req *model.ContactRequest) error
}

// SMTPMailer gomail-backed Mailer. Sends synchronously: the caller
// reports delivery failure to the submitter instead of queuing.
type SMTPMailer struct {
	dialer *gomail.Dialer
	cfg    *config.MailConfig
}

// NewSMTPMailer create SMTPMailer from config
func NewSMTPMailer(cfg *config.MailConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		cfg:    cfg,
	}
}

// SendContact forward a submission to the admin inbox. Reply-To is the
// submitter so operators can answer directly.
func (m *SMTPMailer) SendContact(req *model.ContactRequest) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", m.cfg.AdminTo)
	msg.SetHeader("Reply-To", msg.FormatAddress(req.Email, req.Name))
	msg.SetHeader("Subject", fmt.Sprintf("[Contact] %s", req.Subject))
	msg.SetBody("text/plain", fmt.Sprintf("From: %s <%s>\n\n%s", req.Name, req.Email, req.Message))

	if err := m.dialer.DialAndSend(msg); err != nil {
		logger.Error("contact mail send failed",
			logger.String("to", m.cfg.AdminTo),
			logger.String("error", err.Error()))
		return err
	}
	return nil
}
