package utils

import (
	"context"
	"io"

	"github.com/ahmadqo/museum-engagement-ledger/internal/config"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

type EmailMessage struct {
	To          string
	Subject     string
	HTML        string
	Attachments []Attachment
}

// Mailer mengirim email; Send mengembalikan false bila hanya disimulasikan
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) (delivered bool, err error)
}

type SMTPMailer struct {
	cfg    config.SMTPConfig
	logger *zap.Logger
}

func NewSMTPMailer(cfg config.SMTPConfig, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{cfg: cfg, logger: logger}
}

func (m *SMTPMailer) Send(ctx context.Context, msg EmailMessage) (bool, error) {
	// Tanpa kredensial SMTP (development) email hanya dicatat
	if !m.cfg.Enabled() {
		m.logger.Info("smtp credentials missing, email not sent",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Int("attachments", len(msg.Attachments)),
		)
		return false, nil
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.cfg.From)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTML)

	for _, a := range msg.Attachments {
		data := a.Data
		gm.Attach(a.FileName,
			gomail.SetHeader(map[string][]string{"Content-Type": {a.ContentType}}),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(data)
				return err
			}),
		)
	}

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.User, m.cfg.Password)
	if err := d.DialAndSend(gm); err != nil {
		return false, err
	}

	m.logger.Info("email sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return true, nil
}
