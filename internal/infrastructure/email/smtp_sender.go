// Package email implementa el envío del código de verificación por SMTP.
package email

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/pkg/config"
)

var _ ports.EmailSender = (*SMTPSender)(nil)

var verificationTmpl = template.Must(template.New("verification").Parse(`<p>Hola {{.UserName}},</p>
<p>Tu código de verificación es: <strong style="font-size:20px;letter-spacing:4px">{{.VerificationCode}}</strong></p>
<p>El código caduca en {{.CodeExpiry}}. Si no solicitaste este registro, ignora este mensaje.</p>`))

// SMTPSender envía la plantilla de verificación con gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender construye el adaptador desde la configuración SMTP.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		from:   cfg.From,
	}
}

// Send compone y envía el mensaje. gomail no acepta contexto: si ctx ya terminó no se envía,
// y el límite de espera lo aplica quien llama.
func (s *SMTPSender) Send(ctx context.Context, msg ports.VerificationEmail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var body bytes.Buffer
	if err := verificationTmpl.Execute(&body, msg); err != nil {
		return fmt.Errorf("email: plantilla: %w", err)
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.ToEmail)
	m.SetHeader("Subject", "Tu código de verificación")
	m.SetBody("text/plain", fmt.Sprintf("Hola %s,\n\nTu código de verificación es: %s\nCaduca en %s.\n",
		msg.UserName, msg.VerificationCode, msg.CodeExpiry))
	m.AddAlternative("text/html", body.String())
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("email: smtp: %w", err)
	}
	return nil
}
