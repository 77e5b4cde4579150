// Package verification gestiona los códigos de verificación de email de vida corta
// y los registros pendientes del flujo de registro en dos pasos.
package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/domain"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

const (
	codeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// DefaultSendTimeout límite de espera del envío cuando no se configura otro.
	DefaultSendTimeout = 10 * time.Second
)

// Delivery canal por el que llegó el código al usuario.
type Delivery string

const (
	DeliveryEmail  Delivery = "email"
	DeliveryScreen Delivery = "screen"
)

// IssueResult resultado tipado de la emisión. Code solo se rellena cuando hay que mostrarlo en pantalla.
type IssueResult struct {
	Sent     bool     `json:"sent"`
	Delivery Delivery `json:"method"`
	Code     string   `json:"code,omitempty"`
	Reason   string   `json:"reason,omitempty"`
}

// Ledger libro de códigos de verificación, uno vivo por email.
type Ledger struct {
	docs    ports.DocumentStore
	sender  ports.EmailSender
	timeout time.Duration
	now     func() time.Time
	log     zerolog.Logger
}

// Option configura el Ledger.
type Option func(*Ledger)

// WithClock sustituye el reloj (tests).
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithSendTimeout fija el límite de espera del envío.
func WithSendTimeout(d time.Duration) Option {
	return func(l *Ledger) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// NewLedger construye el libro. sender puede ser nil: los códigos se muestran en pantalla.
func NewLedger(docs ports.DocumentStore, sender ports.EmailSender, log zerolog.Logger, opts ...Option) *Ledger {
	l := &Ledger{docs: docs, sender: sender, timeout: DefaultSendTimeout, now: time.Now, log: log}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Issue genera un código nuevo para email (sustituye al anterior) e intenta enviarlo.
// Un envío fallido no es un error: el resultado lleva el código para mostrarlo en pantalla.
func (l *Ledger) Issue(ctx context.Context, email, name string) (*IssueResult, error) {
	email = entity.NormalizeEmail(email)
	code, err := newCode()
	if err != nil {
		return nil, fmt.Errorf("generar código: %w", err)
	}
	now := l.now()
	entry := entity.VerificationEntry{
		Code:      code,
		Email:     email,
		CreatedAt: now.UnixMilli(),
		ExpiresAt: now.Add(entity.VerificationTTL).UnixMilli(),
	}
	if !l.docs.SetJSON(ctx, entity.VerificationKey(email), entry) {
		return nil, domain.ErrStorage
	}
	return l.deliver(ctx, email, name, code), nil
}

func (l *Ledger) deliver(ctx context.Context, email, name, code string) *IssueResult {
	screen := func(reason string) *IssueResult {
		return &IssueResult{Sent: false, Delivery: DeliveryScreen, Code: code, Reason: reason}
	}
	if l.sender == nil {
		l.log.Warn().Str("email", email).Msg("servicio de email no configurado, el código se muestra en pantalla")
		return screen("email_not_configured")
	}
	if name == "" {
		name = email
	}
	msg := ports.VerificationEmail{
		ToEmail:          email,
		VerificationCode: code,
		UserName:         name,
		CodeExpiry:       "10 minutos",
	}

	sendCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- l.sender.Send(sendCtx, msg) }()

	select {
	case err := <-done:
		if err != nil {
			l.log.Warn().Err(err).Str("email", email).Msg("envío de código fallido, se muestra en pantalla")
			return screen("send_failed")
		}
		l.log.Info().Str("email", email).Msg("código de verificación enviado")
		return &IssueResult{Sent: true, Delivery: DeliveryEmail}
	case <-sendCtx.Done():
		l.log.Warn().Dur("timeout", l.timeout).Str("email", email).Msg("envío de código sin respuesta, se muestra en pantalla")
		return screen("send_timeout")
	}
}

// Verify comprueba el código y consume la entrada. Devuelve el registro pendiente del email
// (nil si no hay); quien llama decide cómo promoverlo y después llama a DiscardPending.
func (l *Ledger) Verify(ctx context.Context, email, code string) (*entity.PendingRegistration, error) {
	email = entity.NormalizeEmail(email)
	key := entity.VerificationKey(email)

	var entry entity.VerificationEntry
	if !l.docs.GetJSON(ctx, key, &entry) {
		return nil, domain.ErrVerificationNotFound
	}
	if entry.Expired(l.now()) {
		l.docs.Remove(ctx, key)
		return nil, domain.ErrVerificationExpired
	}
	if !strings.EqualFold(strings.TrimSpace(code), entry.Code) {
		return nil, domain.ErrVerificationMismatch
	}
	l.docs.Remove(ctx, key)

	pending, ok := l.Pending(ctx, email)
	if !ok {
		return nil, nil
	}
	return pending, nil
}

// SavePending guarda el registro a la espera de verificación.
func (l *Ledger) SavePending(ctx context.Context, p entity.PendingRegistration) error {
	p.Email = entity.NormalizeEmail(p.Email)
	if p.CreatedAt == 0 {
		p.CreatedAt = l.now().UnixMilli()
	}
	if !l.docs.SetJSON(ctx, entity.PendingKey(p.Email), p) {
		return domain.ErrStorage
	}
	return nil
}

// Pending lee el registro pendiente de email.
func (l *Ledger) Pending(ctx context.Context, email string) (*entity.PendingRegistration, bool) {
	var p entity.PendingRegistration
	if !l.docs.GetJSON(ctx, entity.PendingKey(entity.NormalizeEmail(email)), &p) {
		return nil, false
	}
	return &p, true
}

// DiscardPending elimina el registro pendiente y cualquier código vivo de email.
func (l *Ledger) DiscardPending(ctx context.Context, email string) {
	email = entity.NormalizeEmail(email)
	l.docs.Remove(ctx, entity.PendingKey(email))
	l.docs.Remove(ctx, entity.VerificationKey(email))
}

func newCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	b := make([]byte, codeLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b), nil
}

// IsVerificationError indica si err es uno de los fallos de verificación.
func IsVerificationError(err error) bool {
	return errors.Is(err, domain.ErrVerificationNotFound) ||
		errors.Is(err, domain.ErrVerificationExpired) ||
		errors.Is(err, domain.ErrVerificationMismatch)
}
