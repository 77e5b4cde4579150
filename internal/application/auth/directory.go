// Package auth implementa el directorio de usuarios registrados y la sesión actual
// de un cliente sobre el almacén de documentos.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/liberty-store/internal/application/permission"
	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/application/records"
	"github.com/jhoicas/liberty-store/internal/application/verification"
	"github.com/jhoicas/liberty-store/internal/domain"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// Usuario de demostración sembrado en un espacio vacío.
const (
	DemoName     = "Usuario Demo"
	DemoEmail    = "demo@gmail.com"
	DemoPassword = "demo1234"
)

// Options banderas de comportamiento del directorio (ver config.AuthConfig).
type Options struct {
	HashPasswords       bool
	EnforceEmailDomains bool
	DemoUsers           bool

	// Acceso maestro: credenciales literales que no son un email. Solo si MasterBypass.
	MasterBypass   bool
	MasterUser     string
	MasterPassword string
	MasterEmail    string
}

// Directory casos de uso de registro, login y sesión.
type Directory struct {
	docs   ports.DocumentStore
	owners *permission.OwnerPolicy
	codes  *verification.Ledger
	opts   Options
	now    func() time.Time
	log    zerolog.Logger
}

// NewDirectory construye el directorio. codes puede ser nil si el registro con verificación está deshabilitado.
func NewDirectory(docs ports.DocumentStore, owners *permission.OwnerPolicy, codes *verification.Ledger, opts Options, log zerolog.Logger) *Directory {
	return &Directory{docs: docs, owners: owners, codes: codes, opts: opts, now: time.Now, log: log}
}

// WithClock sustituye el reloj (tests).
func (d *Directory) WithClock(now func() time.Time) *Directory {
	d.now = now
	return d
}

// loadUsers elementos crudos de registeredUsers y su lectura como usuarios, en el mismo orden.
// Las escrituras anexan o parchean elementos de raws; los demás registros no se reescriben.
func (d *Directory) loadUsers(ctx context.Context) ([]json.RawMessage, []entity.User, error) {
	raws, err := records.Load(ctx, d.docs, entity.KeyRegisteredUsers)
	if err != nil {
		return nil, nil, err
	}
	users := make([]entity.User, len(raws))
	for i, raw := range raws {
		users[i] = decodeUser(raw)
	}
	return raws, users, nil
}

// decodeUser lee un registro. Si algún campo tiene otro tipo (p. ej. "verified":"si")
// se toman campo a campo los que se puedan leer.
func decodeUser(raw json.RawMessage) entity.User {
	var u entity.User
	if err := json.Unmarshal(raw, &u); err == nil {
		return u
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return entity.User{}
	}
	text := func(k string) string {
		var s string
		_ = json.Unmarshal(fields[k], &s)
		return s
	}
	u = entity.User{
		Name:         text("name"),
		Email:        text("email"),
		Password:     text("password"),
		Provider:     text("provider"),
		RegisterDate: text("registerDate"),
	}
	var verified bool
	if err := json.Unmarshal(fields["verified"], &verified); err == nil {
		u.Verified = &verified
	}
	return u
}

func findUser(users []entity.User, email string) int {
	for i := range users {
		if entity.NormalizeEmail(users[i].Email) == email {
			return i
		}
	}
	return -1
}

// validate normaliza y valida los datos de registro.
func (d *Directory) validate(name, email, password string) (string, string, string, error) {
	name = strings.TrimSpace(name)
	email = entity.NormalizeEmail(email)
	password = strings.TrimSpace(password)
	if name == "" {
		return "", "", "", domain.ErrInvalidName
	}
	if err := d.validateEmail(email); err != nil {
		return "", "", "", err
	}
	if len([]rune(password)) < MinPasswordLength {
		return "", "", "", domain.ErrInvalidPassword
	}
	return name, email, password, nil
}

func (d *Directory) validateEmail(email string) error {
	if email == "" || !entity.ValidEmailShape(email) {
		return domain.ErrInvalidEmail
	}
	if d.opts.EnforceEmailDomains && !domainAllowed(entity.EmailDomain(email)) {
		return fmt.Errorf("dominio %q no admitido: %w", entity.EmailDomain(email), domain.ErrInvalidEmail)
	}
	return nil
}

// Register crea un usuario verificado e inicia su sesión.
func (d *Directory) Register(ctx context.Context, name, email, password string) (*entity.User, error) {
	name, email, password, err := d.validate(name, email, password)
	if err != nil {
		return nil, err
	}
	raws, users, err := d.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	if findUser(users, email) >= 0 {
		return nil, domain.ErrDuplicateEmail
	}
	sealed, err := sealPassword(password, d.opts.HashPasswords)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := entity.User{
		Name:         name,
		Email:        email,
		Password:     sealed,
		Verified:     entity.Bool(true),
		Provider:     entity.ProviderEmail,
		RegisterDate: d.now().UTC().Format(time.RFC3339),
	}
	if err := d.appendUser(ctx, raws, user); err != nil {
		return nil, err
	}
	session, err := d.startSession(ctx, &user)
	if err != nil {
		return nil, fmt.Errorf("usuario registrado sin sesión: %w", err)
	}
	return session, nil
}

// StartRegistration primer paso del registro con verificación: guarda el registro pendiente
// y emite el código. La cuenta se crea en Verify.
func (d *Directory) StartRegistration(ctx context.Context, name, email, password string) (*verification.IssueResult, error) {
	if d.codes == nil {
		return nil, fmt.Errorf("verificación por email deshabilitada: %w", domain.ErrForbidden)
	}
	name, email, password, err := d.validate(name, email, password)
	if err != nil {
		return nil, err
	}
	_, users, err := d.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	if findUser(users, email) >= 0 {
		return nil, domain.ErrDuplicateEmail
	}
	sealed, err := sealPassword(password, d.opts.HashPasswords)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	pending := entity.PendingRegistration{Name: name, Email: email, Password: sealed, CreatedAt: d.now().UnixMilli()}
	if err := d.codes.SavePending(ctx, pending); err != nil {
		return nil, err
	}
	return d.codes.Issue(ctx, email, name)
}

// Verify consume el código y, si hay registro pendiente, crea la cuenta verificada.
// Sin registro pendiente es un éxito sin efectos.
func (d *Directory) Verify(ctx context.Context, email, code string) (*entity.User, error) {
	if d.codes == nil {
		return nil, fmt.Errorf("verificación por email deshabilitada: %w", domain.ErrForbidden)
	}
	pending, err := d.codes.Verify(ctx, email, code)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return nil, nil
	}
	user, err := d.promote(ctx, pending)
	if err != nil {
		return nil, err
	}
	d.codes.DiscardPending(ctx, pending.Email)
	return user.Public(), nil
}

func (d *Directory) promote(ctx context.Context, p *entity.PendingRegistration) (*entity.User, error) {
	email := entity.NormalizeEmail(p.Email)
	raws, users, err := d.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	if i := findUser(users, email); i >= 0 {
		return &users[i], nil
	}
	user := entity.User{
		Name:         p.Name,
		Email:        email,
		Password:     p.Password,
		Verified:     entity.Bool(true),
		Provider:     entity.ProviderEmail,
		RegisterDate: d.now().UTC().Format(time.RFC3339),
	}
	if err := d.appendUser(ctx, raws, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// appendUser anexa user a registeredUsers sin tocar los registros existentes.
func (d *Directory) appendUser(ctx context.Context, raws []json.RawMessage, user entity.User) error {
	raws, err := records.Append(raws, user)
	if err != nil {
		return fmt.Errorf("codificar usuario: %w", err)
	}
	return records.Save(ctx, d.docs, entity.KeyRegisteredUsers, raws)
}

// Login valida credenciales y escribe la sesión con loginTime nuevo.
func (d *Directory) Login(ctx context.Context, email, password string) (*entity.User, error) {
	email = entity.NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrInvalidEmail
	}
	if d.opts.MasterBypass && email == entity.NormalizeEmail(d.opts.MasterUser) && password == d.opts.MasterPassword {
		d.log.Warn().Str("email", d.opts.MasterEmail).Msg("acceso con credenciales maestras")
		return d.startSession(ctx, &entity.User{
			Name:         "Administrador",
			Email:        d.opts.MasterEmail,
			RegisterDate: d.now().UTC().Format(time.RFC3339),
		})
	}
	if err := d.validateEmail(email); err != nil {
		return nil, err
	}
	if password == "" {
		return nil, domain.ErrInvalidPassword
	}

	raws, users, err := d.loadUsers(ctx)
	if err != nil {
		return nil, err
	}
	i := findUser(users, email)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	found := users[i]
	if !passwordMatches(found.Password, password) {
		return nil, domain.ErrWrongPassword
	}
	d.upgradePassword(ctx, raws, i, found, password)

	return d.startSession(ctx, &entity.User{
		Name:         found.Name,
		Email:        found.Email,
		Verified:     entity.Bool(found.IsVerified()),
		Provider:     found.Provider,
		RegisterDate: found.RegisterDate,
	})
}

// upgradePassword sustituye una contraseña heredada en texto plano por su hash.
// Solo cambia el campo password del elemento i.
func (d *Directory) upgradePassword(ctx context.Context, raws []json.RawMessage, i int, user entity.User, input string) {
	if !d.opts.HashPasswords || isBcryptHash(user.Password) {
		return
	}
	plain := input
	if user.Password != input {
		plain = strings.TrimSpace(input)
	}
	sealed, err := sealPassword(plain, true)
	if err != nil {
		d.log.Warn().Err(err).Msg("rehash de contraseña heredada")
		return
	}
	patched, err := records.Patch(raws[i], map[string]any{"password": sealed})
	if err != nil {
		d.log.Warn().Err(err).Str("email", user.Email).Msg("rehash de contraseña heredada")
		return
	}
	raws[i] = patched
	if err := records.Save(ctx, d.docs, entity.KeyRegisteredUsers, raws); err != nil {
		d.log.Warn().Str("email", user.Email).Msg("no se pudo guardar el hash de la contraseña heredada")
	}
}

func (d *Directory) startSession(ctx context.Context, u *entity.User) (*entity.User, error) {
	session := u.Public()
	d.owners.Enrich(session)
	session.LoginTime = d.now().UTC().Format(time.RFC3339)
	if !d.docs.SetJSON(ctx, entity.KeySession, session) {
		return nil, domain.ErrStorage
	}
	if session.IsOwner {
		d.log.Info().Str("email", session.Email).Msg("sesión de dueño iniciada")
	}
	return session, nil
}

// CurrentSession lee la sesión y vuelve a derivar los indicadores de dueño.
// Si cambiaron, persiste el resultado. Sin sesión devuelve ErrUnauthenticated.
func (d *Directory) CurrentSession(ctx context.Context) (*entity.User, error) {
	var session entity.User
	if !d.docs.GetJSON(ctx, entity.KeySession, &session) || strings.TrimSpace(session.Email) == "" {
		return nil, domain.ErrUnauthenticated
	}
	session.Password = ""
	if d.owners.Enrich(&session) {
		if !d.docs.SetJSON(ctx, entity.KeySession, &session) {
			d.log.Warn().Str("email", session.Email).Msg("no se pudo persistir la sesión re-derivada")
		}
	}
	return &session, nil
}

// Logout elimina la sesión.
func (d *Directory) Logout(ctx context.Context) {
	d.docs.Remove(ctx, entity.KeySession)
}

// Bootstrap siembra el usuario demo si no hay usuarios y no está deshabilitado. Devuelve true si sembró.
func (d *Directory) Bootstrap(ctx context.Context) (bool, error) {
	if !d.opts.DemoUsers || d.demoDisabled(ctx) {
		return false, nil
	}
	raws, _, err := d.loadUsers(ctx)
	if err != nil {
		// Un directorio ilegible no se sustituye por el demo.
		d.log.Warn().Err(err).Msg("registeredUsers ilegible, no se siembra el demo")
		return false, nil
	}
	if len(raws) > 0 {
		return false, nil
	}
	sealed, err := sealPassword(DemoPassword, d.opts.HashPasswords)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	demo := []entity.User{{
		Name:         DemoName,
		Email:        DemoEmail,
		Password:     sealed,
		Verified:     entity.Bool(true),
		RegisterDate: d.now().UTC().Format(time.RFC3339),
	}}
	if !d.docs.SetJSON(ctx, entity.KeyRegisteredUsers, demo) {
		return false, domain.ErrStorage
	}
	d.log.Info().Msg("usuario de demostración inicializado")
	return true, nil
}

func (d *Directory) demoDisabled(ctx context.Context) bool {
	raw, ok := d.docs.GetRaw(ctx, entity.KeyDisableDemoUsers)
	return ok && entity.IsFlagOn(raw)
}

// PurgeUsers elimina usuarios, sesión, códigos y registros pendientes.
// Salvo keepDemo, deja marcado disableDemoUsers para que el demo no se vuelva a sembrar.
func (d *Directory) PurgeUsers(ctx context.Context, keepDemo bool) error {
	if !keepDemo && !d.docs.SetJSON(ctx, entity.KeyDisableDemoUsers, entity.FlagOn) {
		return domain.ErrStorage
	}
	d.docs.Remove(ctx, entity.KeyRegisteredUsers)
	d.docs.Remove(ctx, entity.KeySession)
	for _, k := range d.docs.Keys(ctx, "") {
		if entity.IsAuthTransientKey(k) {
			d.docs.Remove(ctx, k)
		}
	}
	d.log.Info().Bool("keep_demo", keepDemo).Msg("usuarios y datos de auth eliminados")
	return nil
}

// PurgeAll vacía el espacio de nombres completo; salvo keepDemo conserva disableDemoUsers.
func (d *Directory) PurgeAll(ctx context.Context, keepDemo bool) error {
	for _, k := range d.docs.Keys(ctx, "") {
		d.docs.Remove(ctx, k)
	}
	if !keepDemo && !d.docs.SetJSON(ctx, entity.KeyDisableDemoUsers, entity.FlagOn) {
		return domain.ErrStorage
	}
	d.log.Info().Bool("keep_demo", keepDemo).Msg("purge completo de datos del cliente")
	return nil
}

// ListUsers usuarios registrados sin contraseña. Los registros sin email no se listan.
func (d *Directory) ListUsers(ctx context.Context) []*entity.User {
	_, users, err := d.loadUsers(ctx)
	if err != nil {
		d.log.Warn().Err(err).Msg("registeredUsers ilegible")
		return []*entity.User{}
	}
	out := make([]*entity.User, 0, len(users))
	for i := range users {
		if strings.TrimSpace(users[i].Email) == "" {
			continue
		}
		out = append(out, users[i].Public())
	}
	return out
}
