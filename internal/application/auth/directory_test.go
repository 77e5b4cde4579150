package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liberty-store/internal/application/auth"
	"github.com/jhoicas/liberty-store/internal/application/permission"
	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/application/verification"
	"github.com/jhoicas/liberty-store/internal/domain"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
	"github.com/jhoicas/liberty-store/internal/infrastructure/kvstore"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newDocs() ports.DocumentStore {
	return kvstore.NewStore(kvstore.NewMemory(0), zerolog.Nop())
}

func newDirectory(docs ports.DocumentStore, opts auth.Options, codes *verification.Ledger) *auth.Directory {
	owners := permission.NewOwnerPolicy()
	if opts.MasterBypass {
		owners = permission.NewOwnerPolicy(opts.MasterEmail)
	}
	return auth.NewDirectory(docs, owners, codes, opts, zerolog.Nop()).WithClock(func() time.Time { return fixedNow })
}

func storedUsers(t *testing.T, docs ports.DocumentStore) []entity.User {
	t.Helper()
	var users []entity.User
	docs.GetJSON(context.Background(), entity.KeyRegisteredUsers, &users)
	return users
}

// failingSender simula un SMTP caído.
type failingSender struct{}

func (failingSender) Send(context.Context, ports.VerificationEmail) error {
	return errors.New("smtp caído")
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro
// ──────────────────────────────────────────────────────────────────────────────

func TestRegister_CreaUsuarioYSesion(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	dir := newDirectory(docs, auth.Options{HashPasswords: true}, nil)

	session, err := dir.Register(ctx, " Ana ", " ANA@Gmail.com ", "secreto123")
	require.NoError(t, err)
	assert.Equal(t, "Ana", session.Name)
	assert.Equal(t, "ana@gmail.com", session.Email)
	assert.Empty(t, session.Password, "la sesión nunca lleva contraseña")
	assert.Equal(t, fixedNow.Format(time.RFC3339), session.LoginTime)

	users := storedUsers(t, docs)
	require.Len(t, users, 1)
	assert.True(t, users[0].IsVerified())
	assert.Equal(t, entity.ProviderEmail, users[0].Provider)
	assert.True(t, strings.HasPrefix(users[0].Password, "$2"), "la contraseña se guarda como hash bcrypt")

	current, err := dir.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana@gmail.com", current.Email)
}

func TestRegister_EmailDuplicadoTrasNormalizar(t *testing.T) {
	ctx := context.Background()
	dir := newDirectory(newDocs(), auth.Options{}, nil)

	_, err := dir.Register(ctx, "Ana", "ana@gmail.com", "secreto123")
	require.NoError(t, err)
	_, err = dir.Register(ctx, "Otra Ana", " ANA@gmail.com ", "otraclave99")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestRegister_Validaciones(t *testing.T) {
	dir := newDirectory(newDocs(), auth.Options{}, nil)
	cases := []struct {
		name, email, password string
		want                  error
	}{
		{"", "ana@gmail.com", "secreto123", domain.ErrInvalidName},
		{"Ana", "no-es-email", "secreto123", domain.ErrInvalidEmail},
		{"Ana", "ana@gmail.com", "corta", domain.ErrInvalidPassword},
		{"Ana", "ana@gmail.com", "   corta   ", domain.ErrInvalidPassword},
	}
	for _, tc := range cases {
		_, err := dir.Register(context.Background(), tc.name, tc.email, tc.password)
		assert.ErrorIs(t, err, tc.want, "registro %q/%q", tc.email, tc.password)
		assert.True(t, domain.IsValidation(err))
	}
}

func TestRegister_DominioNoPermitido(t *testing.T) {
	dir := newDirectory(newDocs(), auth.Options{EnforceEmailDomains: true}, nil)
	_, err := dir.Register(context.Background(), "Ana", "ana@dominio-raro.xyz", "secreto123")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)

	_, err = dir.Register(context.Background(), "Ana", "ana@gmail.com", "secreto123")
	assert.NoError(t, err)
}

func TestRegister_FalloDeAlmacenamiento(t *testing.T) {
	docs := kvstore.NewStore(kvstore.NewMemory(40), zerolog.Nop())
	dir := newDirectory(docs, auth.Options{}, nil)
	_, err := dir.Register(context.Background(), "Ana", "ana@gmail.com", "secreto123")
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestRegister_ConservaRegistrosExistentesIntactos(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	existing := `[{"name":"Luis","email":"luis@gmail.com","password":"viejaclave","verified":"si"},` +
		`{"name":"Ana","email":"ana@gmail.com","password":"secreto123","phone":"600"}]`
	require.True(t, docs.SetRaw(ctx, entity.KeyRegisteredUsers, []byte(existing)))
	dir := newDirectory(docs, auth.Options{HashPasswords: true}, nil)

	_, err := dir.Register(ctx, "Bob", "bob@gmail.com", "secreto123")
	require.NoError(t, err)

	var stored []map[string]any
	raw, ok := docs.GetRaw(ctx, entity.KeyRegisteredUsers)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 3)
	assert.Equal(t, "si", stored[0]["verified"], "el valor heredado no se reescribe")
	assert.Equal(t, "600", stored[1]["phone"], "los campos desconocidos se conservan")
	assert.Equal(t, "bob@gmail.com", stored[2]["email"])

	_, err = dir.Register(ctx, "Luis", "LUIS@gmail.com", "otraclave99")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail, "el registro heredado cuenta para duplicados")
}

func TestRegister_DirectorioIlegibleNoSeSustituye(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	require.True(t, docs.SetRaw(ctx, entity.KeyRegisteredUsers, []byte(`{"roto":true}`)))
	dir := newDirectory(docs, auth.Options{DemoUsers: true}, nil)

	_, err := dir.Register(ctx, "Bob", "bob@gmail.com", "secreto123")
	assert.ErrorIs(t, err, domain.ErrStorage)
	_, err = dir.Login(ctx, "bob@gmail.com", "secreto123")
	assert.ErrorIs(t, err, domain.ErrStorage)

	seeded, err := dir.Bootstrap(ctx)
	require.NoError(t, err)
	assert.False(t, seeded, "el demo no pisa un directorio ilegible")

	raw, ok := docs.GetRaw(ctx, entity.KeyRegisteredUsers)
	require.True(t, ok)
	assert.JSONEq(t, `{"roto":true}`, string(raw))
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_UsuarioInexistenteYClaveIncorrecta(t *testing.T) {
	ctx := context.Background()
	dir := newDirectory(newDocs(), auth.Options{HashPasswords: true}, nil)
	_, err := dir.Register(ctx, "Ana", "ana@gmail.com", "secreto123")
	require.NoError(t, err)

	_, err = dir.Login(ctx, "luis@gmail.com", "secreto123")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)

	_, err = dir.Login(ctx, "ana@gmail.com", "otraclave1")
	assert.ErrorIs(t, err, domain.ErrWrongPassword)
}

func TestLogin_ToleraEspacioFinal(t *testing.T) {
	ctx := context.Background()
	dir := newDirectory(newDocs(), auth.Options{HashPasswords: true}, nil)
	_, err := dir.Register(ctx, "Ana", "ana@gmail.com", "secreto123")
	require.NoError(t, err)
	dir.Logout(ctx)

	session, err := dir.Login(ctx, "ANA@gmail.com", "secreto123 ")
	require.NoError(t, err)
	assert.Equal(t, "ana@gmail.com", session.Email)
}

func TestLogin_ClaveHeredadaEnTextoPlanoSeRehashea(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	require.True(t, docs.SetJSON(ctx, entity.KeyRegisteredUsers, []entity.User{
		{Name: "Luis", Email: "luis@hotmail.com", Password: "viejaclave"},
	}))
	dir := newDirectory(docs, auth.Options{HashPasswords: true}, nil)

	_, err := dir.Login(ctx, "luis@hotmail.com", "viejaclave")
	require.NoError(t, err)

	users := storedUsers(t, docs)
	require.Len(t, users, 1)
	assert.True(t, strings.HasPrefix(users[0].Password, "$2"))

	dir.Logout(ctx)
	_, err = dir.Login(ctx, "luis@hotmail.com", "viejaclave")
	assert.NoError(t, err, "tras el rehash la misma clave sigue funcionando")
}

func TestLogin_RehashSoloCambiaLaContrasena(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	existing := `[{"name":"Luis","email":"luis@gmail.com","password":"viejaclave","verified":"si","phone":"600"}]`
	require.True(t, docs.SetRaw(ctx, entity.KeyRegisteredUsers, []byte(existing)))
	dir := newDirectory(docs, auth.Options{HashPasswords: true}, nil)

	session, err := dir.Login(ctx, "luis@gmail.com", "viejaclave")
	require.NoError(t, err)
	assert.Equal(t, "Luis", session.Name)
	require.NotNil(t, session.Verified)
	assert.True(t, *session.Verified, "un registro heredado sin booleano cuenta como verificado")

	var stored []map[string]any
	raw, _ := docs.GetRaw(ctx, entity.KeyRegisteredUsers)
	require.NoError(t, json.Unmarshal(raw, &stored))
	require.Len(t, stored, 1)
	assert.True(t, strings.HasPrefix(stored[0]["password"].(string), "$2"))
	assert.Equal(t, "si", stored[0]["verified"])
	assert.Equal(t, "600", stored[0]["phone"])
}

func TestLogin_DuenoRecibeIndicadores(t *testing.T) {
	ctx := context.Background()
	dir := newDirectory(newDocs(), auth.Options{}, nil)
	session, err := dir.Register(ctx, "Juan", permission.DefaultOwnerEmails[0], "secreto123")
	require.NoError(t, err)
	assert.True(t, session.IsOwner)
	assert.True(t, session.IsAdmin)
	assert.Equal(t, entity.RoleOwner, session.Role)
}

func TestLogin_AccesoMaestroDeshabilitado(t *testing.T) {
	dir := newDirectory(newDocs(), auth.Options{MasterUser: "admin", MasterPassword: "admin1234"}, nil)
	_, err := dir.Login(context.Background(), "admin", "admin1234")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestLogin_AccesoMaestroHabilitado(t *testing.T) {
	dir := newDirectory(newDocs(), auth.Options{
		MasterBypass:   true,
		MasterUser:     "admin",
		MasterPassword: "admin1234",
		MasterEmail:    "admin@liberty.com",
	}, nil)

	session, err := dir.Login(context.Background(), "admin", "admin1234")
	require.NoError(t, err)
	assert.Equal(t, "admin@liberty.com", session.Email)
	assert.True(t, session.IsOwner)

	_, err = dir.Login(context.Background(), "admin", "otra")
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestCurrentSession_SinSesion(t *testing.T) {
	dir := newDirectory(newDocs(), auth.Options{}, nil)
	_, err := dir.CurrentSession(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestCurrentSession_RetiraIndicadoresFalsificados(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	require.True(t, docs.SetJSON(ctx, entity.KeySession, entity.User{
		Name: "Eva", Email: "eva@gmail.com", Role: entity.RoleOwner, IsOwner: true, IsAdmin: true,
	}))
	dir := newDirectory(docs, auth.Options{}, nil)

	session, err := dir.CurrentSession(ctx)
	require.NoError(t, err)
	assert.False(t, session.IsOwner)
	assert.False(t, session.IsAdmin)
	assert.Empty(t, session.Role)

	var stored entity.User
	require.True(t, docs.GetJSON(ctx, entity.KeySession, &stored))
	assert.False(t, stored.IsOwner, "la sesión re-derivada se persiste")
}

// ──────────────────────────────────────────────────────────────────────────────
// Bootstrap y purga
// ──────────────────────────────────────────────────────────────────────────────

func TestBootstrap_SiembraDemoUnaVez(t *testing.T) {
	ctx := context.Background()
	dir := newDirectory(newDocs(), auth.Options{DemoUsers: true}, nil)

	seeded, err := dir.Bootstrap(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = dir.Bootstrap(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)

	_, err = dir.Login(ctx, auth.DemoEmail, auth.DemoPassword)
	assert.NoError(t, err)
}

func TestPurgeUsers_DeshabilitaDemo(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	dir := newDirectory(docs, auth.Options{DemoUsers: true}, nil)
	_, err := dir.Bootstrap(ctx)
	require.NoError(t, err)
	require.True(t, docs.SetJSON(ctx, entity.VerificationKey("x@gmail.com"), map[string]string{"code": "ABC123"}))

	require.NoError(t, dir.PurgeUsers(ctx, false))
	assert.Empty(t, dir.ListUsers(ctx))
	_, ok := docs.GetRaw(ctx, entity.VerificationKey("x@gmail.com"))
	assert.False(t, ok)

	seeded, err := dir.Bootstrap(ctx)
	require.NoError(t, err)
	assert.False(t, seeded, "tras una purga sin keepDemo el demo no vuelve")
}

func TestPurgeAll_ConservaDemo(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	dir := newDirectory(docs, auth.Options{DemoUsers: true}, nil)
	require.True(t, docs.SetJSON(ctx, entity.KeyOrders, []string{}))

	require.NoError(t, dir.PurgeAll(ctx, true))
	assert.Empty(t, docs.Keys(ctx, ""))

	seeded, err := dir.Bootstrap(ctx)
	require.NoError(t, err)
	assert.True(t, seeded)
}

func TestBootstrap_BanderaHeredadaSinComillas(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	require.True(t, docs.SetRaw(ctx, entity.KeyDisableDemoUsers, []byte("1")))
	dir := newDirectory(docs, auth.Options{DemoUsers: true}, nil)

	seeded, err := dir.Bootstrap(ctx)
	require.NoError(t, err)
	assert.False(t, seeded)
}

// ──────────────────────────────────────────────────────────────────────────────
// Registro con verificación
// ──────────────────────────────────────────────────────────────────────────────

func TestStartRegistration_DeshabilitadoSinLedger(t *testing.T) {
	dir := newDirectory(newDocs(), auth.Options{}, nil)
	_, err := dir.StartRegistration(context.Background(), "Ana", "ana@gmail.com", "secreto123")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestVerificacion_FlujoCompleto(t *testing.T) {
	ctx := context.Background()
	docs := newDocs()
	codes := verification.NewLedger(docs, failingSender{}, zerolog.Nop(),
		verification.WithClock(func() time.Time { return fixedNow }))
	dir := newDirectory(docs, auth.Options{}, codes)

	res, err := dir.StartRegistration(ctx, "Ana", "ana@gmail.com", "secreto123")
	require.NoError(t, err)
	assert.False(t, res.Sent)
	assert.Equal(t, verification.DeliveryScreen, res.Delivery)
	assert.Equal(t, "send_failed", res.Reason)
	require.Len(t, res.Code, 6)
	assert.Empty(t, dir.ListUsers(ctx), "la cuenta no existe hasta verificar")

	user, err := dir.Verify(ctx, "ana@gmail.com", strings.ToLower(res.Code))
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ana@gmail.com", user.Email)
	assert.Len(t, dir.ListUsers(ctx), 1)

	_, err = dir.Verify(ctx, "ana@gmail.com", res.Code)
	assert.ErrorIs(t, err, domain.ErrVerificationNotFound, "el código se consume al verificar")

	_, err = dir.Login(ctx, "ana@gmail.com", "secreto123")
	assert.NoError(t, err)
}
