package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/liberty-store/internal/application/i18n"
	"github.com/jhoicas/liberty-store/internal/application/permission"
	"github.com/jhoicas/liberty-store/internal/application/storefront"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
	"github.com/jhoicas/liberty-store/pkg/jwt"
)

// Locals keys del cliente, la sesión y el permiso en Fiber.
const (
	LocalClient  = "client"
	LocalSession = "session"
	LocalGrant   = "grant"
)

// ClientMiddleware valida el Bearer Token del cliente, abre su espacio de nombres,
// ejecuta migraciones y bootstrap y deja cliente y sesión en c.Locals.
func ClientMiddleware(jwtSecret string, factory *storefront.Factory, log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return respondCode(c, fiber.StatusUnauthorized, i18n.CodeUnauthorized)
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return respondCode(c, fiber.StatusUnauthorized, i18n.CodeUnauthorized)
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return respondCode(c, fiber.StatusUnauthorized, i18n.CodeUnauthorized)
		}
		clientID, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return respondCode(c, fiber.StatusUnauthorized, i18n.CodeUnauthorized)
		}

		client := factory.For(clientID)
		session, err := client.Prepare(c.Context())
		if err != nil {
			log.Error().Err(err).Str("client_id", clientID).Msg("preparar espacio del cliente")
			return respondError(c, err)
		}
		c.Locals(LocalClient, client)
		if session != nil {
			c.Locals(LocalSession, session)
		}
		return c.Next()
	}
}

// GetClient devuelve los servicios del cliente (después de ClientMiddleware).
func GetClient(c *fiber.Ctx) *storefront.Client {
	v, _ := c.Locals(LocalClient).(*storefront.Client)
	return v
}

// GetSession devuelve la sesión actual o nil si el cliente no ha iniciado sesión.
func GetSession(c *fiber.Ctx) *entity.User {
	v, _ := c.Locals(LocalSession).(*entity.User)
	return v
}

// GetGrant devuelve el permiso resuelto por RequireCapability o, si no pasó por él, lo resuelve.
func GetGrant(c *fiber.Ctx) permission.Grant {
	if g, ok := c.Locals(LocalGrant).(permission.Grant); ok {
		return g
	}
	client := GetClient(c)
	if client == nil {
		return permission.Grant{Role: entity.RoleViewer, Capabilities: []permission.Capability{}, Guest: true}
	}
	g := client.Grant(c.Context(), GetSession(c))
	c.Locals(LocalGrant, g)
	return g
}

// RequireSession responde 401 si no hay sesión iniciada.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetSession(c) == nil {
			return respondCode(c, fiber.StatusUnauthorized, i18n.CodeUnauthenticated)
		}
		return c.Next()
	}
}

// RequireCapability exige que la sesión tenga la capacidad indicada.
// Debe usarse DESPUÉS de ClientMiddleware.
//
// Comportamiento:
//   - 401 Unauthorized → sin sesión.
//   - 403 Forbidden    → la sesión no tiene la capacidad (fuera de la plantilla, inactivo o rol insuficiente).
func RequireCapability(capability permission.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetSession(c) == nil {
			return respondCode(c, fiber.StatusUnauthorized, i18n.CodeUnauthenticated)
		}
		if !GetGrant(c).Has(capability) {
			return respondCode(c, fiber.StatusForbidden, i18n.CodeForbidden)
		}
		return c.Next()
	}
}
