package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/liberty-store/internal/application/dto"
	"github.com/jhoicas/liberty-store/internal/application/i18n"
	"github.com/jhoicas/liberty-store/internal/application/verification"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// AuthHandler maneja registro, verificación, login y sesión del cliente.
type AuthHandler struct{}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

// Register godoc
// @Summary      Registrar usuario
// @Description  Crea la cuenta verificada e inicia sesión.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.RegisterRequest  true  "name, email, password"
// @Success      201   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      507   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user, err := GetClient(c).Directory.Register(c.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sessionResponse(c, user, i18n.MsgRegistered))
}

// StartRegistration godoc
// @Summary      Iniciar registro con verificación
// @Description  Guarda el registro pendiente y envía el código. Si el envío falla el código viaja en la respuesta.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.RegisterRequest  true  "name, email, password"
// @Success      202   {object}  dto.RegistrationStartedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register/start [post]
func (h *AuthHandler) StartRegistration(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := GetClient(c).Directory.StartRegistration(c.Context(), in.Name, in.Email, in.Password)
	if err != nil {
		return respondError(c, err)
	}
	msg := i18n.MsgCodeSent
	if res.Delivery == verification.DeliveryScreen {
		msg = i18n.MsgCodeOnScreen
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.RegistrationStartedResponse{IssueResult: *res, Message: message(c, msg)})
}

// Verify godoc
// @Summary      Verificar email
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.VerifyRequest  true  "email, code"
// @Success      200   {object}  dto.VerifyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      410   {object}  dto.ErrorResponse
// @Router       /api/auth/verify [post]
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user, err := GetClient(c).Directory.Verify(c.Context(), in.Email, in.Code)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.VerifyResponse{Verified: true, User: user, Message: message(c, i18n.MsgEmailVerified)})
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.SessionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	user, err := GetClient(c).Directory.Login(c.Context(), in.Email, in.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sessionResponse(c, user, ""))
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	GetClient(c).Directory.Logout(c.Context())
	return c.SendStatus(fiber.StatusNoContent)
}

// Session godoc
// @Summary      Sesión actual
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SessionResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/auth/session [get]
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	return c.JSON(sessionResponse(c, GetSession(c), ""))
}

// Permissions godoc
// @Summary      Permisos de la sesión
// @Description  Rol y capacidades efectivas. Un invitado recibe viewer sin capacidades.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.PermissionsResponse
// @Router       /api/auth/permissions [get]
func (h *AuthHandler) Permissions(c *fiber.Ctx) error {
	out := dto.PermissionsResponse{Grant: GetGrant(c)}
	if s := GetSession(c); s != nil {
		out.Email = s.Email
	}
	return c.JSON(out)
}

// sessionResponse añade el aviso de acceso como dueño cuando corresponde.
func sessionResponse(c *fiber.Ctx, user *entity.User, code string) dto.SessionResponse {
	out := dto.SessionResponse{User: user}
	if user != nil && user.IsOwner {
		code = i18n.MsgOwnerAccess
	}
	if code != "" {
		out.Message = message(c, code)
	}
	return out
}
