package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/liberty-store/internal/application/dto"
	"github.com/jhoicas/liberty-store/internal/application/i18n"
	"github.com/jhoicas/liberty-store/pkg/config"
	"github.com/jhoicas/liberty-store/pkg/jwt"
)

// ClientHandler emite tokens de cliente. Cada token abre un espacio de nombres propio.
type ClientHandler struct {
	cfg config.JWTConfig
}

// NewClientHandler construye el handler.
func NewClientHandler(cfg config.JWTConfig) *ClientHandler {
	return &ClientHandler{cfg: cfg}
}

// Create godoc
// @Summary      Crear cliente
// @Description  Genera un identificador de cliente nuevo y su token. Equivale a un navegador sin datos.
// @Tags         clients
// @Produce      json
// @Success      201  {object}  dto.ClientTokenResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/clients [post]
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	clientID := uuid.NewString()
	token, err := jwt.Generate(h.cfg.Secret, clientID, h.cfg.Issuer, h.cfg.Expiration)
	if err != nil {
		return respondCode(c, fiber.StatusInternalServerError, i18n.CodeInternal)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ClientTokenResponse{
		ClientID:  clientID,
		Token:     token,
		ExpiresIn: h.cfg.Expiration * 60,
	})
}
