package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/liberty-store/internal/application/dto"
	"github.com/jhoicas/liberty-store/internal/domain"
)

// AnalyticsHandler recepción de eventos de la página.
type AnalyticsHandler struct{}

// NewAnalyticsHandler construye el handler de analítica.
func NewAnalyticsHandler() *AnalyticsHandler {
	return &AnalyticsHandler{}
}

// Track godoc
// @Summary      Registrar evento
// @Description  Guarda el evento (últimos 100) y lo reenvía al sink salvo en hosts locales.
// @Tags         analytics
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.TrackEventRequest  true  "categoría, acción, etiqueta, url"
// @Success      202   {object}  entity.AnalyticsEvent
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/analytics/events [post]
func (h *AnalyticsHandler) Track(c *fiber.Ctx) error {
	var in dto.TrackEventRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if strings.TrimSpace(in.Category) == "" || strings.TrimSpace(in.Action) == "" {
		return respondError(c, domain.ErrInvalidInput)
	}
	pageURL := in.URL
	if pageURL == "" {
		pageURL = c.Get(fiber.HeaderReferer)
	}
	ev := GetClient(c).Tracker.Event(c.Context(), in.Category, in.Action, in.Label, pageURL)
	return c.Status(fiber.StatusAccepted).JSON(ev)
}
