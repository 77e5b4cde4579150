package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/liberty-store/internal/application/dto"
	"github.com/jhoicas/liberty-store/internal/application/i18n"
	"github.com/jhoicas/liberty-store/internal/domain"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// AdminHandler panel de administración: plantilla, usuarios, resumen y borrados.
type AdminHandler struct{}

// NewAdminHandler construye el handler del panel.
func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

// Summary godoc
// @Summary      Resumen del panel
// @Description  Pedidos por estado de pago, usuarios, staff activo y últimos eventos.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  analytics.Dashboard
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/summary [get]
func (h *AdminHandler) Summary(c *fiber.Ctx) error {
	out, err := GetClient(c).Dashboard.GetSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Staff godoc
// @Summary      Listar plantilla
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.StaffListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/staff [get]
func (h *AdminHandler) Staff(c *fiber.Ctx) error {
	roster := GetClient(c).Staff.Roster(c.Context())
	if roster == nil {
		roster = []entity.StaffMember{}
	}
	return c.JSON(dto.StaffListResponse{Items: roster})
}

// AddStaff godoc
// @Summary      Añadir o reactivar miembro
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.AddStaffRequest  true  "email y rol (manager, staff, viewer)"
// @Success      201   {object}  entity.StaffMember
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/admin/staff [post]
func (h *AdminHandler) AddStaff(c *fiber.Ctx) error {
	var in dto.AddStaffRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	member, err := GetClient(c).Staff.Add(c.Context(), GetSession(c), in.Email, in.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(member)
}

// RemoveStaff godoc
// @Summary      Quitar miembro
// @Tags         admin
// @Security     BearerAuth
// @Param        email  path  string  true  "email del miembro"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/staff/{email} [delete]
func (h *AdminHandler) RemoveStaff(c *fiber.Ctx) error {
	if err := GetClient(c).Staff.Remove(c.Context(), GetSession(c), c.Params("email")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpdateStaff godoc
// @Summary      Activar o desactivar miembro
// @Tags         admin
// @Accept       json
// @Security     BearerAuth
// @Param        email  path  string                  true  "email del miembro"
// @Param        body   body  dto.UpdateStaffRequest  true  "status"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/admin/staff/{email} [patch]
func (h *AdminHandler) UpdateStaff(c *fiber.Ctx) error {
	var in dto.UpdateStaffRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := GetClient(c).Staff.SetStatus(c.Context(), GetSession(c), c.Params("email"), in.Status); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Users godoc
// @Summary      Usuarios registrados
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.UserListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	users := GetClient(c).Directory.ListUsers(c.Context())
	return c.JSON(dto.UserListResponse{Items: users, Total: len(users)})
}

// Purge godoc
// @Summary      Borrado administrativo
// @Description  scope=users elimina usuarios, sesión y códigos; scope=all vacía el espacio del cliente.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.PurgeRequest  true  "alcance"
// @Success      200   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/admin/purge [post]
func (h *AdminHandler) Purge(c *fiber.Ctx) error {
	var in dto.PurgeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	dir := GetClient(c).Directory
	var (
		err  error
		code string
	)
	switch in.Scope {
	case "", "users":
		err, code = dir.PurgeUsers(c.Context(), in.KeepDemo), i18n.MsgUsersPurged
	case "all":
		err, code = dir.PurgeAll(c.Context(), in.KeepDemo), i18n.MsgAllPurged
	default:
		return respondError(c, domain.ErrInvalidInput)
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Code: code, Message: message(c, code)})
}

// Events godoc
// @Summary      Últimos eventos de analítica
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  entity.AnalyticsEvent
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/analytics [get]
func (h *AdminHandler) Events(c *fiber.Ctx) error {
	events := GetClient(c).Tracker.Recent(c.Context())
	if events == nil {
		events = []entity.AnalyticsEvent{}
	}
	return c.JSON(events)
}
