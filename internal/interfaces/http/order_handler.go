package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/liberty-store/internal/application/dto"
	"github.com/jhoicas/liberty-store/internal/domain"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// OrderHandler checkout, historial y comprobantes.
type OrderHandler struct{}

// NewOrderHandler construye el handler de pedidos.
func NewOrderHandler() *OrderHandler {
	return &OrderHandler{}
}

// Place godoc
// @Summary      Finalizar compra
// @Description  Registra el pedido con el contenido del carrito (impuesto incluido) y vacía el carrito.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.PlaceOrderRequest  false  "datos del formulario de checkout"
// @Success      201   {object}  entity.Order
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      507   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var in dto.PlaceOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	client, session := GetClient(c), GetSession(c)
	store, err := client.Cart(session)
	if err != nil {
		return respondError(c, err)
	}
	order, err := client.Orders.PlaceOrder(c.Context(), store, in.Customer, session)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// Mine godoc
// @Summary      Mis pedidos
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.OrderListResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/orders/mine [get]
func (h *OrderHandler) Mine(c *fiber.Ctx) error {
	items := GetClient(c).Orders.OrdersForUser(c.Context(), GetSession(c).Email)
	return c.JSON(dto.OrderListResponse{Items: items, Total: len(items)})
}

// Receipt godoc
// @Summary      Comprobante PDF del pedido
// @Tags         orders
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  string  true  "referencia del pedido (ORD-001)"
// @Success      200
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/receipt [get]
func (h *OrderHandler) Receipt(c *fiber.Ctx) error {
	client := GetClient(c)
	if client.Receipts == nil {
		return respondError(c, domain.ErrNotFound)
	}
	pdf, filename, err := client.Receipts.DownloadReceipt(c.Context(), GetSession(c), GetGrant(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, "attachment; filename="+strconv.Quote(filename))
	return c.Send(pdf)
}

// List godoc
// @Summary      Todos los pedidos (panel)
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        status  query  string  false  "filtrar por estado de pago"
// @Success      200  {object}  dto.OrderListResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/orders [get]
func (h *OrderHandler) List(c *fiber.Ctx) error {
	all := GetClient(c).Orders.All(c.Context())
	status := c.Query("status")
	items := make([]entity.Order, 0, len(all))
	for _, o := range all {
		if status == "" || o.PaymentStatus == status {
			items = append(items, o)
		}
	}
	return c.JSON(dto.OrderListResponse{Items: items, Total: len(items)})
}

// UpdatePayment godoc
// @Summary      Cambiar estado de pago
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                    true  "referencia del pedido"
// @Param        body  body  dto.UpdatePaymentRequest  true  "estado y notas"
// @Success      200   {object}  entity.Order
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/admin/orders/{id} [patch]
func (h *OrderHandler) UpdatePayment(c *fiber.Ctx) error {
	var in dto.UpdatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	order, err := GetClient(c).Orders.UpdatePayment(c.Context(), GetGrant(c), c.Params("id"), in.PaymentStatus, in.Notes)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(order)
}
