package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/liberty-store/internal/application/cart"
	"github.com/jhoicas/liberty-store/internal/application/dto"
	"github.com/jhoicas/liberty-store/internal/application/orders"
	"github.com/jhoicas/liberty-store/internal/application/storefront"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// CartHandler carrito de la sesión actual.
type CartHandler struct {
	factory *storefront.Factory
}

// NewCartHandler construye el handler del carrito.
func NewCartHandler(factory *storefront.Factory) *CartHandler {
	return &CartHandler{factory: factory}
}

func (h *CartHandler) open(c *fiber.Ctx) (*cart.Store, error) {
	return GetClient(c).Cart(GetSession(c))
}

func cartResponse(items []entity.CartItem) dto.CartResponse {
	if items == nil {
		items = []entity.CartItem{}
	}
	return dto.CartResponse{Items: items, Count: cart.Count(items), Total: cart.Total(items)}
}

// Get godoc
// @Summary      Ver carrito
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.CartResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	store, err := h.open(c)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cartResponse(store.Items(c.Context())))
}

// AddItem godoc
// @Summary      Añadir al carrito
// @Description  Con product_id el precio sale del catálogo; los productos de precio variable no se pueden añadir.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.AddCartItemRequest  true  "producto y cantidad"
// @Success      201   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) AddItem(c *fiber.Ctx) error {
	var in dto.AddCartItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	store, err := h.open(c)
	if err != nil {
		return respondError(c, err)
	}
	item := entity.CartItem{Name: in.Name, Price: in.Price, Currency: in.Currency, Category: in.Category}
	if in.ProductID != "" {
		if item, err = h.factory.Catalog().CartItem(in.ProductID); err != nil {
			return respondError(c, err)
		}
	}
	items, err := store.Add(c.Context(), item, in.Quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cartResponse(items))
}

// RemoveItem godoc
// @Summary      Quitar línea del carrito
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        index  path  int  true  "posición de la línea"
// @Success      200    {object}  dto.CartResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/cart/items/{index} [delete]
func (h *CartHandler) RemoveItem(c *fiber.Ctx) error {
	return h.mutateAt(c, (*cart.Store).Remove)
}

// Increase godoc
// @Summary      Sumar una unidad
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        index  path  int  true  "posición de la línea"
// @Success      200    {object}  dto.CartResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/cart/items/{index}/increase [post]
func (h *CartHandler) Increase(c *fiber.Ctx) error {
	return h.mutateAt(c, (*cart.Store).Increase)
}

// Decrease godoc
// @Summary      Restar una unidad
// @Description  Con cantidad 1 la línea se elimina.
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Param        index  path  int  true  "posición de la línea"
// @Success      200    {object}  dto.CartResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/cart/items/{index}/decrease [post]
func (h *CartHandler) Decrease(c *fiber.Ctx) error {
	return h.mutateAt(c, (*cart.Store).Decrease)
}

func (h *CartHandler) mutateAt(c *fiber.Ctx, op func(*cart.Store, context.Context, int) ([]entity.CartItem, error)) error {
	index, err := c.ParamsInt("index")
	if err != nil {
		return badBody(c)
	}
	store, err := h.open(c)
	if err != nil {
		return respondError(c, err)
	}
	items, err := op(store, c.Context(), index)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cartResponse(items))
}

// Clear godoc
// @Summary      Vaciar carrito
// @Tags         cart
// @Security     BearerAuth
// @Success      204
// @Failure      507  {object}  dto.ErrorResponse
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	store, err := h.open(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := store.Clear(c.Context()); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// WhatsApp godoc
// @Summary      Enlace de confirmación por WhatsApp
// @Tags         cart
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.LinkResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/cart/whatsapp [get]
func (h *CartHandler) WhatsApp(c *fiber.Ctx) error {
	store, err := h.open(c)
	if err != nil {
		return respondError(c, err)
	}
	items := store.Items(c.Context())
	currency := h.factory.Currency()
	if len(items) > 0 && items[0].Currency != "" {
		currency = items[0].Currency
	}
	link, err := orders.ConfirmationLink(h.factory.Messenger(), items, currency)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.LinkResponse{URL: link})
}
