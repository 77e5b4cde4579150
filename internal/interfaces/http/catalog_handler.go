package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/liberty-store/internal/application/catalog"
	"github.com/jhoicas/liberty-store/internal/application/dto"
)

// CatalogHandler consulta del catálogo (no requiere token).
type CatalogHandler struct {
	catalog *catalog.Catalog
}

// NewCatalogHandler construye el handler del catálogo.
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: c}
}

// List godoc
// @Summary      Listar catálogo
// @Tags         catalog
// @Produce      json
// @Param        kind  query  string  false  "web_design, graphic_design, ai_chatbot, digital_good"
// @Success      200  {object}  dto.CatalogResponse
// @Router       /api/catalog [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	entries := h.catalog.List(c.Query("kind"))
	out := dto.CatalogResponse{Kinds: h.catalog.Kinds(), Items: make([]dto.CatalogEntryResponse, 0, len(entries))}
	for _, e := range entries {
		out.Items = append(out.Items, dto.ToCatalogEntry(e))
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de producto
// @Tags         catalog
// @Produce      json
// @Param        id  path  string  true  "id del producto"
// @Success      200  {object}  dto.CatalogEntryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/catalog/{id} [get]
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	e, err := h.catalog.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToCatalogEntry(e))
}
