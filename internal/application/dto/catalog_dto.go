package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// CatalogEntryResponse entrada del catálogo aplanada. Price es null con precio variable.
type CatalogEntryResponse struct {
	Kind        string              `json:"kind"`
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Price       decimal.NullDecimal `json:"price"`
	Currency    string              `json:"currency,omitempty"`
	Purchasable bool                `json:"purchasable"`
	Guarantee   string              `json:"guarantee,omitempty"`
	Description string              `json:"description,omitempty"`
	Features    []string            `json:"features,omitempty"`
	Agents      int                 `json:"agents,omitempty"`
	Support     string              `json:"support,omitempty"`
	Channels    []string            `json:"channels,omitempty"`
}

// ToCatalogEntry mapea la variante al DTO.
func ToCatalogEntry(e entity.CatalogEntry) CatalogEntryResponse {
	p := e.Base()
	out := CatalogEntryResponse{
		Kind:        e.Kind(),
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Currency:    p.Currency,
		Purchasable: p.Purchasable(),
		Guarantee:   p.Guarantee,
		Description: p.Description,
		Features:    p.Features,
	}
	if bot, ok := e.(*entity.AIChatbotPack); ok {
		out.Agents = bot.Agents
		out.Support = bot.Support
		out.Channels = bot.Channels
	}
	return out
}

// CatalogResponse listado del catálogo.
type CatalogResponse struct {
	Kinds []string               `json:"kinds"`
	Items []CatalogEntryResponse `json:"items"`
}
