package entity

import "github.com/shopspring/decimal"

// Tipos de entrada del catálogo.
const (
	KindWebDesign     = "web_design"
	KindGraphicDesign = "graphic_design"
	KindAIChatbot     = "ai_chatbot"
	KindDigitalGood   = "digital_good"
)

// CatalogEntry entrada del catálogo: unión cerrada de tipos de producto.
// Cada variante valida su propio esquema al cargar.
type CatalogEntry interface {
	Kind() string
	Base() *Product
}

// Product campos comunes a toda entrada del catálogo.
// Price nulo significa precio variable (a consultar), no comprable desde el carrito.
type Product struct {
	ID          string              `yaml:"id" json:"id"`
	Name        string              `yaml:"name" json:"name"`
	Price       decimal.NullDecimal `yaml:"-" json:"price"`
	Currency    string              `yaml:"currency" json:"currency,omitempty"`
	Guarantee   string              `yaml:"guarantee" json:"guarantee,omitempty"`
	Description string              `yaml:"description" json:"description,omitempty"`
	Features    []string            `yaml:"features" json:"features,omitempty"`
	Retired     bool                `yaml:"retired" json:"-"`
}

// Purchasable indica si el producto tiene precio fijo.
func (p *Product) Purchasable() bool {
	return p.Price.Valid && !p.Retired
}

// WebDesignPack pack de diseño web.
type WebDesignPack struct {
	Product `yaml:",inline"`
}

func (w *WebDesignPack) Kind() string   { return KindWebDesign }
func (w *WebDesignPack) Base() *Product { return &w.Product }

// GraphicDesignPack pack de diseño gráfico.
type GraphicDesignPack struct {
	Product `yaml:",inline"`
}

func (g *GraphicDesignPack) Kind() string   { return KindGraphicDesign }
func (g *GraphicDesignPack) Base() *Product { return &g.Product }

// AIChatbotPack pack de bot IA con agentes, soporte y canales.
type AIChatbotPack struct {
	Product  `yaml:",inline"`
	Agents   int      `yaml:"agents" json:"agents"`
	Support  string   `yaml:"support" json:"support"`
	Channels []string `yaml:"channels" json:"channels"`
}

func (a *AIChatbotPack) Kind() string   { return KindAIChatbot }
func (a *AIChatbotPack) Base() *Product { return &a.Product }

// DigitalGood bien digital; normalmente con precio variable.
type DigitalGood struct {
	Product `yaml:",inline"`
}

func (d *DigitalGood) Kind() string   { return KindDigitalGood }
func (d *DigitalGood) Base() *Product { return &d.Product }
