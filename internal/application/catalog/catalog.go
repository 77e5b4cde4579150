// Package catalog carga y valida el catálogo de productos (unión cerrada por tipo) desde YAML.
package catalog

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/jhoicas/liberty-store/internal/domain"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// VariablePrice literal de precio a consultar.
const VariablePrice = "Variable"

var commonFields = []string{"kind", "id", "name", "price", "currency", "guarantee", "description", "features", "retired"}

var kindFields = map[string][]string{
	entity.KindWebDesign:     commonFields,
	entity.KindGraphicDesign: commonFields,
	entity.KindAIChatbot:     append(append([]string(nil), commonFields...), "agents", "support", "channels"),
	entity.KindDigitalGood:   commonFields,
}

// Catalog catálogo validado, de solo lectura.
type Catalog struct {
	entries []entity.CatalogEntry
	byID    map[string]entity.CatalogEntry
}

// Default catálogo embebido en el binario.
func Default() (*Catalog, error) {
	return Load(defaultCatalog)
}

// Load decodifica y valida un documento YAML con la lista entries.
func Load(data []byte) (*Catalog, error) {
	var doc struct {
		Entries []yaml.Node `yaml:"entries"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catálogo: yaml: %w", err)
	}
	c := &Catalog{byID: make(map[string]entity.CatalogEntry, len(doc.Entries))}
	for i := range doc.Entries {
		entry, err := decodeEntry(&doc.Entries[i])
		if err != nil {
			return nil, fmt.Errorf("catálogo: entrada %d (línea %d): %w", i, doc.Entries[i].Line, err)
		}
		id := entry.Base().ID
		if _, dup := c.byID[id]; dup {
			return nil, fmt.Errorf("catálogo: id duplicado %q: %w", id, domain.ErrInvalidInput)
		}
		c.byID[id] = entry
		c.entries = append(c.entries, entry)
	}
	return c, nil
}

func decodeEntry(node *yaml.Node) (entity.CatalogEntry, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("se esperaba un mapa: %w", domain.ErrInvalidInput)
	}
	var head struct {
		Kind  string    `yaml:"kind"`
		Price yaml.Node `yaml:"price"`
	}
	if err := node.Decode(&head); err != nil {
		return nil, err
	}
	allowed, ok := kindFields[head.Kind]
	if !ok {
		return nil, fmt.Errorf("tipo %q desconocido: %w", head.Kind, domain.ErrInvalidInput)
	}
	if err := checkFields(node, allowed); err != nil {
		return nil, err
	}

	var entry entity.CatalogEntry
	switch head.Kind {
	case entity.KindWebDesign:
		entry = &entity.WebDesignPack{}
	case entity.KindGraphicDesign:
		entry = &entity.GraphicDesignPack{}
	case entity.KindAIChatbot:
		entry = &entity.AIChatbotPack{}
	case entity.KindDigitalGood:
		entry = &entity.DigitalGood{}
	}
	if err := node.Decode(entry); err != nil {
		return nil, err
	}
	price, err := parsePrice(&head.Price, head.Kind)
	if err != nil {
		return nil, err
	}
	entry.Base().Price = price
	return entry, validate(entry)
}

func checkFields(node *yaml.Node, allowed []string) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		found := false
		for _, a := range allowed {
			if a == key {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("campo %q no admitido: %w", key, domain.ErrInvalidInput)
		}
	}
	return nil
}

func parsePrice(n *yaml.Node, kind string) (decimal.NullDecimal, error) {
	if n.Kind == 0 {
		return decimal.NullDecimal{}, fmt.Errorf("precio obligatorio: %w", domain.ErrInvalidInput)
	}
	if n.Kind != yaml.ScalarNode {
		return decimal.NullDecimal{}, fmt.Errorf("precio no escalar: %w", domain.ErrInvalidInput)
	}
	if strings.EqualFold(n.Value, VariablePrice) {
		if kind != entity.KindDigitalGood {
			return decimal.NullDecimal{}, fmt.Errorf("precio variable solo en %s: %w", entity.KindDigitalGood, domain.ErrInvalidInput)
		}
		return decimal.NullDecimal{}, nil
	}
	if n.Tag != "!!int" && n.Tag != "!!float" {
		return decimal.NullDecimal{}, fmt.Errorf("precio %q no numérico: %w", n.Value, domain.ErrInvalidInput)
	}
	d, err := decimal.NewFromString(n.Value)
	if err != nil {
		return decimal.NullDecimal{}, fmt.Errorf("precio %q: %w", n.Value, domain.ErrInvalidInput)
	}
	if !d.IsPositive() {
		return decimal.NullDecimal{}, fmt.Errorf("precio %s no positivo: %w", d, domain.ErrInvalidInput)
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}, nil
}

func validate(e entity.CatalogEntry) error {
	p := e.Base()
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("id obligatorio: %w", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%s: nombre obligatorio: %w", p.ID, domain.ErrInvalidInput)
	}
	if p.Price.Valid && strings.TrimSpace(p.Currency) == "" {
		return fmt.Errorf("%s: moneda obligatoria con precio fijo: %w", p.ID, domain.ErrInvalidInput)
	}
	if bot, ok := e.(*entity.AIChatbotPack); ok {
		if bot.Agents < 1 {
			return fmt.Errorf("%s: agents debe ser >= 1: %w", p.ID, domain.ErrInvalidInput)
		}
		if len(bot.Channels) == 0 {
			return fmt.Errorf("%s: sin canales: %w", p.ID, domain.ErrInvalidInput)
		}
	}
	return nil
}

// List entradas visibles (no retiradas), opcionalmente filtradas por tipo, en orden de carga.
func (c *Catalog) List(kind string) []entity.CatalogEntry {
	out := []entity.CatalogEntry{}
	for _, e := range c.entries {
		if e.Base().Retired || (kind != "" && e.Kind() != kind) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Kinds tipos con al menos una entrada visible, ordenados.
func (c *Catalog) Kinds() []string {
	seen := map[string]bool{}
	for _, e := range c.List("") {
		seen[e.Kind()] = true
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Get entrada visible por id.
func (c *Catalog) Get(id string) (entity.CatalogEntry, error) {
	e, ok := c.byID[strings.TrimSpace(id)]
	if !ok || e.Base().Retired {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

// CartItem línea de carrito para el producto id con precio y moneda del catálogo.
func (c *Catalog) CartItem(id string) (entity.CartItem, error) {
	e, err := c.Get(id)
	if err != nil {
		return entity.CartItem{}, err
	}
	p := e.Base()
	if !p.Purchasable() {
		return entity.CartItem{}, domain.ErrNotPurchasable
	}
	return entity.CartItem{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price.Decimal,
		Currency: p.Currency,
		Category: e.Kind(),
		Quantity: 1,
	}, nil
}
