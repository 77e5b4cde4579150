package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liberty-store/internal/application/catalog"
	"github.com/jhoicas/liberty-store/internal/domain"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo embebido
// ──────────────────────────────────────────────────────────────────────────────

func TestDefault_CargaYOcultaRetirados(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	assert.Len(t, c.List(""), 19)
	assert.Len(t, c.List(entity.KindWebDesign), 4)
	assert.Len(t, c.List(entity.KindDigitalGood), 7)
	assert.Equal(t, []string{entity.KindAIChatbot, entity.KindDigitalGood, entity.KindGraphicDesign, entity.KindWebDesign}, c.Kinds())

	_, err = c.Get("chatgpt-plus")
	assert.ErrorIs(t, err, domain.ErrNotFound, "un retirado no se expone")
}

func TestDefault_BotConCanales(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	e, err := c.Get("bot-premium")
	require.NoError(t, err)
	bot, ok := e.(*entity.AIChatbotPack)
	require.True(t, ok)
	assert.GreaterOrEqual(t, bot.Agents, 1)
	assert.NotEmpty(t, bot.Channels)
	assert.Equal(t, "320", bot.Price.Decimal.String())
}

func TestCartItem(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)

	it, err := c.CartItem("web-hard")
	require.NoError(t, err)
	assert.Equal(t, "web-hard", it.ID)
	assert.Equal(t, "300", it.Price.String())
	assert.Equal(t, "USD", it.Currency)
	assert.Equal(t, entity.KindWebDesign, it.Category)

	_, err = c.CartItem("netflix")
	assert.ErrorIs(t, err, domain.ErrNotPurchasable)
	_, err = c.CartItem("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Validación de documentos
// ──────────────────────────────────────────────────────────────────────────────

func TestLoad_Rechazos(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"variable fuera de digital", `
entries:
  - {kind: web_design, id: w, name: W, price: Variable, currency: USD}`},
		{"campo no admitido", `
entries:
  - {kind: web_design, id: w, name: W, price: 10, currency: USD, agents: 2}`},
		{"tipo desconocido", `
entries:
  - {kind: hosting, id: h, name: H, price: 10, currency: USD}`},
		{"precio texto", `
entries:
  - {kind: digital_good, id: d, name: D, price: "10", currency: USD}`},
		{"precio no positivo", `
entries:
  - {kind: digital_good, id: d, name: D, price: 0, currency: USD}`},
		{"sin precio", `
entries:
  - {kind: digital_good, id: d, name: D}`},
		{"sin moneda", `
entries:
  - {kind: graphic_design, id: g, name: G, price: 5}`},
		{"bot sin canales", `
entries:
  - {kind: ai_chatbot, id: b, name: B, price: 5, currency: USD, agents: 1}`},
		{"id duplicado", `
entries:
  - {kind: digital_good, id: d, name: D, price: Variable}
  - {kind: digital_good, id: d, name: E, price: Variable}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := catalog.Load([]byte(tc.doc))
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestLoad_PrecioVariableEnDigital(t *testing.T) {
	c, err := catalog.Load([]byte(`
entries:
  - {kind: digital_good, id: d, name: D, price: variable}
  - {kind: graphic_design, id: g, name: G, price: 12.5, currency: EUR}`))
	require.NoError(t, err)

	d, err := c.Get(" d ")
	require.NoError(t, err)
	assert.False(t, d.Base().Price.Valid)
	assert.False(t, d.Base().Purchasable())

	g, err := c.Get("g")
	require.NoError(t, err)
	assert.Equal(t, "12.5", g.Base().Price.Decimal.String())
}
