package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liberty-store/internal/domain/entity"
	"github.com/jhoicas/liberty-store/internal/infrastructure/pdf"
)

func TestGenerateOrderReceipt(t *testing.T) {
	order := &entity.Order{
		OrderID:   "ORD-001",
		UserName:  "Ana",
		UserEmail: "ana@gmail.com",
		OrderDate: "2026-03-14T12:00:00Z",
		Items: []entity.CartItem{
			{Name: "Página Web Hard", Price: decimal.NewFromInt(300), Currency: "USD", Quantity: 1},
		},
		Subtotal:      decimal.NewFromInt(300),
		Tax:           decimal.NewFromInt(63),
		Amount:        decimal.NewFromInt(363),
		PaymentStatus: entity.PaymentPending,
		Customer:      map[string]string{"phone": "600000000"},
	}
	doc, err := pdf.NewMarotoReceiptGenerator("EUR").GenerateOrderReceipt(context.Background(), order, "Liberty")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF-")))
}

func TestGenerateOrderReceipt_PedidoHeredado(t *testing.T) {
	// Registro antiguo: sin orderId ni fecha, solo id y user.
	order := &entity.Order{ID: "L-1", User: "luis@gmail.com", Subtotal: decimal.NewFromInt(30)}
	doc, err := pdf.NewMarotoReceiptGenerator("EUR").GenerateOrderReceipt(context.Background(), order, "Liberty")
	require.NoError(t, err)
	assert.NotEmpty(t, doc)
}
