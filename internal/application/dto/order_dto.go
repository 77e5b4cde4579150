package dto

import "github.com/jhoicas/liberty-store/internal/domain/entity"

// PlaceOrderRequest datos del formulario de checkout.
type PlaceOrderRequest struct {
	Customer entity.CustomerInfo `json:"customer"`
}

// UpdatePaymentRequest cambio de estado de pago; Notes nil deja las notas como estaban.
type UpdatePaymentRequest struct {
	PaymentStatus string  `json:"paymentStatus"`
	Notes         *string `json:"adminNotes"`
}

// OrderListResponse listado de pedidos.
type OrderListResponse struct {
	Items []entity.Order `json:"items"`
	Total int            `json:"total"`
}
