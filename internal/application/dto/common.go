package dto

// ErrorResponse cuerpo de error HTTP. Code es estable; Message va traducido según Accept-Language.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse confirmación simple con mensaje traducido.
type MessageResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ClientTokenResponse salida de POST /api/clients.
type ClientTokenResponse struct {
	ClientID  string `json:"client_id"`
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // segundos
}
