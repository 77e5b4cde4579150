package dto

import (
	"github.com/jhoicas/liberty-store/internal/application/permission"
	"github.com/jhoicas/liberty-store/internal/application/verification"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// RegisterRequest entrada de registro (síncrono o primer paso con verificación).
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest entrada de login. Email admite el usuario maestro cuando está habilitado.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyRequest entrada del segundo paso del registro.
type VerifyRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// SessionResponse sesión actual con mensaje opcional (ej: acceso como dueño).
type SessionResponse struct {
	User    *entity.User `json:"user"`
	Message string       `json:"message,omitempty"`
}

// RegistrationStartedResponse resultado del envío del código.
type RegistrationStartedResponse struct {
	verification.IssueResult
	Message string `json:"message"`
}

// VerifyResponse resultado de la verificación; User es nil si no había registro pendiente.
type VerifyResponse struct {
	Verified bool         `json:"verified"`
	User     *entity.User `json:"user,omitempty"`
	Message  string       `json:"message"`
}

// PermissionsResponse rol y capacidades efectivas de la sesión.
type PermissionsResponse struct {
	permission.Grant
	Email string `json:"email,omitempty"`
}
