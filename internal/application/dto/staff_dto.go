package dto

import "github.com/jhoicas/liberty-store/internal/domain/entity"

// AddStaffRequest alta o reactivación de un miembro.
type AddStaffRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// UpdateStaffRequest cambio de estado (active | inactive).
type UpdateStaffRequest struct {
	Status string `json:"status"`
}

// StaffListResponse plantilla actual.
type StaffListResponse struct {
	Items []entity.StaffMember `json:"items"`
}

// PurgeRequest borrado administrativo. Scope: users (por defecto) o all.
type PurgeRequest struct {
	Scope    string `json:"scope"`
	KeepDemo bool   `json:"keepDemo"`
}

// UserListResponse usuarios registrados sin contraseña.
type UserListResponse struct {
	Items []*entity.User `json:"items"`
	Total int            `json:"total"`
}
