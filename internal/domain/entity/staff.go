package entity

// Estados de un miembro del staff.
const (
	StaffActive   = "active"
	StaffInactive = "inactive"
)

// StaffMember entrada de la lista staffList, gestionada por el dueño.
type StaffMember struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	AddedDate string `json:"addedDate"`
	AddedBy   string `json:"addedBy"`
	Status    string `json:"status"`
}

// ValidStaffRole roles asignables vía staffList (owner nunca).
func ValidStaffRole(r string) bool {
	return r == RoleManager || r == RoleStaff || r == RoleViewer
}
