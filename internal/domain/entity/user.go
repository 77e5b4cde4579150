package entity

// Roles válidos. owner solo se deriva de la lista de dueños, nunca del registro almacenado.
const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleStaff   = "staff"
	RoleViewer  = "viewer"
)

// ProviderEmail proveedor de cuentas creadas con email/contraseña.
const ProviderEmail = "Email"

// User representa un usuario registrado (elemento de registeredUsers) o la sesión actual (clave user).
//
// Verified es puntero para distinguir registros heredados sin el campo.
// Password puede ser un hash bcrypt o texto plano heredado; nunca sale del servicio de auth.
type User struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password,omitempty"`
	Verified     *bool  `json:"verified,omitempty"`
	Provider     string `json:"provider,omitempty"`
	RegisterDate string `json:"registerDate,omitempty"`
	Role         string `json:"role,omitempty"`
	IsOwner      bool   `json:"isOwner,omitempty"`
	IsAdmin      bool   `json:"isAdmin,omitempty"`
	LoginTime    string `json:"loginTime,omitempty"`
}

// IsVerified devuelve el valor de Verified tratando la ausencia como verificado.
func (u *User) IsVerified() bool {
	return u.Verified == nil || *u.Verified
}

// Public devuelve una copia sin contraseña, apta para sesión o respuesta.
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Password = ""
	return &c
}

// Bool devuelve un puntero a b (atajo para Verified).
func Bool(b bool) *bool { return &b }

// PendingRegistration registro a la espera de verificación de email.
type PendingRegistration struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	CreatedAt int64  `json:"createdAt"`
}
