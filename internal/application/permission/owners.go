package permission

import "github.com/jhoicas/liberty-store/internal/domain/entity"

// DefaultOwnerEmails lista fija de dueños. No es un dato editable.
var DefaultOwnerEmails = []string{"juanandresito293@gmail.com"}

// OwnerPolicy lista de emails con privilegio máximo, independiente de lo almacenado.
type OwnerPolicy struct {
	emails map[string]struct{}
}

// NewOwnerPolicy construye la política con los dueños por defecto más extra
// (p. ej. el email sintético del acceso maestro cuando está habilitado).
func NewOwnerPolicy(extra ...string) *OwnerPolicy {
	p := &OwnerPolicy{emails: make(map[string]struct{})}
	for _, e := range append(append([]string(nil), DefaultOwnerEmails...), extra...) {
		if n := entity.NormalizeEmail(e); n != "" {
			p.emails[n] = struct{}{}
		}
	}
	return p
}

// IsOwner indica si email pertenece a la lista.
func (p *OwnerPolicy) IsOwner(email string) bool {
	_, ok := p.emails[entity.NormalizeEmail(email)]
	return ok
}

// Enrich deriva role/isOwner/isAdmin de la política: los añade a un dueño y los retira
// de quien ya no lo es. Devuelve true si u cambió.
func (p *OwnerPolicy) Enrich(u *entity.User) bool {
	before := *u
	if p.IsOwner(u.Email) {
		u.Role = entity.RoleOwner
		u.IsOwner = true
		u.IsAdmin = true
	} else {
		if u.Role == entity.RoleOwner {
			u.Role = ""
		}
		u.IsOwner = false
		u.IsAdmin = false
	}
	return before.Role != u.Role || before.IsOwner != u.IsOwner || before.IsAdmin != u.IsAdmin
}
