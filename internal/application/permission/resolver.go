// Package permission deriva el rol y las capacidades de una sesión a partir de la lista de dueños
// y de la plantilla de staff. No lee ni escribe almacenamiento.
package permission

import (
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// Capability acción protegida del panel de administración.
type Capability string

const (
	CapManageStaff Capability = "manage_staff"
	CapPayments    Capability = "payments"
	CapDashboard   Capability = "dashboard"
	CapMessages    Capability = "messages"
	CapAnalytics   Capability = "analytics"
	CapDestructive Capability = "destructive"
)

// AllCapabilities conjunto completo (dueño).
var AllCapabilities = []Capability{
	CapManageStaff, CapPayments, CapDashboard, CapMessages, CapAnalytics, CapDestructive,
}

var roleCapabilities = map[string][]Capability{
	entity.RoleManager: {CapPayments, CapDashboard, CapMessages},
	entity.RoleStaff:   {CapDashboard, CapMessages},
	entity.RoleViewer:  {CapDashboard, CapAnalytics},
}

// Grant resultado de la resolución.
type Grant struct {
	Role         string       `json:"role"`
	Capabilities []Capability `json:"capabilities"`
	Guest        bool         `json:"guest"`
}

// Has indica si el permiso incluye c.
func (g Grant) Has(c Capability) bool {
	for _, have := range g.Capabilities {
		if have == c {
			return true
		}
	}
	return false
}

// Resolver función pura sesión + plantilla -> permiso.
type Resolver struct {
	owners *OwnerPolicy
}

// NewResolver construye el resolvedor sobre la política de dueños.
func NewResolver(owners *OwnerPolicy) *Resolver {
	return &Resolver{owners: owners}
}

// Resolve calcula el permiso. Los campos role/isOwner/isAdmin del registro se ignoran:
// solo la lista de dueños y una entrada activa de la plantilla otorgan capacidades.
func (r *Resolver) Resolve(session *entity.User, roster []entity.StaffMember) Grant {
	if session == nil || entity.NormalizeEmail(session.Email) == "" {
		return Grant{Role: entity.RoleViewer, Capabilities: []Capability{}, Guest: true}
	}
	email := entity.NormalizeEmail(session.Email)
	if r.owners.IsOwner(email) {
		return Grant{Role: entity.RoleOwner, Capabilities: append([]Capability(nil), AllCapabilities...)}
	}
	for _, m := range roster {
		if entity.NormalizeEmail(m.Email) != email || m.Status != entity.StaffActive {
			continue
		}
		caps, ok := roleCapabilities[m.Role]
		if !ok {
			break
		}
		return Grant{Role: m.Role, Capabilities: append([]Capability(nil), caps...)}
	}
	return Grant{Role: entity.RoleViewer, Capabilities: []Capability{}}
}
