package permission_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/liberty-store/internal/application/permission"
	"github.com/jhoicas/liberty-store/internal/domain"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
	"github.com/jhoicas/liberty-store/internal/infrastructure/kvstore"
)

const ownerEmail = "juanandresito293@gmail.com"

func newService() *permission.StaffService {
	docs := kvstore.NewStore(kvstore.NewMemory(0), zerolog.Nop())
	now := func() time.Time { return time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC) }
	return permission.NewStaffService(docs, permission.NewOwnerPolicy(), now)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolver
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_Invitado(t *testing.T) {
	g := permission.NewResolver(permission.NewOwnerPolicy()).Resolve(nil, nil)
	assert.True(t, g.Guest)
	assert.Equal(t, entity.RoleViewer, g.Role)
	assert.Empty(t, g.Capabilities)
}

func TestResolve_DuenoTieneTodo(t *testing.T) {
	g := permission.NewResolver(permission.NewOwnerPolicy()).Resolve(&entity.User{Email: " JuanAndresito293@gmail.com "}, nil)
	assert.Equal(t, entity.RoleOwner, g.Role)
	for _, c := range permission.AllCapabilities {
		assert.True(t, g.Has(c), c)
	}
}

func TestResolve_IgnoraCamposDelRegistro(t *testing.T) {
	forged := &entity.User{Email: "ana@gmail.com", Role: entity.RoleOwner, IsOwner: true, IsAdmin: true}
	g := permission.NewResolver(permission.NewOwnerPolicy()).Resolve(forged, nil)
	assert.Equal(t, entity.RoleViewer, g.Role)
	assert.Empty(t, g.Capabilities)
	assert.False(t, g.Guest)
}

func TestResolve_PorPlantilla(t *testing.T) {
	r := permission.NewResolver(permission.NewOwnerPolicy())
	roster := []entity.StaffMember{
		{Email: "gestor@gmail.com", Role: entity.RoleManager, Status: entity.StaffActive},
		{Email: "baja@gmail.com", Role: entity.RoleManager, Status: entity.StaffInactive},
		{Email: "lector@gmail.com", Role: entity.RoleViewer, Status: entity.StaffActive},
	}

	cases := []struct {
		email string
		role  string
		has   []permission.Capability
		lacks []permission.Capability
	}{
		{"gestor@gmail.com", entity.RoleManager,
			[]permission.Capability{permission.CapPayments, permission.CapDashboard, permission.CapMessages},
			[]permission.Capability{permission.CapManageStaff, permission.CapDestructive}},
		{"baja@gmail.com", entity.RoleViewer, nil,
			[]permission.Capability{permission.CapPayments, permission.CapDashboard}},
		{"lector@gmail.com", entity.RoleViewer,
			[]permission.Capability{permission.CapDashboard, permission.CapAnalytics},
			[]permission.Capability{permission.CapPayments}},
	}
	for _, tc := range cases {
		t.Run(tc.email, func(t *testing.T) {
			g := r.Resolve(&entity.User{Email: tc.email}, roster)
			assert.Equal(t, tc.role, g.Role)
			for _, c := range tc.has {
				assert.True(t, g.Has(c), c)
			}
			for _, c := range tc.lacks {
				assert.False(t, g.Has(c), c)
			}
		})
	}
}

func TestEnrich_DerivaYRetiraMarcas(t *testing.T) {
	p := permission.NewOwnerPolicy("maestro@liberty.local")
	u := &entity.User{Email: "maestro@liberty.local"}
	assert.True(t, p.Enrich(u))
	assert.True(t, u.IsOwner)
	assert.False(t, p.Enrich(u), "sin cambios la segunda vez")

	impostor := &entity.User{Email: "ana@gmail.com", Role: entity.RoleOwner, IsAdmin: true}
	assert.True(t, p.Enrich(impostor))
	assert.Empty(t, impostor.Role)
	assert.False(t, impostor.IsAdmin)
}

// ──────────────────────────────────────────────────────────────────────────────
// StaffService
// ──────────────────────────────────────────────────────────────────────────────

func TestStaff_SoloDuenoGestiona(t *testing.T) {
	ctx := context.Background()
	s := newService()
	dueno := &entity.User{Email: ownerEmail}

	m, err := s.Add(ctx, dueno, " Gestor@Gmail.com ", entity.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, "gestor@gmail.com", m.Email)
	assert.Equal(t, ownerEmail, m.AddedBy)
	assert.Equal(t, "2026-02-01T09:00:00Z", m.AddedDate)

	// Un manager no tiene manage_staff.
	_, err = s.Add(ctx, &entity.User{Email: "gestor@gmail.com"}, "otro@gmail.com", entity.RoleStaff)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = s.Add(ctx, nil, "otro@gmail.com", entity.RoleStaff)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestStaff_Validaciones(t *testing.T) {
	ctx := context.Background()
	s := newService()
	dueno := &entity.User{Email: ownerEmail}

	_, err := s.Add(ctx, dueno, "no-es-email", entity.RoleStaff)
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	_, err = s.Add(ctx, dueno, "ana@gmail.com", entity.RoleOwner)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = s.Add(ctx, dueno, ownerEmail, entity.RoleStaff)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestStaff_ReactivarYEliminar(t *testing.T) {
	ctx := context.Background()
	s := newService()
	dueno := &entity.User{Email: ownerEmail}
	_, err := s.Add(ctx, dueno, "ana@gmail.com", entity.RoleStaff)
	require.NoError(t, err)

	require.NoError(t, s.SetStatus(ctx, dueno, "ana@gmail.com", entity.StaffInactive))
	assert.False(t, s.GrantFor(ctx, &entity.User{Email: "ana@gmail.com"}).Has(permission.CapDashboard))
	assert.ErrorIs(t, s.SetStatus(ctx, dueno, "ana@gmail.com", "suspendido"), domain.ErrInvalidInput)

	m, err := s.Add(ctx, dueno, "ana@gmail.com", entity.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, entity.StaffActive, m.Status)
	require.Len(t, s.Roster(ctx), 1, "reactivar no duplica")
	assert.True(t, s.GrantFor(ctx, &entity.User{Email: "ana@gmail.com"}).Has(permission.CapPayments))

	require.NoError(t, s.Remove(ctx, dueno, "ANA@gmail.com"))
	assert.Empty(t, s.Roster(ctx))
	assert.ErrorIs(t, s.Remove(ctx, dueno, "ana@gmail.com"), domain.ErrNotFound)
}
