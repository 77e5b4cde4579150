package permission

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/domain"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// StaffService gestiona la plantilla staffList. Toda mutación exige manage_staff.
type StaffService struct {
	docs     ports.DocumentStore
	resolver *Resolver
	owners   *OwnerPolicy
	now      func() time.Time
}

// NewStaffService construye el servicio. now puede ser nil (reloj del sistema).
func NewStaffService(docs ports.DocumentStore, owners *OwnerPolicy, now func() time.Time) *StaffService {
	if now == nil {
		now = time.Now
	}
	return &StaffService{docs: docs, resolver: NewResolver(owners), owners: owners, now: now}
}

// Roster devuelve la plantilla almacenada (vacía si falta o está corrupta).
func (s *StaffService) Roster(ctx context.Context) []entity.StaffMember {
	var roster []entity.StaffMember
	s.docs.GetJSON(ctx, entity.KeyStaffList, &roster)
	return roster
}

// GrantFor resuelve el permiso de la sesión contra la plantilla actual.
func (s *StaffService) GrantFor(ctx context.Context, session *entity.User) Grant {
	return s.resolver.Resolve(session, s.Roster(ctx))
}

// Add incorpora o reactiva un miembro con el rol indicado.
func (s *StaffService) Add(ctx context.Context, actor *entity.User, email, role string) (*entity.StaffMember, error) {
	if err := s.authorize(ctx, actor); err != nil {
		return nil, err
	}
	email = entity.NormalizeEmail(email)
	if !entity.ValidEmailShape(email) {
		return nil, domain.ErrInvalidEmail
	}
	if !entity.ValidStaffRole(role) {
		return nil, fmt.Errorf("rol %q: %w", role, domain.ErrInvalidInput)
	}
	if s.owners.IsOwner(email) {
		return nil, fmt.Errorf("un dueño no forma parte de la plantilla: %w", domain.ErrInvalidInput)
	}

	roster := s.Roster(ctx)
	member := entity.StaffMember{
		Email:     email,
		Role:      role,
		AddedDate: s.now().UTC().Format(time.RFC3339),
		AddedBy:   entity.NormalizeEmail(actor.Email),
		Status:    entity.StaffActive,
	}
	if i := indexOf(roster, email); i >= 0 {
		roster[i].Role = role
		roster[i].Status = entity.StaffActive
		member = roster[i]
	} else {
		roster = append(roster, member)
	}
	if !s.docs.SetJSON(ctx, entity.KeyStaffList, roster) {
		return nil, domain.ErrStorage
	}
	return &member, nil
}

// Remove quita a un miembro de la plantilla.
func (s *StaffService) Remove(ctx context.Context, actor *entity.User, email string) error {
	if err := s.authorize(ctx, actor); err != nil {
		return err
	}
	roster := s.Roster(ctx)
	i := indexOf(roster, entity.NormalizeEmail(email))
	if i < 0 {
		return domain.ErrNotFound
	}
	roster = append(roster[:i], roster[i+1:]...)
	if !s.docs.SetJSON(ctx, entity.KeyStaffList, roster) {
		return domain.ErrStorage
	}
	return nil
}

// SetStatus activa o desactiva a un miembro sin perder su rol.
func (s *StaffService) SetStatus(ctx context.Context, actor *entity.User, email, status string) error {
	if err := s.authorize(ctx, actor); err != nil {
		return err
	}
	if status != entity.StaffActive && status != entity.StaffInactive {
		return fmt.Errorf("estado %q: %w", status, domain.ErrInvalidInput)
	}
	roster := s.Roster(ctx)
	i := indexOf(roster, entity.NormalizeEmail(email))
	if i < 0 {
		return domain.ErrNotFound
	}
	roster[i].Status = status
	if !s.docs.SetJSON(ctx, entity.KeyStaffList, roster) {
		return domain.ErrStorage
	}
	return nil
}

func (s *StaffService) authorize(ctx context.Context, actor *entity.User) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if !s.GrantFor(ctx, actor).Has(CapManageStaff) {
		return domain.ErrForbidden
	}
	return nil
}

func indexOf(roster []entity.StaffMember, email string) int {
	for i, m := range roster {
		if entity.NormalizeEmail(m.Email) == email {
			return i
		}
	}
	return -1
}
