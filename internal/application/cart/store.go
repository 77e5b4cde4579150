// Package cart implementa el carrito por usuario: una lista ordenada de líneas que se
// persiste completa tras cada mutación.
package cart

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/liberty-store/internal/application/ports"
	"github.com/jhoicas/liberty-store/internal/domain"
	"github.com/jhoicas/liberty-store/internal/domain/entity"
)

// uriComponent deshace los escapes de QueryEscape que encodeURIComponent no aplica,
// para que la clave coincida con la que escribía el navegador.
var uriComponent = strings.NewReplacer("+", "%20", "%21", "!", "%27", "'", "%28", "(", "%29", ")", "%2A", "*")

// MaxQuantity unidades máximas de una línea.
const MaxQuantity = 9999

// KeyFor clave del carrito de email: cart_<encodeURIComponent(email en minúsculas)>.
func KeyFor(email string) string {
	return entity.PrefixUserCart + uriComponent.Replace(url.QueryEscape(entity.NormalizeEmail(email)))
}

// Store carrito ligado a la sesión que lo abrió.
type Store struct {
	docs ports.DocumentStore
	key  string
}

// Open abre el carrito del usuario de la sesión. Sin sesión devuelve ErrUnauthenticated.
func Open(docs ports.DocumentStore, session *entity.User) (*Store, error) {
	if session == nil || strings.TrimSpace(session.Email) == "" {
		return nil, domain.ErrUnauthenticated
	}
	return &Store{docs: docs, key: KeyFor(session.Email)}, nil
}

// Key clave de almacenamiento del carrito.
func (s *Store) Key() string { return s.key }

// Items líneas actuales. Las líneas con cantidad < 1 de datos heredados se descartan.
func (s *Store) Items(ctx context.Context) []entity.CartItem {
	var items []entity.CartItem
	s.docs.GetJSON(ctx, s.key, &items)
	out := items[:0]
	for _, it := range items {
		if it.Quantity >= 1 {
			out = append(out, it)
		}
	}
	return out
}

func (s *Store) save(ctx context.Context, items []entity.CartItem) error {
	if items == nil {
		items = []entity.CartItem{}
	}
	if !s.docs.SetJSON(ctx, s.key, items) {
		return domain.ErrStorage
	}
	return nil
}

// Add suma qty unidades (1 si qty < 1). Si ya existe una línea con la misma identidad
// se incrementa su cantidad en lugar de duplicarla. Una línea no pasa de MaxQuantity.
func (s *Store) Add(ctx context.Context, item entity.CartItem, qty int) ([]entity.CartItem, error) {
	if item.Identity() == "" {
		return nil, fmt.Errorf("producto sin id ni nombre: %w", domain.ErrInvalidInput)
	}
	if item.Price.IsNegative() {
		return nil, fmt.Errorf("precio negativo: %w", domain.ErrInvalidInput)
	}
	if qty < 1 {
		qty = 1
	}
	if qty > MaxQuantity {
		return nil, fmt.Errorf("cantidad %d supera %d: %w", qty, MaxQuantity, domain.ErrInvalidInput)
	}
	items := s.Items(ctx)
	merged := false
	for i := range items {
		if items[i].Identity() == item.Identity() {
			if items[i].Quantity > MaxQuantity-qty {
				return nil, fmt.Errorf("cantidad supera %d: %w", MaxQuantity, domain.ErrInvalidInput)
			}
			items[i].Quantity += qty
			merged = true
			break
		}
	}
	if !merged {
		item.Quantity = qty
		items = append(items, item)
	}
	if err := s.save(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Remove elimina la línea en index.
func (s *Store) Remove(ctx context.Context, index int) ([]entity.CartItem, error) {
	items := s.Items(ctx)
	if index < 0 || index >= len(items) {
		return nil, domain.ErrIndexOutOfRange
	}
	items = append(items[:index], items[index+1:]...)
	if err := s.save(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Increase suma una unidad a la línea en index.
func (s *Store) Increase(ctx context.Context, index int) ([]entity.CartItem, error) {
	items := s.Items(ctx)
	if index < 0 || index >= len(items) {
		return nil, domain.ErrIndexOutOfRange
	}
	if items[index].Quantity >= MaxQuantity {
		return nil, fmt.Errorf("cantidad supera %d: %w", MaxQuantity, domain.ErrInvalidInput)
	}
	items[index].Quantity++
	if err := s.save(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Decrease resta una unidad; por debajo de 1 la línea desaparece.
func (s *Store) Decrease(ctx context.Context, index int) ([]entity.CartItem, error) {
	items := s.Items(ctx)
	if index < 0 || index >= len(items) {
		return nil, domain.ErrIndexOutOfRange
	}
	if items[index].Quantity > 1 {
		items[index].Quantity--
	} else {
		items = append(items[:index], items[index+1:]...)
	}
	if err := s.save(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

// Clear vacía el carrito.
func (s *Store) Clear(ctx context.Context) error {
	return s.save(ctx, nil)
}

// Count número total de unidades.
func (s *Store) Count(ctx context.Context) int {
	return Count(s.Items(ctx))
}

// Total suma de precio × cantidad.
func (s *Store) Total(ctx context.Context) decimal.Decimal {
	return Total(s.Items(ctx))
}

// Count número total de unidades de items.
func Count(items []entity.CartItem) int {
	n := 0
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

// Total suma de precio × cantidad de items. Para mostrar usar StringFixed(2).
func Total(items []entity.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
