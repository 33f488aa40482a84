package cart

import (
	"errors"
	"sync"

	"github.com/Palgie/luxury-beauty-app/pkg/money"
)

// MaxQuantity is the per-line ceiling enforced by SetQuantity.
const MaxQuantity = 10

// ErrCurrencyMismatch is returned when an item priced in a different
// currency than the cart's existing lines is added.
var ErrCurrencyMismatch = errors.New("cart: item currency does not match cart currency")

// LineItem is one cart line. A product appears at most once; repeated
// adds increment Quantity.
type LineItem struct {
	SKU       string      `json:"sku"`
	Title     string      `json:"title"`
	BrandName string      `json:"brandName,omitempty"`
	ImageURL  string      `json:"imageUrl,omitempty"`
	UnitPrice money.Money `json:"price"`
	Quantity  int         `json:"quantity"`
}

// Subtotal returns unit price times quantity for this line.
func (li LineItem) Subtotal() money.Money {
	return li.UnitPrice.Mul(li.Quantity)
}

// Store is an in-memory cart. Lines keep insertion order and all
// operations are safe for concurrent use.
type Store struct {
	mu    sync.Mutex
	items []LineItem
}

// NewStore returns an empty cart.
func NewStore() *Store {
	return &Store{}
}

// findIndex returns the position of sku in items, or -1.
// Caller must hold mu.
func (s *Store) findIndex(sku string) int {
	for i, item := range s.items {
		if item.SKU == sku {
			return i
		}
	}
	return -1
}

// AddItem adds one unit of the product. An existing line has its
// quantity incremented; a new line is appended with quantity 1. The
// quantity on the passed item is ignored.
func (s *Store) AddItem(item LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) > 0 && item.UnitPrice.Currency != s.items[0].UnitPrice.Currency {
		return ErrCurrencyMismatch
	}

	if i := s.findIndex(item.SKU); i >= 0 {
		s.items[i].Quantity++
		return nil
	}

	item.Quantity = 1
	s.items = append(s.items, item)
	return nil
}

// RemoveItem deletes the line for sku. Absent lines are a no-op.
func (s *Store) RemoveItem(sku string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findIndex(sku)
	if i < 0 {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
}

// SetQuantity sets the line quantity, clamped to MaxQuantity. A
// quantity below one removes the line. Absent lines are a no-op.
func (s *Store) SetQuantity(sku string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.findIndex(sku)
	if i < 0 {
		return
	}
	if quantity < 1 {
		s.items = append(s.items[:i], s.items[i+1:]...)
		return
	}
	if quantity > MaxQuantity {
		quantity = MaxQuantity
	}
	s.items[i].Quantity = quantity
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Items returns a copy of the lines in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]LineItem, len(s.items))
	copy(out, s.items)
	return out
}

// TotalItemCount returns the sum of line quantities.
func (s *Store) TotalItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice returns the cart subtotal. Amounts are summed in minor
// units to avoid float drift. An empty cart totals zero.
func (s *Store) TotalPrice() money.Money {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.items) == 0 {
		return money.Money{}
	}

	var minor int64
	for _, item := range s.items {
		minor += item.UnitPrice.MinorUnits() * int64(item.Quantity)
	}
	return money.FromMinorUnits(minor, s.items[0].UnitPrice.Currency)
}
