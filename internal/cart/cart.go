// Package cart maintains the session's basket: line items keyed by
// (productID, size, color), merged on repeat additions, with totals derived
// fresh on every read. Guest carts live in memory only and are never sent to
// the remote service until checkout.
package cart

import (
	"sync"

	"github.com/goustty/storefront/pkg/money"
	"github.com/goustty/storefront/pkg/types"
)

// Line is one basket entry: a product snapshot plus the chosen size, color
// and quantity.
type Line struct {
	Product  types.Product
	Size     string
	Color    string
	Quantity int
}

// lineKey is the merge identity for additions.
type lineKey struct {
	productID string
	size      string
	color     string
}

// RemovalMode selects which fields identify a line for removal. The historic
// behavior matches on (productID, size) only, dropping color; exact matching
// uses the same tuple additions merge on.
type RemovalMode int

const (
	// RemoveByProductAndSize drops every line sharing productID and size,
	// whatever its color.
	RemoveByProductAndSize RemovalMode = iota
	// RemoveByFullKey drops only the exact (productID, size, color) line.
	RemoveByFullKey
)

// Store is the in-memory cart container.
type Store struct {
	mu          sync.RWMutex
	lines       []Line
	removalMode RemovalMode
	onAdd       func()
}

// Option configures store behavior.
type Option func(*Store)

// WithRemovalMode overrides the default (productID, size) removal matching.
func WithRemovalMode(mode RemovalMode) Option {
	return func(s *Store) {
		s.removalMode = mode
	}
}

// WithAddHook registers a callback fired after every successful addition,
// the hook the presentation layer uses to open the cart panel.
func WithAddHook(hook func()) Option {
	return func(s *Store) {
		s.onAdd = hook
	}
}

// NewStore builds an empty cart.
func NewStore(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Add merges the product into the basket. An existing line with the same
// (productID, size, color) has its quantity incremented by one; otherwise a
// new line with quantity one is appended.
func (s *Store) Add(product types.Product, size, color string) {
	key := lineKey{productID: product.ID, size: size, color: color}

	s.mu.Lock()
	merged := false
	for i := range s.lines {
		if s.keyOf(s.lines[i]) == key {
			s.lines[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, Line{Product: product, Size: size, Color: color, Quantity: 1})
	}
	hook := s.onAdd
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
}

// Remove drops lines matching the product and size under the configured
// removal mode.
func (s *Store) Remove(productID, size string) {
	s.removeMatching(productID, size, "")
}

// RemoveLine drops the exact (productID, size, color) line regardless of the
// configured mode.
func (s *Store) RemoveLine(productID, size, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.lines[:0]
	for _, line := range s.lines {
		if line.Product.ID == productID && line.Size == size && line.Color == color {
			continue
		}
		kept = append(kept, line)
	}
	s.lines = kept
}

func (s *Store) removeMatching(productID, size, color string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.lines[:0]
	for _, line := range s.lines {
		if line.Product.ID == productID && line.Size == size {
			if s.removalMode == RemoveByProductAndSize || line.Color == color {
				continue
			}
		}
		kept = append(kept, line)
	}
	s.lines = kept
}

// Clear empties the basket unconditionally.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
}

// Lines returns a copy of the current basket in insertion order.
func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Total recomputes the basket subtotal from scratch.
func (s *Store) Total() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	amounts := make([]float64, 0, len(s.lines))
	for _, line := range s.lines {
		amounts = append(amounts, money.LineTotal(line.Product.Price, line.Quantity))
	}
	return money.Sum(amounts...)
}

// Count recomputes the total item quantity from scratch.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

func (s *Store) keyOf(line Line) lineKey {
	return lineKey{productID: line.Product.ID, size: line.Size, color: line.Color}
}
