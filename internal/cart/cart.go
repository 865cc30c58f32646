// Package cart holds the cart state and the pure transitions applied to it.
//
// Every transition takes the current State and an Action and returns a new
// State; the input is never modified, so callers can keep the previous value
// around for comparison or rollback.
package cart

import (
	"slices"

	"github.com/drstein77/storefront/internal/models"
	"github.com/shopspring/decimal"
)

// MaxQuantity caps a single line when a cart is rebuilt from stored or
// imported items.
const MaxQuantity = 1_000_000

// State is the aggregate cart record. Items keep insertion order.
type State struct {
	Items      []models.LineItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
}

// Empty returns the initial cart.
func Empty() State {
	return State{Items: []models.LineItem{}, TotalPrice: decimal.Zero}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	items := slices.Clone(s.Items)
	if items == nil {
		items = []models.LineItem{}
	}
	return State{Items: items, TotalItems: s.TotalItems, TotalPrice: s.TotalPrice}
}

// Find returns the index of the line item with the given product id, or -1.
func (s State) Find(id int) int {
	return slices.IndexFunc(s.Items, func(li models.LineItem) bool { return li.ID == id })
}

// Action is a discrete cart mutation.
type Action interface {
	apply(State) State
}

// Add puts one unit of Product into the cart.
type Add struct{ Product models.Product }

// Remove takes one unit of Product out of the cart.
type Remove struct{ Product models.Product }

// RemoveAll drops every unit of Product in one step.
type RemoveAll struct{ Product models.Product }

// Clear empties the cart.
type Clear struct{}

// Replace swaps the whole item list, recomputing totals.
type Replace struct{ Items []models.LineItem }

// Reduce applies a to s and returns the resulting state.
func Reduce(s State, a Action) State {
	if a == nil {
		return s
	}
	return a.apply(s)
}

func (a Add) apply(s State) State {
	next := s.Clone()
	idx := next.Find(a.Product.ID)
	if idx == -1 {
		next.Items = append(next.Items, lineItemOf(a.Product))
		next.TotalPrice = next.TotalPrice.Add(a.Product.Price)
	} else {
		// The stored unit price is what the line is charged at; using it keeps
		// TotalPrice equal to the sum of line subtotals.
		next.Items[idx].Quantity++
		next.TotalPrice = next.TotalPrice.Add(next.Items[idx].Price)
	}
	next.TotalItems++
	return next
}

func (a Remove) apply(s State) State {
	idx := s.Find(a.Product.ID)
	if idx == -1 {
		return s
	}
	next := s.Clone()
	item := next.Items[idx]
	if item.Quantity <= 1 {
		next.Items = slices.Delete(next.Items, idx, idx+1)
	} else {
		next.Items[idx].Quantity--
	}
	next.TotalItems--
	next.TotalPrice = next.TotalPrice.Sub(item.Price)
	return next
}

func (a RemoveAll) apply(s State) State {
	idx := s.Find(a.Product.ID)
	if idx == -1 {
		return s
	}
	next := s.Clone()
	item := next.Items[idx]
	next.Items = slices.Delete(next.Items, idx, idx+1)
	next.TotalItems -= item.Quantity
	next.TotalPrice = next.TotalPrice.Sub(item.Subtotal())
	return next
}

func (Clear) apply(State) State {
	return Empty()
}

func (a Replace) apply(State) State {
	return Recompute(a.Items)
}

// Recompute builds a State from items alone. Lines with a non-positive
// quantity or a negative price are dropped, repeated ids are merged into the
// first occurrence keeping the first-seen unit price, and every line is
// capped at MaxQuantity.
func Recompute(items []models.LineItem) State {
	s := Empty()
	for _, li := range items {
		if li.Quantity <= 0 || li.Price.IsNegative() {
			continue
		}
		if idx := s.Find(li.ID); idx != -1 {
			s.Items[idx].Quantity = addCapped(s.Items[idx].Quantity, li.Quantity)
			continue
		}
		li.Quantity = min(li.Quantity, MaxQuantity)
		s.Items = append(s.Items, li)
	}
	for _, li := range s.Items {
		s.TotalItems += li.Quantity
		s.TotalPrice = s.TotalPrice.Add(li.Subtotal())
	}
	return s
}

// addCapped sums two positive quantities without exceeding MaxQuantity.
func addCapped(a, b int) int {
	if b >= MaxQuantity-a {
		return MaxQuantity
	}
	return a + b
}

func lineItemOf(p models.Product) models.LineItem {
	return models.LineItem{
		ID:       p.ID,
		Title:    p.Title,
		Price:    p.Price,
		Category: p.Category,
		Image:    p.Image,
		Quantity: 1,
	}
}
