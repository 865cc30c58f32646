package catalog

import (
	"slices"
	"strings"

	"github.com/drstein77/storefront/internal/models"
	"github.com/shopspring/decimal"
)

// Sort orders understood by Filter.
const (
	SortFeatured  = "featured"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
	SortRating    = "rating"
)

// Filter narrows and orders a product list the way the product listing does.
type Filter struct {
	Search   string
	Category string
	MinPrice decimal.Decimal
	MaxPrice decimal.Decimal
	Sort     string
}

// DefaultFilter matches every product priced from 0 to 1000 in upstream order.
func DefaultFilter() Filter {
	return Filter{
		MinPrice: decimal.Zero,
		MaxPrice: decimal.NewFromInt(1000),
		Sort:     SortFeatured,
	}
}

// Apply returns the products matching f, ordered by f.Sort. Ties keep
// upstream order.
func (f Filter) Apply(products []models.Product) []models.Product {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	result := make([]models.Product, 0, len(products))
	for _, p := range products {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if p.Price.LessThan(f.MinPrice) || p.Price.GreaterThan(f.MaxPrice) {
			continue
		}
		result = append(result, p)
	}

	switch f.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(result, func(a, b models.Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceDesc:
		slices.SortStableFunc(result, func(a, b models.Product) int { return b.Price.Cmp(a.Price) })
	case SortRating:
		slices.SortStableFunc(result, func(a, b models.Product) int { return b.Rating.Cmp(a.Rating) })
	}
	return result
}

// Categories lists the distinct categories of products in first-seen order.
func Categories(products []models.Product) []string {
	var out []string
	for _, p := range products {
		if !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	return out
}
