package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry as the storefront presents it.
type Product struct {
	ID          int             `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Category    string          `json:"category"`
	Rating      decimal.Decimal `json:"rating"`
}

// Specifications are the physical attributes shown on a product detail view.
type Specifications struct {
	Weight     string `json:"weight"`
	Dimensions string `json:"dimensions"`
	Color      string `json:"color"`
	Material   string `json:"material"`
}

// ProductDetail extends Product with the fields only the detail view needs.
type ProductDetail struct {
	Product
	Stock          int            `json:"stock"`
	Features       []string       `json:"features"`
	Specifications Specifications `json:"specifications"`
}

type Review struct {
	ID        int       `json:"id"`
	ProductID int       `json:"productId"`
	Username  string    `json:"username"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Date      time.Time `json:"date"`
}

// LineItem is one distinct product in the cart together with its quantity.
type LineItem struct {
	ID       int             `json:"id"`
	Title    string          `json:"title"`
	Price    decimal.Decimal `json:"price"`
	Category string          `json:"category"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// Subtotal returns price multiplied by quantity.
func (li LineItem) Subtotal() decimal.Decimal {
	return li.Price.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
