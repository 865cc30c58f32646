package checkout

import (
	"strings"

	"github.com/drstein77/storefront/internal/cart"
	"github.com/shopspring/decimal"
)

const (
	MsgCouponRequired = "Please enter a coupon code"
	MsgCouponInvalid  = "Invalid coupon code"
)

// coupons maps lower-case codes to the fraction of the subtotal they take off.
var coupons = map[string]decimal.Decimal{
	"discount20": decimal.RequireFromString("0.20"),
}

// Coupon is a code entered by the shopper. Supplied distinguishes an empty
// submission from no submission at all.
type Coupon struct {
	Code     string
	Supplied bool
}

// Summary is the order summary shown next to the cart.
type Summary struct {
	Items         int             `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Shipping      decimal.Decimal `json:"shipping"`
	Total         decimal.Decimal `json:"total"`
	CouponApplied bool            `json:"couponApplied"`
	CouponError   string          `json:"couponError,omitempty"`
}

// Summarize prices the cart and applies the coupon, if any. Shipping is free.
func Summarize(s cart.State, coupon Coupon) Summary {
	sum := Summary{
		Items:    s.TotalItems,
		Subtotal: s.TotalPrice.Round(2),
		Discount: decimal.Zero,
		Shipping: decimal.Zero,
	}

	code := strings.ToLower(strings.TrimSpace(coupon.Code))
	switch {
	case !coupon.Supplied:
	case code == "":
		sum.CouponError = MsgCouponRequired
	default:
		rate, ok := coupons[code]
		if !ok {
			sum.CouponError = MsgCouponInvalid
			break
		}
		sum.Discount = s.TotalPrice.Mul(rate).Round(2)
		sum.CouponApplied = true
	}

	sum.Total = sum.Subtotal.Sub(sum.Discount).Add(sum.Shipping)
	return sum
}
