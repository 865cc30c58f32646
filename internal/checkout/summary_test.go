package checkout

import (
	"testing"

	"github.com/drstein77/storefront/internal/cart"
	"github.com/drstein77/storefront/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func cartWorth(price string, units int) cart.State {
	s := cart.Empty()
	for range units {
		s = cart.Reduce(s, cart.Add{Product: models.Product{ID: 1, Price: decimal.RequireFromString(price)}})
	}
	return s
}

func TestSummarizeWithoutCoupon(t *testing.T) {
	sum := Summarize(cartWorth("9.99", 3), Coupon{})
	assert.Equal(t, 3, sum.Items)
	assert.Equal(t, "29.97", sum.Subtotal.StringFixed(2))
	assert.True(t, sum.Discount.IsZero())
	assert.Equal(t, "29.97", sum.Total.StringFixed(2))
	assert.False(t, sum.CouponApplied)
	assert.Empty(t, sum.CouponError)
}

func TestSummarizeDiscount(t *testing.T) {
	sum := Summarize(cartWorth("9.99", 3), Coupon{Code: " DISCOUNT20 ", Supplied: true})
	assert.True(t, sum.CouponApplied)
	assert.Equal(t, "5.99", sum.Discount.StringFixed(2))
	assert.Equal(t, "23.98", sum.Total.StringFixed(2))
}

func TestSummarizeCouponErrors(t *testing.T) {
	sum := Summarize(cartWorth("10.00", 1), Coupon{Code: "", Supplied: true})
	assert.Equal(t, MsgCouponRequired, sum.CouponError)
	assert.Equal(t, "10.00", sum.Total.StringFixed(2))

	sum = Summarize(cartWorth("10.00", 1), Coupon{Code: "free-stuff", Supplied: true})
	assert.Equal(t, MsgCouponInvalid, sum.CouponError)
	assert.True(t, sum.Discount.IsZero())
	assert.False(t, sum.CouponApplied)
}

func TestSummarizeEmptyCart(t *testing.T) {
	sum := Summarize(cart.Empty(), Coupon{Code: "discount20", Supplied: true})
	assert.True(t, sum.Total.IsZero())
	assert.True(t, sum.Discount.IsZero())
}
