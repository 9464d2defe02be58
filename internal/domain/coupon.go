package domain

import "time"

// Coupon discount type constants.
const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

// Coupon represents a cart-level discount code. For percentage coupons
// DiscountValue is a percentage (0–100); for fixed coupons it is an amount in
// cents. MaxUses of nil means unlimited.
type Coupon struct {
	ID              string    `json:"id"`
	Code            string    `json:"code"`
	Description     string    `json:"description"`
	DiscountType    string    `json:"discount_type"`
	DiscountValue   int64     `json:"discount_value"`
	MinimumPurchase int64     `json:"minimum_purchase"`
	MaxUses         *int      `json:"max_uses,omitempty"`
	UsedCount       int       `json:"used_count"`
	IsActive        bool      `json:"is_active"`
	StartDate       time.Time `json:"start_date"`
	ExpiryDate      time.Time `json:"expiry_date"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// IsExpired reports whether the coupon's expiry date has passed.
func (c *Coupon) IsExpired(now time.Time) bool {
	return now.After(c.ExpiryDate)
}

// IsMaxedOut reports whether the coupon has reached its usage limit.
func (c *Coupon) IsMaxedOut() bool {
	return c.MaxUses != nil && c.UsedCount >= *c.MaxUses
}

// Discount computes the discount for the given order amount in cents. The
// result never exceeds the order amount.
func (c *Coupon) Discount(orderAmount int64) int64 {
	var discount int64
	switch c.DiscountType {
	case CouponTypePercentage:
		discount = DiscountedPriceDelta(orderAmount, int(c.DiscountValue))
	case CouponTypeFixed:
		discount = c.DiscountValue
	}
	if discount > orderAmount {
		discount = orderAmount
	}
	return discount
}

// DiscountedPriceDelta returns the amount removed from a price by a
// percentage discount, using the same cent-precision rounding as
// DiscountedPrice.
func DiscountedPriceDelta(price int64, discountPercent int) int64 {
	return price - DiscountedPrice(price, discountPercent)
}

// IsValidCouponType checks whether the given type string is valid.
func IsValidCouponType(t string) bool {
	return t == CouponTypePercentage || t == CouponTypeFixed
}
