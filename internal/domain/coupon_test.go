package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Coupon Type Validation Tests
// ============================================================================

func TestIsValidCouponType_Valid(t *testing.T) {
	assert.True(t, IsValidCouponType(CouponTypePercentage))
	assert.True(t, IsValidCouponType(CouponTypeFixed))
}

func TestIsValidCouponType_Invalid(t *testing.T) {
	assert.False(t, IsValidCouponType("unknown"))
	assert.False(t, IsValidCouponType(""))
	assert.False(t, IsValidCouponType("PERCENTAGE"))
}

// ============================================================================
// Coupon Lifecycle Tests
// ============================================================================

func TestCoupon_IsExpired(t *testing.T) {
	now := time.Now()
	c := Coupon{ExpiryDate: now.Add(-time.Hour)}
	assert.True(t, c.IsExpired(now))

	c = Coupon{ExpiryDate: now.Add(time.Hour)}
	assert.False(t, c.IsExpired(now))
}

func TestCoupon_IsMaxedOut(t *testing.T) {
	limit := 10
	c := Coupon{MaxUses: &limit, UsedCount: 10}
	assert.True(t, c.IsMaxedOut())

	c = Coupon{MaxUses: &limit, UsedCount: 9}
	assert.False(t, c.IsMaxedOut())

	c = Coupon{MaxUses: nil, UsedCount: 1000}
	assert.False(t, c.IsMaxedOut(), "nil MaxUses means unlimited")
}

// ============================================================================
// Coupon Discount Tests
// ============================================================================

func TestCoupon_Discount_Percentage(t *testing.T) {
	c := Coupon{DiscountType: CouponTypePercentage, DiscountValue: 10}
	assert.Equal(t, int64(1000), c.Discount(10000))
}

func TestCoupon_Discount_Fixed(t *testing.T) {
	c := Coupon{DiscountType: CouponTypeFixed, DiscountValue: 500}
	assert.Equal(t, int64(500), c.Discount(10000))
}

func TestCoupon_Discount_CappedAtOrderAmount(t *testing.T) {
	c := Coupon{DiscountType: CouponTypeFixed, DiscountValue: 5000}
	assert.Equal(t, int64(2000), c.Discount(2000))
}

func TestCoupon_Discount_UnknownType(t *testing.T) {
	c := Coupon{DiscountType: "unknown", DiscountValue: 500}
	assert.Equal(t, int64(0), c.Discount(10000))
}
