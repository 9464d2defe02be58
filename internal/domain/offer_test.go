package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// DiscountedPrice Tests
// ============================================================================

func TestDiscountedPrice_QuarterOff(t *testing.T) {
	assert.Equal(t, int64(7500), DiscountedPrice(10000, 25))
}

func TestDiscountedPrice_RoundsHalfUp(t *testing.T) {
	// 999 * 0.85 = 849.15 -> 849; 999 * 0.67 = 669.33 -> 669; 101 * 0.5 = 50.5 -> 51
	assert.Equal(t, int64(849), DiscountedPrice(999, 15))
	assert.Equal(t, int64(669), DiscountedPrice(999, 33))
	assert.Equal(t, int64(51), DiscountedPrice(101, 50))
}

func TestDiscountedPrice_ZeroPercent(t *testing.T) {
	assert.Equal(t, int64(10000), DiscountedPrice(10000, 0))
}

func TestDiscountedPrice_FullDiscount(t *testing.T) {
	assert.Equal(t, int64(0), DiscountedPrice(10000, 100))
}

func TestDiscountedPrice_NegativePrice(t *testing.T) {
	assert.Equal(t, int64(0), DiscountedPrice(-100, 25))
}

// ============================================================================
// Offer.IsActive Tests
// ============================================================================

func TestOffer_IsActive_WithinWindow(t *testing.T) {
	now := time.Now()
	o := Offer{
		StartDate:         now.Add(-time.Hour),
		EndDate:           now.Add(time.Hour),
		RemainingQuantity: 5,
	}
	assert.True(t, o.IsActive(now))
}

func TestOffer_IsActive_BeforeStart(t *testing.T) {
	now := time.Now()
	o := Offer{
		StartDate:         now.Add(time.Hour),
		EndDate:           now.Add(2 * time.Hour),
		RemainingQuantity: 5,
	}
	assert.False(t, o.IsActive(now))
}

func TestOffer_IsActive_AfterEnd(t *testing.T) {
	now := time.Now()
	o := Offer{
		StartDate:         now.Add(-2 * time.Hour),
		EndDate:           now.Add(-time.Hour),
		RemainingQuantity: 5,
	}
	assert.False(t, o.IsActive(now))
}

func TestOffer_IsActive_SoldOut(t *testing.T) {
	now := time.Now()
	o := Offer{
		StartDate:         now.Add(-time.Hour),
		EndDate:           now.Add(time.Hour),
		RemainingQuantity: 0,
	}
	assert.False(t, o.IsActive(now))
}

func TestOffer_IsActive_AtBoundaries(t *testing.T) {
	now := time.Now()
	o := Offer{StartDate: now, EndDate: now.Add(time.Hour), RemainingQuantity: 1}
	assert.True(t, o.IsActive(now), "start boundary is inclusive")

	o = Offer{StartDate: now.Add(-time.Hour), EndDate: now, RemainingQuantity: 1}
	assert.True(t, o.IsActive(now), "end boundary is inclusive")
}

// ============================================================================
// Offer.TimeLeft Tests
// ============================================================================

func TestOffer_TimeLeft_DaysAndHours(t *testing.T) {
	now := time.Now()
	o := Offer{EndDate: now.Add(49 * time.Hour)}
	assert.Equal(t, "2d 1h", o.TimeLeft(now))
}

func TestOffer_TimeLeft_UnderOneDay(t *testing.T) {
	now := time.Now()
	o := Offer{EndDate: now.Add(5 * time.Hour)}
	assert.Equal(t, "0d 5h", o.TimeLeft(now))
}

func TestOffer_TimeLeft_TruncatesPartialHours(t *testing.T) {
	now := time.Now()
	o := Offer{EndDate: now.Add(90 * time.Minute)}
	assert.Equal(t, "0d 1h", o.TimeLeft(now))
}

func TestOffer_TimeLeft_Expired(t *testing.T) {
	now := time.Now()
	o := Offer{EndDate: now.Add(-time.Minute)}
	assert.Equal(t, TimeLeftExpired, o.TimeLeft(now))
}

func TestOffer_TimeLeft_ExactlyNow(t *testing.T) {
	now := time.Now()
	o := Offer{EndDate: now}
	assert.Equal(t, TimeLeftExpired, o.TimeLeft(now))
}
