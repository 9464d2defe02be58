package domain

import (
	"fmt"
	"time"
)

// TimeLeftExpired is the sentinel rendered when an offer's end date has passed.
const TimeLeftExpired = "Expired"

// Offer is a time-bounded discount bound to one product with a finite
// redeemable quantity. RemainingQuantity only ever decreases: each successful
// redemption decrements it by exactly one, and there is no restock path.
type Offer struct {
	ID                string    `json:"id"`
	ProductID         string    `json:"product_id"`
	Name              string    `json:"name"`
	DiscountPercent   int       `json:"discount_percent"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	TotalQuantity     int       `json:"total_quantity"`
	RemainingQuantity int       `json:"remaining_quantity"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// IsActive reports whether the offer is redeemable at the given instant:
// inside its validity window with quantity remaining.
func (o *Offer) IsActive(now time.Time) bool {
	return !now.Before(o.StartDate) && !now.After(o.EndDate) && o.RemainingQuantity > 0
}

// TimeLeft renders the remaining validity window as whole days and hours,
// e.g. "2d 5h", or TimeLeftExpired once the end date has passed.
func (o *Offer) TimeLeft(now time.Time) string {
	diff := o.EndDate.Sub(now)
	if diff <= 0 {
		return TimeLeftExpired
	}

	days := int(diff / (24 * time.Hour))
	hours := int((diff % (24 * time.Hour)) / time.Hour)
	return fmt.Sprintf("%dd %dh", days, hours)
}

// DiscountedPrice applies a percentage discount to a price in cents, rounding
// half away from zero at cent precision.
func DiscountedPrice(price int64, discountPercent int) int64 {
	if price < 0 {
		return 0
	}
	v := price * int64(100-discountPercent)
	return (v + 50) / 100
}

// ActiveOffer is the read model for an active offer joined with its product.
type ActiveOffer struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	ProductID         string    `json:"product_id"`
	ProductName       string    `json:"product_name"`
	ImageURL          string    `json:"image_url,omitempty"`
	Price             int64     `json:"price"`
	DiscountedPrice   int64     `json:"discounted_price"`
	DiscountPercent   int       `json:"discount_percent"`
	TimeLeft          string    `json:"time_left"`
	RemainingQuantity int       `json:"remaining_quantity"`
	TotalQuantity     int       `json:"total_quantity"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
}
