package domain

import (
	"math"
	"time"
)

// Review represents a product review submitted by a user. At most one review
// exists per (product, user) pair.
type Review struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	UserID           string    `json:"user_id"`
	Rating           int       `json:"rating"`
	Comment          string    `json:"comment"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	Helpful          int       `json:"helpful"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ReviewStats contains aggregate review statistics for a product, computed
// from the live review set rather than the cached product summary.
type ReviewStats struct {
	Average      float64     `json:"average"`
	Total        int         `json:"total"`
	Distribution map[int]int `json:"distribution"`
}

// NormalizeRating rounds a fractional input rating to the nearest integer
// before storage. Validity (1–5) is checked after rounding.
func NormalizeRating(rating float64) int {
	return int(math.Round(rating))
}

// RoundAverage rounds a mean rating to one decimal place, half away from zero.
func RoundAverage(avg float64) float64 {
	return math.Round(avg*10) / 10
}
