package domain

import (
	"time"
)

// Product status constants.
const (
	ProductStatusDraft     = "draft"
	ProductStatusPublished = "published"
	ProductStatusArchived  = "archived"
)

// Product represents a product in the catalog. Price is in cents.
//
// Rating and ReviewCount are a derived summary of the product's review set,
// maintained exclusively by the review aggregator; they are never written
// directly through the product API.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CategoryID  *string   `json:"category_id,omitempty"`
	Status      string    `json:"status"`
	Price       int64     `json:"price"`
	Currency    string    `json:"currency"`
	Stock       int       `json:"stock"`
	ImageURL    string    `json:"image_url,omitempty"`
	Rating      float64   `json:"rating"`
	ReviewCount int       `json:"review_count"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Category represents a product category.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidProductStatuses returns the set of valid product statuses.
func ValidProductStatuses() []string {
	return []string{ProductStatusDraft, ProductStatusPublished, ProductStatusArchived}
}

// IsValidProductStatus checks whether the given status string is valid.
func IsValidProductStatus(status string) bool {
	for _, s := range ValidProductStatuses() {
		if s == status {
			return true
		}
	}
	return false
}
