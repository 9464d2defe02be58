package domain

import "time"

// Order status constants.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Order represents a placed order with its line items. Monetary amounts are
// in cents.
type Order struct {
	ID             string      `json:"id"`
	UserID         string      `json:"user_id"`
	Status         string      `json:"status"`
	Items          []OrderItem `json:"items"`
	Subtotal       int64       `json:"subtotal"`
	DiscountAmount int64       `json:"discount_amount"`
	TotalAmount    int64       `json:"total_amount"`
	Currency       string      `json:"currency"`
	CouponCode     *string     `json:"coupon_code,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// OrderItem is a single line of an order. UnitPrice is the price actually
// charged per unit, after any offer discount applied at checkout. OfferID is
// set when the line consumed an offer redemption.
type OrderItem struct {
	ID        string  `json:"id"`
	OrderID   string  `json:"order_id"`
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice int64   `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	OfferID   *string `json:"offer_id,omitempty"`
}

// orderTransitions maps each status to the statuses it may move to.
var orderTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsValidOrderStatus checks whether the given status string is recognized.
func IsValidOrderStatus(status string) bool {
	_, ok := orderTransitions[status]
	return ok
}

// LineTotal returns the total for an order item.
func (i OrderItem) LineTotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}
