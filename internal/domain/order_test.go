package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ============================================================================
// Order Status Transition Tests
// ============================================================================

func TestCanTransition_Allowed(t *testing.T) {
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusPaid))
	assert.True(t, CanTransition(OrderStatusPending, OrderStatusCancelled))
	assert.True(t, CanTransition(OrderStatusPaid, OrderStatusShipped))
	assert.True(t, CanTransition(OrderStatusPaid, OrderStatusCancelled))
	assert.True(t, CanTransition(OrderStatusShipped, OrderStatusDelivered))
}

func TestCanTransition_Forbidden(t *testing.T) {
	assert.False(t, CanTransition(OrderStatusPending, OrderStatusShipped))
	assert.False(t, CanTransition(OrderStatusDelivered, OrderStatusCancelled))
	assert.False(t, CanTransition(OrderStatusCancelled, OrderStatusPaid))
	assert.False(t, CanTransition(OrderStatusShipped, OrderStatusPending))
}

func TestIsValidOrderStatus(t *testing.T) {
	assert.True(t, IsValidOrderStatus(OrderStatusPending))
	assert.True(t, IsValidOrderStatus(OrderStatusDelivered))
	assert.False(t, IsValidOrderStatus("unknown"))
	assert.False(t, IsValidOrderStatus(""))
}

// ============================================================================
// OrderItem Tests
// ============================================================================

func TestOrderItem_LineTotal(t *testing.T) {
	i := OrderItem{UnitPrice: 2500, Quantity: 3}
	assert.Equal(t, int64(7500), i.LineTotal())
}
