package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusPending, true},
		{OrderStatusShipped, OrderStatusProcessing, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusDelivered, true},
		{OrderStatusPending, OrderStatus("lost"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseOrderStatus(t *testing.T) {
	status, ok := ParseOrderStatus(" shipped ")
	assert.True(t, ok)
	assert.Equal(t, OrderStatusShipped, status)

	_, ok = ParseOrderStatus("returned")
	assert.False(t, ok)
}

func TestNewOrder_ComputesTotalFromSnapshots(t *testing.T) {
	userID := uuid.New()
	items := []OrderItem{
		{ProductID: uuid.New(), Quantity: 3, Price: 10},
		{ProductID: uuid.New(), Quantity: 2, Price: 2.5},
	}

	order := NewOrder(&userID, items, nil, "")

	assert.Equal(t, 35.0, order.Total)
	assert.Equal(t, OrderStatusPending, order.Status)
	assert.Equal(t, OrderSourceWebsite, order.Source)
	assert.NotEqual(t, uuid.Nil, order.ID)
	assert.False(t, order.IsGuest())
}

func TestOrder_CanBeViewedBy(t *testing.T) {
	owner := uuid.New()
	order := NewOrder(&owner, nil, nil, OrderSourceWebsite)

	assert.True(t, order.CanBeViewedBy(owner, RoleCustomer))
	assert.True(t, order.CanBeViewedBy(uuid.New(), RoleAdmin))
	assert.False(t, order.CanBeViewedBy(uuid.New(), RoleCustomer))

	guest := NewOrder(nil, nil, &CustomerInfo{Name: "A", Phone: "1", Address: "x"}, OrderSourceWhatsApp)
	assert.True(t, guest.IsGuest())
	assert.False(t, guest.CanBeViewedBy(owner, RoleCustomer))
	assert.True(t, guest.CanBeViewedBy(owner, RoleAdmin))
}

func TestOrder_ProductIDsAreDistinct(t *testing.T) {
	a, b := uuid.New(), uuid.New()
	order := &Order{Items: []OrderItem{{ProductID: a}, {ProductID: b}, {ProductID: a}}}

	assert.Equal(t, []uuid.UUID{a, b}, order.ProductIDs())
}

func TestCustomerInfo_IsComplete(t *testing.T) {
	assert.False(t, (*CustomerInfo)(nil).IsComplete())
	assert.False(t, (&CustomerInfo{Name: "A", Phone: " "}).IsComplete())
	assert.True(t, (&CustomerInfo{Name: "A", Phone: "555", Address: "Main St"}).IsComplete())
}
