package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// fulfilmentRank orders the forward path pending -> processing -> shipped -> delivered.
var fulfilmentRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
}

// IsValid checks if the status is one of the known values.
func (s OrderStatus) IsValid() bool {
	if s == OrderStatusCancelled {
		return true
	}
	_, ok := fulfilmentRank[s]

	return ok
}

// IsTerminal reports whether no further status change is allowed.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether an order in status s may move to next.
// Moves go forward along the fulfilment path (skipping steps is allowed) or to cancelled,
// and never leave delivered or cancelled. Re-applying the current status is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	if s == next {
		return true
	}
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}

	return fulfilmentRank[next] > fulfilmentRank[s]
}

// ParseOrderStatus converts user input into an OrderStatus.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	status := OrderStatus(strings.TrimSpace(raw))

	return status, status.IsValid()
}

// OrderSource records the channel through which an order was placed.
type OrderSource string

const (
	OrderSourceWebsite  OrderSource = "website"
	OrderSourceWhatsApp OrderSource = "whatsapp"
	OrderSourceAdmin    OrderSource = "admin"
)

// IsValid checks if the source is one of the known channels.
func (s OrderSource) IsValid() bool {
	switch s {
	case OrderSourceWebsite, OrderSourceWhatsApp, OrderSourceAdmin:
		return true
	default:
		return false
	}
}

// CustomerInfo is the delivery contact attached to an order. Guest orders require it.
type CustomerInfo struct {
	Name    string
	Phone   string
	Address string
	Notes   string
}

// IsComplete reports whether name, phone and address are all present.
func (c *CustomerInfo) IsComplete() bool {
	return c != nil &&
		strings.TrimSpace(c.Name) != "" &&
		strings.TrimSpace(c.Phone) != "" &&
		strings.TrimSpace(c.Address) != ""
}

// OrderItem is one line of an order. Price is the unit price captured when the order was placed.
type OrderItem struct {
	ProductID uuid.UUID
	Quantity  int
	Price     float64
}

// Subtotal returns price times quantity for the line.
func (i OrderItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Order is a customer purchase. UserID is nil for guest orders.
type Order struct {
	ID           uuid.UUID
	UserID       *uuid.UUID
	CustomerInfo *CustomerInfo
	Items        []OrderItem
	Total        float64
	Status       OrderStatus
	Source       OrderSource
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewOrder builds a pending order and computes its total from the item snapshots.
func NewOrder(userID *uuid.UUID, items []OrderItem, info *CustomerInfo, source OrderSource) *Order {
	if !source.IsValid() {
		source = OrderSourceWebsite
	}

	order := &Order{
		ID:           uuid.Must(uuid.NewV7()),
		UserID:       userID,
		CustomerInfo: info,
		Items:        items,
		Status:       OrderStatusPending,
		Source:       source,
	}
	order.Total = order.CalculateTotal()

	return order
}

// CalculateTotal sums the line subtotals.
func (o *Order) CalculateTotal() float64 {
	var total float64
	for _, item := range o.Items {
		total += item.Subtotal()
	}

	return total
}

// IsGuest reports whether the order has no owning account.
func (o *Order) IsGuest() bool {
	return o.UserID == nil
}

// IsOwnedBy reports whether userID placed the order.
func (o *Order) IsOwnedBy(userID uuid.UUID) bool {
	return o.UserID != nil && *o.UserID == userID
}

// CanBeViewedBy reports whether a requester may read the order: its owner or any admin.
func (o *Order) CanBeViewedBy(userID uuid.UUID, role Role) bool {
	return role.IsAdmin() || o.IsOwnedBy(userID)
}

// ProductIDs returns the distinct product identifiers referenced by the order.
func (o *Order) ProductIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(o.Items))
	ids := make([]uuid.UUID, 0, len(o.Items))
	for _, item := range o.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}

	return ids
}

// OrderFilter narrows an order listing.
type OrderFilter struct {
	UserID *uuid.UUID
	Status *OrderStatus
}
