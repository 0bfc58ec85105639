package domain

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// statusRank orders the fulfilment states. Cancellation sits outside the
// progression and is handled separately.
var statusRank = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), nil
	default:
		return "", fmt.Errorf("unknown order status %q", s)
	}
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether an order may move from s to next. Orders
// only move forward through the fulfilment states; any non-terminal order
// may be cancelled; terminal orders are frozen.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return statusRank[next] > statusRank[s]
}

type OrderItem struct {
	ID        string
	OrderID   string
	ProductID string
	Quantity  int
	// UnitPrice is the product price at the moment the order was placed.
	// It is copied, never re-joined, so past orders keep their totals.
	UnitPrice float64
	Product   *Product
	CreatedAt time.Time
}

func (i OrderItem) Subtotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

type Order struct {
	ID          string
	UserID      string
	Status      OrderStatus
	TotalAmount float64
	Items       []OrderItem
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
