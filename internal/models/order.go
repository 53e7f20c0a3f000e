package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the order workflow state. Orders start pending and are
// moved to a terminal state by a manager.
type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "pending"
	OrderStatusAccepted OrderStatus = "accepted"
	OrderStatusRejected OrderStatus = "rejected"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAccepted, OrderStatusRejected:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusAccepted || s == OrderStatusRejected
}

// OrderItem is a single line within an order. Price is snapshotted from the
// product at order creation and is the authoritative per-unit price for this
// line forever after, even if the catalog price later changes.
type OrderItem struct {
	ID        string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID   string          `json:"order_id" gorm:"index;type:varchar(36)"`
	ProductID string          `json:"product_id" gorm:"type:varchar(36)"`
	Product   *Product        `json:"product_detail,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"` // Price at the time of order
}

// Order represents a customer order.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string          `json:"user_id" gorm:"index;type:varchar(36)"`
	User            *User           `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);default:pending"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2)"`
	ShippingAddress string          `json:"shipping_address"`
	PaymentDeadline int             `json:"payment_deadline" gorm:"default:7"` // days allowed for payment
	CreatedByRole   Role            `json:"created_by_role" gorm:"type:varchar(10)"`

	// Location fields, required when a staff member places the order.
	LocationState       string           `json:"location_state" gorm:"type:varchar(100)"`
	LocationDisplayName string           `json:"location_display_name"`
	LocationLatitude    *decimal.Decimal `json:"location_latitude,omitempty" gorm:"type:decimal(9,6)"`
	LocationLongitude   *decimal.Decimal `json:"location_longitude,omitempty" gorm:"type:decimal(9,6)"`

	Items     []OrderItem `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ComputeTotal sums quantity times snapshot price over the given items using
// exact decimal arithmetic. It is the only way an order total is ever
// produced; totals are never recomputed on later saves.
func ComputeTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// DaysRemaining returns the number of calendar days left before the payment
// deadline, measured from the order's creation date. It is zero for orders in
// a terminal state and negative for overdue pending orders.
func (o *Order) DaysRemaining(now time.Time) int {
	if o.Status != OrderStatusPending {
		return 0
	}
	deadline := startOfDay(o.CreatedAt).AddDate(0, 0, o.PaymentDeadline)
	return int(deadline.Sub(startOfDay(now)).Hours() / 24)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
