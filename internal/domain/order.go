package domain

import "time"

// OrderStatus is a domain value describing where an order sits in its
// lifecycle.
//
// Usage: construct via ParseOrderStatus at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// validOrderStatuses is the single source of truth for valid statuses.
var validOrderStatuses = map[OrderStatus]bool{
	OrderStatusPending:   true,
	OrderStatusConfirmed: true,
	OrderStatusReady:     true,
	OrderStatusCompleted: true,
	OrderStatusCancelled: true,
}

// ParseOrderStatus constructs an OrderStatus from external input.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	status := OrderStatus(s)
	return status, validOrderStatuses[status]
}

// IsValid checks if the status is one of the supported enum values.
func (s OrderStatus) IsValid() bool {
	return validOrderStatuses[s]
}

// CountsTowardDailyLimit reports whether an order in this status contributes
// to the purchaser's consumed THC for the day. Everything except a cancelled
// order counts: a pending order has already passed the compliance gate and
// holds its share of the daily cap.
func (s OrderStatus) CountsTowardDailyLimit() bool {
	return s != OrderStatusCancelled
}

func (s OrderStatus) String() string {
	return string(s)
}

// Order is a placed purchase. Historical orders feed the dosage aggregator.
type Order struct {
	ID           string
	UserID       string
	DispensaryID string
	Status       OrderStatus
	TotalCents   int64
	CreatedAt    time.Time
	Items        []OrderItem
}

// OrderItem is one purchased line. THCMgPerUnit is denormalized from the
// product at purchase time so historical dosage totals survive later catalog
// edits.
type OrderItem struct {
	ProductID      string
	Quantity       int
	UnitPriceCents int64
	THCMgPerUnit   float64
}

// THCMg returns the line's total THC contribution.
func (i OrderItem) THCMg() float64 {
	return i.THCMgPerUnit * float64(i.Quantity)
}
