package models

import "time"

// OrderStatus tracks the minimal order lifecycle the commission engine
// cares about. The storefront owns the rest of the order's life.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Order is the slice of a storefront order the MLM core needs: who bought,
// for how much, and which rule ladder applies. Completion is the one-shot
// trigger for the commission fan-out.
type Order struct {
	ID             uint           `gorm:"primarykey"`
	BuyerID        uint           `gorm:"not null;index"`
	Amount         float64        `gorm:"not null"`
	CommissionType CommissionType `gorm:"type:varchar(20);not null;default:'SALE'"`
	Status         OrderStatus    `gorm:"type:varchar(16);not null;default:'PENDING';index"`
	Reference      string         `gorm:"uniqueIndex;not null"`
	CompletedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
