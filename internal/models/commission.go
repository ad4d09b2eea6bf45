package models

import "time"

// CommissionStatus is the lifecycle state of a commission record.
type CommissionStatus string

const (
	CommissionPending   CommissionStatus = "PENDING"
	CommissionApproved  CommissionStatus = "APPROVED"
	CommissionPaid      CommissionStatus = "PAID"
	CommissionCancelled CommissionStatus = "CANCELLED"
)

// Terminal reports whether the status permits no further transitions.
func (s CommissionStatus) Terminal() bool {
	return s == CommissionPaid || s == CommissionCancelled
}

// CanTransitionTo reports whether the transition s -> next is legal:
// PENDING -> APPROVED -> PAID, or PENDING/APPROVED -> CANCELLED.
func (s CommissionStatus) CanTransitionTo(next CommissionStatus) bool {
	switch s {
	case CommissionPending:
		return next == CommissionApproved || next == CommissionCancelled
	case CommissionApproved:
		return next == CommissionPaid || next == CommissionCancelled
	default:
		return false
	}
}

// CommissionType selects which rule ladder applies to an order.
type CommissionType string

const (
	CommissionTypeSale   CommissionType = "SALE"
	CommissionTypeSignup CommissionType = "SIGNUP"
	CommissionTypeBonus  CommissionType = "BONUS"
)

// ValidCommissionType reports whether t is a known commission type.
func ValidCommissionType(t CommissionType) bool {
	switch t {
	case CommissionTypeSale, CommissionTypeSignup, CommissionTypeBonus:
		return true
	}
	return false
}

// Commission is an append-only earning record for one member on one order.
// The unique (order_id, level) index is what makes the fan-out idempotent.
type Commission struct {
	ID         uint             `gorm:"primarykey"`
	MemberID   uint             `gorm:"not null;index"`
	OrderID    uint             `gorm:"not null;index;uniqueIndex:idx_commissions_order_level"`
	Level      int              `gorm:"not null;uniqueIndex:idx_commissions_order_level"`
	Type       CommissionType   `gorm:"type:varchar(20);not null;default:'SALE'"`
	Amount     float64          `gorm:"not null"`
	Status     CommissionStatus `gorm:"type:varchar(16);not null;default:'PENDING';index"`
	ApprovedAt *time.Time
	PaidAt     *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
