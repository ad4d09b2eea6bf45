package models

import "time"

// WithdrawalStatus is the lifecycle state of a withdrawal request.
type WithdrawalStatus string

const (
	WithdrawalPending  WithdrawalStatus = "PENDING"
	WithdrawalApproved WithdrawalStatus = "APPROVED"
	WithdrawalPaid     WithdrawalStatus = "PAID"
	WithdrawalRejected WithdrawalStatus = "REJECTED"
)

// Terminal reports whether the status permits no further transitions.
func (s WithdrawalStatus) Terminal() bool {
	return s == WithdrawalPaid || s == WithdrawalRejected
}

// CanTransitionTo reports whether the transition s -> next is legal:
// PENDING -> APPROVED -> PAID, or PENDING/APPROVED -> REJECTED.
func (s WithdrawalStatus) CanTransitionTo(next WithdrawalStatus) bool {
	switch s {
	case WithdrawalPending:
		return next == WithdrawalApproved || next == WithdrawalRejected
	case WithdrawalApproved:
		return next == WithdrawalPaid || next == WithdrawalRejected
	default:
		return false
	}
}

// WithdrawalMethod is the payout channel for a withdrawal.
type WithdrawalMethod string

const (
	WithdrawalMethodBank         WithdrawalMethod = "bank_transfer"
	WithdrawalMethodMobileWallet WithdrawalMethod = "mobile_wallet"
	WithdrawalMethodCrypto       WithdrawalMethod = "crypto"
)

// ValidWithdrawalMethod reports whether m is a supported payout method.
func ValidWithdrawalMethod(m WithdrawalMethod) bool {
	switch m {
	case WithdrawalMethodBank, WithdrawalMethodMobileWallet, WithdrawalMethodCrypto:
		return true
	}
	return false
}

// Withdrawal is a member payout request. Amount is escrowed out of the
// wallet balance at request time; NetAmount is what gets paid out after
// the fee. Rows are append-only once terminal.
type Withdrawal struct {
	ID          uint             `gorm:"primarykey"`
	MemberID    uint             `gorm:"not null;index"`
	Reference   string           `gorm:"uniqueIndex;not null"`
	Amount      float64          `gorm:"not null"`
	NetAmount   float64          `gorm:"not null"`
	FeePercent  float64          `gorm:"not null;default:0"`
	Method      WithdrawalMethod `gorm:"type:varchar(20);not null"`
	Details     JSON             `gorm:"type:jsonb"`
	Status      WithdrawalStatus `gorm:"type:varchar(16);not null;default:'PENDING';index"`
	Note        string
	ProcessedBy *uint
	ProcessedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
