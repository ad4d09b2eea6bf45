package models

import (
	"time"

	"gorm.io/gorm"
)

// Wallet is the per-member earnings ledger. Invariants:
// Balance is never negative, TotalEarned never decreases, and
// Balance + Pending never exceeds TotalEarned - TotalWithdrawn.
type Wallet struct {
	ID             uint    `gorm:"primarykey"`
	MemberID       uint    `gorm:"uniqueIndex;not null"`
	Balance        float64 `gorm:"not null;default:0"`
	Pending        float64 `gorm:"not null;default:0"`
	TotalEarned    float64 `gorm:"not null;default:0"`
	TotalWithdrawn float64 `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	// New wallets always start empty regardless of caller input.
	w.Balance = 0
	w.Pending = 0
	w.TotalEarned = 0
	w.TotalWithdrawn = 0
	return nil
}
