package models

import "time"

// MLMSettings is the singleton program configuration row. It is created
// lazily with defaults and read fresh (or through a short-TTL cache) on
// every operation that consults it.
type MLMSettings struct {
	ID                     uint    `gorm:"primarykey"`
	MaxLevels              int     `gorm:"not null;default:3"`
	MinWithdrawal          float64 `gorm:"not null;default:50"`
	WithdrawalFeePercent   float64 `gorm:"not null;default:5"`
	AutoApproveCommissions bool    `gorm:"default:false"`
	AutoEnableOnSignup     bool    `gorm:"default:true"`
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// DefaultMLMSettings returns the settings used when no row exists yet.
func DefaultMLMSettings() *MLMSettings {
	return &MLMSettings{
		MaxLevels:              3,
		MinWithdrawal:          50,
		WithdrawalFeePercent:   5,
		AutoApproveCommissions: false,
		AutoEnableOnSignup:     true,
	}
}
