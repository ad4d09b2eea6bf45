package models

import "time"

// CommissionRule maps (type, level) to a payout formula. At most one rule
// exists per (type, level) pair; Priority breaks ties when an admin keeps
// overlapping inactive rules around.
type CommissionRule struct {
	ID            uint           `gorm:"primarykey"`
	Type          CommissionType `gorm:"type:varchar(20);not null;uniqueIndex:idx_rules_type_level"`
	Level         int            `gorm:"not null;uniqueIndex:idx_rules_type_level"`
	Percentage    float64        `gorm:"not null;default:0"`
	FixedAmount   *float64       `gorm:"default:null"`
	MinOrderValue *float64       `gorm:"default:null"`
	MaxCommission *float64       `gorm:"default:null"`
	Active        bool           `gorm:"default:true;index"`
	Priority      int            `gorm:"default:0"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AmountFor computes the payout for an order of the given value, applying
// the fixed-amount override, the qualifying minimum, and the cap. The
// second return is false when the order does not qualify under this rule.
func (r *CommissionRule) AmountFor(orderAmount float64) (float64, bool) {
	if r.MinOrderValue != nil && orderAmount < *r.MinOrderValue {
		return 0, false
	}

	amount := orderAmount * r.Percentage / 100
	if r.FixedAmount != nil {
		amount = *r.FixedAmount
	}
	if r.MaxCommission != nil && amount > *r.MaxCommission {
		amount = *r.MaxCommission
	}
	if amount <= 0 {
		return 0, false
	}
	return amount, true
}
