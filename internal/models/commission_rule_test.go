package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuleAmountFor(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		rule    CommissionRule
		order   float64
		want    float64
		qualify bool
	}{
		{
			name:    "plain percentage",
			rule:    CommissionRule{Percentage: 10},
			order:   10000,
			want:    1000,
			qualify: true,
		},
		{
			name:    "cap clamps",
			rule:    CommissionRule{Percentage: 10, MaxCommission: f(500)},
			order:   10000,
			want:    500,
			qualify: true,
		},
		{
			name:    "cap above payout leaves it alone",
			rule:    CommissionRule{Percentage: 10, MaxCommission: f(5000)},
			order:   10000,
			want:    1000,
			qualify: true,
		},
		{
			name:    "fixed amount overrides percentage",
			rule:    CommissionRule{Percentage: 10, FixedAmount: f(25)},
			order:   10000,
			want:    25,
			qualify: true,
		},
		{
			name:    "fixed amount still capped",
			rule:    CommissionRule{FixedAmount: f(500), MaxCommission: f(100)},
			order:   10,
			want:    100,
			qualify: true,
		},
		{
			name:    "below minimum order value",
			rule:    CommissionRule{Percentage: 10, MinOrderValue: f(2000)},
			order:   1999.99,
			qualify: false,
		},
		{
			name:    "at minimum order value",
			rule:    CommissionRule{Percentage: 10, MinOrderValue: f(2000)},
			order:   2000,
			want:    200,
			qualify: true,
		},
		{
			name:    "zero percentage yields nothing",
			rule:    CommissionRule{Percentage: 0},
			order:   10000,
			qualify: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rule.AmountFor(tt.order)
			assert.Equal(t, tt.qualify, ok)
			if tt.qualify {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}
