package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommissionStatusTransitions(t *testing.T) {
	tests := []struct {
		from CommissionStatus
		to   CommissionStatus
		ok   bool
	}{
		{CommissionPending, CommissionApproved, true},
		{CommissionPending, CommissionCancelled, true},
		{CommissionPending, CommissionPaid, false},
		{CommissionApproved, CommissionPaid, true},
		{CommissionApproved, CommissionCancelled, true},
		{CommissionApproved, CommissionPending, false},
		{CommissionPaid, CommissionCancelled, false},
		{CommissionCancelled, CommissionApproved, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestCommissionStatusTerminal(t *testing.T) {
	assert.False(t, CommissionPending.Terminal())
	assert.False(t, CommissionApproved.Terminal())
	assert.True(t, CommissionPaid.Terminal())
	assert.True(t, CommissionCancelled.Terminal())
}

func TestValidCommissionType(t *testing.T) {
	assert.True(t, ValidCommissionType(CommissionTypeSale))
	assert.True(t, ValidCommissionType(CommissionTypeSignup))
	assert.True(t, ValidCommissionType(CommissionTypeBonus))
	assert.False(t, ValidCommissionType("CASHBACK"))
	assert.False(t, ValidCommissionType(""))
}
