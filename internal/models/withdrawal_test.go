package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithdrawalStatusTransitions(t *testing.T) {
	tests := []struct {
		from WithdrawalStatus
		to   WithdrawalStatus
		ok   bool
	}{
		{WithdrawalPending, WithdrawalApproved, true},
		{WithdrawalPending, WithdrawalRejected, true},
		{WithdrawalPending, WithdrawalPaid, false},
		{WithdrawalApproved, WithdrawalPaid, true},
		{WithdrawalApproved, WithdrawalRejected, true},
		{WithdrawalApproved, WithdrawalPending, false},
		{WithdrawalPaid, WithdrawalRejected, false},
		{WithdrawalRejected, WithdrawalApproved, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.ok, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestValidWithdrawalMethod(t *testing.T) {
	assert.True(t, ValidWithdrawalMethod(WithdrawalMethodBank))
	assert.True(t, ValidWithdrawalMethod(WithdrawalMethodMobileWallet))
	assert.True(t, ValidWithdrawalMethod(WithdrawalMethodCrypto))
	assert.False(t, ValidWithdrawalMethod("cheque"))
}
