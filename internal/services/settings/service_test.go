package settings

import (
	"context"
	"testing"

	domainerrors "upline/internal/errors"
	"upline/internal/repositories/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_CreatesDefaults(t *testing.T) {
	store := repotest.NewStore()
	service := NewService(store.Repos().Settings, nil)

	cfg, err := service.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.MaxLevels)
	assert.InDelta(t, 50.0, cfg.MinWithdrawal, 0.001)
	assert.InDelta(t, 5.0, cfg.WithdrawalFeePercent, 0.001)
	assert.False(t, cfg.AutoApproveCommissions)
	assert.True(t, cfg.AutoEnableOnSignup)
}

func TestUpdate_Partial(t *testing.T) {
	store := repotest.NewStore()
	service := NewService(store.Repos().Settings, nil)

	maxLevels := 5
	autoApprove := true
	cfg, err := service.Update(context.Background(), UpdateInput{
		MaxLevels:              &maxLevels,
		AutoApproveCommissions: &autoApprove,
	})
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.MaxLevels)
	assert.True(t, cfg.AutoApproveCommissions)
	// Untouched fields keep their defaults.
	assert.InDelta(t, 50.0, cfg.MinWithdrawal, 0.001)
	assert.InDelta(t, 5.0, cfg.WithdrawalFeePercent, 0.001)

	again, err := service.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, again.MaxLevels)
}

func TestUpdate_Validation(t *testing.T) {
	store := repotest.NewStore()
	service := NewService(store.Repos().Settings, nil)

	tests := []struct {
		name  string
		input UpdateInput
		code  string
	}{
		{
			name: "max levels below one",
			input: func() UpdateInput {
				v := 0
				return UpdateInput{MaxLevels: &v}
			}(),
			code: "INVALID_MAX_LEVELS",
		},
		{
			name: "negative minimum withdrawal",
			input: func() UpdateInput {
				v := -1.0
				return UpdateInput{MinWithdrawal: &v}
			}(),
			code: "INVALID_MIN_WITHDRAWAL",
		},
		{
			name: "fee above 100 percent",
			input: func() UpdateInput {
				v := 101.0
				return UpdateInput{WithdrawalFeePercent: &v}
			}(),
			code: "INVALID_FEE_PERCENT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Update(context.Background(), tt.input)
			var domainErr *domainerrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.code, domainErr.Code)
		})
	}
}
