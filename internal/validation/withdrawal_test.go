package validation

import (
	"testing"

	domainerrors "upline/internal/errors"
	"upline/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateWithdrawalDetails(t *testing.T) {
	tests := []struct {
		name     string
		method   models.WithdrawalMethod
		details  models.JSON
		wantCode string
	}{
		{
			name:   "bank transfer complete",
			method: models.WithdrawalMethodBank,
			details: models.JSON{
				"bank_name": "First Bank", "account_name": "Jane", "account_number": "0123",
			},
		},
		{
			name:   "mobile wallet complete",
			method: models.WithdrawalMethodMobileWallet,
			details: models.JSON{
				"provider": "mpesa", "phone": "+254700000000",
			},
		},
		{
			name:   "crypto complete",
			method: models.WithdrawalMethodCrypto,
			details: models.JSON{
				"network": "TRC20", "address": "T9yD2k...",
			},
		},
		{
			name:     "bank transfer missing account number",
			method:   models.WithdrawalMethodBank,
			details:  models.JSON{"bank_name": "First Bank", "account_name": "Jane"},
			wantCode: "MISSING_DETAIL",
		},
		{
			name:     "blank field counts as missing",
			method:   models.WithdrawalMethodMobileWallet,
			details:  models.JSON{"provider": "mpesa", "phone": "   "},
			wantCode: "MISSING_DETAIL",
		},
		{
			name:     "unknown method",
			method:   "paypal",
			details:  models.JSON{"email": "jane@example.com"},
			wantCode: "UNSUPPORTED_METHOD",
		},
		{
			name:     "nil details",
			method:   models.WithdrawalMethodCrypto,
			details:  nil,
			wantCode: "MISSING_DETAIL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWithdrawalDetails(tt.method, tt.details)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			var domainErr *domainerrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.wantCode, domainErr.Code)
		})
	}
}

func TestStruct(t *testing.T) {
	type input struct {
		Email  string  `validate:"required,email"`
		Amount float64 `validate:"required,gt=0"`
	}

	assert.NoError(t, Struct(input{Email: "a@b.com", Amount: 5}))

	err := Struct(input{Email: "not-an-email", Amount: 5})
	var domainErr *domainerrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domainerrors.KindValidation, domainErr.Kind)
}
