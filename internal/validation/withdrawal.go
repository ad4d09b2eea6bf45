package validation

import (
	"fmt"
	"strings"

	domainerrors "upline/internal/errors"
	"upline/internal/models"
)

// requiredDetailFields lists the payout details each method must carry.
var requiredDetailFields = map[models.WithdrawalMethod][]string{
	models.WithdrawalMethodBank:         {"bank_name", "account_name", "account_number"},
	models.WithdrawalMethodMobileWallet: {"provider", "phone"},
	models.WithdrawalMethodCrypto:       {"network", "address"},
}

// ValidateWithdrawalDetails checks the method is supported and that every
// method-specific field is present and non-empty.
func ValidateWithdrawalDetails(method models.WithdrawalMethod, details models.JSON) error {
	fields, ok := requiredDetailFields[method]
	if !ok {
		return domainerrors.Validation("UNSUPPORTED_METHOD",
			fmt.Sprintf("unsupported withdrawal method %q", method))
	}

	for _, field := range fields {
		raw, present := details[field]
		if !present {
			return domainerrors.Validation("MISSING_DETAIL",
				fmt.Sprintf("missing %s for method %s", field, method))
		}
		if s, isString := raw.(string); isString && strings.TrimSpace(s) == "" {
			return domainerrors.Validation("MISSING_DETAIL",
				fmt.Sprintf("missing %s for method %s", field, method))
		}
	}
	return nil
}
