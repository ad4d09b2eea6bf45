package errors

var (
	ErrInsufficientBalance = &DomainError{
		Kind:    KindBusinessRule,
		Code:    "INSUFFICIENT_BALANCE",
		Message: "insufficient wallet balance",
	}
	ErrBelowMinimumWithdrawal = &DomainError{
		Kind:    KindBusinessRule,
		Code:    "BELOW_MINIMUM_WITHDRAWAL",
		Message: "amount is below the minimum withdrawal",
	}
	ErrInsufficientBalanceForClawback = &DomainError{
		Kind:    KindBusinessRule,
		Code:    "INSUFFICIENT_BALANCE_FOR_CLAWBACK",
		Message: "approved commission cannot be cancelled: the credit has already been spent",
	}
	ErrInvalidAmount = &DomainError{
		Kind:    KindValidation,
		Code:    "INVALID_AMOUNT",
		Message: "invalid amount",
	}
	ErrInvalidStateTransition = &DomainError{
		Kind:    KindBusinessRule,
		Code:    "INVALID_STATE_TRANSITION",
		Message: "invalid state transition",
	}
	ErrDuplicateRule = &DomainError{
		Kind:    KindBusinessRule,
		Code:    "DUPLICATE_RULE",
		Message: "a rule already exists for this type and level",
	}
	ErrSponsorCycle = &DomainError{
		Kind:    KindBusinessRule,
		Code:    "SPONSOR_CYCLE",
		Message: "sponsor assignment would create a cycle",
	}
	ErrWalletNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
	}
	ErrMemberNotFound = &DomainError{
		Kind:    KindNotFound,
		Code:    "MEMBER_NOT_FOUND",
		Message: "member not found",
	}
)
