package withdrawal

import "upline/internal/models"

// RequestInput is a member's payout request.
type RequestInput struct {
	MemberID uint
	Amount   float64                 `json:"amount" validate:"required,gt=0"`
	Method   models.WithdrawalMethod `json:"method" validate:"required"`
	Details  models.JSON             `json:"details" validate:"required"`
}
