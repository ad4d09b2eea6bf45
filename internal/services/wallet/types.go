package wallet

// Summary is the member-facing view of the earnings ledger.
type Summary struct {
	MemberID           uint    `json:"member_id"`
	Balance            float64 `json:"balance"`
	Pending            float64 `json:"pending"`
	TotalEarned        float64 `json:"total_earned"`
	TotalWithdrawn     float64 `json:"total_withdrawn"`
	PendingWithdrawals int64   `json:"pending_withdrawals"`
}
