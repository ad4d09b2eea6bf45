package commission

// FanOutResult reports what one engine run produced.
type FanOutResult struct {
	OrderID      uint    `json:"order_id"`
	Created      int     `json:"created"`
	TotalAmount  float64 `json:"total_amount"`
	AutoApproved bool    `json:"auto_approved"`
	// AlreadyProcessed is true when the order had commissions recorded
	// before this run; the run was a no-op.
	AlreadyProcessed bool `json:"already_processed"`
}
