package referral

// DownlineMember is a directly sponsored member with its aggregates.
type DownlineMember struct {
	MemberID     uint    `json:"member_id"`
	Name         string  `json:"name"`
	ReferralCode string  `json:"referral_code"`
	Level        int     `json:"level"`
	MLMEnabled   bool    `json:"mlm_enabled"`
	DirectCount  int64   `json:"direct_count"`
	SalesTotal   float64 `json:"sales_total"`
}

// TreeNode is one node of a depth-limited downline tree. Children are the
// node's direct recruits; DirectCount counts them even beyond the depth cut.
type TreeNode struct {
	MemberID     uint        `json:"member_id"`
	Name         string      `json:"name"`
	ReferralCode string      `json:"referral_code"`
	Depth        int         `json:"depth"`
	DirectCount  int64       `json:"direct_count"`
	SalesTotal   float64     `json:"sales_total"`
	Children     []*TreeNode `json:"children,omitempty"`
}
