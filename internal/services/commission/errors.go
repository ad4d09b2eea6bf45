package commission

import "errors"

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderNotCompleted  = errors.New("order is not in a payable state")
	ErrCommissionNotFound = errors.New("commission not found")
)
