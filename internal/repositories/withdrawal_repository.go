package repositories

import (
	"errors"

	"upline/internal/models"
)

var ErrWithdrawalNotFound = errors.New("withdrawal not found")

// WithdrawalRepository defines withdrawal request persistence.
type WithdrawalRepository interface {
	Create(withdrawal *models.Withdrawal) error
	GetByID(id uint) (*models.Withdrawal, error)
	Update(withdrawal *models.Withdrawal) error
	ListByMember(memberID uint, status models.WithdrawalStatus, limit, offset int) ([]models.Withdrawal, int64, error)
	ListAll(status models.WithdrawalStatus, limit, offset int) ([]models.Withdrawal, int64, error)
	CountPendingByMember(memberID uint) (int64, error)
}
