package repositories

import (
	"fmt"

	"upline/internal/models"

	"gorm.io/gorm"
)

type withdrawalRepository struct {
	db *gorm.DB
}

func NewWithdrawalRepository(db *gorm.DB) WithdrawalRepository {
	return &withdrawalRepository{db: db}
}

func (r *withdrawalRepository) Create(withdrawal *models.Withdrawal) error {
	if err := r.db.Create(withdrawal).Error; err != nil {
		return fmt.Errorf("failed to create withdrawal: %w", err)
	}
	return nil
}

func (r *withdrawalRepository) GetByID(id uint) (*models.Withdrawal, error) {
	var withdrawal models.Withdrawal
	if err := r.db.First(&withdrawal, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrWithdrawalNotFound
		}
		return nil, fmt.Errorf("failed to get withdrawal: %w", err)
	}
	return &withdrawal, nil
}

func (r *withdrawalRepository) Update(withdrawal *models.Withdrawal) error {
	if err := r.db.Save(withdrawal).Error; err != nil {
		return fmt.Errorf("failed to update withdrawal: %w", err)
	}
	return nil
}

func (r *withdrawalRepository) list(q *gorm.DB, status models.WithdrawalStatus, limit, offset int) ([]models.Withdrawal, int64, error) {
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count withdrawals: %w", err)
	}
	var withdrawals []models.Withdrawal
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&withdrawals).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list withdrawals: %w", err)
	}
	return withdrawals, total, nil
}

func (r *withdrawalRepository) ListByMember(memberID uint, status models.WithdrawalStatus, limit, offset int) ([]models.Withdrawal, int64, error) {
	q := r.db.Model(&models.Withdrawal{}).Where("member_id = ?", memberID)
	return r.list(q, status, limit, offset)
}

func (r *withdrawalRepository) ListAll(status models.WithdrawalStatus, limit, offset int) ([]models.Withdrawal, int64, error) {
	return r.list(r.db.Model(&models.Withdrawal{}), status, limit, offset)
}

func (r *withdrawalRepository) CountPendingByMember(memberID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Withdrawal{}).
		Where("member_id = ? AND status IN ?", memberID,
			[]models.WithdrawalStatus{models.WithdrawalPending, models.WithdrawalApproved}).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count pending withdrawals: %w", err)
	}
	return count, nil
}
