package repositories

import (
	"fmt"
	"strings"

	"upline/internal/models"

	"gorm.io/gorm"
)

type commissionRepository struct {
	db *gorm.DB
}

func NewCommissionRepository(db *gorm.DB) CommissionRepository {
	return &commissionRepository{db: db}
}

func (r *commissionRepository) Create(commission *models.Commission) error {
	if err := r.db.Create(commission).Error; err != nil {
		return fmt.Errorf("failed to create commission: %w", err)
	}
	return nil
}

func (r *commissionRepository) GetByID(id uint) (*models.Commission, error) {
	var commission models.Commission
	if err := r.db.First(&commission, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCommissionNotFound
		}
		return nil, fmt.Errorf("failed to get commission: %w", err)
	}
	return &commission, nil
}

func (r *commissionRepository) Update(commission *models.Commission) error {
	if err := r.db.Save(commission).Error; err != nil {
		return fmt.Errorf("failed to update commission: %w", err)
	}
	return nil
}

func (r *commissionRepository) CountByOrderID(orderID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Commission{}).Where("order_id = ?", orderID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count commissions for order: %w", err)
	}
	return count, nil
}

func (r *commissionRepository) filtered(memberID uint, filter CommissionFilter) *gorm.DB {
	q := r.db.Model(&models.Commission{}).Where("member_id = ?", memberID)
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.From != nil {
		q = q.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("created_at < ?", *filter.To)
	}
	return q
}

func (r *commissionRepository) ListByMember(memberID uint, filter CommissionFilter, limit, offset int) ([]models.Commission, int64, error) {
	var commissions []models.Commission
	var total int64
	q := r.filtered(memberID, filter)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count commissions: %w", err)
	}
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&commissions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list commissions: %w", err)
	}
	return commissions, total, nil
}

func (r *commissionRepository) SummaryByMember(memberID uint, filter CommissionFilter) (*CommissionSummary, error) {
	var summary CommissionSummary
	err := r.filtered(memberID, filter).
		Select(strings.TrimSpace(`
			COALESCE(SUM(CASE WHEN status = 'PENDING' THEN amount ELSE 0 END), 0) AS total_pending,
			COALESCE(SUM(CASE WHEN status = 'APPROVED' THEN amount ELSE 0 END), 0) AS total_approved,
			COALESCE(SUM(CASE WHEN status = 'PAID' THEN amount ELSE 0 END), 0) AS total_paid,
			COALESCE(SUM(CASE WHEN status = 'CANCELLED' THEN amount ELSE 0 END), 0) AS total_cancelled,
			COUNT(*) AS count`)).
		Scan(&summary).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get commission summary: %w", err)
	}
	return &summary, nil
}

func (r *commissionRepository) LifetimeEarnings(memberID uint) (float64, error) {
	var total float64
	err := r.db.Model(&models.Commission{}).
		Where("member_id = ? AND status IN ?", memberID,
			[]models.CommissionStatus{models.CommissionApproved, models.CommissionPaid}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get lifetime earnings: %w", err)
	}
	return total, nil
}

func (r *commissionRepository) SalesTotalByBuyer(buyerID uint) (float64, error) {
	var total float64
	err := r.db.Model(&models.Order{}).
		Where("buyer_id = ? AND status = ?", buyerID, models.OrderCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get sales total: %w", err)
	}
	return total, nil
}

type ruleRepository struct {
	db *gorm.DB
}

func NewRuleRepository(db *gorm.DB) RuleRepository {
	return &ruleRepository{db: db}
}

func (r *ruleRepository) Create(rule *models.CommissionRule) error {
	var count int64
	err := r.db.Model(&models.CommissionRule{}).
		Where("type = ? AND level = ?", rule.Type, rule.Level).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to check rule uniqueness: %w", err)
	}
	if count > 0 {
		return ErrDuplicateRule
	}
	if err := r.db.Create(rule).Error; err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}
	return nil
}

func (r *ruleRepository) GetByID(id uint) (*models.CommissionRule, error) {
	var rule models.CommissionRule
	if err := r.db.First(&rule, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return &rule, nil
}

func (r *ruleRepository) GetActive(commissionType models.CommissionType, level int) (*models.CommissionRule, error) {
	var rule models.CommissionRule
	err := r.db.Where("type = ? AND level = ? AND active = ?", commissionType, level, true).
		Order("priority DESC").
		First(&rule).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRuleNotFound
		}
		return nil, fmt.Errorf("failed to get active rule: %w", err)
	}
	return &rule, nil
}

func (r *ruleRepository) List() ([]models.CommissionRule, error) {
	var rules []models.CommissionRule
	err := r.db.Order("type ASC, level ASC").Find(&rules).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list rules: %w", err)
	}
	return rules, nil
}

func (r *ruleRepository) Update(rule *models.CommissionRule) error {
	if err := r.db.Save(rule).Error; err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}
	return nil
}

func (r *ruleRepository) Delete(id uint) error {
	result := r.db.Delete(&models.CommissionRule{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete rule: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrRuleNotFound
	}
	return nil
}
