package repositories

import (
	"errors"
	"time"

	"upline/internal/models"
)

var (
	ErrCommissionNotFound = errors.New("commission not found")
	ErrRuleNotFound       = errors.New("commission rule not found")
	ErrDuplicateRule      = errors.New("commission rule already exists")
)

// CommissionFilter narrows commission history queries.
type CommissionFilter struct {
	Type   models.CommissionType
	Status models.CommissionStatus
	From   *time.Time
	To     *time.Time
}

// CommissionSummary aggregates a member's commissions by status.
type CommissionSummary struct {
	TotalPending   float64
	TotalApproved  float64
	TotalPaid      float64
	TotalCancelled float64
	Count          int64
}

// CommissionRepository defines commission record persistence.
type CommissionRepository interface {
	Create(commission *models.Commission) error
	GetByID(id uint) (*models.Commission, error)
	Update(commission *models.Commission) error
	CountByOrderID(orderID uint) (int64, error)
	ListByMember(memberID uint, filter CommissionFilter, limit, offset int) ([]models.Commission, int64, error)
	SummaryByMember(memberID uint, filter CommissionFilter) (*CommissionSummary, error)
	// LifetimeEarnings is the sum of APPROVED and PAID commission amounts.
	LifetimeEarnings(memberID uint) (float64, error)
	SalesTotalByBuyer(buyerID uint) (float64, error)
}

// RuleRepository defines commission rule configuration persistence.
type RuleRepository interface {
	Create(rule *models.CommissionRule) error
	GetByID(id uint) (*models.CommissionRule, error)
	// GetActive returns the highest-priority active rule for (type, level).
	GetActive(commissionType models.CommissionType, level int) (*models.CommissionRule, error)
	List() ([]models.CommissionRule, error)
	Update(rule *models.CommissionRule) error
	Delete(id uint) error
}
