package commission

import (
	"context"
	"log"
	"time"

	domainerrors "upline/internal/errors"
	"upline/internal/models"
	"upline/internal/repositories"
	"upline/internal/repositories/cache"
	"upline/internal/services/settings"
)

type Service interface {
	// ProcessOrder marks the order completed (if it is not already) and
	// runs the commission fan-out for it. Safe to call more than once.
	ProcessOrder(ctx context.Context, orderID uint) (*FanOutResult, error)

	// Admin state transitions.
	Approve(ctx context.Context, commissionID uint) error
	Cancel(ctx context.Context, commissionID uint) error
	MarkPaid(ctx context.Context, commissionID uint) error

	// Member-facing history.
	History(ctx context.Context, memberID uint, filter repositories.CommissionFilter, limit, offset int) ([]models.Commission, int64, error)
	Summary(ctx context.Context, memberID uint, filter repositories.CommissionFilter) (*repositories.CommissionSummary, error)
}

type service struct {
	tx          repositories.TxManager
	commissions repositories.CommissionRepository
	settings    settings.Service
	cache       *cache.CacheService
}

// NewService creates the commission engine. The cache may be nil.
func NewService(
	tx repositories.TxManager,
	commissions repositories.CommissionRepository,
	settingsService settings.Service,
	cacheService *cache.CacheService,
) Service {
	if tx == nil {
		panic("tx manager is required")
	}
	if commissions == nil {
		panic("commission repo is required")
	}
	if settingsService == nil {
		panic("settings service is required")
	}
	return &service{
		tx:          tx,
		commissions: commissions,
		settings:    settingsService,
		cache:       cacheService,
	}
}

func (s *service) ProcessOrder(ctx context.Context, orderID uint) (*FanOutResult, error) {
	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	result := &FanOutResult{OrderID: orderID, AutoApproved: cfg.AutoApproveCommissions}
	var credited []uint

	err = s.tx.ExecuteInTransaction(ctx, func(r *repositories.Repos) error {
		order, err := r.Orders.GetByIDForUpdate(orderID)
		if err != nil {
			if err == repositories.ErrOrderNotFound {
				return ErrOrderNotFound
			}
			return err
		}
		if order.Status == models.OrderCancelled {
			return ErrOrderNotCompleted
		}

		// Idempotence: a prior fan-out for this order means this run is
		// a no-op, never a double payout.
		existing, err := r.Commissions.CountByOrderID(order.ID)
		if err != nil {
			return err
		}
		if existing > 0 {
			result.AlreadyProcessed = true
			return nil
		}

		if order.Status != models.OrderCompleted {
			now := time.Now()
			order.Status = models.OrderCompleted
			order.CompletedAt = &now
			if err := r.Orders.Update(order); err != nil {
				return err
			}
		}

		chain, err := r.Members.GetUplineChain(order.BuyerID, cfg.MaxLevels)
		if err != nil {
			if err == repositories.ErrMemberNotFound {
				return domainerrors.ErrMemberNotFound
			}
			return err
		}

		for i := range chain {
			earner := &chain[i]
			level := i + 1

			if !earner.MLMEnabled {
				continue
			}

			rule, err := r.Rules.GetActive(order.CommissionType, level)
			if err != nil {
				if err == repositories.ErrRuleNotFound {
					continue
				}
				return err
			}

			amount, ok := rule.AmountFor(order.Amount)
			if !ok {
				continue
			}

			c := &models.Commission{
				MemberID: earner.ID,
				OrderID:  order.ID,
				Level:    level,
				Type:     order.CommissionType,
				Amount:   amount,
				Status:   models.CommissionPending,
			}
			if cfg.AutoApproveCommissions {
				now := time.Now()
				c.Status = models.CommissionApproved
				c.ApprovedAt = &now
			}
			if err := r.Commissions.Create(c); err != nil {
				return err
			}

			// Lazy wallet initialization: an eligible earner without a
			// wallet gets one rather than losing the commission.
			wallet, err := r.Wallets.GetOrCreateForUpdate(earner.ID)
			if err != nil {
				return err
			}
			if c.Status == models.CommissionApproved {
				wallet.Balance += amount
				wallet.TotalEarned += amount
			} else {
				wallet.Pending += amount
			}
			if err := r.Wallets.Update(wallet); err != nil {
				return err
			}

			credited = append(credited, earner.ID)
			result.Created++
			result.TotalAmount += amount
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidateWallets(ctx, credited)
	log.Printf("commission fan-out: order=%d created=%d total=%.2f already_processed=%t",
		result.OrderID, result.Created, result.TotalAmount, result.AlreadyProcessed)
	return result, nil
}

func (s *service) Approve(ctx context.Context, commissionID uint) error {
	var memberID uint
	err := s.tx.ExecuteInTransaction(ctx, func(r *repositories.Repos) error {
		c, err := r.Commissions.GetByID(commissionID)
		if err != nil {
			if err == repositories.ErrCommissionNotFound {
				return ErrCommissionNotFound
			}
			return err
		}
		if !c.Status.CanTransitionTo(models.CommissionApproved) {
			return domainerrors.ErrInvalidStateTransition
		}

		wallet, err := r.Wallets.GetOrCreateForUpdate(c.MemberID)
		if err != nil {
			return err
		}
		// Approval moves the amount from pending to balance and counts
		// it toward lifetime earnings exactly once.
		wallet.Pending -= c.Amount
		wallet.Balance += c.Amount
		wallet.TotalEarned += c.Amount
		if err := r.Wallets.Update(wallet); err != nil {
			return err
		}

		now := time.Now()
		c.Status = models.CommissionApproved
		c.ApprovedAt = &now
		memberID = c.MemberID
		return r.Commissions.Update(c)
	})
	if err != nil {
		return err
	}

	s.invalidateWallets(ctx, []uint{memberID})
	return nil
}

func (s *service) Cancel(ctx context.Context, commissionID uint) error {
	var memberID uint
	err := s.tx.ExecuteInTransaction(ctx, func(r *repositories.Repos) error {
		c, err := r.Commissions.GetByID(commissionID)
		if err != nil {
			if err == repositories.ErrCommissionNotFound {
				return ErrCommissionNotFound
			}
			return err
		}
		if !c.Status.CanTransitionTo(models.CommissionCancelled) {
			return domainerrors.ErrInvalidStateTransition
		}

		wallet, err := r.Wallets.GetOrCreateForUpdate(c.MemberID)
		if err != nil {
			return err
		}
		// Reverse whichever credit was applied. TotalEarned stays put:
		// it is monotone, and rank reads lifetime earnings from the
		// commission table where CANCELLED rows never count.
		switch c.Status {
		case models.CommissionPending:
			wallet.Pending -= c.Amount
		case models.CommissionApproved:
			// The clawback must not drive the balance negative. A credit
			// already spent (escrowed into a withdrawal, for instance)
			// cannot be reversed; the cancel fails instead.
			if wallet.Balance < c.Amount {
				return domainerrors.ErrInsufficientBalanceForClawback
			}
			wallet.Balance -= c.Amount
		}
		if err := r.Wallets.Update(wallet); err != nil {
			return err
		}

		c.Status = models.CommissionCancelled
		memberID = c.MemberID
		return r.Commissions.Update(c)
	})
	if err != nil {
		return err
	}

	s.invalidateWallets(ctx, []uint{memberID})
	return nil
}

// MarkPaid records that an approved commission's funds left the system
// through a payout. It is bookkeeping only: the balance was credited at
// approval and is debited by the withdrawal workflow.
func (s *service) MarkPaid(ctx context.Context, commissionID uint) error {
	return s.tx.ExecuteInTransaction(ctx, func(r *repositories.Repos) error {
		c, err := r.Commissions.GetByID(commissionID)
		if err != nil {
			if err == repositories.ErrCommissionNotFound {
				return ErrCommissionNotFound
			}
			return err
		}
		if !c.Status.CanTransitionTo(models.CommissionPaid) {
			return domainerrors.ErrInvalidStateTransition
		}

		now := time.Now()
		c.Status = models.CommissionPaid
		c.PaidAt = &now
		return r.Commissions.Update(c)
	})
}

func (s *service) History(ctx context.Context, memberID uint, filter repositories.CommissionFilter, limit, offset int) ([]models.Commission, int64, error) {
	return s.commissions.ListByMember(memberID, filter, limit, offset)
}

func (s *service) Summary(ctx context.Context, memberID uint, filter repositories.CommissionFilter) (*repositories.CommissionSummary, error) {
	return s.commissions.SummaryByMember(memberID, filter)
}

func (s *service) invalidateWallets(ctx context.Context, memberIDs []uint) {
	if s.cache == nil {
		return
	}
	for _, id := range memberIDs {
		if err := s.cache.Delete(ctx, cache.WalletSummaryKey(id)); err != nil {
			log.Printf("failed to invalidate wallet cache for member %d: %v", id, err)
		}
	}
}
