// Package withdrawal implements the payout request state machine:
// PENDING -> APPROVED -> PAID, or PENDING/APPROVED -> REJECTED. Funds are
// escrowed out of the wallet balance at request time, so a second
// concurrent request cannot spend the same money; rejection refunds the
// gross amount, payment books the net amount as withdrawn.
package withdrawal

import (
	"context"
	"log"
	"math"
	"time"

	domainerrors "upline/internal/errors"
	"upline/internal/models"
	"upline/internal/repositories"
	"upline/internal/repositories/cache"
	"upline/internal/services/settings"
	"upline/internal/validation"

	"github.com/google/uuid"
)

type Service interface {
	Request(ctx context.Context, input RequestInput) (*models.Withdrawal, error)
	Approve(ctx context.Context, withdrawalID, adminID uint, note string) error
	Pay(ctx context.Context, withdrawalID, adminID uint, note string) error
	Reject(ctx context.Context, withdrawalID, adminID uint, note string) error
	GetByID(ctx context.Context, withdrawalID uint) (*models.Withdrawal, error)
	ListByMember(ctx context.Context, memberID uint, status models.WithdrawalStatus, limit, offset int) ([]models.Withdrawal, int64, error)
	ListAll(ctx context.Context, status models.WithdrawalStatus, limit, offset int) ([]models.Withdrawal, int64, error)
}

type service struct {
	tx          repositories.TxManager
	withdrawals repositories.WithdrawalRepository
	settings    settings.Service
	cache       *cache.CacheService
}

// NewService creates the withdrawal service. The cache may be nil.
func NewService(
	tx repositories.TxManager,
	withdrawals repositories.WithdrawalRepository,
	settingsService settings.Service,
	cacheService *cache.CacheService,
) Service {
	if tx == nil {
		panic("tx manager is required")
	}
	if withdrawals == nil {
		panic("withdrawal repo is required")
	}
	if settingsService == nil {
		panic("settings service is required")
	}
	return &service{
		tx:          tx,
		withdrawals: withdrawals,
		settings:    settingsService,
		cache:       cacheService,
	}
}

func (s *service) Request(ctx context.Context, input RequestInput) (*models.Withdrawal, error) {
	if input.Amount <= 0 {
		return nil, domainerrors.ErrInvalidAmount
	}
	if err := validation.ValidateWithdrawalDetails(input.Method, input.Details); err != nil {
		return nil, err
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if input.Amount < cfg.MinWithdrawal {
		return nil, domainerrors.ErrBelowMinimumWithdrawal
	}

	net := roundCents(input.Amount * (1 - cfg.WithdrawalFeePercent/100))

	withdrawal := &models.Withdrawal{
		MemberID:   input.MemberID,
		Reference:  uuid.NewString(),
		Amount:     input.Amount,
		NetAmount:  net,
		FeePercent: cfg.WithdrawalFeePercent,
		Method:     input.Method,
		Details:    input.Details,
		Status:     models.WithdrawalPending,
	}

	err = s.tx.ExecuteInTransaction(ctx, func(r *repositories.Repos) error {
		wallet, err := r.Wallets.GetByMemberIDForUpdate(input.MemberID)
		if err != nil {
			if err == repositories.ErrWalletNotFound {
				return domainerrors.ErrInsufficientBalance
			}
			return err
		}
		if wallet.Balance < input.Amount {
			return domainerrors.ErrInsufficientBalance
		}

		// Escrow: the requested amount leaves the balance now and comes
		// back only on rejection.
		wallet.Balance -= input.Amount
		if err := r.Wallets.Update(wallet); err != nil {
			return err
		}
		return r.Withdrawals.Create(withdrawal)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateWallet(ctx, input.MemberID)
	log.Printf("withdrawal requested: member=%d amount=%.2f net=%.2f ref=%s",
		input.MemberID, withdrawal.Amount, withdrawal.NetAmount, withdrawal.Reference)
	return withdrawal, nil
}

func (s *service) Approve(ctx context.Context, withdrawalID, adminID uint, note string) error {
	// No balance movement: the funds were escrowed at request time.
	return s.transition(ctx, withdrawalID, adminID, note, models.WithdrawalApproved,
		func(r *repositories.Repos, w *models.Withdrawal) error { return nil })
}

func (s *service) Pay(ctx context.Context, withdrawalID, adminID uint, note string) error {
	var memberID uint
	err := s.transition(ctx, withdrawalID, adminID, note, models.WithdrawalPaid,
		func(r *repositories.Repos, w *models.Withdrawal) error {
			wallet, err := r.Wallets.GetOrCreateForUpdate(w.MemberID)
			if err != nil {
				return err
			}
			wallet.TotalWithdrawn += w.NetAmount
			memberID = w.MemberID
			return r.Wallets.Update(wallet)
		})
	if err != nil {
		return err
	}
	s.invalidateWallet(ctx, memberID)
	return nil
}

func (s *service) Reject(ctx context.Context, withdrawalID, adminID uint, note string) error {
	var memberID uint
	err := s.transition(ctx, withdrawalID, adminID, note, models.WithdrawalRejected,
		func(r *repositories.Repos, w *models.Withdrawal) error {
			wallet, err := r.Wallets.GetOrCreateForUpdate(w.MemberID)
			if err != nil {
				return err
			}
			// Refund the gross escrowed amount, not the net.
			wallet.Balance += w.Amount
			memberID = w.MemberID
			return r.Wallets.Update(wallet)
		})
	if err != nil {
		return err
	}
	s.invalidateWallet(ctx, memberID)
	return nil
}

// transition loads the withdrawal, checks the state machine, applies the
// ledger side effect, and stamps the audit fields, all in one transaction.
func (s *service) transition(
	ctx context.Context,
	withdrawalID, adminID uint,
	note string,
	next models.WithdrawalStatus,
	apply func(r *repositories.Repos, w *models.Withdrawal) error,
) error {
	return s.tx.ExecuteInTransaction(ctx, func(r *repositories.Repos) error {
		w, err := r.Withdrawals.GetByID(withdrawalID)
		if err != nil {
			if err == repositories.ErrWithdrawalNotFound {
				return domainerrors.NotFound("WITHDRAWAL")
			}
			return err
		}
		if !w.Status.CanTransitionTo(next) {
			return domainerrors.ErrInvalidStateTransition
		}

		if err := apply(r, w); err != nil {
			return err
		}

		now := time.Now()
		w.Status = next
		w.ProcessedBy = &adminID
		w.ProcessedAt = &now
		if note != "" {
			w.Note = note
		}
		if err := r.Withdrawals.Update(w); err != nil {
			return err
		}
		log.Printf("withdrawal %s: id=%d member=%d admin=%d", next, w.ID, w.MemberID, adminID)
		return nil
	})
}

func (s *service) GetByID(ctx context.Context, withdrawalID uint) (*models.Withdrawal, error) {
	w, err := s.withdrawals.GetByID(withdrawalID)
	if err != nil {
		if err == repositories.ErrWithdrawalNotFound {
			return nil, domainerrors.NotFound("WITHDRAWAL")
		}
		return nil, err
	}
	return w, nil
}

func (s *service) ListByMember(ctx context.Context, memberID uint, status models.WithdrawalStatus, limit, offset int) ([]models.Withdrawal, int64, error) {
	return s.withdrawals.ListByMember(memberID, status, limit, offset)
}

func (s *service) ListAll(ctx context.Context, status models.WithdrawalStatus, limit, offset int) ([]models.Withdrawal, int64, error) {
	return s.withdrawals.ListAll(status, limit, offset)
}

func (s *service) invalidateWallet(ctx context.Context, memberID uint) {
	if s.cache == nil || memberID == 0 {
		return
	}
	if err := s.cache.Delete(ctx, cache.WalletSummaryKey(memberID)); err != nil {
		log.Printf("failed to invalidate wallet summary for member %d: %v", memberID, err)
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
