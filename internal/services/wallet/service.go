// Package wallet provides the read side of the earnings ledger. All
// mutations happen inside the commission and withdrawal services'
// transactions; this package serves summaries and lazy initialization.
package wallet

import (
	"context"
	"log"

	"upline/internal/models"
	"upline/internal/repositories"
	"upline/internal/repositories/cache"
)

type Service interface {
	// GetSummary returns the ledger view for a member. A member without a
	// wallet row yet gets a zero summary, not an error.
	GetSummary(ctx context.Context, memberID uint) (*Summary, error)
	// EnsureWallet lazily creates a zero wallet for the member.
	EnsureWallet(ctx context.Context, memberID uint) (*models.Wallet, error)
}

type service struct {
	wallets     repositories.WalletRepository
	withdrawals repositories.WithdrawalRepository
	cache       *cache.CacheService
}

// NewService creates the wallet service. The cache may be nil.
func NewService(
	wallets repositories.WalletRepository,
	withdrawals repositories.WithdrawalRepository,
	cacheService *cache.CacheService,
) Service {
	if wallets == nil {
		panic("wallet repo is required")
	}
	if withdrawals == nil {
		panic("withdrawal repo is required")
	}
	return &service{
		wallets:     wallets,
		withdrawals: withdrawals,
		cache:       cacheService,
	}
}

func (s *service) GetSummary(ctx context.Context, memberID uint) (*Summary, error) {
	if s.cache != nil {
		var cached Summary
		if found, err := s.cache.Get(ctx, cache.WalletSummaryKey(memberID), &cached); err == nil && found {
			return &cached, nil
		}
	}

	summary := &Summary{MemberID: memberID}

	w, err := s.wallets.GetByMemberID(memberID)
	if err != nil && err != repositories.ErrWalletNotFound {
		return nil, err
	}
	if err == nil {
		summary.Balance = w.Balance
		summary.Pending = w.Pending
		summary.TotalEarned = w.TotalEarned
		summary.TotalWithdrawn = w.TotalWithdrawn
	}

	pending, err := s.withdrawals.CountPendingByMember(memberID)
	if err != nil {
		return nil, err
	}
	summary.PendingWithdrawals = pending

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, cache.WalletSummaryKey(memberID), summary, cache.WalletSummaryTTL); err != nil {
			log.Printf("failed to cache wallet summary: %v", err)
		}
	}
	return summary, nil
}

func (s *service) EnsureWallet(ctx context.Context, memberID uint) (*models.Wallet, error) {
	w, err := s.wallets.GetByMemberID(memberID)
	if err == nil {
		return w, nil
	}
	if err != repositories.ErrWalletNotFound {
		return nil, err
	}

	w = &models.Wallet{MemberID: memberID}
	if err := s.wallets.Create(w); err != nil {
		return nil, err
	}
	return w, nil
}
