// Package settings manages the singleton MLM program configuration.
// The row is created lazily with defaults and read fresh on every
// operation, with only a short Redis TTL in front of it so admin changes
// propagate quickly.
package settings

import (
	"context"
	"log"

	domainerrors "upline/internal/errors"
	"upline/internal/models"
	"upline/internal/repositories"
	"upline/internal/repositories/cache"
)

// UpdateInput carries partial settings changes; nil fields are untouched.
type UpdateInput struct {
	MaxLevels              *int     `json:"max_levels" validate:"omitempty,min=1,max=10"`
	MinWithdrawal          *float64 `json:"min_withdrawal" validate:"omitempty,gte=0"`
	WithdrawalFeePercent   *float64 `json:"withdrawal_fee_percent" validate:"omitempty,gte=0,lte=100"`
	AutoApproveCommissions *bool    `json:"auto_approve_commissions"`
	AutoEnableOnSignup     *bool    `json:"auto_enable_on_signup"`
}

type Service interface {
	Get(ctx context.Context) (*models.MLMSettings, error)
	Update(ctx context.Context, input UpdateInput) (*models.MLMSettings, error)
}

type service struct {
	repo  repositories.SettingsRepository
	cache *cache.CacheService
}

// NewService creates the settings service. The cache may be nil.
func NewService(repo repositories.SettingsRepository, cacheService *cache.CacheService) Service {
	if repo == nil {
		panic("settings repo is required")
	}
	return &service{repo: repo, cache: cacheService}
}

func (s *service) Get(ctx context.Context) (*models.MLMSettings, error) {
	if s.cache != nil {
		var cached models.MLMSettings
		if found, err := s.cache.Get(ctx, cache.SettingsKey(), &cached); err == nil && found {
			return &cached, nil
		}
	}

	settings, err := s.repo.GetOrCreate()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, cache.SettingsKey(), settings, cache.SettingsTTL); err != nil {
			log.Printf("failed to cache settings: %v", err)
		}
	}
	return settings, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.MLMSettings, error) {
	settings, err := s.repo.GetOrCreate()
	if err != nil {
		return nil, err
	}

	if input.MaxLevels != nil {
		if *input.MaxLevels < 1 {
			return nil, domainerrors.Validation("INVALID_MAX_LEVELS", "max levels must be at least 1")
		}
		settings.MaxLevels = *input.MaxLevels
	}
	if input.MinWithdrawal != nil {
		if *input.MinWithdrawal < 0 {
			return nil, domainerrors.Validation("INVALID_MIN_WITHDRAWAL", "minimum withdrawal cannot be negative")
		}
		settings.MinWithdrawal = *input.MinWithdrawal
	}
	if input.WithdrawalFeePercent != nil {
		if *input.WithdrawalFeePercent < 0 || *input.WithdrawalFeePercent > 100 {
			return nil, domainerrors.Validation("INVALID_FEE_PERCENT", "withdrawal fee percent must be between 0 and 100")
		}
		settings.WithdrawalFeePercent = *input.WithdrawalFeePercent
	}
	if input.AutoApproveCommissions != nil {
		settings.AutoApproveCommissions = *input.AutoApproveCommissions
	}
	if input.AutoEnableOnSignup != nil {
		settings.AutoEnableOnSignup = *input.AutoEnableOnSignup
	}

	if err := s.repo.Update(settings); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, cache.SettingsKey()); err != nil {
			log.Printf("failed to invalidate settings cache: %v", err)
		}
	}
	return settings, nil
}
