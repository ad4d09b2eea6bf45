// Package member handles member lifecycle: registration with referral
// attribution, sponsor management, and MLM enablement.
package member

import (
	"context"
	"strings"

	domainerrors "upline/internal/errors"
	"upline/internal/models"
	"upline/internal/repositories"
	"upline/internal/services/settings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterInput is a signup request. ReferralCode is the sponsor's code
// and may be empty for an unsponsored (root) member.
type RegisterInput struct {
	Name         string `json:"name" validate:"required,min=2"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"required,min=7"`
	Password     string `json:"password" validate:"required,min=8"`
	ReferralCode string `json:"referral_code"`
}

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.Member, error)
	GetByID(ctx context.Context, memberID uint) (*models.Member, error)
	List(ctx context.Context, limit, offset int) ([]models.Member, int64, error)
	// AssignSponsor re-parents a member, rejecting assignments that would
	// create a cycle in the sponsor forest.
	AssignSponsor(ctx context.Context, memberID uint, sponsorID *uint) error
	SetMLMEnabled(ctx context.Context, memberID uint, enabled bool) error
}

type service struct {
	tx       repositories.TxManager
	members  repositories.MemberRepository
	settings settings.Service
}

func NewService(tx repositories.TxManager, members repositories.MemberRepository, settingsService settings.Service) Service {
	if tx == nil {
		panic("tx manager is required")
	}
	if members == nil {
		panic("member repo is required")
	}
	if settingsService == nil {
		panic("settings service is required")
	}
	return &service{tx: tx, members: members, settings: settingsService}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Member, error) {
	var sponsor *models.Member
	if input.ReferralCode != "" {
		var err error
		sponsor, err = s.members.GetByReferralCode(strings.TrimSpace(input.ReferralCode))
		if err != nil {
			if err == repositories.ErrMemberNotFound {
				return nil, domainerrors.Validation("INVALID_REFERRAL_CODE", "referral code not recognized")
			}
			return nil, err
		}
	}

	cfg, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	member := &models.Member{
		Name:         input.Name,
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Phone:        strings.TrimSpace(input.Phone),
		Password:     string(hashed),
		Role:         models.RoleMember,
		ReferralCode: NewReferralCode(),
		MLMEnabled:   cfg.AutoEnableOnSignup,
		Level:        1,
		TokenVersion: 1,
	}
	if sponsor != nil {
		member.SponsorID = &sponsor.ID
		member.Level = sponsor.Level + 1
	}

	err = s.tx.ExecuteInTransaction(ctx, func(r *repositories.Repos) error {
		if err := r.Members.Create(member); err != nil {
			return err
		}
		return r.Wallets.Create(&models.Wallet{MemberID: member.ID})
	})
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (s *service) GetByID(ctx context.Context, memberID uint) (*models.Member, error) {
	member, err := s.members.GetByID(memberID)
	if err != nil {
		if err == repositories.ErrMemberNotFound {
			return nil, domainerrors.ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

func (s *service) List(ctx context.Context, limit, offset int) ([]models.Member, int64, error) {
	return s.members.List(limit, offset)
}

func (s *service) AssignSponsor(ctx context.Context, memberID uint, sponsorID *uint) error {
	member, err := s.members.GetByID(memberID)
	if err != nil {
		if err == repositories.ErrMemberNotFound {
			return domainerrors.ErrMemberNotFound
		}
		return err
	}

	if sponsorID != nil {
		if *sponsorID == memberID {
			return domainerrors.ErrSponsorCycle
		}
		sponsor, err := s.members.GetByID(*sponsorID)
		if err != nil {
			if err == repositories.ErrMemberNotFound {
				return domainerrors.ErrMemberNotFound
			}
			return err
		}
		// The new sponsor must not sit inside the member's own subtree.
		inSubtree, err := s.members.IsAncestor(memberID, sponsor.ID)
		if err != nil {
			return err
		}
		if inSubtree {
			return domainerrors.ErrSponsorCycle
		}
		member.Level = sponsor.Level + 1
	} else {
		member.Level = 1
	}

	member.SponsorID = sponsorID
	return s.members.Update(member)
}

func (s *service) SetMLMEnabled(ctx context.Context, memberID uint, enabled bool) error {
	member, err := s.members.GetByID(memberID)
	if err != nil {
		if err == repositories.ErrMemberNotFound {
			return domainerrors.ErrMemberNotFound
		}
		return err
	}
	member.MLMEnabled = enabled
	return s.members.Update(member)
}

// NewReferralCode produces a short shareable code.
func NewReferralCode() string {
	return "UP-" + strings.ToUpper(uuid.NewString()[:8])
}
