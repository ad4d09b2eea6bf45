package repositories

import (
	"context"
	"errors"

	"upline/internal/models"
)

var (
	ErrMemberNotFound  = errors.New("member not found")
	ErrDuplicateMember = errors.New("member already exists")
)

// MemberRepository defines member persistence plus the referral-graph
// queries over the sponsor edge.
type MemberRepository interface {
	Create(member *models.Member) error
	GetByID(id uint) (*models.Member, error)
	GetByEmail(email string) (*models.Member, error)
	GetByReferralCode(code string) (*models.Member, error)
	Update(member *models.Member) error
	List(limit, offset int) ([]models.Member, int64, error)

	// Referral graph
	GetDirectDownline(memberID uint, limit, offset int) ([]models.Member, int64, error)
	CountDirectDownline(memberID uint) (int64, error)
	CountTotalDownline(ctx context.Context, memberID uint) (int64, error)
	GetUplineChain(memberID uint, maxLevels int) ([]models.Member, error)
	IsAncestor(candidateID, memberID uint) (bool, error)
}
