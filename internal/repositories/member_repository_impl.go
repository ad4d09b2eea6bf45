package repositories

import (
	"context"
	"fmt"

	"upline/internal/models"

	"gorm.io/gorm"
)

type memberRepository struct {
	db *gorm.DB
}

func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(member *models.Member) error {
	if err := r.db.Create(member).Error; err != nil {
		return fmt.Errorf("failed to create member: %w", err)
	}
	return nil
}

func (r *memberRepository) GetByID(id uint) (*models.Member, error) {
	var member models.Member
	if err := r.db.First(&member, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return &member, nil
}

func (r *memberRepository) GetByEmail(email string) (*models.Member, error) {
	var member models.Member
	if err := r.db.Where("email = ?", email).First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member by email: %w", err)
	}
	return &member, nil
}

func (r *memberRepository) GetByReferralCode(code string) (*models.Member, error) {
	var member models.Member
	if err := r.db.Where("referral_code = ?", code).First(&member).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member by referral code: %w", err)
	}
	return &member, nil
}

func (r *memberRepository) Update(member *models.Member) error {
	if err := r.db.Save(member).Error; err != nil {
		return fmt.Errorf("failed to update member: %w", err)
	}
	return nil
}

func (r *memberRepository) List(limit, offset int) ([]models.Member, int64, error) {
	var members []models.Member
	var total int64
	if err := r.db.Model(&models.Member{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count members: %w", err)
	}
	err := r.db.Order("id ASC").Limit(limit).Offset(offset).Find(&members).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list members: %w", err)
	}
	return members, total, nil
}

func (r *memberRepository) GetDirectDownline(memberID uint, limit, offset int) ([]models.Member, int64, error) {
	var members []models.Member
	var total int64
	q := r.db.Model(&models.Member{}).Where("sponsor_id = ?", memberID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count downline: %w", err)
	}
	err := q.Order("id ASC").Limit(limit).Offset(offset).Find(&members).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get direct downline: %w", err)
	}
	return members, total, nil
}

func (r *memberRepository) CountDirectDownline(memberID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Member{}).Where("sponsor_id = ?", memberID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count direct downline: %w", err)
	}
	return count, nil
}

// CountTotalDownline computes the full subtree size with a recursive CTE
// over the sponsor edge. The member itself is not counted.
func (r *memberRepository) CountTotalDownline(ctx context.Context, memberID uint) (int64, error) {
	var count int64
	query := `
		WITH RECURSIVE downline AS (
			SELECT id FROM members WHERE sponsor_id = ? AND deleted_at IS NULL
			UNION ALL
			SELECT m.id FROM members m
			INNER JOIN downline d ON m.sponsor_id = d.id
			WHERE m.deleted_at IS NULL
		)
		SELECT COUNT(*) FROM downline`
	err := r.db.WithContext(ctx).Raw(query, memberID).Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count total downline: %w", err)
	}
	return count, nil
}

// GetUplineChain returns the sponsor chain starting from the direct sponsor,
// ordered by level (index 0 is level 1). The chain stops at maxLevels or at
// the first member without a sponsor.
func (r *memberRepository) GetUplineChain(memberID uint, maxLevels int) ([]models.Member, error) {
	chain := make([]models.Member, 0, maxLevels)

	current, err := r.GetByID(memberID)
	if err != nil {
		return nil, err
	}

	for level := 0; level < maxLevels && current.SponsorID != nil; level++ {
		sponsor, err := r.GetByID(*current.SponsorID)
		if err != nil {
			if err == ErrMemberNotFound {
				break
			}
			return nil, err
		}
		chain = append(chain, *sponsor)
		current = sponsor
	}
	return chain, nil
}

// IsAncestor reports whether candidateID appears anywhere in memberID's
// upline chain. Used to reject sponsor assignments that would close a cycle.
func (r *memberRepository) IsAncestor(candidateID, memberID uint) (bool, error) {
	current, err := r.GetByID(memberID)
	if err != nil {
		return false, err
	}

	for current.SponsorID != nil {
		if *current.SponsorID == candidateID {
			return true, nil
		}
		current, err = r.GetByID(*current.SponsorID)
		if err != nil {
			if err == ErrMemberNotFound {
				return false, nil
			}
			return false, err
		}
	}
	return false, nil
}
