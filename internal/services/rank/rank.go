// Package rank derives a member's performance tier from downline size and
// lifetime earnings. Rank is read-only derived data, distinct from the
// administrative MLM level stored on the member.
package rank

import (
	"context"

	domainerrors "upline/internal/errors"
	"upline/internal/repositories"
)

// Tier is one rung of the rank ladder. Both thresholds must be met.
type Tier struct {
	Name        string  `json:"name"`
	MinDownline int64   `json:"min_downline"`
	MinEarnings float64 `json:"min_earnings"`
}

// Ladder is ordered lowest to highest. Calculate scans it top-down and
// stops at the first tier whose thresholds are both satisfied.
var Ladder = []Tier{
	{Name: "Starter", MinDownline: 0, MinEarnings: 0},
	{Name: "Bronze", MinDownline: 5, MinEarnings: 5000},
	{Name: "Silver", MinDownline: 15, MinEarnings: 25000},
	{Name: "Gold", MinDownline: 30, MinEarnings: 100000},
	{Name: "Platinum", MinDownline: 60, MinEarnings: 300000},
	{Name: "Diamond", MinDownline: 100, MinEarnings: 750000},
	{Name: "Crown", MinDownline: 200, MinEarnings: 2000000},
}

// NextRequirement describes what is still missing for the next tier.
type NextRequirement struct {
	Tier         string  `json:"tier"`
	MinDownline  int64   `json:"min_downline"`
	MinEarnings  float64 `json:"min_earnings"`
	NeedDownline int64   `json:"need_downline"`
	NeedEarnings float64 `json:"need_earnings"`
}

// Result is the outcome of a rank calculation.
type Result struct {
	Tier     string           `json:"tier"`
	Downline int64            `json:"downline"`
	Earnings float64          `json:"earnings"`
	Next     *NextRequirement `json:"next,omitempty"`
}

// Calculate is a pure function over (total downline count, lifetime
// earnings). Lifetime earnings means the sum of APPROVED and PAID
// commissions; cancelled amounts never count.
func Calculate(downline int64, earnings float64) Result {
	current := 0
	for i := len(Ladder) - 1; i >= 0; i-- {
		if downline >= Ladder[i].MinDownline && earnings >= Ladder[i].MinEarnings {
			current = i
			break
		}
	}

	result := Result{
		Tier:     Ladder[current].Name,
		Downline: downline,
		Earnings: earnings,
	}

	if current+1 < len(Ladder) {
		next := Ladder[current+1]
		req := &NextRequirement{
			Tier:        next.Name,
			MinDownline: next.MinDownline,
			MinEarnings: next.MinEarnings,
		}
		if downline < next.MinDownline {
			req.NeedDownline = next.MinDownline - downline
		}
		if earnings < next.MinEarnings {
			req.NeedEarnings = next.MinEarnings - earnings
		}
		result.Next = req
	}
	return result
}

// Service resolves a member's rank from persisted aggregates.
type Service interface {
	GetRank(ctx context.Context, memberID uint) (*Result, error)
}

type service struct {
	members     repositories.MemberRepository
	commissions repositories.CommissionRepository
}

func NewService(members repositories.MemberRepository, commissions repositories.CommissionRepository) Service {
	return &service{members: members, commissions: commissions}
}

func (s *service) GetRank(ctx context.Context, memberID uint) (*Result, error) {
	if _, err := s.members.GetByID(memberID); err != nil {
		if err == repositories.ErrMemberNotFound {
			return nil, domainerrors.ErrMemberNotFound
		}
		return nil, err
	}

	downline, err := s.members.CountTotalDownline(ctx, memberID)
	if err != nil {
		return nil, err
	}

	earnings, err := s.commissions.LifetimeEarnings(memberID)
	if err != nil {
		return nil, err
	}

	result := Calculate(downline, earnings)
	return &result, nil
}
