// Package referral exposes read-side queries over the sponsor/downline
// forest. Traversal cost is proportional to subtree size, so tree queries
// are depth-capped for UI consumption.
package referral

import (
	"context"
	"log"

	domainerrors "upline/internal/errors"
	"upline/internal/models"
	"upline/internal/repositories"
	"upline/internal/repositories/cache"
)

// MaxTreeDepth is the hard cap on downline tree depth. The sponsor forest
// has unbounded fan-out and depth, so deeper views must paginate instead.
const MaxTreeDepth = 5

// treeChildPageSize bounds the per-node child fetch during tree assembly.
const treeChildPageSize = 200

type Service interface {
	GetDirectDownline(ctx context.Context, memberID uint, limit, offset int) ([]DownlineMember, int64, error)
	CountTotalDownline(ctx context.Context, memberID uint) (int64, error)
	GetDownlineTree(ctx context.Context, memberID uint, maxDepth int) (*TreeNode, error)
}

type service struct {
	members     repositories.MemberRepository
	commissions repositories.CommissionRepository
	cache       *cache.CacheService
}

// NewService creates the referral query service. The cache may be nil.
func NewService(
	members repositories.MemberRepository,
	commissions repositories.CommissionRepository,
	cacheService *cache.CacheService,
) Service {
	if members == nil {
		panic("member repo is required")
	}
	if commissions == nil {
		panic("commission repo is required")
	}
	return &service{members: members, commissions: commissions, cache: cacheService}
}

// GetDirectDownline returns the members directly sponsored by memberID.
// A nonexistent member yields an empty page, not an error.
func (s *service) GetDirectDownline(ctx context.Context, memberID uint, limit, offset int) ([]DownlineMember, int64, error) {
	members, total, err := s.members.GetDirectDownline(memberID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	downline := make([]DownlineMember, 0, len(members))
	for _, m := range members {
		entry, err := s.downlineEntry(&m)
		if err != nil {
			return nil, 0, err
		}
		downline = append(downline, *entry)
	}
	return downline, total, nil
}

// CountTotalDownline returns the full subtree size at any depth. The
// recursive walk is the expensive query on this surface, so the result is
// cached for a short window.
func (s *service) CountTotalDownline(ctx context.Context, memberID uint) (int64, error) {
	if s.cache != nil {
		var cached int64
		if found, err := s.cache.Get(ctx, cache.DownlineCountKey(memberID), &cached); err == nil && found {
			return cached, nil
		}
	}

	count, err := s.members.CountTotalDownline(ctx, memberID)
	if err != nil {
		return 0, err
	}

	if s.cache != nil {
		if err := s.cache.SetWithTTL(ctx, cache.DownlineCountKey(memberID), count, cache.DownlineCountTTL); err != nil {
			log.Printf("failed to cache downline count for member %d: %v", memberID, err)
		}
	}
	return count, nil
}

// GetDownlineTree builds the nested downline view rooted at memberID,
// capped at maxDepth levels (and never more than MaxTreeDepth). The root
// member must exist.
func (s *service) GetDownlineTree(ctx context.Context, memberID uint, maxDepth int) (*TreeNode, error) {
	if maxDepth < 1 || maxDepth > MaxTreeDepth {
		maxDepth = MaxTreeDepth
	}

	root, err := s.members.GetByID(memberID)
	if err != nil {
		if err == repositories.ErrMemberNotFound {
			return nil, domainerrors.ErrMemberNotFound
		}
		return nil, err
	}

	return s.buildNode(ctx, root, 0, maxDepth)
}

func (s *service) buildNode(ctx context.Context, member *models.Member, depth, maxDepth int) (*TreeNode, error) {
	directCount, err := s.members.CountDirectDownline(member.ID)
	if err != nil {
		return nil, err
	}
	salesTotal, err := s.commissions.SalesTotalByBuyer(member.ID)
	if err != nil {
		return nil, err
	}

	node := &TreeNode{
		MemberID:     member.ID,
		Name:         member.Name,
		ReferralCode: member.ReferralCode,
		Depth:        depth,
		DirectCount:  directCount,
		SalesTotal:   salesTotal,
	}

	if depth >= maxDepth {
		return node, nil
	}

	children, _, err := s.members.GetDirectDownline(member.ID, treeChildPageSize, 0)
	if err != nil {
		return nil, err
	}
	for i := range children {
		child, err := s.buildNode(ctx, &children[i], depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		node.Children = append(node.Children, child)
	}
	return node, nil
}

func (s *service) downlineEntry(m *models.Member) (*DownlineMember, error) {
	directCount, err := s.members.CountDirectDownline(m.ID)
	if err != nil {
		return nil, err
	}
	salesTotal, err := s.commissions.SalesTotalByBuyer(m.ID)
	if err != nil {
		return nil, err
	}
	return &DownlineMember{
		MemberID:     m.ID,
		Name:         m.Name,
		ReferralCode: m.ReferralCode,
		Level:        m.Level,
		MLMEnabled:   m.MLMEnabled,
		DirectCount:  directCount,
		SalesTotal:   salesTotal,
	}, nil
}
