package referral

import (
	"context"
	"testing"

	domainerrors "upline/internal/errors"
	"upline/internal/models"
	"upline/internal/repositories/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedTree builds:
//
//	root
//	├── a
//	│   ├── a1
//	│   └── a2
//	└── b
func seedTree(store *repotest.Store) (root, a, b, a1, a2 *models.Member) {
	root = store.AddMember(&models.Member{Name: "root", ReferralCode: "UP-ROOT", MLMEnabled: true})
	a = store.AddMember(&models.Member{Name: "a", ReferralCode: "UP-A", SponsorID: &root.ID, Level: 2, MLMEnabled: true})
	b = store.AddMember(&models.Member{Name: "b", ReferralCode: "UP-B", SponsorID: &root.ID, Level: 2, MLMEnabled: true})
	a1 = store.AddMember(&models.Member{Name: "a1", ReferralCode: "UP-A1", SponsorID: &a.ID, Level: 3, MLMEnabled: true})
	a2 = store.AddMember(&models.Member{Name: "a2", ReferralCode: "UP-A2", SponsorID: &a.ID, Level: 3, MLMEnabled: true})
	return
}

func newFixture(store *repotest.Store) Service {
	repos := store.Repos()
	return NewService(repos.Members, repos.Commissions, nil)
}

func TestGetDirectDownline(t *testing.T) {
	store := repotest.NewStore()
	root, a, b, _, _ := seedTree(store)
	// Completed sales by a roll into its downline entry.
	store.AddOrder(&models.Order{BuyerID: a.ID, Amount: 300, Status: models.OrderCompleted, Reference: "o1"})
	store.AddOrder(&models.Order{BuyerID: a.ID, Amount: 200, Status: models.OrderCompleted, Reference: "o2"})
	store.AddOrder(&models.Order{BuyerID: a.ID, Amount: 999, Status: models.OrderPending, Reference: "o3"})

	service := newFixture(store)
	downline, total, err := service.GetDirectDownline(context.Background(), root.ID, 10, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	require.Len(t, downline, 2)
	assert.Equal(t, a.ID, downline[0].MemberID)
	assert.Equal(t, int64(2), downline[0].DirectCount)
	assert.InDelta(t, 500.0, downline[0].SalesTotal, 0.001)
	assert.Equal(t, b.ID, downline[1].MemberID)
	assert.Equal(t, int64(0), downline[1].DirectCount)
}

func TestGetDirectDownline_Empty(t *testing.T) {
	store := repotest.NewStore()
	service := newFixture(store)

	// A member with no downline, and even a nonexistent member, both get
	// an empty page rather than an error.
	downline, total, err := service.GetDirectDownline(context.Background(), 999, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, downline)
	assert.Zero(t, total)
}

func TestCountTotalDownline(t *testing.T) {
	store := repotest.NewStore()
	root, a, _, a1, _ := seedTree(store)
	service := newFixture(store)

	tests := []struct {
		name     string
		memberID uint
		want     int64
	}{
		{"root counts all descendants", root.ID, 4},
		{"mid-tree member", a.ID, 2},
		{"leaf", a1.ID, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := service.CountTotalDownline(context.Background(), tt.memberID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, count)
		})
	}
}

func TestGetDownlineTree(t *testing.T) {
	store := repotest.NewStore()
	root, a, _, _, _ := seedTree(store)
	service := newFixture(store)

	tree, err := service.GetDownlineTree(context.Background(), root.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, root.ID, tree.MemberID)
	assert.Equal(t, 0, tree.Depth)
	require.Len(t, tree.Children, 2)

	nodeA := tree.Children[0]
	assert.Equal(t, a.ID, nodeA.MemberID)
	assert.Equal(t, 1, nodeA.Depth)
	assert.Equal(t, int64(2), nodeA.DirectCount)
	assert.Len(t, nodeA.Children, 2)
}

func TestGetDownlineTree_DepthCap(t *testing.T) {
	store := repotest.NewStore()
	chain := store.AddChain(MaxTreeDepth + 3)
	service := newFixture(store)

	// Even an oversized depth request stops at MaxTreeDepth.
	tree, err := service.GetDownlineTree(context.Background(), chain[len(chain)-1].ID, 100)
	require.NoError(t, err)

	depth := 0
	for node := tree; len(node.Children) > 0; node = node.Children[0] {
		depth++
	}
	assert.Equal(t, MaxTreeDepth, depth)
}

func TestGetDownlineTree_UnknownRoot(t *testing.T) {
	store := repotest.NewStore()
	service := newFixture(store)

	_, err := service.GetDownlineTree(context.Background(), 42, 2)
	assert.ErrorIs(t, err, domainerrors.ErrMemberNotFound)
}
