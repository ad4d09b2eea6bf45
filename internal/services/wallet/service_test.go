package wallet

import (
	"context"
	"testing"

	"upline/internal/models"
	"upline/internal/repositories/repotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(store *repotest.Store) Service {
	repos := store.Repos()
	return NewService(repos.Wallets, repos.Withdrawals, nil)
}

func TestGetSummary(t *testing.T) {
	store := repotest.NewStore()
	m := store.AddMember(&models.Member{Name: "m"})
	store.AddWallet(&models.Wallet{
		MemberID:       m.ID,
		Balance:        120,
		Pending:        30,
		TotalEarned:    400,
		TotalWithdrawn: 250,
	})
	store.AddWithdrawal(&models.Withdrawal{
		MemberID: m.ID, Reference: "w-1", Amount: 50, NetAmount: 47.5,
		Method: models.WithdrawalMethodBank, Status: models.WithdrawalPending,
	})
	store.AddWithdrawal(&models.Withdrawal{
		MemberID: m.ID, Reference: "w-2", Amount: 60, NetAmount: 57,
		Method: models.WithdrawalMethodBank, Status: models.WithdrawalApproved,
	})
	store.AddWithdrawal(&models.Withdrawal{
		MemberID: m.ID, Reference: "w-3", Amount: 70, NetAmount: 66.5,
		Method: models.WithdrawalMethodBank, Status: models.WithdrawalPaid,
	})

	service := newFixture(store)
	summary, err := service.GetSummary(context.Background(), m.ID)
	require.NoError(t, err)

	assert.Equal(t, m.ID, summary.MemberID)
	assert.InDelta(t, 120.0, summary.Balance, 0.001)
	assert.InDelta(t, 30.0, summary.Pending, 0.001)
	assert.InDelta(t, 400.0, summary.TotalEarned, 0.001)
	assert.InDelta(t, 250.0, summary.TotalWithdrawn, 0.001)
	// PENDING and APPROVED requests are still in flight; PAID is not.
	assert.Equal(t, int64(2), summary.PendingWithdrawals)
}

func TestGetSummary_NoWallet(t *testing.T) {
	store := repotest.NewStore()
	service := newFixture(store)

	summary, err := service.GetSummary(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint(7), summary.MemberID)
	assert.Zero(t, summary.Balance)
	assert.Zero(t, summary.TotalEarned)
	assert.Zero(t, summary.PendingWithdrawals)
}

func TestEnsureWallet(t *testing.T) {
	store := repotest.NewStore()
	m := store.AddMember(&models.Member{Name: "m"})
	service := newFixture(store)

	w, err := service.EnsureWallet(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.ID, w.MemberID)
	assert.Zero(t, w.Balance)

	// A second call returns the same wallet instead of creating another.
	again, err := service.EnsureWallet(context.Background(), m.ID)
	require.NoError(t, err)
	assert.Equal(t, w.ID, again.ID)
}
