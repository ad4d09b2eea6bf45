package commission

import (
	"context"
	"testing"

	domainerrors "upline/internal/errors"
	"upline/internal/models"
	"upline/internal/repositories/repotest"
	"upline/internal/services/settings"
	"upline/internal/services/withdrawal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(store *repotest.Store) Service {
	repos := store.Repos()
	settingsService := settings.NewService(repos.Settings, nil)
	return NewService(store.TxManager(), repos.Commissions, settingsService, nil)
}

func seedSaleLadder(store *repotest.Store) {
	store.AddRule(&models.CommissionRule{Type: models.CommissionTypeSale, Level: 1, Percentage: 10, Active: true})
	store.AddRule(&models.CommissionRule{Type: models.CommissionTypeSale, Level: 2, Percentage: 5, Active: true})
	store.AddRule(&models.CommissionRule{Type: models.CommissionTypeSale, Level: 3, Percentage: 2, Active: true})
}

func TestProcessOrder_FanOut(t *testing.T) {
	store := repotest.NewStore()
	seedSaleLadder(store)
	chain := store.AddChain(4) // buyer plus three uplines
	buyer := chain[0]

	order := store.AddOrder(&models.Order{
		BuyerID:        buyer.ID,
		Amount:         10000,
		CommissionType: models.CommissionTypeSale,
		Status:         models.OrderPending,
		Reference:      "ord-1",
	})

	service := newFixture(store)
	result, err := service.ProcessOrder(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Created)
	assert.False(t, result.AlreadyProcessed)
	assert.InDelta(t, 1700.0, result.TotalAmount, 0.001)

	commissions := store.Commissions()
	require.Len(t, commissions, 3)
	assert.InDelta(t, 1000.0, commissions[0].Amount, 0.001)
	assert.InDelta(t, 500.0, commissions[1].Amount, 0.001)
	assert.InDelta(t, 200.0, commissions[2].Amount, 0.001)
	for _, c := range commissions {
		assert.Equal(t, models.CommissionPending, c.Status)
	}

	// Pending credit, not spendable balance, until approval.
	w := store.Wallet(chain[1].ID)
	require.NotNil(t, w)
	assert.InDelta(t, 1000.0, w.Pending, 0.001)
	assert.InDelta(t, 0.0, w.Balance, 0.001)

	assert.Equal(t, models.OrderCompleted, store.Order(order.ID).Status)
}

func TestProcessOrder_Idempotent(t *testing.T) {
	store := repotest.NewStore()
	seedSaleLadder(store)
	chain := store.AddChain(2)

	order := store.AddOrder(&models.Order{
		BuyerID:        chain[0].ID,
		Amount:         1000,
		CommissionType: models.CommissionTypeSale,
		Status:         models.OrderPending,
		Reference:      "ord-2",
	})

	service := newFixture(store)
	first, err := service.ProcessOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Created)

	second, err := service.ProcessOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, second.AlreadyProcessed)
	assert.Equal(t, 0, second.Created)

	assert.Len(t, store.Commissions(), 1)
	assert.InDelta(t, 100.0, store.Wallet(chain[1].ID).Pending, 0.001)
}

func TestProcessOrder_NoSponsor(t *testing.T) {
	store := repotest.NewStore()
	seedSaleLadder(store)
	buyer := store.AddMember(&models.Member{Name: "root", MLMEnabled: true})

	order := store.AddOrder(&models.Order{
		BuyerID:        buyer.ID,
		Amount:         1000,
		CommissionType: models.CommissionTypeSale,
		Status:         models.OrderPending,
		Reference:      "ord-3",
	})

	service := newFixture(store)
	result, err := service.ProcessOrder(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Created)
	assert.Empty(t, store.Commissions())
	assert.Equal(t, models.OrderCompleted, store.Order(order.ID).Status)
}

func TestProcessOrder_CapAndMinimum(t *testing.T) {
	store := repotest.NewStore()
	maxCommission := 500.0
	minOrder := 2000.0
	store.AddRule(&models.CommissionRule{
		Type: models.CommissionTypeSale, Level: 1, Percentage: 10,
		MaxCommission: &maxCommission, MinOrderValue: &minOrder, Active: true,
	})
	chain := store.AddChain(2)

	service := newFixture(store)

	t.Run("cap clamps the payout", func(t *testing.T) {
		order := store.AddOrder(&models.Order{
			BuyerID: chain[0].ID, Amount: 10000,
			CommissionType: models.CommissionTypeSale,
			Status:         models.OrderPending, Reference: "ord-cap",
		})
		result, err := service.ProcessOrder(context.Background(), order.ID)
		require.NoError(t, err)
		require.Equal(t, 1, result.Created)
		assert.InDelta(t, 500.0, result.TotalAmount, 0.001)
	})

	t.Run("order below qualifying minimum earns nothing", func(t *testing.T) {
		order := store.AddOrder(&models.Order{
			BuyerID: chain[0].ID, Amount: 1500,
			CommissionType: models.CommissionTypeSale,
			Status:         models.OrderPending, Reference: "ord-min",
		})
		result, err := service.ProcessOrder(context.Background(), order.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, result.Created)
	})
}

func TestProcessOrder_SkipsDisabledEarner(t *testing.T) {
	store := repotest.NewStore()
	seedSaleLadder(store)
	chain := store.AddChain(3)
	// The direct sponsor has opted out; the grandsponsor still earns at
	// level 2, not level 1.
	chain[1].MLMEnabled = false
	store.AddMember(chain[1])

	order := store.AddOrder(&models.Order{
		BuyerID: chain[0].ID, Amount: 1000,
		CommissionType: models.CommissionTypeSale,
		Status:         models.OrderPending, Reference: "ord-4",
	})

	service := newFixture(store)
	result, err := service.ProcessOrder(context.Background(), order.ID)
	require.NoError(t, err)

	require.Equal(t, 1, result.Created)
	commissions := store.Commissions()
	assert.Equal(t, chain[2].ID, commissions[0].MemberID)
	assert.Equal(t, 2, commissions[0].Level)
	assert.InDelta(t, 50.0, commissions[0].Amount, 0.001)
}

func TestProcessOrder_CancelledOrder(t *testing.T) {
	store := repotest.NewStore()
	seedSaleLadder(store)
	chain := store.AddChain(2)
	order := store.AddOrder(&models.Order{
		BuyerID: chain[0].ID, Amount: 1000,
		CommissionType: models.CommissionTypeSale,
		Status:         models.OrderCancelled, Reference: "ord-5",
	})

	service := newFixture(store)
	_, err := service.ProcessOrder(context.Background(), order.ID)
	assert.ErrorIs(t, err, ErrOrderNotCompleted)
	assert.Empty(t, store.Commissions())
}

func TestProcessOrder_AutoApprove(t *testing.T) {
	store := repotest.NewStore()
	cfg := models.DefaultMLMSettings()
	cfg.AutoApproveCommissions = true
	store.SetSettings(cfg)
	seedSaleLadder(store)
	chain := store.AddChain(2)

	order := store.AddOrder(&models.Order{
		BuyerID: chain[0].ID, Amount: 1000,
		CommissionType: models.CommissionTypeSale,
		Status:         models.OrderPending, Reference: "ord-6",
	})

	service := newFixture(store)
	result, err := service.ProcessOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, result.AutoApproved)

	commissions := store.Commissions()
	require.Len(t, commissions, 1)
	assert.Equal(t, models.CommissionApproved, commissions[0].Status)
	require.NotNil(t, commissions[0].ApprovedAt)

	w := store.Wallet(chain[1].ID)
	assert.InDelta(t, 100.0, w.Balance, 0.001)
	assert.InDelta(t, 100.0, w.TotalEarned, 0.001)
	assert.InDelta(t, 0.0, w.Pending, 0.001)
}

func TestApprove(t *testing.T) {
	store := repotest.NewStore()
	member := store.AddMember(&models.Member{Name: "earner", MLMEnabled: true})
	store.AddWallet(&models.Wallet{MemberID: member.ID})
	c := store.AddCommission(&models.Commission{
		MemberID: member.ID, OrderID: 99, Level: 1,
		Type: models.CommissionTypeSale, Amount: 250, Status: models.CommissionPending,
	})
	w := store.Wallet(member.ID)
	w.Pending = 250
	store.AddWallet(w)

	service := newFixture(store)
	require.NoError(t, service.Approve(context.Background(), c.ID))

	w = store.Wallet(member.ID)
	assert.InDelta(t, 0.0, w.Pending, 0.001)
	assert.InDelta(t, 250.0, w.Balance, 0.001)
	assert.InDelta(t, 250.0, w.TotalEarned, 0.001)

	// Approving twice is an invalid transition.
	err := service.Approve(context.Background(), c.ID)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStateTransition)
}

func TestCancel(t *testing.T) {
	store := repotest.NewStore()
	member := store.AddMember(&models.Member{Name: "earner", MLMEnabled: true})

	t.Run("cancel pending reverses the pending credit", func(t *testing.T) {
		c := store.AddCommission(&models.Commission{
			MemberID: member.ID, OrderID: 100, Level: 1,
			Type: models.CommissionTypeSale, Amount: 100, Status: models.CommissionPending,
		})
		store.AddWallet(&models.Wallet{MemberID: member.ID})
		w := store.Wallet(member.ID)
		w.Pending = 100
		store.AddWallet(w)

		service := newFixture(store)
		require.NoError(t, service.Cancel(context.Background(), c.ID))

		w = store.Wallet(member.ID)
		assert.InDelta(t, 0.0, w.Pending, 0.001)
		assert.Equal(t, models.CommissionCancelled, store.Commissions()[0].Status)
	})

	t.Run("cancel approved claws back balance but not lifetime earnings", func(t *testing.T) {
		c := store.AddCommission(&models.Commission{
			MemberID: member.ID, OrderID: 101, Level: 1,
			Type: models.CommissionTypeSale, Amount: 80, Status: models.CommissionApproved,
		})
		w := store.Wallet(member.ID)
		w.Balance = 80
		w.TotalEarned = 80
		store.AddWallet(w)

		service := newFixture(store)
		require.NoError(t, service.Cancel(context.Background(), c.ID))

		w = store.Wallet(member.ID)
		assert.InDelta(t, 0.0, w.Balance, 0.001)
		assert.InDelta(t, 80.0, w.TotalEarned, 0.001)
	})

	t.Run("cancel paid is rejected", func(t *testing.T) {
		c := store.AddCommission(&models.Commission{
			MemberID: member.ID, OrderID: 102, Level: 1,
			Type: models.CommissionTypeSale, Amount: 10, Status: models.CommissionPaid,
		})
		service := newFixture(store)
		err := service.Cancel(context.Background(), c.ID)
		assert.ErrorIs(t, err, domainerrors.ErrInvalidStateTransition)
	})
}

func TestCancel_ApprovedCreditAlreadySpent(t *testing.T) {
	store := repotest.NewStore()
	member := store.AddMember(&models.Member{Name: "earner", MLMEnabled: true})
	c := store.AddCommission(&models.Commission{
		MemberID: member.ID, OrderID: 300, Level: 1,
		Type: models.CommissionTypeSale, Amount: 100, Status: models.CommissionApproved,
	})
	store.AddWallet(&models.Wallet{MemberID: member.ID, Balance: 100, TotalEarned: 100})

	// The member escrows the whole balance into a withdrawal request
	// before the commission comes up for review.
	repos := store.Repos()
	withdrawalService := withdrawal.NewService(
		store.TxManager(), repos.Withdrawals, settings.NewService(repos.Settings, nil), nil)
	_, err := withdrawalService.Request(context.Background(), withdrawal.RequestInput{
		MemberID: member.ID,
		Amount:   100,
		Method:   models.WithdrawalMethodBank,
		Details: models.JSON{
			"bank_name":      "First Bank",
			"account_name":   "Jane Doe",
			"account_number": "0123456789",
		},
	})
	require.NoError(t, err)
	require.InDelta(t, 0.0, store.Wallet(member.ID).Balance, 0.001)

	// The credit is gone, so the clawback cannot be honored: the cancel
	// fails and the balance never goes negative.
	service := newFixture(store)
	err = service.Cancel(context.Background(), c.ID)
	assert.ErrorIs(t, err, domainerrors.ErrInsufficientBalanceForClawback)

	w := store.Wallet(member.ID)
	assert.GreaterOrEqual(t, w.Balance, 0.0)
	assert.Equal(t, models.CommissionApproved, store.Commissions()[0].Status)
}

func TestMarkPaid(t *testing.T) {
	store := repotest.NewStore()
	member := store.AddMember(&models.Member{Name: "earner"})
	store.AddWallet(&models.Wallet{MemberID: member.ID})
	approved := store.AddCommission(&models.Commission{
		MemberID: member.ID, OrderID: 200, Level: 1,
		Type: models.CommissionTypeSale, Amount: 60, Status: models.CommissionApproved,
	})
	pending := store.AddCommission(&models.Commission{
		MemberID: member.ID, OrderID: 201, Level: 1,
		Type: models.CommissionTypeSale, Amount: 40, Status: models.CommissionPending,
	})

	service := newFixture(store)

	require.NoError(t, service.MarkPaid(context.Background(), approved.ID))
	commissions := store.Commissions()
	assert.Equal(t, models.CommissionPaid, commissions[0].Status)
	require.NotNil(t, commissions[0].PaidAt)

	// Marking paid is bookkeeping only; the wallet stays untouched.
	w := store.Wallet(member.ID)
	assert.InDelta(t, 0.0, w.Balance, 0.001)

	err := service.MarkPaid(context.Background(), pending.ID)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidStateTransition)
}

func TestProcessOrder_UnknownOrder(t *testing.T) {
	store := repotest.NewStore()
	service := newFixture(store)
	_, err := service.ProcessOrder(context.Background(), 12345)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}
