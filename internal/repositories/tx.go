package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Repos bundles the repositories that participate in a single database
// transaction. Services that mutate the wallet ledger together with
// commissions, withdrawals, or orders receive a transaction-scoped Repos
// so the whole write batch commits or rolls back as one.
type Repos struct {
	Members     MemberRepository
	Orders      OrderRepository
	Commissions CommissionRepository
	Rules       RuleRepository
	Wallets     WalletRepository
	Withdrawals WithdrawalRepository
	Settings    SettingsRepository
}

// NewRepos builds the repository bundle over the given handle, which may
// be the root connection or an open transaction.
func NewRepos(db *gorm.DB) *Repos {
	return &Repos{
		Members:     NewMemberRepository(db),
		Orders:      NewOrderRepository(db),
		Commissions: NewCommissionRepository(db),
		Rules:       NewRuleRepository(db),
		Wallets:     NewWalletRepository(db),
		Withdrawals: NewWithdrawalRepository(db),
		Settings:    NewSettingsRepository(db),
	}
}

// TxManager runs a function against a transaction-scoped Repos bundle.
type TxManager interface {
	ExecuteInTransaction(ctx context.Context, fn func(r *Repos) error) error
}

type txManager struct {
	db *gorm.DB
}

func NewTxManager(db *gorm.DB) TxManager {
	return &txManager{db: db}
}

func (m *txManager) ExecuteInTransaction(ctx context.Context, fn func(r *Repos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}
