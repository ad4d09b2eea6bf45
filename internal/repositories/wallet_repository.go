package repositories

import (
	"errors"

	"upline/internal/models"
)

var (
	ErrWalletNotFound  = errors.New("wallet not found")
	ErrDuplicateWallet = errors.New("wallet already exists")
)

// WalletRepository defines wallet ledger persistence. Mutators are expected
// to run inside a transaction with the row locked via GetByMemberIDForUpdate.
type WalletRepository interface {
	Create(wallet *models.Wallet) error
	GetByMemberID(memberID uint) (*models.Wallet, error)
	// GetByMemberIDForUpdate loads the wallet row with SELECT ... FOR UPDATE
	// so concurrent mutators of the same wallet serialize.
	GetByMemberIDForUpdate(memberID uint) (*models.Wallet, error)
	// GetOrCreateForUpdate lazily initializes a zero wallet for the member
	// and returns it locked.
	GetOrCreateForUpdate(memberID uint) (*models.Wallet, error)
	Update(wallet *models.Wallet) error
	TotalBalance() (float64, error)
}
