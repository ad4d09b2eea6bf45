package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"upline/internal/models"
	"upline/internal/repositories/repotest"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetWalletTotals(t *testing.T) {
	store := repotest.NewStore()
	store.AddWallet(&models.Wallet{MemberID: 1, Balance: 120.50})
	store.AddWallet(&models.Wallet{MemberID: 2, Balance: 79.50})
	store.AddWallet(&models.Wallet{MemberID: 3, Balance: 0})

	h := NewAdminHandler(nil, nil, nil, nil, nil, store.Repos().Wallets)
	app := fiber.New()
	app.Get("/wallets", h.GetWalletTotals)

	resp, err := app.Test(httptest.NewRequest("GET", "/wallets", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out struct {
		TotalBalance float64 `json:"total_balance"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.InDelta(t, 200.0, out.TotalBalance, 0.001)
}
