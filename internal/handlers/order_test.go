package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"upline/internal/models"
	"upline/internal/repositories/repotest"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOrderApp(store *repotest.Store, memberID uint) *fiber.App {
	app := fiber.New()
	h := NewOrderHandler(store.Repos().Orders)
	app.Post("/orders", func(c *fiber.Ctx) error {
		c.Locals("claims", &models.UserClaims{MemberID: memberID})
		return c.Next()
	}, h.CreateOrder)
	return app
}

func postOrder(t *testing.T, app *fiber.App, body string) map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest("POST", "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	out["_status"] = resp.StatusCode
	return out
}

func TestCreateOrder_ReferenceIdempotent(t *testing.T) {
	store := repotest.NewStore()
	buyer := store.AddMember(&models.Member{Name: "buyer", MLMEnabled: true})
	app := newOrderApp(store, buyer.ID)

	first := postOrder(t, app, `{"amount":250,"reference":"client-ref-1"}`)
	require.Equal(t, fiber.StatusOK, first["_status"])

	// Resubmitting the same reference returns the original order rather
	// than creating a second one.
	second := postOrder(t, app, `{"amount":250,"reference":"client-ref-1"}`)
	require.Equal(t, fiber.StatusOK, second["_status"])
	assert.Equal(t, first["order_id"], second["order_id"])

	_, total, err := store.Repos().Orders.ListByBuyer(buyer.ID, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestCreateOrder_ReferenceOwnedByAnotherBuyer(t *testing.T) {
	store := repotest.NewStore()
	buyer := store.AddMember(&models.Member{Name: "buyer", MLMEnabled: true})
	other := store.AddMember(&models.Member{Name: "other", MLMEnabled: true})
	store.AddOrder(&models.Order{
		BuyerID: other.ID, Amount: 100,
		CommissionType: models.CommissionTypeSale,
		Status:         models.OrderPending, Reference: "taken-ref",
	})

	app := newOrderApp(store, buyer.ID)
	out := postOrder(t, app, `{"amount":100,"reference":"taken-ref"}`)
	assert.Equal(t, fiber.StatusConflict, out["_status"])
}
