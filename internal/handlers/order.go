package handlers

import (
	"upline/internal/models"
	"upline/internal/repositories"
	"upline/internal/utils"
	"upline/internal/utils/pagination"
	"upline/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// OrderHandler is the minimal order intake the commission engine hangs
// off. The storefront owns the full order lifecycle; this surface only
// records the slice the MLM core needs.
type OrderHandler struct {
	orders repositories.OrderRepository
}

func NewOrderHandler(orders repositories.OrderRepository) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Amount         float64               `json:"amount" validate:"required,gt=0"`
		CommissionType models.CommissionType `json:"commission_type"`
		Reference      string                `json:"reference"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	if input.CommissionType == "" {
		input.CommissionType = models.CommissionTypeSale
	}
	if !models.ValidCommissionType(input.CommissionType) {
		return utils.BadRequest(c, "unknown commission type")
	}
	if input.Reference == "" {
		input.Reference = uuid.NewString()
	} else if existing, err := h.orders.GetByReference(input.Reference); err == nil {
		if existing.BuyerID != claims.MemberID {
			return utils.Conflict(c, "reference already used")
		}
		// A client retry with the same reference gets the original order
		// back instead of a duplicate.
		return utils.Success(c, fiber.Map{
			"order_id":  existing.ID,
			"reference": existing.Reference,
			"status":    existing.Status,
		})
	}

	order := &models.Order{
		BuyerID:        claims.MemberID,
		Amount:         input.Amount,
		CommissionType: input.CommissionType,
		Status:         models.OrderPending,
		Reference:      input.Reference,
	}
	if err := h.orders.Create(order); err != nil {
		return utils.InternalError(c, "failed to create order")
	}

	return utils.Success(c, fiber.Map{
		"order_id":  order.ID,
		"reference": order.Reference,
		"status":    order.Status,
	})
}

func (h *OrderHandler) ListMyOrders(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := pagination.ParseFromRequest(c)
	orders, total, err := h.orders.ListByBuyer(claims.MemberID, p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "failed to list orders")
	}
	p.Total = total
	return utils.Success(c, pagination.Response(p, orders))
}
