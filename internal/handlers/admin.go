package handlers

import (
	"strconv"

	"upline/internal/models"
	"upline/internal/repositories"
	"upline/internal/services/commission"
	"upline/internal/services/member"
	"upline/internal/services/settings"
	"upline/internal/services/withdrawal"
	"upline/internal/utils"
	"upline/internal/utils/pagination"
	"upline/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler groups the back-office operations: commission and
// withdrawal review, rule configuration, program settings, and member
// management.
type AdminHandler struct {
	commissionService commission.Service
	withdrawalService withdrawal.Service
	memberService     member.Service
	settingsService   settings.Service
	rules             repositories.RuleRepository
	wallets           repositories.WalletRepository
}

func NewAdminHandler(
	commissionService commission.Service,
	withdrawalService withdrawal.Service,
	memberService member.Service,
	settingsService settings.Service,
	rules repositories.RuleRepository,
	wallets repositories.WalletRepository,
) *AdminHandler {
	return &AdminHandler{
		commissionService: commissionService,
		withdrawalService: withdrawalService,
		memberService:     memberService,
		settingsService:   settingsService,
		rules:             rules,
		wallets:           wallets,
	}
}

func paramID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, fiber.ErrBadRequest
	}
	return uint(id), nil
}

// --- Orders ---

// ProcessOrder marks an order completed and runs the commission fan-out.
func (h *AdminHandler) ProcessOrder(c *fiber.Ctx) error {
	orderID, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid order id")
	}

	result, err := h.commissionService.ProcessOrder(c.Context(), orderID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"result": result})
}

// --- Commissions ---

func (h *AdminHandler) ApproveCommission(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid commission id")
	}
	if err := h.commissionService.Approve(c.Context(), id); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "commission approved"})
}

func (h *AdminHandler) CancelCommission(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid commission id")
	}
	if err := h.commissionService.Cancel(c.Context(), id); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "commission cancelled"})
}

func (h *AdminHandler) MarkCommissionPaid(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid commission id")
	}
	if err := h.commissionService.MarkPaid(c.Context(), id); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "commission marked paid"})
}

// --- Withdrawals ---

func (h *AdminHandler) ListWithdrawals(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	status := models.WithdrawalStatus(c.Query("status"))

	withdrawals, total, err := h.withdrawalService.ListAll(c.Context(), status, p.Limit, p.Offset)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	p.Total = total
	return utils.Success(c, pagination.Response(p, withdrawals))
}

func (h *AdminHandler) GetWithdrawal(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid withdrawal id")
	}
	w, err := h.withdrawalService.GetByID(c.Context(), id)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"withdrawal": w})
}

type withdrawalDecisionInput struct {
	Note string `json:"note"`
}

func (h *AdminHandler) withdrawalAction(
	c *fiber.Ctx,
	action func(ctx *fiber.Ctx, id, adminID uint, note string) error,
	message string,
) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid withdrawal id")
	}

	var input withdrawalDecisionInput
	_ = c.BodyParser(&input)

	if err := action(c, id, claims.MemberID, input.Note); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"message": message})
}

func (h *AdminHandler) ApproveWithdrawal(c *fiber.Ctx) error {
	return h.withdrawalAction(c, func(ctx *fiber.Ctx, id, adminID uint, note string) error {
		return h.withdrawalService.Approve(ctx.Context(), id, adminID, note)
	}, "withdrawal approved")
}

func (h *AdminHandler) PayWithdrawal(c *fiber.Ctx) error {
	return h.withdrawalAction(c, func(ctx *fiber.Ctx, id, adminID uint, note string) error {
		return h.withdrawalService.Pay(ctx.Context(), id, adminID, note)
	}, "withdrawal paid")
}

func (h *AdminHandler) RejectWithdrawal(c *fiber.Ctx) error {
	return h.withdrawalAction(c, func(ctx *fiber.Ctx, id, adminID uint, note string) error {
		return h.withdrawalService.Reject(ctx.Context(), id, adminID, note)
	}, "withdrawal rejected")
}

// --- Commission rules ---

type ruleInput struct {
	Type          models.CommissionType `json:"type" validate:"required"`
	Level         int                   `json:"level" validate:"required,min=1,max=10"`
	Percentage    float64               `json:"percentage" validate:"gte=0,lte=100"`
	FixedAmount   *float64              `json:"fixed_amount" validate:"omitempty,gt=0"`
	MinOrderValue *float64              `json:"min_order_value" validate:"omitempty,gte=0"`
	MaxCommission *float64              `json:"max_commission" validate:"omitempty,gt=0"`
	Active        *bool                 `json:"active"`
	Priority      int                   `json:"priority"`
}

func (h *AdminHandler) CreateRule(c *fiber.Ctx) error {
	var input ruleInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	if !models.ValidCommissionType(input.Type) {
		return utils.BadRequest(c, "unknown commission type")
	}

	rule := &models.CommissionRule{
		Type:          input.Type,
		Level:         input.Level,
		Percentage:    input.Percentage,
		FixedAmount:   input.FixedAmount,
		MinOrderValue: input.MinOrderValue,
		MaxCommission: input.MaxCommission,
		Active:        true,
		Priority:      input.Priority,
	}
	if input.Active != nil {
		rule.Active = *input.Active
	}

	if err := h.rules.Create(rule); err != nil {
		if err == repositories.ErrDuplicateRule {
			return utils.Conflict(c, "a rule for this type and level already exists")
		}
		return utils.InternalError(c, "failed to create rule")
	}
	return utils.Success(c, fiber.Map{"rule": rule})
}

func (h *AdminHandler) ListRules(c *fiber.Ctx) error {
	rules, err := h.rules.List()
	if err != nil {
		return utils.InternalError(c, "failed to list rules")
	}
	return utils.Success(c, fiber.Map{"rules": rules})
}

func (h *AdminHandler) UpdateRule(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid rule id")
	}

	rule, err := h.rules.GetByID(id)
	if err != nil {
		if err == repositories.ErrRuleNotFound {
			return utils.NotFound(c, "rule not found")
		}
		return utils.InternalError(c, "failed to get rule")
	}

	var input struct {
		Percentage    *float64 `json:"percentage" validate:"omitempty,gte=0,lte=100"`
		FixedAmount   *float64 `json:"fixed_amount"`
		MinOrderValue *float64 `json:"min_order_value"`
		MaxCommission *float64 `json:"max_commission"`
		Active        *bool    `json:"active"`
		Priority      *int     `json:"priority"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	if input.Percentage != nil {
		rule.Percentage = *input.Percentage
	}
	if input.FixedAmount != nil {
		rule.FixedAmount = input.FixedAmount
	}
	if input.MinOrderValue != nil {
		rule.MinOrderValue = input.MinOrderValue
	}
	if input.MaxCommission != nil {
		rule.MaxCommission = input.MaxCommission
	}
	if input.Active != nil {
		rule.Active = *input.Active
	}
	if input.Priority != nil {
		rule.Priority = *input.Priority
	}

	if err := h.rules.Update(rule); err != nil {
		return utils.InternalError(c, "failed to update rule")
	}
	return utils.Success(c, fiber.Map{"rule": rule})
}

func (h *AdminHandler) DeleteRule(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid rule id")
	}
	if err := h.rules.Delete(id); err != nil {
		if err == repositories.ErrRuleNotFound {
			return utils.NotFound(c, "rule not found")
		}
		return utils.InternalError(c, "failed to delete rule")
	}
	return utils.Success(c, fiber.Map{"message": "rule deleted"})
}

// --- Settings ---

func (h *AdminHandler) GetSettings(c *fiber.Ctx) error {
	cfg, err := h.settingsService.Get(c.Context())
	if err != nil {
		return utils.InternalError(c, "failed to load settings")
	}
	return utils.Success(c, fiber.Map{"settings": cfg})
}

func (h *AdminHandler) UpdateSettings(c *fiber.Ctx) error {
	var input settings.UpdateInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if err := validation.Struct(input); err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	cfg, err := h.settingsService.Update(c.Context(), input)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"settings": cfg})
}

// --- Wallets ---

// GetWalletTotals reports the program's outstanding wallet liability,
// the sum of every member's spendable balance.
func (h *AdminHandler) GetWalletTotals(c *fiber.Ctx) error {
	total, err := h.wallets.TotalBalance()
	if err != nil {
		return utils.InternalError(c, "failed to sum wallet balances")
	}
	return utils.Success(c, fiber.Map{"total_balance": total})
}

// --- Members ---

func (h *AdminHandler) ListMembers(c *fiber.Ctx) error {
	p := pagination.ParseFromRequest(c)
	members, total, err := h.memberService.List(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return utils.InternalError(c, "failed to list members")
	}
	p.Total = total
	return utils.Success(c, pagination.Response(p, members))
}

func (h *AdminHandler) AssignSponsor(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid member id")
	}

	var input struct {
		SponsorID *uint `json:"sponsor_id"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	if err := h.memberService.AssignSponsor(c.Context(), id, input.SponsorID); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "sponsor assigned"})
}

func (h *AdminHandler) SetMLMEnabled(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.BadRequest(c, "invalid member id")
	}

	var input struct {
		Enabled *bool `json:"enabled" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.Enabled == nil {
		return utils.BadRequest(c, "enabled is required")
	}

	if err := h.memberService.SetMLMEnabled(c.Context(), id, *input.Enabled); err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"message": "member updated"})
}
