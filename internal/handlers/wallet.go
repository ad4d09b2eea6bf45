package handlers

import (
	"upline/internal/models"
	"upline/internal/services/wallet"
	"upline/internal/services/withdrawal"
	"upline/internal/utils"
	"upline/internal/utils/pagination"
	"upline/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	walletService     wallet.Service
	withdrawalService withdrawal.Service
}

func NewWalletHandler(walletService wallet.Service, withdrawalService withdrawal.Service) *WalletHandler {
	return &WalletHandler{
		walletService:     walletService,
		withdrawalService: withdrawalService,
	}
}

func (h *WalletHandler) GetSummary(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	summary, err := h.walletService.GetSummary(c.Context(), claims.MemberID)
	if err != nil {
		return utils.InternalError(c, "failed to get wallet summary")
	}
	return utils.Success(c, fiber.Map{"wallet": summary})
}

func (h *WalletHandler) RequestWithdrawal(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input withdrawal.RequestInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	input.MemberID = claims.MemberID
	if err := validation.Struct(input); err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	w, err := h.withdrawalService.Request(c.Context(), input)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.Success(c, fiber.Map{
		"withdrawal_id": w.ID,
		"reference":     w.Reference,
		"amount":        w.Amount,
		"net_amount":    w.NetAmount,
		"fee_percent":   w.FeePercent,
		"status":        w.Status,
	})
}

func (h *WalletHandler) ListWithdrawals(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := pagination.ParseFromRequest(c)
	status := models.WithdrawalStatus(c.Query("status"))

	withdrawals, total, err := h.withdrawalService.ListByMember(c.Context(), claims.MemberID, status, p.Limit, p.Offset)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	p.Total = total
	return utils.Success(c, pagination.Response(p, withdrawals))
}
