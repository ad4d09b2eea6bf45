package handlers

import (
	"strconv"
	"time"

	"upline/internal/models"
	"upline/internal/repositories"
	"upline/internal/services/commission"
	"upline/internal/services/rank"
	"upline/internal/services/referral"
	"upline/internal/utils"
	"upline/internal/utils/pagination"

	"github.com/gofiber/fiber/v2"
)

// MLMHandler serves the member-facing referral, commission, and rank
// endpoints.
type MLMHandler struct {
	referralService   referral.Service
	commissionService commission.Service
	rankService       rank.Service
}

func NewMLMHandler(
	referralService referral.Service,
	commissionService commission.Service,
	rankService rank.Service,
) *MLMHandler {
	return &MLMHandler{
		referralService:   referralService,
		commissionService: commissionService,
		rankService:       rankService,
	}
}

func (h *MLMHandler) GetDirectDownline(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := pagination.ParseFromRequest(c)
	downline, total, err := h.referralService.GetDirectDownline(c.Context(), claims.MemberID, p.Limit, p.Offset)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	p.Total = total
	return utils.Success(c, pagination.Response(p, downline))
}

func (h *MLMHandler) GetDownlineCount(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	count, err := h.referralService.CountTotalDownline(c.Context(), claims.MemberID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"total_downline": count})
}

func (h *MLMHandler) GetDownlineTree(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	depth, _ := strconv.Atoi(c.Query("depth", strconv.Itoa(referral.MaxTreeDepth)))
	tree, err := h.referralService.GetDownlineTree(c.Context(), claims.MemberID, depth)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"tree": tree})
}

func (h *MLMHandler) GetRank(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	result, err := h.rankService.GetRank(c.Context(), claims.MemberID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"rank": result})
}

// parseCommissionFilter reads optional type/status/date-range filters.
func parseCommissionFilter(c *fiber.Ctx) repositories.CommissionFilter {
	filter := repositories.CommissionFilter{
		Type:   models.CommissionType(c.Query("type")),
		Status: models.CommissionStatus(c.Query("status")),
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			filter.From = &t
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24 * time.Hour)
			filter.To = &end
		}
	}
	return filter
}

func (h *MLMHandler) GetCommissionHistory(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	p := pagination.ParseFromRequest(c)
	filter := parseCommissionFilter(c)

	commissions, total, err := h.commissionService.History(c.Context(), claims.MemberID, filter, p.Limit, p.Offset)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	p.Total = total
	return utils.Success(c, pagination.Response(p, commissions))
}

func (h *MLMHandler) GetCommissionSummary(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	summary, err := h.commissionService.Summary(c.Context(), claims.MemberID, parseCommissionFilter(c))
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}
	return utils.Success(c, fiber.Map{"summary": summary})
}
