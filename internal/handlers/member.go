package handlers

import (
	"upline/internal/services/member"
	"upline/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type MemberHandler struct {
	memberService member.Service
}

func NewMemberHandler(memberService member.Service) *MemberHandler {
	return &MemberHandler{memberService: memberService}
}

func (h *MemberHandler) GetProfile(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	m, err := h.memberService.GetByID(c.Context(), claims.MemberID)
	if err != nil {
		return utils.DomainErrorResponse(c, err)
	}

	return utils.Success(c, fiber.Map{
		"member": fiber.Map{
			"id":            m.ID,
			"name":          m.Name,
			"email":         m.Email,
			"phone":         m.Phone,
			"role":          m.Role,
			"referral_code": m.ReferralCode,
			"sponsor_id":    m.SponsorID,
			"level":         m.Level,
			"mlm_enabled":   m.MLMEnabled,
			"created_at":    m.CreatedAt,
		},
	})
}
