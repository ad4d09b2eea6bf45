package models

import "github.com/golang-jwt/jwt/v5"

// Application permissions
const (
	// Admin permissions
	PermissionReadAdmin  = "admin:read"
	PermissionWriteAdmin = "admin:write"

	// Member permissions
	PermissionWalletRead      = "wallet:read"
	PermissionCommissionRead  = "commission:read"
	PermissionDownlineRead    = "downline:read"
	PermissionWithdrawalWrite = "withdrawal:write"
	PermissionOrderWrite      = "order:write"
	PermissionChangePassword  = "member:change-password"

	// Back-office permissions
	PermissionCommissionWrite = "commission:write"
	PermissionWithdrawalAdmin = "withdrawal:admin"
	PermissionRuleWrite       = "rule:write"
	PermissionSettingsWrite   = "settings:write"
	PermissionMemberRead      = "member:read"
	PermissionMemberWrite     = "member:write"
)

type UserClaims struct {
	jwt.RegisteredClaims
	MemberID     uint     `json:"member_id"`
	Email        string   `json:"email"`
	Role         string   `json:"role"`
	Permissions  []string `json:"permissions"`
	TokenVersion int      `json:"token_version"`
}

// HasPermission checks if the claims include a specific permission
func (c *UserClaims) HasPermission(permission string) bool {
	for _, p := range c.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// GetDefaultPermissions returns default permissions based on role
func GetDefaultPermissions(role string) []string {
	switch role {
	case RoleAdmin:
		return []string{
			PermissionWalletRead,
			PermissionCommissionRead,
			PermissionDownlineRead,
			PermissionWithdrawalWrite,
			PermissionOrderWrite,
			PermissionChangePassword,
			PermissionReadAdmin,
			PermissionWriteAdmin,
			PermissionCommissionWrite,
			PermissionWithdrawalAdmin,
			PermissionRuleWrite,
			PermissionSettingsWrite,
			PermissionMemberRead,
			PermissionMemberWrite,
		}
	case RoleMember:
		return []string{
			PermissionWalletRead,
			PermissionCommissionRead,
			PermissionDownlineRead,
			PermissionWithdrawalWrite,
			PermissionOrderWrite,
			PermissionChangePassword,
		}
	default:
		return []string{}
	}
}
