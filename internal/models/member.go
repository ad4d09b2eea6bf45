package models

import (
	"time"

	"gorm.io/gorm"
)

// Member roles
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// Member is a storefront account that participates in the referral program.
// SponsorID is the direct upline; the sponsor edges form a forest, never a cycle.
type Member struct {
	gorm.Model
	Email        string  `gorm:"uniqueIndex;not null"`
	Password     string  `gorm:"not null" json:"-"`
	Name         string  `gorm:"not null"`
	Phone        string  `gorm:"uniqueIndex;not null"`
	Role         string  `gorm:"default:'member'"`
	ReferralCode string  `gorm:"uniqueIndex;not null"`
	SponsorID    *uint   `gorm:"index;default:null"`
	Sponsor      *Member `gorm:"foreignKey:SponsorID" json:"sponsor,omitempty"`
	// Level is the administrative tier assigned to the member, distinct
	// from the derived rank.
	Level        int  `gorm:"default:1"`
	MLMEnabled   bool `gorm:"default:false"`
	TokenVersion int  `gorm:"default:1"`
	LastLoginAt  time.Time
}
