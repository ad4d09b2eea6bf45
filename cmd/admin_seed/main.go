// Command admin_seed bootstraps a fresh deployment: the admin account
// with its wallet, the default program settings row, and a starter
// commission rule ladder.
package main

import (
	"log"
	"os"

	"upline/internal/config"
	"upline/internal/models"
	"upline/internal/repositories"
	"upline/internal/services/member"

	"golang.org/x/crypto/bcrypt"
)

// defaultRules is the starter sale ladder: 10% / 5% / 2% over three levels.
var defaultRules = []models.CommissionRule{
	{Type: models.CommissionTypeSale, Level: 1, Percentage: 10, Active: true},
	{Type: models.CommissionTypeSale, Level: 2, Percentage: 5, Active: true},
	{Type: models.CommissionTypeSale, Level: 3, Percentage: 2, Active: true},
}

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminPhone := os.Getenv("ADMIN_PHONE")
	if adminEmail == "" || adminPassword == "" || adminPhone == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_PASSWORD, and ADMIN_PHONE must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if repositories.DB != nil {
			if sqlDB, err := repositories.DB.DB(); err == nil {
				if err := sqlDB.Close(); err != nil {
					log.Printf("Failed to close database connection: %v", err)
				}
			}
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("Failed to close Redis connection: %v", err)
			}
		}
	}()

	settingsRepo := repositories.NewSettingsRepository(repositories.DB)
	if _, err := settingsRepo.GetOrCreate(); err != nil {
		log.Fatal("Failed to seed settings:", err)
	}
	log.Println("Program settings present")

	ruleRepo := repositories.NewRuleRepository(repositories.DB)
	for i := range defaultRules {
		rule := defaultRules[i]
		if err := ruleRepo.Create(&rule); err != nil {
			if err == repositories.ErrDuplicateRule {
				continue
			}
			log.Fatal("Failed to seed commission rules:", err)
		}
		log.Printf("Seeded rule: type=%s level=%d percentage=%.0f%%", rule.Type, rule.Level, rule.Percentage)
	}

	memberRepo := repositories.NewMemberRepository(repositories.DB)
	if _, err := memberRepo.GetByEmail(adminEmail); err == nil {
		log.Println("Admin account already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := &models.Member{
		Name:         "Administrator",
		Email:        adminEmail,
		Phone:        adminPhone,
		Password:     string(hashedPassword),
		Role:         models.RoleAdmin,
		ReferralCode: member.NewReferralCode(),
		MLMEnabled:   false,
		Level:        1,
		TokenVersion: 1,
	}
	if err := repositories.DB.Create(admin).Error; err != nil {
		log.Fatal("Failed to create admin account:", err)
	}
	if err := repositories.DB.Create(&models.Wallet{MemberID: admin.ID}).Error; err != nil {
		log.Fatal("Failed to create admin wallet:", err)
	}

	log.Printf("Admin account created: id=%d referral_code=%s", admin.ID, admin.ReferralCode)
}
