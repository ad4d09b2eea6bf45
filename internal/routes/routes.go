// Package routes defines the API routing configuration. It wires
// repositories, services, and handlers, then groups the routes by
// audience: public, member, and admin.
package routes

import (
	"upline/internal/handlers"
	"upline/internal/middleware"
	"upline/internal/models"
	"upline/internal/repositories"
	"upline/internal/services/auth"
	"upline/internal/services/commission"
	"upline/internal/services/member"
	"upline/internal/services/rank"
	"upline/internal/services/referral"
	"upline/internal/services/settings"
	"upline/internal/services/wallet"
	"upline/internal/services/withdrawal"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Repositories
	memberRepo := repositories.NewMemberRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	commissionRepo := repositories.NewCommissionRepository(db)
	ruleRepo := repositories.NewRuleRepository(db)
	withdrawalRepo := repositories.NewWithdrawalRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	settingsRepo := repositories.NewSettingsRepository(db)
	txManager := repositories.NewTxManager(db)

	cacheService := repositories.CacheService

	// Services
	settingsService := settings.NewService(settingsRepo, cacheService)
	authService := auth.NewService(memberRepo)
	memberService := member.NewService(txManager, memberRepo, settingsService)
	walletService := wallet.NewService(walletRepo, withdrawalRepo, cacheService)
	commissionService := commission.NewService(txManager, commissionRepo, settingsService, cacheService)
	withdrawalService := withdrawal.NewService(txManager, withdrawalRepo, settingsService, cacheService)
	referralService := referral.NewService(memberRepo, commissionRepo, cacheService)
	rankService := rank.NewService(memberRepo, commissionRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, memberService)
	memberHandler := handlers.NewMemberHandler(memberService)
	mlmHandler := handlers.NewMLMHandler(referralService, commissionService, rankService)
	walletHandler := handlers.NewWalletHandler(walletService, withdrawalService)
	orderHandler := handlers.NewOrderHandler(orderRepo)
	adminHandler := handlers.NewAdminHandler(commissionService, withdrawalService, memberService, settingsService, ruleRepo, walletRepo)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Upline API",
			"version": "1.0.0",
			"docs":    "/api",
		})
	})
	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/refresh", authHandler.Refresh)

	authMiddleware := middleware.NewAuthMiddleware(authService)
	protected := api.Use(authMiddleware.Handler)

	setupMemberRoutes(protected, authHandler, memberHandler, mlmHandler, walletHandler, orderHandler)
	setupAdminRoutes(app, authMiddleware, adminHandler)
}

func setupMemberRoutes(
	router fiber.Router,
	authHandler *handlers.AuthHandler,
	memberHandler *handlers.MemberHandler,
	mlmHandler *handlers.MLMHandler,
	walletHandler *handlers.WalletHandler,
	orderHandler *handlers.OrderHandler,
) {
	// Account
	router.Get("/me", memberHandler.GetProfile)
	router.Post("/change-password", authHandler.ChangePassword)
	router.Post("/logout", authHandler.Logout)

	// Referral network
	network := router.Group("/network", middleware.HasPermission(models.PermissionDownlineRead))
	network.Get("/downline", mlmHandler.GetDirectDownline)
	network.Get("/downline/count", mlmHandler.GetDownlineCount)
	network.Get("/tree", mlmHandler.GetDownlineTree)
	network.Get("/rank", mlmHandler.GetRank)

	// Commissions
	commissions := router.Group("/commissions", middleware.HasPermission(models.PermissionCommissionRead))
	commissions.Get("/", mlmHandler.GetCommissionHistory)
	commissions.Get("/summary", mlmHandler.GetCommissionSummary)

	// Wallet and withdrawals
	walletGroup := router.Group("/wallet")
	walletGroup.Get("/", middleware.HasPermission(models.PermissionWalletRead), walletHandler.GetSummary)
	walletGroup.Post("/withdraw", middleware.HasPermission(models.PermissionWithdrawalWrite), walletHandler.RequestWithdrawal)
	walletGroup.Get("/withdrawals", middleware.HasPermission(models.PermissionWalletRead), walletHandler.ListWithdrawals)

	// Orders
	orders := router.Group("/orders", middleware.HasPermission(models.PermissionOrderWrite))
	orders.Post("/", orderHandler.CreateOrder)
	orders.Get("/", orderHandler.ListMyOrders)
}

func setupAdminRoutes(app *fiber.App, authMiddleware *middleware.AuthMiddleware, h *handlers.AdminHandler) {
	admin := app.Group("/api/admin", authMiddleware.Handler, middleware.AdminOnly)

	// Order completion triggers the commission fan-out.
	admin.Post("/orders/:id/complete", middleware.HasPermission(models.PermissionCommissionWrite), h.ProcessOrder)

	// Commission review
	admin.Post("/commissions/:id/approve", middleware.HasPermission(models.PermissionCommissionWrite), h.ApproveCommission)
	admin.Post("/commissions/:id/cancel", middleware.HasPermission(models.PermissionCommissionWrite), h.CancelCommission)
	admin.Post("/commissions/:id/pay", middleware.HasPermission(models.PermissionCommissionWrite), h.MarkCommissionPaid)

	// Withdrawal review
	admin.Get("/withdrawals", middleware.HasPermission(models.PermissionWithdrawalAdmin), h.ListWithdrawals)
	admin.Get("/withdrawals/:id", middleware.HasPermission(models.PermissionWithdrawalAdmin), h.GetWithdrawal)
	admin.Post("/withdrawals/:id/approve", middleware.HasPermission(models.PermissionWithdrawalAdmin), h.ApproveWithdrawal)
	admin.Post("/withdrawals/:id/pay", middleware.HasPermission(models.PermissionWithdrawalAdmin), h.PayWithdrawal)
	admin.Post("/withdrawals/:id/reject", middleware.HasPermission(models.PermissionWithdrawalAdmin), h.RejectWithdrawal)

	// Rule configuration
	admin.Get("/rules", h.ListRules)
	admin.Post("/rules", middleware.HasPermission(models.PermissionRuleWrite), h.CreateRule)
	admin.Put("/rules/:id", middleware.HasPermission(models.PermissionRuleWrite), h.UpdateRule)
	admin.Delete("/rules/:id", middleware.HasPermission(models.PermissionRuleWrite), h.DeleteRule)

	// Program settings
	admin.Get("/settings", h.GetSettings)
	admin.Put("/settings", middleware.HasPermission(models.PermissionSettingsWrite), h.UpdateSettings)

	// Operations
	admin.Get("/wallets", middleware.HasPermission(models.PermissionWalletRead), h.GetWalletTotals)
	admin.Get("/cache-stats", handlers.CacheStats)

	// Member management
	admin.Get("/members", middleware.HasPermission(models.PermissionMemberRead), h.ListMembers)
	admin.Put("/members/:id/sponsor", middleware.HasPermission(models.PermissionMemberWrite), h.AssignSponsor)
	admin.Put("/members/:id/mlm-enabled", middleware.HasPermission(models.PermissionMemberWrite), h.SetMLMEnabled)
}
