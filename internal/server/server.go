package server

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/krizhnx/CarnivalLDN-sub000/config"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/handlers"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/logger"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/middleware"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/models"
	"github.com/krizhnx/CarnivalLDN-sub000/internal/notifier"
)

func Start() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := logger.Init(cfg.Server.Environment); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := config.SeedAdmin(db, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(requestid.New())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "x-callback-token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	setupRoutes(r, db, cfg)

	zap.L().Info("starting server", zap.String("port", cfg.Server.Port))
	return r.Run(":" + cfg.Server.Port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.ConfigMiddleware(cfg))
	r.Use(middleware.XenditMiddleware(config.InitXenditClient(cfg)))
	r.Use(middleware.NotifierMiddleware(notifier.New(cfg.SMTP)))

	public := r.Group("/v1")
	{
		public.POST("/login", handlers.Login)

		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
		}

		public.POST("/checkout", handlers.Checkout)
		public.POST("/payments/xendit/callback", handlers.XenditCallback)
	}

	// Door staff and admins: the scanning surface.
	staff := r.Group("/v1")
	staff.Use(middleware.JWTAuthMiddleware(cfg.JWT.Secret))
	staff.Use(middleware.RequireRole(models.RoleAdmin, models.RoleStaff))
	{
		scans := staff.Group("/scans")
		{
			scans.POST("/tickets/validate", handlers.ValidateTicketScan)
			scans.POST("/tickets", handlers.RecordTicketScan)
			scans.POST("/guestlists/validate", handlers.ValidateGuestlistScan)
			scans.POST("/guestlists", handlers.RecordGuestlistScan)
		}

		staff.GET("/orders/:id/tickets/:tierId/qr", handlers.TicketQR)
		staff.GET("/guestlists/:id/qr", handlers.GuestlistQR)
	}

	// Admin back-office.
	admin := r.Group("/v1")
	admin.Use(middleware.JWTAuthMiddleware(cfg.JWT.Secret))
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/register", handlers.Register)

		events := admin.Group("/events")
		{
			events.POST("", handlers.CreateEvent)
			events.PUT("/:id", handlers.UpdateEvent)
			events.POST("/:id/archive", handlers.ArchiveEvent)
		}

		tiers := admin.Group("/tiers")
		{
			tiers.POST("", handlers.CreateTier)
			tiers.PUT("/:id", handlers.UpdateTier)
			tiers.PATCH("/:id/active", handlers.SetTierActive)
			tiers.DELETE("/:id", handlers.DeleteTier)
		}

		orders := admin.Group("/orders")
		{
			orders.GET("", handlers.ListOrders)
			orders.GET("/export", handlers.ExportOrdersCSV)
			orders.GET("/:id", handlers.GetOrder)
		}

		guestlists := admin.Group("/guestlists")
		{
			guestlists.POST("", handlers.CreateGuestlistPass)
			guestlists.PUT("/:id", handlers.UpdateGuestlistPass)
			guestlists.GET("", handlers.ListGuestlistPasses)
			guestlists.GET("/export", handlers.ExportGuestlistCSV)
		}

		affiliates := admin.Group("/affiliates")
		{
			affiliates.POST("", handlers.CreateAffiliate)
			affiliates.PUT("/:id", handlers.UpdateAffiliate)
			affiliates.GET("", handlers.ListAffiliates)
			affiliates.GET("/stats", handlers.AffiliateStats)
		}
	}
}
