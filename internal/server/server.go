// Package server wires services, handlers and middleware into the HTTP router.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"navtracker/internal/currency"
	"navtracker/internal/handlers"
	"navtracker/internal/metrics"
	"navtracker/internal/middleware"
	"navtracker/internal/services"

	_ "navtracker/internal/docs" // swagger docs
)

// Services bundles every service the API and the CLI depend on.
type Services struct {
	User         services.UserServicer
	AssetGroup   services.AssetGroupServicer
	Asset        services.AssetServicer
	PriceHistory services.PriceHistoryServicer
	Debt         services.DebtServicer
	Aggregator   services.AggregatorServicer
	NAV          services.NAVServicer
	Audit        services.AuditServicer
}

// NewServices builds the service graph on top of db. prices may be nil, in
// which case every refresh reports the price as unavailable.
func NewServices(db *gorm.DB, rates *currency.Table, prices services.PriceSource, m *metrics.Metrics) *Services {
	history := services.NewPriceHistoryService(db)
	aggregator := services.NewAggregatorService(db, rates)
	return &Services{
		User:         services.NewUserService(db),
		AssetGroup:   services.NewAssetGroupService(db, rates),
		Asset:        services.NewAssetService(db, history, prices, rates, m),
		PriceHistory: history,
		Debt:         services.NewDebtService(db, rates),
		Aggregator:   aggregator,
		NAV:          services.NewNAVService(db, aggregator, rates, m),
		Audit:        services.NewAuditService(db),
	}
}

// Options configures the router.
type Options struct {
	Rates *currency.Table

	// Metrics enables request instrumentation and the /metrics endpoint.
	Metrics       *metrics.Metrics
	MetricsAPIKey string
}

// NewRouter builds the gin engine serving the API.
func NewRouter(svc *Services, opts Options) *gin.Engine {
	rates := opts.Rates
	if rates == nil {
		rates = currency.Default()
	}

	authHandler := handlers.NewAuthHandler(svc.User, svc.Audit)
	groupHandler := handlers.NewAssetGroupHandler(svc.AssetGroup, svc.Audit)
	assetHandler := handlers.NewAssetHandler(svc.Asset, svc.PriceHistory, svc.Audit)
	debtHandler := handlers.NewDebtHandler(svc.Debt, svc.Audit)
	navHandler := handlers.NewNAVHandler(svc.NAV, svc.Asset, svc.Debt, svc.Audit)
	referenceHandler := handlers.NewReferenceHandler(rates)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestLogging())
	if opts.Metrics != nil {
		router.Use(middleware.HTTPMetrics(opts.Metrics))
	}
	router.Use(middleware.ErrorHandler())
	router.Use(cors())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if opts.Metrics != nil {
		router.GET("/metrics", middleware.MetricsAuthMiddleware(opts.MetricsAPIKey), gin.WrapH(opts.Metrics.Handler()))
	}

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// Protected routes
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware())

	protected.GET("/profile", authHandler.GetProfile)
	protected.PUT("/profile", authHandler.UpdateProfile)
	protected.PUT("/profile/avatar", authHandler.UpdateAvatar)
	protected.DELETE("/profile", authHandler.DeleteProfile)

	groups := protected.Group("/asset-groups")
	groups.POST("", groupHandler.CreateAssetGroup)
	groups.GET("", groupHandler.GetAssetGroups)
	groups.GET("/:id", groupHandler.GetAssetGroup)
	groups.PUT("/:id", groupHandler.UpdateAssetGroup)
	groups.DELETE("/:id", groupHandler.DeleteAssetGroup)

	assets := protected.Group("/assets")
	assets.POST("", assetHandler.CreateAsset)
	assets.GET("", assetHandler.GetAssets)
	assets.POST("/refresh", assetHandler.RefreshAllPrices)
	assets.GET("/:id", assetHandler.GetAsset)
	assets.PUT("/:id", assetHandler.UpdateAsset)
	assets.DELETE("/:id", assetHandler.DeleteAsset)
	assets.GET("/:id/history", assetHandler.GetAssetHistory)
	assets.POST("/:id/refresh", assetHandler.RefreshAssetPrice)

	debts := protected.Group("/debts")
	debts.POST("", debtHandler.CreateDebt)
	debts.GET("", debtHandler.GetDebts)
	debts.GET("/:id", debtHandler.GetDebt)
	debts.PUT("/:id", debtHandler.UpdateDebt)
	debts.DELETE("/:id", debtHandler.DeleteDebt)

	protected.GET("/dashboard", navHandler.GetDashboard)

	nav := protected.Group("/nav")
	nav.GET("", navHandler.GetNAV)
	nav.POST("/snapshots", navHandler.CreateSnapshot)
	nav.GET("/snapshots", navHandler.GetSnapshots)
	nav.GET("/snapshots/:id", navHandler.GetSnapshot)
	nav.GET("/reports", navHandler.GetReports)

	protected.GET("/currencies", referenceHandler.GetCurrencies)
	protected.GET("/tokens", referenceHandler.GetTokens)

	return router
}

func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
