package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coinfolio/coinfolio_service/internal/api/handlers"
	"github.com/coinfolio/coinfolio_service/internal/api/middleware"
	"github.com/coinfolio/coinfolio_service/internal/infrastructure/di"
	"github.com/coinfolio/coinfolio_service/pkg/health"
	"github.com/coinfolio/coinfolio_service/pkg/tracing"
)

// SetupRoutes configures all application routes
func SetupRoutes(container *di.Container) *gin.Engine {
	if container.Config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware, order matters
	router.Use(tracing.HTTPMiddleware())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(middleware.Logger(container.Logger))
	router.Use(middleware.Recovery(container.Logger))
	router.Use(middleware.CORS(container.Config.Server.AllowedOrigins))
	router.Use(middleware.RateLimit(container.Config.Server.RateLimitPerMin))
	router.Use(middleware.SecurityHeaders())

	checker := health.NewHealthChecker(10 * time.Second)
	checker.Register(health.NewDatabaseChecker(container.DB.DB, 5*time.Second))
	checker.Register(health.NewRedisChecker(container.Cache.Client(), 5*time.Second))
	checker.Register(health.NewExternalAPIChecker("coingecko", container.Config.CoinGecko.BaseURL+"/ping", 5*time.Second))

	healthHandlers := handlers.NewHealthHandlers(checker)
	router.GET("/health", healthHandlers.Health)
	router.GET("/ready", healthHandlers.Ready)
	router.GET("/live", healthHandlers.Live)
	router.GET("/version", handlers.VersionHandler())
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandlers := handlers.NewAuthHandlers(container.AuthService, container.ZapLog)
	portfolioHandlers := handlers.NewPortfolioHandlers(
		container.PortfolioService,
		container.TradingService,
		container.ValuationService,
		container.ZapLog,
	)
	marketHandlers := handlers.NewMarketHandlers(container.PriceFeed, container.ZapLog)
	watchlistHandlers := handlers.NewWatchlistHandlers(container.WatchlistService, container.ZapLog)
	alertHandlers := handlers.NewAlertHandlers(container.AlertService, container.ZapLog)
	currencyHandlers := handlers.NewCurrencyHandlers(container.CurrencyService, container.ZapLog)
	reportHandlers := handlers.NewReportHandlers(container.ReportService, container.ZapLog)

	api := router.Group("/api")
	{
		// No auth required
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandlers.Signup)
			auth.POST("/login", authHandlers.Login)
		}

		market := api.Group("/market")
		{
			market.GET("/global", marketHandlers.Global)
			market.GET("/listings", marketHandlers.Listings)
			market.GET("/trending", marketHandlers.Trending)
			market.GET("/search", marketHandlers.Search)
			market.GET("/coins", marketHandlers.CoinList)
			market.GET("/prices", marketHandlers.Prices)
			market.GET("/coins/:id", marketHandlers.Coin)
			market.GET("/coins/:id/history", marketHandlers.CoinHistory)
		}

		currencies := api.Group("/currencies")
		{
			currencies.GET("", currencyHandlers.Supported)
			currencies.GET("/rates", currencyHandlers.Rates)
			currencies.POST("/convert", currencyHandlers.Convert)
		}

		// Authenticated routes
		authed := api.Group("")
		authed.Use(middleware.Authentication(container.AuthService))
		{
			authed.GET("/auth/me", authHandlers.Me)
			authed.PUT("/auth/profile", authHandlers.UpdateProfile)

			portfolios := authed.Group("/portfolios")
			{
				portfolios.POST("", portfolioHandlers.Create)
				portfolios.GET("", portfolioHandlers.List)
				portfolios.GET("/summary", portfolioHandlers.Summary)
				portfolios.GET("/:id", portfolioHandlers.Get)
				portfolios.PUT("/:id", portfolioHandlers.Update)
				portfolios.DELETE("/:id", portfolioHandlers.Delete)
				portfolios.GET("/:id/metrics", portfolioHandlers.Metrics)
				portfolios.GET("/:id/overview", portfolioHandlers.Overview)
				portfolios.GET("/:id/transactions", portfolioHandlers.History)
				portfolios.GET("/:id/report", reportHandlers.Generate)

				portfolios.GET("/:id/holdings", portfolioHandlers.ListHoldings)
				portfolios.POST("/:id/holdings", portfolioHandlers.AddHolding)
				portfolios.PUT("/:id/holdings/:holdingId", portfolioHandlers.UpdateHolding)
				portfolios.DELETE("/:id/holdings/:holdingId", portfolioHandlers.DeleteHolding)
				portfolios.POST("/:id/holdings/:holdingId/sell", portfolioHandlers.SellHolding)
			}

			watchlistGroup := authed.Group("/watchlist")
			{
				watchlistGroup.POST("", watchlistHandlers.Add)
				watchlistGroup.GET("", watchlistHandlers.List)
				watchlistGroup.DELETE("/:coinId", watchlistHandlers.Remove)
			}

			alertGroup := authed.Group("/alerts")
			{
				alertGroup.POST("", alertHandlers.Create)
				alertGroup.GET("", alertHandlers.List)
				alertGroup.PUT("/:id", alertHandlers.SetActive)
				alertGroup.DELETE("/:id", alertHandlers.Delete)
			}
		}
	}

	return router
}
