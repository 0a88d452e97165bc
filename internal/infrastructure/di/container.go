package di

import (
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/adapters/coingecko"
	"github.com/coinfolio/coinfolio_service/internal/domain/services/alerts"
	authsvc "github.com/coinfolio/coinfolio_service/internal/domain/services/auth"
	"github.com/coinfolio/coinfolio_service/internal/domain/services/currency"
	portfoliosvc "github.com/coinfolio/coinfolio_service/internal/domain/services/portfolio"
	"github.com/coinfolio/coinfolio_service/internal/domain/services/reports"
	"github.com/coinfolio/coinfolio_service/internal/domain/services/trading"
	"github.com/coinfolio/coinfolio_service/internal/domain/services/valuation"
	"github.com/coinfolio/coinfolio_service/internal/domain/services/watchlist"
	"github.com/coinfolio/coinfolio_service/internal/infrastructure/adapters"
	"github.com/coinfolio/coinfolio_service/internal/infrastructure/cache"
	"github.com/coinfolio/coinfolio_service/internal/infrastructure/config"
	"github.com/coinfolio/coinfolio_service/internal/infrastructure/repositories"
	"github.com/coinfolio/coinfolio_service/internal/workers/alertwatch"
	"github.com/coinfolio/coinfolio_service/pkg/logger"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	DB     *sqlx.DB
	Cache  *cache.Cache
	Logger *logger.Logger
	ZapLog *zap.Logger

	// Repositories
	UserRepo        *repositories.UserRepository
	PortfolioRepo   *repositories.PortfolioRepository
	HoldingRepo     *repositories.HoldingRepository
	TradeRepo       *repositories.TradeRepository
	TransactionRepo *repositories.TransactionRepository
	WatchlistRepo   *repositories.WatchlistRepository
	AlertRepo       *repositories.AlertRepository

	// External services
	CoinGeckoClient *coingecko.Client
	PriceFeed       *coingecko.Source
	EmailService    *adapters.EmailService

	// Domain services
	TokenManager     *authsvc.TokenManager
	AuthService      *authsvc.Service
	PortfolioService *portfoliosvc.Service
	ValuationService *valuation.Service
	TradingService   *trading.Service
	WatchlistService *watchlist.Service
	AlertService     *alerts.Service
	CurrencyService  *currency.Service
	ReportService    *reports.Service

	// Workers
	AlertWorker *alertwatch.Worker
}

// NewContainer wires repositories, adapters and services together
func NewContainer(cfg *config.Config, db *sqlx.DB, redisCache *cache.Cache, log *logger.Logger) (*Container, error) {
	zapLog := log.Zap()

	userRepo := repositories.NewUserRepository(db, zapLog)
	portfolioRepo := repositories.NewPortfolioRepository(db, zapLog)
	holdingRepo := repositories.NewHoldingRepository(db, zapLog)
	tradeRepo := repositories.NewTradeRepository(db, zapLog)
	transactionRepo := repositories.NewTransactionRepository(db, zapLog)
	watchlistRepo := repositories.NewWatchlistRepository(db, zapLog)
	alertRepo := repositories.NewAlertRepository(db, zapLog)

	coinGeckoClient := coingecko.NewClient(cfg.CoinGecko, zapLog)
	priceFeed := coingecko.NewSource(coinGeckoClient, redisCache, cfg.CoinGecko, zapLog)
	emailService := adapters.NewEmailService(cfg.Email, zapLog)

	tokenManager := authsvc.NewTokenManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTTL)*time.Second,
		cfg.JWT.Issuer,
	)

	portfolioService := portfoliosvc.NewService(portfolioRepo, holdingRepo, transactionRepo, zapLog)
	authService := authsvc.NewService(userRepo, portfolioService, tokenManager, zapLog)
	valuationService := valuation.NewService(holdingRepo, priceFeed, zapLog)
	tradingService := trading.NewService(tradeRepo, priceFeed, zapLog)
	watchlistService := watchlist.NewService(watchlistRepo, priceFeed, zapLog)
	alertService := alerts.NewService(alertRepo, priceFeed, userRepo, emailService, zapLog)
	currencyService := currency.NewService(
		priceFeed,
		redisCache,
		time.Duration(cfg.Currency.RatesTTLMinutes)*time.Minute,
		zapLog,
	)
	reportService := reports.NewService(portfolioRepo, transactionRepo, valuationService, zapLog)

	alertWorker, err := alertwatch.NewWorker(alertService, cfg.Alerts, zapLog)
	if err != nil {
		return nil, err
	}

	return &Container{
		Config: cfg,
		DB:     db,
		Cache:  redisCache,
		Logger: log,
		ZapLog: zapLog,

		UserRepo:        userRepo,
		PortfolioRepo:   portfolioRepo,
		HoldingRepo:     holdingRepo,
		TradeRepo:       tradeRepo,
		TransactionRepo: transactionRepo,
		WatchlistRepo:   watchlistRepo,
		AlertRepo:       alertRepo,

		CoinGeckoClient: coinGeckoClient,
		PriceFeed:       priceFeed,
		EmailService:    emailService,

		TokenManager:     tokenManager,
		AuthService:      authService,
		PortfolioService: portfolioService,
		ValuationService: valuationService,
		TradingService:   tradingService,
		WatchlistService: watchlistService,
		AlertService:     alertService,
		CurrencyService:  currencyService,
		ReportService:    reportService,

		AlertWorker: alertWorker,
	}, nil
}
