package currency

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	"github.com/coinfolio/coinfolio_service/internal/infrastructure/cache"
	apperrors "github.com/coinfolio/coinfolio_service/pkg/errors"
)

// RateSource derives fiat exchange rates from the price feed. The feed
// quotes bitcoin in every supported fiat currency, so the cross rate of
// currency C per USD is btc[C] / btc[usd].
type RateSource interface {
	GetBTCPrices(ctx context.Context, vsCurrencies []string) (map[string]float64, error)
}

// RateCache stores computed rates between feed refreshes
type RateCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// supportedCodes is the fixed set of display currencies, all known to
// the money registry.
var supportedCodes = []string{
	"usd", "eur", "gbp", "inr", "jpy", "cny", "krw", "aud", "cad", "chf",
	"sgd", "aed", "brl", "rub", "mxn", "php", "thb", "idr", "ngn", "zar",
}

const ratesCacheKey = "currency:rates"

// Service converts and formats USD amounts into a user's display
// currency. Rates are cached; on a feed outage the last cached rates
// keep serving.
type Service struct {
	rates  RateSource
	cache  RateCache
	ttl    time.Duration
	logger *zap.Logger
}

func NewService(rates RateSource, c RateCache, ttl time.Duration, logger *zap.Logger) *Service {
	return &Service{
		rates:  rates,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// SupportedCurrencies lists the display currencies with their symbols
func (s *Service) SupportedCurrencies() []entities.CurrencyInfo {
	infos := make([]entities.CurrencyInfo, 0, len(supportedCodes))
	for _, code := range supportedCodes {
		upper := strings.ToUpper(code)
		symbol := "$"
		name := upper
		if c := money.GetCurrency(upper); c != nil {
			symbol = c.Grapheme
		}
		infos = append(infos, entities.CurrencyInfo{
			Code:   upper,
			Symbol: symbol,
			Name:   name,
		})
	}
	return infos
}

// IsSupported reports whether code is a known display currency
func (s *Service) IsSupported(code string) bool {
	lower := strings.ToLower(code)
	for _, c := range supportedCodes {
		if c == lower {
			return true
		}
	}
	return false
}

// ExchangeRates returns the rate of each supported currency per USD
func (s *Service) ExchangeRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	var cached map[string]decimal.Decimal
	if err := s.cache.GetJSON(ctx, ratesCacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("Rates cache read failed", zap.Error(err))
	}

	btcPrices, err := s.rates.GetBTCPrices(ctx, supportedCodes)
	if err != nil {
		return nil, err
	}

	usdPrice, ok := btcPrices["usd"]
	if !ok || usdPrice <= 0 {
		return nil, apperrors.UpstreamUnavailable("exchange rates")
	}

	usd := decimal.NewFromFloat(usdPrice)
	rates := make(map[string]decimal.Decimal, len(btcPrices))
	for code, price := range btcPrices {
		rates[strings.ToUpper(code)] = decimal.NewFromFloat(price).Div(usd)
	}

	if err := s.cache.SetJSON(ctx, ratesCacheKey, rates, s.ttl); err != nil {
		s.logger.Warn("Rates cache write failed", zap.Error(err))
	}
	return rates, nil
}

// Convert turns a USD amount into the target currency. An unknown
// target or a feed outage returns the USD amount unchanged.
func (s *Service) Convert(ctx context.Context, amountUSD decimal.Decimal, target string) decimal.Decimal {
	rates, err := s.ExchangeRates(ctx)
	if err != nil {
		s.logger.Warn("Exchange rates unavailable, serving USD", zap.Error(err))
		return amountUSD
	}

	rate, ok := rates[strings.ToUpper(target)]
	if !ok {
		return amountUSD
	}
	return amountUSD.Mul(rate)
}

// Format renders an amount in the given currency with its symbol and
// the currency's own minor-unit precision.
func (s *Service) Format(amount decimal.Decimal, code string) string {
	upper := strings.ToUpper(code)
	c := money.GetCurrency(upper)
	if c == nil {
		c = money.GetCurrency(money.USD)
		upper = money.USD
	}

	factor := decimal.New(1, int32(c.Fraction))
	minor := amount.Mul(factor).Round(0).IntPart()
	return money.New(minor, upper).Display()
}
