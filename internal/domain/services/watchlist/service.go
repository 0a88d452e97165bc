package watchlist

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/domain/entities"
	apperrors "github.com/coinfolio/coinfolio_service/pkg/errors"
)

// WatchlistStore persists watchlist entries
type WatchlistStore interface {
	Add(ctx context.Context, item *entities.WatchlistItem) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*entities.WatchlistItem, error)
	Remove(ctx context.Context, userID uuid.UUID, coinID string) error
}

// PriceSource supplies current quotes for a batch of coin ids
type PriceSource interface {
	GetQuotes(ctx context.Context, coinIDs []string) (map[string]entities.Quote, error)
}

// Service manages per-user coin watchlists
type Service struct {
	store  WatchlistStore
	prices PriceSource
	logger *zap.Logger
}

func NewService(store WatchlistStore, prices PriceSource, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		prices: prices,
		logger: logger,
	}
}

// Add puts a coin on the user's watchlist
func (s *Service) Add(ctx context.Context, userID uuid.UUID, coinID, symbol, name string) (*entities.WatchlistItem, error) {
	coinID = strings.TrimSpace(coinID)
	if coinID == "" {
		return nil, apperrors.InvalidInput("coin id is required")
	}

	item := &entities.WatchlistItem{
		ID:      uuid.New(),
		UserID:  userID,
		CoinID:  coinID,
		Symbol:  strings.ToUpper(symbol),
		Name:    name,
		AddedAt: time.Now().UTC(),
	}
	if err := s.store.Add(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Debug("Watchlist item added",
		zap.String("user_id", userID.String()),
		zap.String("coin_id", coinID))
	return item, nil
}

// List returns the user's watchlist decorated with live quotes. A feed
// outage returns the list with zero quotes instead of failing.
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*entities.WatchlistEntry, error) {
	items, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	entries := make([]*entities.WatchlistEntry, 0, len(items))
	if len(items) == 0 {
		return entries, nil
	}

	coinIDs := make([]string, 0, len(items))
	for _, item := range items {
		coinIDs = append(coinIDs, item.CoinID)
	}

	quotes, err := s.prices.GetQuotes(ctx, coinIDs)
	if err != nil {
		s.logger.Warn("Price feed unavailable for watchlist", zap.Error(err))
		quotes = map[string]entities.Quote{}
	}

	for _, item := range items {
		quote := quotes[item.CoinID]
		entries = append(entries, &entities.WatchlistEntry{
			WatchlistItem:  *item,
			CurrentPrice:   quote.Price,
			PriceChange24h: quote.Change24h,
			MarketCap:      quote.MarketCap,
		})
	}
	return entries, nil
}

// Remove takes a coin off the user's watchlist
func (s *Service) Remove(ctx context.Context, userID uuid.UUID, coinID string) error {
	return s.store.Remove(ctx, userID, coinID)
}
