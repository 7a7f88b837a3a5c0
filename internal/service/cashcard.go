// Package service provides business logic for the application.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cashcard/cashcard/internal/cache"
	"github.com/cashcard/cashcard/internal/metrics"
	"github.com/cashcard/cashcard/internal/model"
	"github.com/cashcard/cashcard/internal/repository"
)

// Service errors.
var (
	ErrCashCardNotFound = errors.New("cash card not found")
	ErrInvalidSort      = model.ErrInvalidSort
)

// Store persists cash cards. Implemented by repository.Repository and
// repository.MemoryStore.
type Store interface {
	FindCashCard(ctx context.Context, id int64) (*model.CashCard, error)
	CreateCashCard(ctx context.Context, card *model.CashCard) error
	UpdateCashCard(ctx context.Context, card *model.CashCard) error
	DeleteCashCard(ctx context.Context, id int64) error
	ListCashCards(ctx context.Context, page model.PageRequest) ([]*model.CashCard, error)
	Ping(ctx context.Context) error
}

// Cache is the read-through cache in front of the store.
// Implemented by cache.Cache and cache.Noop.
//
// Backfills carry the version read before the store lookup. DeleteCashCard
// bumps the version, so a backfill racing a write returns
// cache.ErrStaleVersion instead of caching the old value.
type Cache interface {
	GetCashCard(ctx context.Context, id int64) (*model.CashCard, error)
	CashCardVersion(ctx context.Context, id int64) (int64, error)
	SetCashCard(ctx context.Context, card *model.CashCard, version int64) error
	DeleteCashCard(ctx context.Context, id int64) error
	IsNegativelyCached(ctx context.Context, id int64) (bool, error)
	SetNegativeCache(ctx context.Context, id int64, version int64) error
}

// CashCardService handles cash card business logic.
type CashCardService struct {
	store   Store
	cache   Cache
	metrics metrics.Recorder
	logger  *slog.Logger
}

// NewCashCardService creates a new CashCardService. A nil cache, recorder
// or logger is replaced with a no-op.
func NewCashCardService(store Store, c Cache, recorder metrics.Recorder, logger *slog.Logger) *CashCardService {
	if c == nil {
		c = cache.Noop{}
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CashCardService{
		store:   store,
		cache:   c,
		metrics: recorder,
		logger:  logger,
	}
}

// GetCashCard returns the cash card with the given ID.
func (s *CashCardService) GetCashCard(ctx context.Context, id int64) (*model.CashCard, error) {
	card, err := s.cache.GetCashCard(ctx, id)
	if err == nil {
		s.metrics.IncCacheHit()
		return card, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("cash card cache read failed", "id", id, "error", err)
	}

	neg, err := s.cache.IsNegativelyCached(ctx, id)
	if err != nil {
		s.logger.Warn("negative cache read failed", "id", id, "error", err)
	}
	if neg {
		s.metrics.IncCacheHit()
		s.metrics.IncCashCardNotFound()
		return nil, ErrCashCardNotFound
	}
	s.metrics.IncCacheMiss()

	// Without a version there is nothing to guard the backfill with.
	version, err := s.cache.CashCardVersion(ctx, id)
	backfill := err == nil
	if err != nil {
		s.logger.Warn("cash card cache version read failed", "id", id, "error", err)
	}

	card, err = s.store.FindCashCard(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCashCardNotFound) {
			s.metrics.IncCashCardNotFound()
			if backfill {
				s.logBackfill(id, s.cache.SetNegativeCache(ctx, id, version))
			}
			return nil, ErrCashCardNotFound
		}
		return nil, fmt.Errorf("failed to get cash card: %w", err)
	}

	if backfill {
		s.logBackfill(id, s.cache.SetCashCard(ctx, card, version))
	}

	return card, nil
}

func (s *CashCardService) logBackfill(id int64, err error) {
	switch {
	case err == nil:
	case errors.Is(err, cache.ErrStaleVersion):
		s.logger.Debug("cash card changed during lookup, cache not filled", "id", id)
	default:
		s.logger.Warn("cash card cache write failed", "id", id, "error", err)
	}
}

// CreateCashCard stores a new cash card and sets its ID.
func (s *CashCardService) CreateCashCard(ctx context.Context, card *model.CashCard) error {
	card.ID = 0
	if err := s.store.CreateCashCard(ctx, card); err != nil {
		return fmt.Errorf("failed to create cash card: %w", err)
	}
	s.metrics.IncCashCardCreated()

	// A lookup before creation may have left a negative entry for this ID.
	s.invalidate(ctx, card.ID)

	return nil
}

// ListCashCards returns one page of cash cards. Without explicit sort
// keys the cards are ordered by amount, smallest first.
func (s *CashCardService) ListCashCards(ctx context.Context, page model.PageRequest) ([]*model.CashCard, error) {
	if page.Page < 0 {
		page.Page = 0
	}
	if page.Size < 0 {
		page.Size = 0
	}
	page.Sort = page.SortOr(model.DefaultSort())

	cards, err := s.store.ListCashCards(ctx, page)
	if err != nil {
		if errors.Is(err, model.ErrInvalidSort) {
			return nil, ErrInvalidSort
		}
		return nil, fmt.Errorf("failed to list cash cards: %w", err)
	}
	if cards == nil {
		cards = []*model.CashCard{}
	}

	return cards, nil
}

// UpdateCashCard replaces the amount of an existing cash card.
// It never creates a record.
func (s *CashCardService) UpdateCashCard(ctx context.Context, card *model.CashCard) error {
	if err := s.store.UpdateCashCard(ctx, card); err != nil {
		if errors.Is(err, repository.ErrCashCardNotFound) {
			s.metrics.IncCashCardNotFound()
			return ErrCashCardNotFound
		}
		return fmt.Errorf("failed to update cash card: %w", err)
	}
	s.metrics.IncCashCardUpdated()
	s.invalidate(ctx, card.ID)

	return nil
}

// DeleteCashCard removes a cash card. Returns ErrCashCardNotFound when
// no record with the ID exists.
func (s *CashCardService) DeleteCashCard(ctx context.Context, id int64) error {
	if err := s.store.DeleteCashCard(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCashCardNotFound) {
			s.metrics.IncCashCardNotFound()
			return ErrCashCardNotFound
		}
		return fmt.Errorf("failed to delete cash card: %w", err)
	}
	s.metrics.IncCashCardDeleted()
	s.invalidate(ctx, id)

	return nil
}

// Ping checks the backing store.
func (s *CashCardService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *CashCardService) invalidate(ctx context.Context, id int64) {
	if err := s.cache.DeleteCashCard(ctx, id); err != nil {
		s.logger.Warn("cash card cache invalidation failed", "id", id, "error", err)
	}
}
