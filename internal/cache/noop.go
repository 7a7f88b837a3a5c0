package cache

import (
	"context"

	"github.com/cashcard/cashcard/internal/model"
)

// Noop is used when no Redis is configured. Every lookup misses and every
// write is dropped.
type Noop struct{}

// GetCashCard always misses.
func (Noop) GetCashCard(ctx context.Context, id int64) (*model.CashCard, error) {
	return nil, ErrCacheMiss
}

// CashCardVersion always reports zero.
func (Noop) CashCardVersion(ctx context.Context, id int64) (int64, error) { return 0, nil }

// SetCashCard is a no-op.
func (Noop) SetCashCard(ctx context.Context, card *model.CashCard, version int64) error { return nil }

// DeleteCashCard is a no-op.
func (Noop) DeleteCashCard(ctx context.Context, id int64) error { return nil }

// IsNegativelyCached always reports false.
func (Noop) IsNegativelyCached(ctx context.Context, id int64) (bool, error) { return false, nil }

// SetNegativeCache is a no-op.
func (Noop) SetNegativeCache(ctx context.Context, id int64, version int64) error { return nil }
