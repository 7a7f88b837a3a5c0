package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cashcard/cashcard/internal/model"
)

// cashCardStore is the method set both stores share.
type cashCardStore interface {
	FindCashCard(ctx context.Context, id int64) (*model.CashCard, error)
	CreateCashCard(ctx context.Context, card *model.CashCard) error
	UpdateCashCard(ctx context.Context, card *model.CashCard) error
	DeleteCashCard(ctx context.Context, id int64) error
	ListCashCards(ctx context.Context, page model.PageRequest) ([]*model.CashCard, error)
}

// runStoreContract exercises a store that already holds the sample cards
// 99 (123.45), 100 (1.00) and 101 (150.00).
func runStoreContract(t *testing.T, newStore func(t *testing.T) cashCardStore) {
	t.Run("find existing", func(t *testing.T) {
		store := newStore(t)
		card, err := store.FindCashCard(context.Background(), 99)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if card.ID != 99 || !card.Amount.Equal(decimal.RequireFromString("123.45")) {
			t.Errorf("unexpected card %+v", card)
		}
	})

	t.Run("find missing", func(t *testing.T) {
		store := newStore(t)
		if _, err := store.FindCashCard(context.Background(), 1000); !errors.Is(err, ErrCashCardNotFound) {
			t.Fatalf("expected ErrCashCardNotFound, got %v", err)
		}
	})

	t.Run("create assigns fresh id", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		first := &model.CashCard{Amount: decimal.RequireFromString("250.00")}
		second := &model.CashCard{Amount: decimal.RequireFromString("3.50")}
		if err := store.CreateCashCard(ctx, first); err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := store.CreateCashCard(ctx, second); err != nil {
			t.Fatalf("create: %v", err)
		}

		for _, id := range []int64{99, 100, 101} {
			if first.ID == id || second.ID == id {
				t.Fatalf("new id collides with existing id %d", id)
			}
		}
		if first.ID == second.ID {
			t.Fatalf("expected distinct ids, both got %d", first.ID)
		}

		loaded, err := store.FindCashCard(ctx, first.ID)
		if err != nil {
			t.Fatalf("find created: %v", err)
		}
		if !loaded.Amount.Equal(first.Amount) {
			t.Errorf("amount = %s, want %s", loaded.Amount, first.Amount)
		}
	})

	t.Run("update existing", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		card := &model.CashCard{ID: 99, Amount: decimal.RequireFromString("19.99")}
		if err := store.UpdateCashCard(ctx, card); err != nil {
			t.Fatalf("update: %v", err)
		}

		loaded, err := store.FindCashCard(ctx, 99)
		if err != nil {
			t.Fatalf("find: %v", err)
		}
		if !loaded.Amount.Equal(card.Amount) {
			t.Errorf("amount = %s, want 19.99", loaded.Amount)
		}
	})

	t.Run("update missing creates nothing", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		err := store.UpdateCashCard(ctx, &model.CashCard{ID: 999, Amount: decimal.NewFromInt(1)})
		if !errors.Is(err, ErrCashCardNotFound) {
			t.Fatalf("expected ErrCashCardNotFound, got %v", err)
		}
		if _, err := store.FindCashCard(ctx, 999); !errors.Is(err, ErrCashCardNotFound) {
			t.Fatalf("update must not create a record, got %v", err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		if err := store.DeleteCashCard(ctx, 99); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := store.FindCashCard(ctx, 99); !errors.Is(err, ErrCashCardNotFound) {
			t.Fatalf("expected ErrCashCardNotFound after delete, got %v", err)
		}
		if err := store.DeleteCashCard(ctx, 99); !errors.Is(err, ErrCashCardNotFound) {
			t.Fatalf("second delete: expected ErrCashCardNotFound, got %v", err)
		}
	})

	t.Run("list default sort", func(t *testing.T) {
		store := newStore(t)
		cards, err := store.ListCashCards(context.Background(), model.PageRequest{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		assertIDs(t, cards, 100, 99, 101)
	})

	t.Run("list page of one", func(t *testing.T) {
		store := newStore(t)
		cards, err := store.ListCashCards(context.Background(), model.PageRequest{Page: 0, Size: 1})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		assertIDs(t, cards, 100)
	})

	t.Run("list second page", func(t *testing.T) {
		store := newStore(t)
		cards, err := store.ListCashCards(context.Background(), model.PageRequest{Page: 1, Size: 2})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		assertIDs(t, cards, 101)
	})

	t.Run("list past the end", func(t *testing.T) {
		store := newStore(t)
		cards, err := store.ListCashCards(context.Background(), model.PageRequest{Page: 5, Size: 2})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if cards == nil || len(cards) != 0 {
			t.Fatalf("expected empty non-nil page, got %v", cards)
		}
	})

	t.Run("list amount desc", func(t *testing.T) {
		store := newStore(t)
		page := model.PageRequest{Size: 1, Sort: []model.Order{{Field: model.SortFieldAmount, Direction: model.Desc}}}
		cards, err := store.ListCashCards(context.Background(), page)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		assertIDs(t, cards, 101)
	})

	t.Run("list ties broken by id", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		dup := &model.CashCard{Amount: decimal.RequireFromString("1.00")}
		if err := store.CreateCashCard(ctx, dup); err != nil {
			t.Fatalf("create: %v", err)
		}

		cards, err := store.ListCashCards(ctx, model.PageRequest{Size: 2})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		assertIDs(t, cards, 100, dup.ID)
	})

	t.Run("list unknown field", func(t *testing.T) {
		store := newStore(t)
		page := model.PageRequest{Sort: []model.Order{{Field: "owner", Direction: model.Asc}}}
		if _, err := store.ListCashCards(context.Background(), page); !errors.Is(err, model.ErrInvalidSort) {
			t.Fatalf("expected ErrInvalidSort, got %v", err)
		}
	})
}

func assertIDs(t *testing.T, cards []*model.CashCard, want ...int64) {
	t.Helper()

	if len(cards) != len(want) {
		t.Fatalf("got %d cards, want %d", len(cards), len(want))
	}
	for i, id := range want {
		if cards[i].ID != id {
			t.Fatalf("cards[%d].ID = %d, want %d", i, cards[i].ID, id)
		}
	}
}
