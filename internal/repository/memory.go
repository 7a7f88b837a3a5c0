package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/cashcard/cashcard/internal/model"
)

// MemoryStore keeps cash cards in process memory. It satisfies the same
// contract as Repository and is used for local runs and handler tests.
type MemoryStore struct {
	mu     sync.RWMutex
	cards  map[int64]model.CashCard
	nextID int64
}

// NewMemoryStore returns an empty store whose first assigned ID is 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cards:  make(map[int64]model.CashCard),
		nextID: 1,
	}
}

// Seed inserts cards with fixed IDs. Later creates get IDs above the
// highest seeded one.
func (m *MemoryStore) Seed(cards ...model.CashCard) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range cards {
		m.cards[c.ID] = c
		if c.ID >= m.nextID {
			m.nextID = c.ID + 1
		}
	}
}

// FindCashCard retrieves a cash card by its ID.
func (m *MemoryStore) FindCashCard(ctx context.Context, id int64) (*model.CashCard, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	card, ok := m.cards[id]
	if !ok {
		return nil, ErrCashCardNotFound
	}
	return &card, nil
}

// CreateCashCard stores a new cash card and assigns its ID.
func (m *MemoryStore) CreateCashCard(ctx context.Context, card *model.CashCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	card.ID = m.nextID
	m.nextID++
	m.cards[card.ID] = *card
	return nil
}

// UpdateCashCard replaces the amount of an existing cash card.
func (m *MemoryStore) UpdateCashCard(ctx context.Context, card *model.CashCard) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.cards[card.ID]; !ok {
		return ErrCashCardNotFound
	}
	m.cards[card.ID] = *card
	return nil
}

// DeleteCashCard removes a cash card.
func (m *MemoryStore) DeleteCashCard(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.cards[id]; !ok {
		return ErrCashCardNotFound
	}
	delete(m.cards, id)
	return nil
}

// ListCashCards returns one page of cash cards in the requested order.
func (m *MemoryStore) ListCashCards(ctx context.Context, page model.PageRequest) ([]*model.CashCard, error) {
	orders := page.SortOr(model.DefaultSort())
	for _, o := range orders {
		if _, ok := sortColumns[o.Field]; !ok {
			return nil, model.ErrInvalidSort
		}
	}

	m.mu.RLock()
	all := make([]model.CashCard, 0, len(m.cards))
	for _, c := range m.cards {
		all = append(all, c)
	}
	m.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return less(all[i], all[j], orders)
	})

	start, end := 0, len(all)
	if page.IsPaged() {
		start = min(page.Offset(), len(all))
		end = min(start+page.Size, len(all))
	}

	cards := make([]*model.CashCard, 0, end-start)
	for i := start; i < end; i++ {
		card := all[i]
		cards = append(cards, &card)
	}
	return cards, nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// less compares two cards by the sort keys, falling back to ascending ID.
func less(a, b model.CashCard, orders []model.Order) bool {
	for _, o := range orders {
		var cmp int
		switch o.Field {
		case model.SortFieldAmount:
			cmp = a.Amount.Cmp(b.Amount)
		case model.SortFieldID:
			cmp = compareInt64(a.ID, b.ID)
		}
		if cmp == 0 {
			continue
		}
		if o.Direction == model.Desc {
			return cmp > 0
		}
		return cmp < 0
	}
	return a.ID < b.ID
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
