package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/cashcard/cashcard/internal/model"
)

// ErrCashCardNotFound is returned when no row has the requested ID.
var ErrCashCardNotFound = errors.New("cash card not found")

// sortColumns maps sortable fields to table columns.
var sortColumns = map[string]string{
	model.SortFieldID:     "id",
	model.SortFieldAmount: "amount",
}

// FindCashCard retrieves a cash card by its ID.
func (r *Repository) FindCashCard(ctx context.Context, id int64) (*model.CashCard, error) {
	query := `SELECT id, amount FROM cash_cards WHERE id = $1`

	var card model.CashCard
	err := r.pool.QueryRow(ctx, query, id).Scan(&card.ID, &card.Amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCashCardNotFound
		}
		return nil, fmt.Errorf("failed to get cash card by ID: %w", err)
	}

	return &card, nil
}

// CreateCashCard inserts a new cash card and sets its database-assigned ID.
func (r *Repository) CreateCashCard(ctx context.Context, card *model.CashCard) error {
	query := `INSERT INTO cash_cards (amount) VALUES ($1::numeric) RETURNING id`

	err := r.pool.QueryRow(ctx, query, card.Amount.String()).Scan(&card.ID)
	if err != nil {
		return fmt.Errorf("failed to create cash card: %w", err)
	}

	return nil
}

// UpdateCashCard replaces the amount of an existing cash card.
func (r *Repository) UpdateCashCard(ctx context.Context, card *model.CashCard) error {
	query := `UPDATE cash_cards SET amount = $2::numeric WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, card.ID, card.Amount.String())
	if err != nil {
		return fmt.Errorf("failed to update cash card: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCashCardNotFound
	}

	return nil
}

// DeleteCashCard removes a cash card.
func (r *Repository) DeleteCashCard(ctx context.Context, id int64) error {
	query := `DELETE FROM cash_cards WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete cash card: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrCashCardNotFound
	}

	return nil
}

// ListCashCards returns one page of cash cards in the requested order.
func (r *Repository) ListCashCards(ctx context.Context, page model.PageRequest) ([]*model.CashCard, error) {
	orderBy, err := orderByClause(page.SortOr(model.DefaultSort()))
	if err != nil {
		return nil, err
	}

	query := `SELECT id, amount FROM cash_cards ORDER BY ` + orderBy
	var args []any
	if page.IsPaged() {
		query += ` LIMIT $1 OFFSET $2`
		args = append(args, page.Size, page.Offset())
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cash cards: %w", err)
	}
	defer rows.Close()

	cards := make([]*model.CashCard, 0)
	for rows.Next() {
		var card model.CashCard
		if err := rows.Scan(&card.ID, &card.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan cash card: %w", err)
		}
		cards = append(cards, &card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash cards: %w", err)
	}

	return cards, nil
}

// orderByClause renders sort keys as an ORDER BY list. Columns only come
// from sortColumns. id is appended as a tie-breaker so pages never overlap.
func orderByClause(orders []model.Order) (string, error) {
	terms := make([]string, 0, len(orders)+1)
	hasID := false

	for _, o := range orders {
		column, ok := sortColumns[o.Field]
		if !ok {
			return "", model.ErrInvalidSort
		}
		dir := "ASC"
		if o.Direction == model.Desc {
			dir = "DESC"
		}
		if column == "id" {
			hasID = true
		}
		terms = append(terms, column+" "+dir)
	}

	if !hasID {
		terms = append(terms, "id ASC")
	}

	return strings.Join(terms, ", "), nil
}
