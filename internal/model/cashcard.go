// Package model defines domain entities for the application.
package model

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// CashCard is a prepaid card holding a monetary amount.
type CashCard struct {
	ID     int64           `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

// CachedCashCard represents cash card data stored in Redis cache.
// Uses string types for Redis hash compatibility.
type CachedCashCard struct {
	Amount string `redis:"amount"`
}

// ToCachedCashCard converts a CashCard to its cached form.
func (c *CashCard) ToCachedCashCard() *CachedCashCard {
	return &CachedCashCard{
		Amount: c.Amount.String(),
	}
}

// ToCashCard rebuilds a CashCard from cached data.
func (c *CachedCashCard) ToCashCard(id int64) (*CashCard, error) {
	amount, err := decimal.NewFromString(c.Amount)
	if err != nil {
		return nil, err
	}
	return &CashCard{ID: id, Amount: amount}, nil
}
