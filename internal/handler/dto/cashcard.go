// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"github.com/shopspring/decimal"

	"github.com/cashcard/cashcard/internal/model"
)

// CashCardRequest is the body of create and update requests.
// Any id in the body is ignored.
type CashCardRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ToCashCard converts the request into a model for the given ID.
func (r CashCardRequest) ToCashCard(id int64) *model.CashCard {
	return &model.CashCard{ID: id, Amount: r.Amount}
}

// CashCardResponse represents a cash card in API responses.
type CashCardResponse struct {
	ID     int64           `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}

// ToCashCardResponse converts a model to its response form.
func ToCashCardResponse(card *model.CashCard) CashCardResponse {
	return CashCardResponse{ID: card.ID, Amount: card.Amount}
}

// ToCashCardListResponse converts models to a response array, never nil.
func ToCashCardListResponse(cards []*model.CashCard) []CashCardResponse {
	out := make([]CashCardResponse, 0, len(cards))
	for _, c := range cards {
		out = append(out, ToCashCardResponse(c))
	}
	return out
}
