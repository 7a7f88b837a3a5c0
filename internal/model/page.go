package model

import (
	"errors"
	"strings"
)

// Direction is the ordering direction of a sort key.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sortable cash card fields.
const (
	SortFieldID     = "id"
	SortFieldAmount = "amount"
)

// ErrInvalidSort is returned when a sort expression cannot be parsed
// or names a field that cannot be sorted on.
var ErrInvalidSort = errors.New("invalid sort expression")

var sortableFields = map[string]bool{
	SortFieldID:     true,
	SortFieldAmount: true,
}

// Order is a single sort key.
type Order struct {
	Field     string
	Direction Direction
}

// PageRequest describes which slice of the collection to return.
// Size 0 means unpaged: the whole collection is one page.
type PageRequest struct {
	Page int
	Size int
	Sort []Order
}

// DefaultSort orders cash cards by amount, smallest first.
func DefaultSort() []Order {
	return []Order{{Field: SortFieldAmount, Direction: Asc}}
}

// IsPaged reports whether the request carries a page size.
func (p PageRequest) IsPaged() bool {
	return p.Size > 0
}

// Offset returns the number of records to skip.
func (p PageRequest) Offset() int {
	if !p.IsPaged() {
		return 0
	}
	return p.Page * p.Size
}

// SortOr returns the request's sort, or fallback when none was given.
func (p PageRequest) SortOr(fallback []Order) []Order {
	if len(p.Sort) == 0 {
		return fallback
	}
	return p.Sort
}

// ParseOrder parses a "field[,direction]" expression such as "amount,desc".
func ParseOrder(expr string) (Order, error) {
	parts := strings.Split(expr, ",")
	field := strings.TrimSpace(parts[0])
	if !sortableFields[field] {
		return Order{}, ErrInvalidSort
	}

	order := Order{Field: field, Direction: Asc}
	switch len(parts) {
	case 1:
	case 2:
		dir, ok := parseDirection(parts[1])
		if !ok {
			return Order{}, ErrInvalidSort
		}
		order.Direction = dir
	default:
		return Order{}, ErrInvalidSort
	}

	return order, nil
}

func parseDirection(s string) (Direction, bool) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Asc:
		return Asc, true
	case Desc:
		return Desc, true
	default:
		return "", false
	}
}
