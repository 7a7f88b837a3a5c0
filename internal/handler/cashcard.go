package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cashcard/cashcard/internal/handler/dto"
	"github.com/cashcard/cashcard/internal/middleware"
	"github.com/cashcard/cashcard/internal/model"
	"github.com/cashcard/cashcard/internal/service"
)

// DefaultMaxPageSize caps the size query parameter.
const DefaultMaxPageSize = 2000

// CashCardHandler handles HTTP requests for cash card operations.
// Error responses carry no body.
type CashCardHandler struct {
	svc         *service.CashCardService
	logger      *slog.Logger
	maxPageSize int
}

// NewCashCardHandler creates a new CashCardHandler. A maxPageSize below 1
// selects DefaultMaxPageSize.
func NewCashCardHandler(svc *service.CashCardService, logger *slog.Logger, maxPageSize int) *CashCardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if maxPageSize < 1 {
		maxPageSize = DefaultMaxPageSize
	}
	return &CashCardHandler{
		svc:         svc,
		logger:      logger,
		maxPageSize: maxPageSize,
	}
}

// Routes mounts the cash card endpoints on r.
func (h *CashCardHandler) Routes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// Get handles GET /cashcards/{id}.
func (h *CashCardHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	card, err := h.svc.GetCashCard(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToCashCardResponse(card))
}

// Create handles POST /cashcards.
func (h *CashCardHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CashCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(decodeStatus(err))
		return
	}

	card := req.ToCashCard(0)
	if err := h.svc.CreateCashCard(r.Context(), card); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("cash_card_created",
		"request_id", middleware.GetRequestID(r.Context()),
		"cash_card_id", card.ID,
	)

	w.Header().Set("Location", "/cashcards/"+strconv.FormatInt(card.ID, 10))
	w.WriteHeader(http.StatusCreated)
}

// List handles GET /cashcards?page=&size=&sort=.
func (h *CashCardHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := parsePageRequest(r.URL.Query(), h.maxPageSize)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	cards, err := h.svc.ListCashCards(r.Context(), page)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ToCashCardListResponse(cards))
}

// Update handles PUT /cashcards/{id}.
func (h *CashCardHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	var req dto.CashCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(decodeStatus(err))
		return
	}

	if err := h.svc.UpdateCashCard(r.Context(), req.ToCashCard(id)); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// decodeStatus maps a request body decode error to a response status.
// Bodies cut off by http.MaxBytesReader are too large, not malformed.
func decodeStatus(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// Delete handles DELETE /cashcards/{id}.
func (h *CashCardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteCashCard(r.Context(), id); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.Info("cash_card_deleted",
		"request_id", middleware.GetRequestID(r.Context()),
		"cash_card_id", id,
	)

	w.WriteHeader(http.StatusNoContent)
}

func (h *CashCardHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrCashCardNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, service.ErrInvalidSort):
		w.WriteHeader(http.StatusBadRequest)
	default:
		h.logger.Error("cash card request failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// parsePageRequest reads page, size and sort from the query string.
// Unusable page and size values fall back to their defaults; only a bad
// sort expression is an error.
func parsePageRequest(q url.Values, maxPageSize int) (model.PageRequest, error) {
	var page model.PageRequest

	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page.Page = min(p, math.MaxInt32)
	}
	if s, err := strconv.Atoi(q.Get("size")); err == nil && s > 0 {
		page.Size = min(s, maxPageSize)
	}

	for _, expr := range q["sort"] {
		if expr == "" {
			continue
		}
		order, err := model.ParseOrder(expr)
		if err != nil {
			return model.PageRequest{}, err
		}
		page.Sort = append(page.Sort, order)
	}

	return page, nil
}
