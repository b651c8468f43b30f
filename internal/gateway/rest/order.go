package rest

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	orderv1 "github.com/matyusmilan/xm-forex/internal/domain/order/v1"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/logger"
)

const (
	defaultListLimit = 100
	maxListLimit     = 100
)

// OrderHandler serves the order management endpoints.
type OrderHandler struct {
	store  orderv1.Store
	logger logger.Interface
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(store orderv1.Store, logger logger.Interface) *OrderHandler {
	return &OrderHandler{
		store:  store,
		logger: logger,
	}
}

// Create handles POST /orders.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req orderv1.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(r.Context(), w, h.logger,
			errors.NewErrorDetails("invalid request body", string(errors.GeneralBadRequestError), "body"))
		return
	}

	order, err := h.store.Create(r.Context(), req)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(r.Context(), w, h.logger, http.StatusCreated, order)
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	order, err := h.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(r.Context(), w, h.logger, http.StatusOK, order)
}

// List handles GET /orders.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := listFilter(r)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	orders, err := h.store.List(r.Context(), filter)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(r.Context(), w, h.logger, http.StatusOK, orders)
}

// Cancel handles DELETE /orders/{id} and returns the cancelled order.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	order, err := h.store.Cancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(r.Context(), w, h.logger, http.StatusOK, order)
}

// listFilter parses the list query parameters. Limit defaults to 100
// and values above 100 are rejected rather than clamped.
func listFilter(r *http.Request) (orderv1.Filter, error) {
	filter := orderv1.Filter{Limit: defaultListLimit}
	query := r.URL.Query()

	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return orderv1.Filter{}, errors.NewErrorDetails(
				"offset must be a non-negative integer", string(errors.GeneralBadRequestError), "offset")
		}
		filter.Offset = offset
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 || limit > maxListLimit {
			return orderv1.Filter{}, errors.NewErrorDetails(
				"limit must be an integer between 0 and 100", string(errors.GeneralBadRequestError), "limit")
		}
		filter.Limit = limit
	}

	filter.ClientID = query.Get("client_id")
	filter.Pair = query.Get("pair")

	if raw := query.Get("status"); raw != "" {
		status := orderv1.Status(strings.ToUpper(raw))
		switch status {
		case orderv1.StatusOpen, orderv1.StatusPartiallyFilled, orderv1.StatusFilled, orderv1.StatusCancelled:
			filter.Status = status
		default:
			return orderv1.Filter{}, errors.NewErrorDetails(
				"unknown status: "+raw, string(errors.GeneralBadRequestError), "status")
		}
	}

	return filter, nil
}
