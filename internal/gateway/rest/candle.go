package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	candlev1 "github.com/matyusmilan/xm-forex/internal/domain/candle/v1"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/logger"
)

const defaultCandleInterval = "1m"

// CandleHandler serves the OHLC candle endpoint.
type CandleHandler struct {
	history candlev1.History
	logger  logger.Interface
}

// NewCandleHandler creates a new CandleHandler.
func NewCandleHandler(history candlev1.History, logger logger.Interface) *CandleHandler {
	return &CandleHandler{
		history: history,
		logger:  logger,
	}
}

// List handles GET /candles/{pair}. Interval defaults to 1m; limit 0
// returns the full retained history.
func (h *CandleHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	interval := query.Get("interval")
	if interval == "" {
		interval = defaultCandleInterval
	}

	limit := 0
	if raw := query.Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(r.Context(), w, h.logger, errors.NewErrorDetails(
				"limit must be a non-negative integer", string(errors.GeneralBadRequestError), "limit"))
			return
		}
		limit = parsed
	}

	candles, err := h.history.Candles(chi.URLParam(r, "pair"), interval, limit)
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(r.Context(), w, h.logger, http.StatusOK, candles)
}
