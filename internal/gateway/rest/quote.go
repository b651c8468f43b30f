package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/matyusmilan/xm-forex/pkg/logger"
)

// QuoteHandler serves the latest-quote endpoint. The reader is the
// Redis cache when one is configured and the in-memory snapshot
// otherwise.
type QuoteHandler struct {
	quotes quotev1.Reader
	logger logger.Interface
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quotes quotev1.Reader, logger logger.Interface) *QuoteHandler {
	return &QuoteHandler{
		quotes: quotes,
		logger: logger,
	}
}

// Latest handles GET /quotes/{pair}.
func (h *QuoteHandler) Latest(w http.ResponseWriter, r *http.Request) {
	quote, err := h.quotes.Latest(r.Context(), chi.URLParam(r, "pair"))
	if err != nil {
		writeError(r.Context(), w, h.logger, err)
		return
	}

	writeJSON(r.Context(), w, h.logger, http.StatusOK, quote)
}
