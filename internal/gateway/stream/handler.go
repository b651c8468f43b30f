package stream

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	busv1 "github.com/matyusmilan/xm-forex/internal/domain/marketbus/v1"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/logger"
)

// Handler upgrades the streaming endpoints to WebSocket connections fed
// from the market bus. Each connection owns one subscription; frames
// are the JSON order events or quotes the scope selects.
type Handler struct {
	bus      busv1.Bus
	logger   logger.Interface
	upgrader websocket.Upgrader
}

// NewHandler creates a new Handler.
func NewHandler(bus busv1.Bus, logger logger.Interface) *Handler {
	return &Handler{
		bus:    bus,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// ClientOrders handles GET /ws/{client_id}, streaming the client's
// order events.
func (h *Handler) ClientOrders(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, busv1.ClientOrders(chi.URLParam(r, "client_id")))
}

// PairQuotes handles GET /ws/market/{pair}, streaming the pair's
// quotes.
func (h *Handler) PairQuotes(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, busv1.PairQuotes(chi.URLParam(r, "pair")))
}

// serve subscribes before upgrading so a refused subscription stays an
// ordinary HTTP error.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, scope busv1.Scope) {
	sub, err := h.bus.Subscribe(scope)
	if err != nil {
		http.Error(w, "venue is shutting down", http.StatusServiceUnavailable)
		return
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.bus.Unsubscribe(sub.ID())
		h.logger.ErrorContext(r.Context(), errors.TracerFromError(err), logger.Field{
			Key:   "action",
			Value: "stream_upgrade",
		})
		return
	}

	h.logger.InfoContext(r.Context(), "Stream subscriber attached",
		logger.Field{Key: "action", Value: "stream_attach"},
		logger.Field{Key: "subscriptionID", Value: sub.ID()},
		logger.Field{Key: "scope", Value: scope.Kind},
	)

	conn := newConnection(ws, sub, h.bus, h.logger)
	go conn.writePump()
	go conn.readPump()
}
