package rest

import (
	"time"

	"github.com/go-chi/chi/v5"
	candlev1 "github.com/matyusmilan/xm-forex/internal/domain/candle/v1"
	orderv1 "github.com/matyusmilan/xm-forex/internal/domain/order/v1"
	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/matyusmilan/xm-forex/pkg/httplib/healthcheck"
	"github.com/matyusmilan/xm-forex/pkg/logger"
)

// Config carries the dependencies and knobs for the REST router.
type Config struct {
	Store   orderv1.Store
	Quotes  quotev1.Reader
	Candles candlev1.History
	Logger  logger.Interface

	// LatencyMin and LatencyMax bound the simulated per-request delay.
	// Both zero disables it.
	LatencyMin time.Duration
	LatencyMax time.Duration
}

// NewRouter assembles the venue REST API.
func NewRouter(cfg Config) chi.Router {
	r := chi.NewRouter()

	r.Use(RequestID)
	// Liveness probes answer before logging and simulated latency.
	r.Use(healthcheck.HealthCheck{}.Handler)
	r.Use(RequestLogger(cfg.Logger))
	r.Use(Recoverer(cfg.Logger))
	if cfg.LatencyMin > 0 || cfg.LatencyMax > 0 {
		r.Use(Latency(cfg.LatencyMin, cfg.LatencyMax))
	}

	orders := NewOrderHandler(cfg.Store, cfg.Logger)
	quotes := NewQuoteHandler(cfg.Quotes, cfg.Logger)
	candles := NewCandleHandler(cfg.Candles, cfg.Logger)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", orders.Create)
		r.Get("/", orders.List)
		r.Get("/{id}", orders.Get)
		r.Delete("/{id}", orders.Cancel)
	})
	r.Get("/quotes/{pair}", quotes.Latest)
	r.Get("/candles/{pair}", candles.List)

	return r
}
