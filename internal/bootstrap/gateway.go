package bootstrap

import (
	"github.com/go-chi/chi/v5"
	quotev1 "github.com/matyusmilan/xm-forex/internal/domain/quote/v1"
	"github.com/matyusmilan/xm-forex/internal/gateway/rest"
	"github.com/matyusmilan/xm-forex/internal/gateway/stream"
)

// Gateway groups the HTTP-facing handlers.
type Gateway struct {
	REST   chi.Router
	Stream *stream.Handler
}

// registerGateway mounts the REST API and the streaming endpoints on
// one root router. The stream routes sit outside the REST middleware,
// so upgrades skip request logging and simulated latency.
func (a *App) registerGateway() {
	a.Gateway.REST = rest.NewRouter(rest.Config{
		Store:      a.Usecase.Store,
		Quotes:     a.quoteReader(),
		Candles:    a.Usecase.Candles,
		Logger:     a.Logger,
		LatencyMin: a.Config.Venue.LatencyMin,
		LatencyMax: a.Config.Venue.LatencyMax,
	})
	a.Gateway.Stream = stream.NewHandler(a.Usecase.Bus, a.Logger)

	root := chi.NewRouter()
	root.Get("/ws/{client_id}", a.Gateway.Stream.ClientOrders)
	root.Get("/ws/market/{pair}", a.Gateway.Stream.PairQuotes)
	root.Mount("/", a.Gateway.REST)

	a.Handler = root
}

// quoteReader prefers the external quote cache over the in-memory
// snapshot.
func (a *App) quoteReader() quotev1.Reader {
	if a.Repository.Quote != nil {
		return a.Repository.Quote
	}
	return a.Usecase.Snapshot
}
