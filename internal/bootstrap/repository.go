package bootstrap

import (
	orderInfra "github.com/matyusmilan/xm-forex/internal/infrastructure/postgresql/order"
	tickInfra "github.com/matyusmilan/xm-forex/internal/infrastructure/questdb/tick"
	quoteInfra "github.com/matyusmilan/xm-forex/internal/infrastructure/redis/quote"
)

// Repository groups the archive and cache repositories. A nil field
// means the matching client is not configured.
type Repository struct {
	Order orderInfra.OrderRepository
	Tick  tickInfra.TickRepository
	Quote quoteInfra.QuoteRepository
}

// registerRepository builds a repository over every connected client.
func (a *App) registerRepository() {
	if a.postgres != nil {
		a.Repository.Order = orderInfra.NewRepository(a.postgres, a.Logger)
	}
	if a.questdb != nil {
		a.Repository.Tick = tickInfra.NewRepository(a.questdb)
	}
	if a.redis != nil {
		a.Repository.Quote = quoteInfra.NewRepository(a.redis, a.Config.Redis.Client)
	}
}
