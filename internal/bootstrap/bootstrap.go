package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/matyusmilan/xm-forex/internal/feed"
	"github.com/matyusmilan/xm-forex/pkg/config"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/logger"
	"github.com/matyusmilan/xm-forex/pkg/postgresql"
	"github.com/matyusmilan/xm-forex/pkg/questdb"
	"github.com/matyusmilan/xm-forex/pkg/redis"
)

// App is the assembled venue: clients, repositories, usecases and
// gateways built from one configuration.
type App struct {
	Config     *config.Config
	Logger     *logger.Logger
	Handler    http.Handler
	Repository Repository
	Usecase    Usecase
	Gateway    Gateway

	pairSpecs []config.PairSpec
	source    feed.Source

	postgres postgresql.PostgreSQLClient
	questdb  questdb.QuestDBClient
	redis    redis.Client

	feedCancel context.CancelFunc
	feedDone   chan struct{}
}

// New assembles the venue from configuration. Optional clients connect
// only when their section is enabled; the core is wired unconditionally.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	log, err := logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.App.LogLevel)))
	if err != nil {
		return nil, err
	}

	specs, err := cfg.Venue.PairSpecs()
	if err != nil {
		return nil, err
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one pair must be configured")
	}

	app := &App{
		Config:    cfg,
		Logger:    log,
		pairSpecs: specs,
	}

	if err := app.initClients(ctx); err != nil {
		return nil, err
	}
	app.registerRepository()
	if err := app.registerUsecase(); err != nil {
		return nil, err
	}
	if err := app.registerFeed(); err != nil {
		return nil, err
	}
	app.registerGateway()

	return app, nil
}

// Start brings the venue up: engine workers and sinks first, the feed
// last so no quote arrives before its consumers.
func (a *App) Start(ctx context.Context) error {
	if err := a.Usecase.Engine.Start(ctx); err != nil {
		return err
	}
	if a.Usecase.OrderArchiver != nil {
		if err := a.Usecase.OrderArchiver.Start(ctx); err != nil {
			return err
		}
	}
	if a.Usecase.TickArchiver != nil {
		a.Usecase.TickArchiver.Start(ctx)
	}
	if a.Usecase.FillPublisher != nil {
		if err := a.Usecase.FillPublisher.Start(ctx); err != nil {
			return err
		}
	}

	feedCtx, cancel := context.WithCancel(ctx)
	a.feedCancel = cancel
	a.feedDone = make(chan struct{})
	go func() {
		defer close(a.feedDone)
		if err := a.source.Run(feedCtx); err != nil {
			a.Logger.Error(err, logger.Field{Key: "action", Value: "feed_run"})
		}
	}()

	a.Logger.InfoContext(ctx, "Venue started",
		logger.Field{Key: "pairs", Value: len(a.pairSpecs)},
		logger.Field{Key: "feedMode", Value: a.Config.Feed.Mode},
	)
	return nil
}

// Stop shuts the venue down in order: the feed stops, the engine
// drains, the store rejects new orders, the bus ends every
// subscription, the sinks flush, the clients disconnect.
func (a *App) Stop(ctx context.Context) {
	if a.feedCancel != nil {
		a.feedCancel()
		select {
		case <-a.feedDone:
		case <-ctx.Done():
			a.Logger.Warn("Feed stop timeout exceeded")
		}
	}

	if err := a.Usecase.Engine.Stop(ctx); err != nil {
		a.Logger.Error(err, logger.Field{Key: "action", Value: "engine_stop"})
	}
	a.Usecase.Store.Close()
	a.Usecase.Bus.Close()

	if a.Usecase.OrderArchiver != nil {
		a.Usecase.OrderArchiver.Stop()
	}
	if a.Usecase.FillPublisher != nil {
		if err := a.Usecase.FillPublisher.Stop(); err != nil {
			a.Logger.Error(err, logger.Field{Key: "action", Value: "fill_publisher_stop"})
		}
	}
	if a.Usecase.TickArchiver != nil {
		a.Usecase.TickArchiver.Stop()
	}

	a.closeClients(ctx)
	a.Logger.Info("Venue stopped")
}

// initClients connects the optional external clients.
func (a *App) initClients(ctx context.Context) error {
	if a.Config.Postgres.Enabled {
		client, err := postgresql.NewClient(ctx, a.Config.Postgres.Client)
		if err != nil {
			return errors.TracerFromError(err)
		}
		a.postgres = client
	}

	if a.Config.QuestDB.Enabled {
		client, err := questdb.NewClient(ctx, a.Config.QuestDB.Client)
		if err != nil {
			return errors.TracerFromError(err)
		}
		a.questdb = client
	}

	if a.Config.Redis.Enabled {
		client := redis.NewClient(a.Logger, &a.Config.Redis.Client)
		if err := client.Connect(ctx); err != nil {
			return errors.TracerFromError(err)
		}
		a.redis = client
	}

	return nil
}

func (a *App) closeClients(ctx context.Context) {
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.questdb != nil {
		a.questdb.Close()
	}
	if a.redis != nil {
		if err := a.redis.Disconnect(ctx); err != nil {
			a.Logger.Error(err, logger.Field{Key: "action", Value: "redis_disconnect"})
		}
	}
}
