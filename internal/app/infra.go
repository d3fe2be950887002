package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/ticketcreator_backend/config"
	"github.com/Alijeyrad/ticketcreator_backend/internal/service/ticket"
	"github.com/Alijeyrad/ticketcreator_backend/internal/store"
	"github.com/Alijeyrad/ticketcreator_backend/internal/store/mongostore"
	"github.com/Alijeyrad/ticketcreator_backend/pkg/events"
	"github.com/Alijeyrad/ticketcreator_backend/pkg/mongodb"
	"github.com/Alijeyrad/ticketcreator_backend/pkg/observability"
	redispkg "github.com/Alijeyrad/ticketcreator_backend/pkg/redis"
)

// InfraModule provides all infrastructure dependencies.
var InfraModule = fx.Module("infra",
	fx.Provide(ProvideStore),
	fx.Provide(ProvideRedis),
	fx.Provide(ProvideOTel),
	fx.Provide(ProvideNatsClient),
	fx.Provide(ProvideEventPublisher),
)

// ProvideStore opens the ticket store selected by store.driver. OTel is
// requested first so the Mongo store picks up the global meter and tracer.
func ProvideStore(lc fx.Lifecycle, cfg *config.Config, _ *observability.Provider) (store.Tickets, error) {
	if strings.EqualFold(cfg.Store.Driver, config.StoreDriverMemory) {
		slog.Warn("using in-memory ticket store; data is lost on exit")
		return store.NewMemory(), nil
	}

	client, err := mongodb.Connect(context.Background(), cfg.Mongo)
	if err != nil {
		return nil, err
	}
	st := mongostore.New(mongodb.Collection(client, cfg.Mongo))

	if cfg.Mongo.EnsureIndexes {
		ctx, cancel := context.WithTimeout(context.Background(), mongodb.ConnectTimeout(cfg.Mongo))
		defer cancel()
		if err := st.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing MongoDB connection")
			return client.Disconnect(ctx)
		},
	})
	return st, nil
}

// ProvideRedis returns nil when redis.addr is empty.
func ProvideRedis(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	rdb, err := redispkg.NewRedisFromCentral(cfg.Redis)
	if err != nil || rdb == nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("closing Redis connection")
			return rdb.Close()
		},
	})
	return rdb, nil
}

// ProvideNatsClient returns nil when nats.url is empty.
func ProvideNatsClient(lc fx.Lifecycle, cfg *config.Config) (*nats.Conn, error) {
	if cfg.Nats.URL == "" {
		return nil, nil
	}
	nc, err := nats.Connect(cfg.Nats.URL, nats.Name(cfg.Observability.ServiceName))
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("draining NATS connection")
			return nc.Drain()
		},
	})
	return nc, nil
}

func ProvideEventPublisher(nc *nats.Conn, cfg *config.Config) ticket.EventPublisher {
	return events.NewPublisher(nc, cfg.Nats.SubjectPrefix)
}

func ProvideOTel(lc fx.Lifecycle, cfg *config.Config) (*observability.Provider, error) {
	if !cfg.Observability.Enabled {
		return nil, nil
	}
	provider, err := observability.InitTelemetry(context.Background(), observability.FromCentralConfig(cfg))
	if err != nil {
		return nil, err
	}
	slog.Info("observability initialized",
		"tracing", cfg.Observability.Tracing.Enabled,
		"metrics", cfg.Observability.Metrics.Enabled,
	)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			slog.Debug("shutting down observability providers")
			return provider.Shutdown(ctx)
		},
	})
	return provider, nil
}
