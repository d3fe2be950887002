package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/helmet"
	"github.com/gofiber/fiber/v3/middleware/logger"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/Alijeyrad/ticketcreator_backend/config"
	"github.com/Alijeyrad/ticketcreator_backend/internal/api/http/middleware"
	"github.com/Alijeyrad/ticketcreator_backend/internal/api/http/router"
	"github.com/Alijeyrad/ticketcreator_backend/pkg/observability"
	"github.com/Alijeyrad/ticketcreator_backend/pkg/reqctx"
)

// Module provides the HTTP Server to the fx graph.
var Module = fx.Module("http", fx.Provide(NewServer))

type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Cfg       *config.Config
	Redis     *redis.Client `optional:"true"`
	Router    *router.Router
	OTel      *observability.Provider `optional:"true"`
}

func NewServer(p Params) *fiber.App {
	tracing := p.OTel != nil && p.Cfg.Observability.Tracing.Enabled
	app := NewApp(p.Cfg, p.Redis, p.Router, tracing)

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			addr := fmt.Sprintf(":%d", p.Cfg.Server.Port)
			go func() {
				if err := app.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true}); err != nil {
					slog.Error("HTTP server error", "error", err)
				}
			}()
			slog.Info("HTTP server listening", "addr", addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return app.ShutdownWithContext(ctx)
		},
	})

	return app
}

// NewApp builds the fiber app with middleware and routes but does not
// listen. rdb may be nil.
func NewApp(cfg *config.Config, rdb *redis.Client, r *router.Router, tracing bool) *fiber.App {
	json := jsoniter.ConfigCompatibleWithStandardLibrary

	app := fiber.New(fiber.Config{
		AppName:      cfg.Observability.ServiceName,
		BodyLimit:    cfg.Server.BodyLimitBytes,
		ReadTimeout:  cfg.Server.Timeout(),
		WriteTimeout: cfg.Server.Timeout(),
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ErrorHandler: errorHandler,
	})

	configureGlobalMiddleware(app, cfg, rdb, tracing)

	r.Register(app)

	return app
}

// errorHandler renders errors that escaped a handler as {error}. Fiber
// errors (404 route, 413 body too large, ...) keep their code and message.
func errorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	reqctx.Logger(c.Context()).Error("unhandled error",
		"method", c.Method(), "path", c.Path(), "err", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

func configureGlobalMiddleware(app *fiber.App, cfg *config.Config, rdb *redis.Client, tracing bool) {
	app.Use(middleware.RequestID())
	app.Use(recoverer.New())

	if tracing {
		app.Use(observability.FiberMiddleware())
	}

	app.Use(helmet.New())

	if c := cfg.Server.CORS; c.Enabled {
		app.Use(middleware.OriginGuard(c.AllowOrigins))
		if len(c.AllowOrigins) > 0 {
			app.Use(cors.New(corsConfig(c)))
		}
	}

	if n := cfg.Server.RateLimit.RequestsPerMinute; n > 0 {
		app.Use(middleware.NewLimiter(rdb, n))
	}

	app.Use(logger.New(logger.Config{
		Format: "${ip} - [${time}] [req_id=${reqHeader:X-Request-Id}] ${method} ${url} ${status} ${latency}\n",
	}))
}

func corsConfig(c config.CORSConfig) cors.Config {
	cc := cors.Config{
		AllowOrigins: c.AllowOrigins,
		AllowMethods: []string{
			fiber.MethodGet, fiber.MethodPost, fiber.MethodPatch,
			fiber.MethodDelete, fiber.MethodOptions,
		},
		MaxAge: c.MaxAgeSeconds,
	}
	// credentials cannot be combined with a wildcard origin
	for _, o := range c.AllowOrigins {
		if o == "*" {
			return cc
		}
	}
	cc.AllowCredentials = c.AllowCredentials
	return cc
}
