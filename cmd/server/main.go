package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/mosaic-web/mosaic/internal/config"
	"github.com/mosaic-web/mosaic/internal/content"
	"github.com/mosaic-web/mosaic/internal/dispatch"
	"github.com/mosaic-web/mosaic/internal/features/posts"
	"github.com/mosaic-web/mosaic/internal/features/user"
	"github.com/mosaic-web/mosaic/internal/gateway"
	"github.com/mosaic-web/mosaic/internal/handlers"
	"github.com/mosaic-web/mosaic/internal/render"
	"github.com/mosaic-web/mosaic/internal/repository"
	"github.com/mosaic-web/mosaic/internal/routes"
	"github.com/mosaic-web/mosaic/internal/views"
	"github.com/mosaic-web/mosaic/internal/webapp"
	"github.com/mosaic-web/mosaic/middlewares"
	"github.com/mosaic-web/mosaic/migrations"
	"github.com/mosaic-web/mosaic/pkg/cookie"
	"github.com/mosaic-web/mosaic/pkg/db"
	"github.com/mosaic-web/mosaic/pkg/logger"
	redisconn "github.com/mosaic-web/mosaic/pkg/redis"
	"github.com/mosaic-web/mosaic/pkg/session"
	"github.com/mosaic-web/mosaic/static"
)

// Queries the dispatcher runs for data-backed pages. They go through the
// same executor as the public /graphql endpoint.
const (
	recentPostsQuery = `{ posts { id slug title excerpt publishedAt } }`
	postBySlugQuery  = `query ($slug: String!) { post(slug: $slug) { id slug title body publishedAt } }`
	viewerQuery      = `{ viewer { id username createdAt } }`
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := newLogger(cfg)

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	if err := db.Migrate(ctx, pool, migrations.FS, cfg.DB.MigrationsTable, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	users := repository.NewUsers(pool)
	postStore := repository.NewPosts(pool)

	store, redisClient, err := newSessionStore(ctx, cfg, pool)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}

	registry, err := gateway.NewRegistry(posts.New(postStore), user.New(users))
	if err != nil {
		return fmt.Errorf("assemble schema: %w", err)
	}

	var exec gateway.Executor
	if cfg.GraphQLRemoteURL != "" {
		exec = gateway.NewRemote(cfg.GraphQLRemoteURL)
	} else {
		exec = gateway.NewLocal(registry)
	}

	aboutHTML, err := content.About()
	if err != nil {
		return fmt.Errorf("render about page: %w", err)
	}

	table, err := routes.NewTable([]routes.Entry{
		{
			Pattern: "/", Title: "Home", Query: recentPostsQuery, View: views.Home,
			Meta: []render.MetaTag{{Name: "description", Content: "Notes on building server-rendered applications."}},
		},
		{Pattern: "/posts/:slug", Title: "Post", Query: postBySlugQuery, View: views.Post},
		{Pattern: "/about", Title: "About", View: views.About(aboutHTML)},
		{Pattern: "/login", Title: "Log in", View: views.Login},
		{Pattern: "/signup", Title: "Sign up", View: views.Signup},
		{Pattern: "/dashboard", Title: "Dashboard", Query: viewerQuery, RequiresAuth: true, View: views.Dashboard},
	})
	if err != nil {
		return fmt.Errorf("build route table: %w", err)
	}

	renderer := render.New()
	dispatcher := dispatch.New(table, exec, renderer)

	handlerList := []webapp.Handler{
		handlers.NewAuth(users, renderer),
		handlers.NewGraphQL(registry, cfg.Production),
	}
	if !cfg.Production {
		handlerList = append(handlerList, handlers.NewDiagnostics())
	}
	handlerList = append(handlerList, handlers.NewPages(dispatcher))

	healthOpts := []webapp.HealthOption{
		webapp.WithReadinessCheck("db", db.Healthcheck(pool)),
	}
	if redisClient != nil {
		healthOpts = append(healthOpts, webapp.WithReadinessCheck("redis", redisconn.Healthcheck(redisClient)))
	}

	app := webapp.New(
		webapp.WithCustomLogger(log),
		webapp.WithCookieOptions(
			cookie.WithSecret(cfg.CookieSecret),
			cookie.WithSecure(cfg.Production),
		),
		webapp.WithSession(store,
			webapp.WithSessionMaxAge(cfg.SessionMaxAge),
			webapp.WithSessionSecure(cfg.Production),
		),
		webapp.WithMiddleware(middleware(cfg)...),
		webapp.WithStaticFiles("/assets/", static.FS, "assets"),
		webapp.WithHandlers(handlerList...),
		webapp.WithNotFoundHandler(dispatcher.NotFoundHandler),
		webapp.WithErrorHandler(errorPage(renderer)),
		webapp.WithHealthChecks(healthOpts...),
	)

	sweeper := cron.New()
	runOpts := []webapp.RunOption{
		webapp.Logger(log),
		webapp.StartupHook(startSessionSweep(sweeper, cfg.SessionSweepSchedule, store, log)),
		webapp.ShutdownHook(stopSessionSweep(sweeper)),
		webapp.ShutdownHook(db.Shutdown(pool)),
	}
	if redisClient != nil {
		runOpts = append(runOpts, webapp.ShutdownHook(redisconn.Shutdown(redisClient)))
	}

	return app.Run(cfg.Addr, runOpts...)
}

// middleware assembles the global chain. CORS is included only when
// allowed origins are configured, for deployments where this process is
// the remote GraphQL gateway serving browser clients on other origins.
func middleware(cfg *config.Config) []webapp.Middleware {
	chain := []webapp.Middleware{
		middlewares.RequestID(),
		middlewares.Recover(),
		middlewares.Timeout(30 * time.Second),
	}
	if len(cfg.CORSAllowedOrigins) > 0 {
		chain = append(chain, middlewares.CORS(
			middlewares.WithAllowOrigins(cfg.CORSAllowedOrigins...),
			middlewares.WithAllowMethods(http.MethodGet, http.MethodPost, http.MethodOptions),
			middlewares.WithAllowHeaders("Content-Type"),
			middlewares.WithAllowCredentials(),
		))
	}
	return chain
}

// newLogger builds the process logger. Production logs JSON and reports to
// Sentry when a DSN is configured; development logs human-readable text.
func newLogger(cfg *config.Config) *slog.Logger {
	if cfg.Production {
		return logger.NewWithSentry(logger.SentryConfig{
			DSN:         cfg.SentryDSN,
			Environment: cfg.SentryEnvironment,
			MinLevel:    slog.LevelWarn,
		}, middlewares.RequestIDExtractor())
	}
	return logger.NewDevelopment(middlewares.RequestIDExtractor())
}

// newSessionStore selects the session backend. The Redis client is returned
// so the caller can register health checks and shutdown for it.
func newSessionStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (session.Store, goredis.UniversalClient, error) {
	switch cfg.SessionStore {
	case "redis":
		client, err := redisconn.Open(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(client), client, nil
	case "memory":
		return session.NewMemoryStore(), nil, nil
	default:
		return repository.NewSessions(pool), nil, nil
	}
}

// startSessionSweep schedules periodic deletion of expired sessions.
func startSessionSweep(c *cron.Cron, schedule string, store session.Store, log *slog.Logger) func(context.Context) error {
	return func(context.Context) error {
		_, err := c.AddFunc(schedule, func() {
			n, err := store.DeleteExpired(context.Background(), time.Now())
			if err != nil {
				log.Error("session sweep failed", slog.Any("error", err))
				return
			}
			if n > 0 {
				log.Info("session sweep completed", slog.Int64("deleted", n))
			}
		})
		if err != nil {
			return fmt.Errorf("schedule session sweep: %w", err)
		}
		c.Start()
		return nil
	}
}

func stopSessionSweep(c *cron.Cron) func(context.Context) error {
	return func(ctx context.Context) error {
		select {
		case <-c.Stop().Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// errorPage renders handler errors as full HTML pages so visitors never
// see a bare status line.
func errorPage(renderer *render.Renderer) webapp.ErrorHandler {
	return func(c webapp.Context, err error) error {
		httpErr := webapp.AsHTTPError(err)
		if httpErr == nil {
			httpErr = webapp.NewHTTPError(http.StatusInternalServerError, "Something went wrong")
		}
		if httpErr.Code >= http.StatusInternalServerError {
			c.LogError("request failed", "error", err, "status", httpErr.Code)
		}

		c.SetHeader("Content-Type", "text/html; charset=utf-8")
		c.Response().WriteHeader(httpErr.Code)
		return renderer.RenderPage(c.Context(), c.Response(), render.Page{
			Title: fmt.Sprintf("Error %d", httpErr.Code),
			Body:  views.ErrorPage(httpErr.Code, httpErr.Message),
			State: render.State{Path: c.Request().URL.Path, Data: map[string]any{}},
		})
	}
}
