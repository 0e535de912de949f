package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/hatef97/office-supplies-website/internal/config"
	"github.com/hatef97/office-supplies-website/internal/db"
	"github.com/hatef97/office-supplies-website/internal/es"
	"github.com/hatef97/office-supplies-website/internal/httpserver"
	"github.com/hatef97/office-supplies-website/internal/logging"
	"github.com/hatef97/office-supplies-website/internal/metrics"
	authmw "github.com/hatef97/office-supplies-website/internal/middleware/auth"
	"github.com/hatef97/office-supplies-website/internal/middleware/csrf"
	"github.com/hatef97/office-supplies-website/internal/middleware/idempotency"
	loggingmw "github.com/hatef97/office-supplies-website/internal/middleware/logging"
	"github.com/hatef97/office-supplies-website/internal/mykafka"
	"github.com/hatef97/office-supplies-website/internal/repo"
	"github.com/hatef97/office-supplies-website/internal/service"
)

const shutdownTimeout = 10 * time.Second

type publisher interface {
	service.EventPublisher
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bl := logging.New("info")
		bl.Fatal().Err(err).Msg("load config")
	}
	l := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, l)

	if err := run(ctx, cfg, l); err != nil {
		l.Fatal().Err(err).Msg("server stopped")
	}
	l.Info().Msg("shutdown complete")
}

func run(ctx context.Context, cfg *config.Config, l zerolog.Logger) (err error) {
	conn, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, db.Close(conn)) }()

	if cfg.DBAutoMigrate {
		if err := db.AutoMigrate(ctx, conn); err != nil {
			return err
		}
	}

	var pub publisher = mykafka.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		prod, perr := mykafka.NewProducer(cfg.KafkaBrokers)
		if perr != nil {
			return perr
		}
		pub = prod
	} else {
		l.Warn().Msg("KAFKA_BROKERS not set, domain events are discarded")
	}
	defer func() { err = multierr.Append(err, pub.Close()) }()

	var search service.ProductIndexer
	if cfg.ESURL != "" {
		client, eerr := es.NewClient(ctx, es.ClientConfig{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword}, l)
		if eerr != nil {
			l.Warn().Err(eerr).Msg("elasticsearch unavailable, product search uses the database")
		} else {
			search = es.NewProductIndex(client, cfg.ESIndex)
		}
	}

	var idemStore idempotency.Store
	if cfg.RedisURL != "" {
		rs, rerr := idempotency.NewRedisStore(ctx, cfg.RedisURL)
		if rerr != nil {
			l.Warn().Err(rerr).Msg("redis unavailable, idempotency keys are ignored")
		} else {
			idemStore = rs
			defer func() { err = multierr.Append(err, rs.Close()) }()
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	r := repo.New(conn)
	accounts := &service.AccountService{Repo: r, Secret: []byte(cfg.JWTSecret), AccessTTL: cfg.AccessTTL, Publisher: pub}
	if err := accounts.EnsureStaffUser(ctx, cfg.AdminUsername, cfg.AdminPassword, cfg.AdminEmail); err != nil {
		return err
	}

	e := newEcho(l, m, []byte(cfg.JWTSecret))
	httpserver.Register(e, &httpserver.Deps{
		Accounts: &httpserver.AccountHTTP{Svc: accounts},
		Catalog:  &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r, Publisher: pub, Search: search}},
		Comments: &httpserver.CommentHTTP{Svc: &service.CommentService{Repo: r, Publisher: pub}},
		Carts:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Publisher: pub}},
		Orders: &httpserver.OrderHTTP{
			Orders:   &service.OrderService{Repo: r, Publisher: pub},
			Checkout: &service.CheckoutService{Repo: r, Publisher: pub, Metrics: m},
		},
		Content: &httpserver.ContentHTTP{Svc: &service.ContentService{Repo: r}},

		JWTSecret:      []byte(cfg.JWTSecret),
		Metrics:        m,
		Idempotency:    idemStore,
		IdempotencyTTL: idempotency.DefaultTTL,
		ReadyChecks:    readyChecks(conn, idemStore),
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		l.Info().Msg("shutting down")
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func newEcho(l zerolog.Logger, m *metrics.Metrics, secret []byte) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Validator = httpserver.NewValidator()

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		loggingmw.RequestLogger(l),
		m.Middleware(httpserver.StatusOf),
		authmw.NewSimpleAuth(secret).Authenticate,
		csrf.Middleware(csrf.DefaultConfig()),
	)
	return e
}

type pinger interface {
	Ping(ctx context.Context) error
}

func readyChecks(conn *gorm.DB, idemStore idempotency.Store) map[string]httpserver.Check {
	checks := map[string]httpserver.Check{
		"database": func(ctx context.Context) error { return db.Ping(ctx, conn) },
	}
	if p, ok := idemStore.(pinger); ok {
		checks["redis"] = p.Ping
	}
	return checks
}
