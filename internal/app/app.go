package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/CodeRunne/burgershop/internal/domain/order"
	"github.com/CodeRunne/burgershop/internal/handler"
	"github.com/CodeRunne/burgershop/internal/ledger"
	"github.com/CodeRunne/burgershop/internal/notify"
	"github.com/CodeRunne/burgershop/internal/payment"
	"github.com/CodeRunne/burgershop/internal/shop"
	"github.com/CodeRunne/burgershop/internal/storage/postgres"
	"github.com/CodeRunne/burgershop/pkg/health"
	"github.com/CodeRunne/burgershop/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	// Order ledger: Postgres when configured, in-memory otherwise.
	var led ledger.Ledger
	if cfg.DatabaseURL != "" {
		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}
		healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
			return pool.Ping(ctx)
		})
		led = postgres.NewLedgerRepository(pool)
	} else {
		lg.Warn("No database configured, orders will not survive restarts")
		led = ledger.NewMemory()
	}

	// Record emission: RabbitMQ when configured, the log otherwise.
	var emitter notify.Emitter
	if cfg.AMQPURL != "" {
		amqpEmitter, err := notify.NewAMQPEmitter(cfg.AMQPURL, lg.Named("notify"))
		if err != nil {
			return errors.Wrap(err, "create amqp emitter")
		}
		defer func() { _ = amqpEmitter.Close() }()
		emitter = amqpEmitter
	} else {
		emitter = notify.NewZapEmitter(lg.Named("notify"))
	}

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	// Host environment: identities from the request, transfers through the
	// in-process bank.
	env := handler.NewHostEnv(
		order.Identity(cfg.ShopAccount),
		order.Identity(cfg.HoldingAccount),
		payment.NewMemoryBank(),
	)

	committed, err := m.MeterProvider().Meter("burgershop").Int64Counter(
		"burgershop.orders_committed",
		metric.WithDescription("Orders committed to the ledger"),
	)
	if err != nil {
		return errors.Wrap(err, "create commit counter")
	}

	burgerShop := shop.New(env, led, emitter, lg.Named("shop"), shop.WithCommitCounter(committed))

	keys, err := cfg.ParseAPIKeys()
	if err != nil {
		return err
	}

	// Mux: health endpoints plus the authenticated API.
	apiMux := http.NewServeMux()
	handler.NewHandler(burgerShop).Routes(apiMux)
	apiHandler := httpmiddleware.Middleware(
		handler.APIKeyAuth(keys, []byte(cfg.APIKeyPepper)),
	)(apiMux)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", apiHandler)

	chain := httpmiddleware.Wrap(mux,
		httpmiddleware.Recovery(),
		httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		httpmiddleware.RequestID(),
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.LogRequests(),
	)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: otelhttp.NewHandler(chain, "burgershop",
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		lg.Info("Server listening", zap.String("addr", cfg.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "server")
		}
		return nil
	})
	g.Go(func() error {
		// Drain: flip readiness, give balancers a moment, then stop.
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		return nil
	})
	return g.Wait()
}
