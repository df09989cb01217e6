package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/iho/adbilling/internal/adapter/advertiser"
	httpAdapter "github.com/iho/adbilling/internal/adapter/http"
	"github.com/iho/adbilling/internal/adapter/http/handler"
	"github.com/iho/adbilling/internal/adapter/http/middleware"
	"github.com/iho/adbilling/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/adbilling/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/adbilling/internal/adapter/repository/redis"
	"github.com/iho/adbilling/internal/infrastructure/auth"
	"github.com/iho/adbilling/internal/infrastructure/config"
	"github.com/iho/adbilling/internal/infrastructure/logger"
	"github.com/iho/adbilling/internal/infrastructure/metrics"
	"github.com/iho/adbilling/internal/infrastructure/postgres"
	"github.com/iho/adbilling/internal/infrastructure/redis"
	"github.com/iho/adbilling/internal/infrastructure/sweeper"
	"github.com/iho/adbilling/internal/infrastructure/tracing"
	"github.com/iho/adbilling/internal/usecase"
)

// limiterIdle is how long an unused per-client limiter is kept.
const limiterIdle = 10 * time.Minute

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    cfg.OTLPInsecure,
		ServiceName: cfg.ServiceName,
		Version:     version,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}

	a, err := buildApp(ctx, cfg, log, prometheus.DefaultRegisterer, promhttp.Handler())
	if err != nil {
		return err
	}
	defer a.close()

	if _, err := a.reconcile.RebuildGuard(ctx); err != nil {
		return fmt.Errorf("rebuild idempotency guard: %w", err)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      a.handler,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Str("port", cfg.HTTPPort).
			Str("storage", cfg.StorageDriver).
			Str("advertiser_mode", cfg.AdvertiserMode).
			Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := a.sweeper.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("failed to flush traces")
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info().Msg("server stopped")
	return nil
}

// app is the wired process: the HTTP handler, the sweeper and everything
// that must be closed on exit.
type app struct {
	handler   http.Handler
	billing   *usecase.BillingUseCase
	reconcile *usecase.ReconciliationUseCase
	balance   *usecase.BalanceUseCase
	sweeper   *sweeper.Sweeper
	closers   []func()
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// storage groups the ports chosen by STORAGE_DRIVER.
type storage struct {
	txManager   usecase.TransactionManager
	retrier     usecase.Retrier
	txRepo      usecase.TransactionRepository
	accountRepo usecase.BalanceAccountRepository
	guard       usecase.IdempotencyGuard
	queue       usecase.ReconcileQueue
	redis       *goredis.Client
	checks      []handler.Check
}

func buildApp(
	ctx context.Context,
	cfg *config.Config,
	log zerolog.Logger,
	reg prometheus.Registerer,
	metricsHandler http.Handler,
) (*app, error) {
	a := &app{}

	store, err := openStorage(ctx, cfg, log, a)
	if err != nil {
		a.close()
		return nil, err
	}

	m := metrics.New(reg)
	idGen := postgresRepo.NewULIDGenerator()

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	// The advertiser side runs in-process when billing calls it locally or
	// when this process also serves the balance API.
	if cfg.AdvertiserMode == config.AdvertiserModeLocal || cfg.ServeAccounts {
		a.balance = usecase.NewBalanceUseCase(store.txManager, store.accountRepo, store.retrier, m, cfg.MutationRetention)
	}

	var (
		gateway usecase.BalanceGateway
		oracle  usecase.ExistenceOracle
	)
	switch cfg.AdvertiserMode {
	case config.AdvertiserModeRemote:
		httpCfg := advertiser.HTTPConfig{BaseURL: cfg.AdvertiserURL, Timeout: cfg.RemoteTimeout}
		if jwtManager != nil {
			httpCfg.Tokens = auth.NewTokenSource(jwtManager, cfg.ServiceName, auth.RoleBalanceClient)
		}
		client := advertiser.NewHTTPClient(httpCfg)
		gateway, oracle = client, client
	default:
		gateway = advertiser.NewLocalGateway(a.balance)
		oracle = advertiser.NewLocalOracle(a.balance)
	}
	if store.redis != nil {
		oracle = redisRepo.NewCachingOracle(oracle, store.redis, cfg.ExistenceTTL, log)
	}

	ledger := usecase.NewLedgerUseCase(store.txRepo, idGen, m)
	a.billing = usecase.NewBillingUseCase(store.guard, ledger, gateway, oracle, store.queue, m, log, usecase.BillingConfig{
		RemoteTimeout:    cfg.RemoteTimeout,
		ExistenceTimeout: cfg.ExistenceTimeout,
	})
	a.reconcile = usecase.NewReconciliationUseCase(ledger, store.guard, gateway, store.queue, m, log, usecase.ReconcileConfig{
		GraceInterval: cfg.SweepGrace,
		BatchSize:     cfg.SweepBatchSize,
		Concurrency:   cfg.SweepConcurrency,
		RemoteTimeout: cfg.RemoteTimeout,
		MaxResendAge:  cfg.ResendMaxAge,
	})

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	routes := httpAdapter.RouterConfig{
		Logger:             log,
		HealthHandler:      handler.NewHealthHandler(store.checks...),
		BillingHandler:     handler.NewBillingHandler(a.billing),
		TransactionHandler: handler.NewTransactionHandler(ledger, a.reconcile),
		MetricsHandler:     metricsHandler,
		HTTPMetrics:        middleware.NewHTTPMetrics(reg),
		JWTManager:         jwtManager,
		RateLimiter:        rateLimiter,
	}
	if cfg.ServeAccounts && a.balance != nil {
		routes.AccountHandler = handler.NewAccountHandler(a.balance)
	}
	a.handler = httpAdapter.NewRouter(routes)

	sweepCfg := sweeper.Config{
		Reconciler: a.reconcile,
		Observer:   m,
		Logger:     log,
		Interval:   cfg.SweepInterval,
	}
	if a.balance != nil {
		sweepCfg.Purger = a.balance
	}
	if rateLimiter != nil {
		sweepCfg.Cleanup = func() { rateLimiter.CleanupLimiters(limiterIdle) }
	}
	a.sweeper = sweeper.New(sweepCfg)

	return a, nil
}

func openStorage(ctx context.Context, cfg *config.Config, log zerolog.Logger, a *app) (*storage, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		log.Warn().Msg("using in-memory storage; state is lost on restart")
		return &storage{
			txManager:   memory.NewTxManager(),
			retrier:     memory.NewRetrier(),
			txRepo:      memory.NewTransactionRepository(),
			accountRepo: memory.NewBalanceAccountRepository(),
			guard:       memory.NewIdempotencyGuard(),
			queue:       memory.NewReconcileQueue(),
		}, nil
	}

	if cfg.MigrateOnStart {
		if err := postgres.RunMigrations(cfg.DatabaseURL, log); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	dbCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	defer cancel()

	pool, err := postgres.NewPool(dbCtx, postgres.PoolConfig{
		URL:              cfg.DatabaseURL,
		MaxConns:         cfg.DatabaseMaxConns,
		MinConns:         cfg.DatabaseMinConns,
		StatementTimeout: cfg.DatabaseStatementTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	a.closers = append(a.closers, pool.Close)
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(dbCtx, redis.Config{URL: cfg.RedisURL, PoolSize: cfg.RedisPoolSize})
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.closers = append(a.closers, func() { _ = redisClient.Close() })
	log.Info().Msg("connected to redis")

	return &storage{
		txManager:   postgresRepo.NewTxManager(pool),
		retrier:     postgresRepo.NewRetrier(log),
		txRepo:      postgresRepo.NewTransactionRepository(pool),
		accountRepo: postgresRepo.NewBalanceAccountRepository(pool),
		guard:       redisRepo.NewIdempotencyGuard(redisClient, cfg.GuardTTL),
		queue:       redisRepo.NewReconcileQueue(redisClient),
		redis:       redisClient,
		checks: []handler.Check{
			{Name: "postgres", Ping: pool.Ping},
			{Name: "redis", Ping: redis.Ping(redisClient)},
		},
	}, nil
}
