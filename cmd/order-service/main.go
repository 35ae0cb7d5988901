package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/orders-service/internal/config"
	"github.com/jcmexdev/orders-service/internal/coordinator/sagalog"
	"github.com/jcmexdev/orders-service/internal/coordinator/sagalog/sqlite"
	"github.com/jcmexdev/orders-service/internal/order-service/adapters/carrier"
	"github.com/jcmexdev/orders-service/internal/order-service/adapters/inventory"
	"github.com/jcmexdev/orders-service/internal/order-service/adapters/memory"
	"github.com/jcmexdev/orders-service/internal/order-service/adapters/postgres"
	"github.com/jcmexdev/orders-service/internal/order-service/app"
	"github.com/jcmexdev/orders-service/internal/order-service/infra/httpx"
	"github.com/jcmexdev/orders-service/internal/order-service/shipping"
	"github.com/jcmexdev/orders-service/internal/pkg/cache"
	"github.com/jcmexdev/orders-service/internal/pkg/interceptors"
	"github.com/jcmexdev/orders-service/internal/pkg/telemetry"
)

const serviceName = "orders"

func main() {
	cfg := config.MustLoad()
	telemetry.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("order service stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	shutdownTracer, err := telemetry.SetupTracer(ctx, telemetry.TracerConfig{
		Enabled:     cfg.OTel.Enabled,
		ServiceName: cfg.OTel.ServiceName,
		Endpoint:    cfg.OTel.Endpoint,
		Environment: cfg.Env,
		SampleRatio: cfg.OTel.SampleRatio,
	})
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	metrics := telemetry.NewMetrics()

	customers, orders, closeStores, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStores()

	quoteStore, closeCache := openCache(ctx, cfg)
	defer closeCache()

	workflowLog, closeLog, err := openWorkflowLog(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	upstream := &http.Client{
		Timeout:   cfg.Services.UpstreamTimeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	carrierClient := carrier.NewClient(upstream, carrier.Config{
		BaseURL:     cfg.Carrier.URL,
		AccessToken: cfg.Carrier.AccessToken,
		UserAgent:   cfg.Carrier.UserAgent,
		Package: carrier.Package{
			Height: cfg.Carrier.PackageHeight,
			Width:  cfg.Carrier.PackageWidth,
			Length: cfg.Carrier.PackageLength,
			Weight: cfg.Carrier.PackageWeight,
		},
	})
	calculator := shipping.NewCalculator(
		carrierClient,
		shipping.NewQuoteCache(quoteStore, cfg.Shipping.CacheTTL),
		cfg.Carrier.WarehouseZip,
		metrics,
	)

	svc := app.NewService(
		customers,
		orders,
		inventory.NewClient(upstream, cfg.Services.ProductsURL),
		calculator,
		workflowLog,
		metrics,
	)

	httpServer := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      otelhttp.NewHandler(httpx.NewRouter(httpx.NewHandler(svc), metrics.Handler()), "order-service"),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return err
	}
	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.UnaryInterceptor(interceptors.TraceServerInterceptor()),
	)
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	errCh := make(chan error, 2)
	go func() {
		slog.Info("order service HTTP running", "addr", cfg.HTTP.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	go func() {
		slog.Info("order service gRPC health running", "addr", cfg.GRPC.Addr)
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err = <-errCh:
		slog.Error("server failed", "error", err)
	}

	healthSrv.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if shutdownErr := httpServer.Shutdown(shutdownCtx); shutdownErr != nil {
		slog.Error("http shutdown error", "error", shutdownErr)
	}
	grpcServer.GracefulStop()
	return err
}

// openStores picks Postgres when DATABASE_URL is set, memory otherwise.
func openStores(ctx context.Context, cfg *config.Config) (app.CustomerStore, app.OrderStore, func(), error) {
	if cfg.Postgres.URL == "" {
		slog.Warn("DATABASE_URL not set, using in-memory stores")
		return memory.NewCustomerStore(devCustomers()...), memory.NewOrderStore(), func() {}, nil
	}

	pool, err := postgres.Connect(ctx, cfg.Postgres.URL)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := postgres.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	customers := postgres.NewCustomerStore(pool)
	if cfg.Postgres.SeedCustomers {
		n, err := customers.SeedCustomers(ctx, devCustomers())
		if err != nil {
			pool.Close()
			return nil, nil, nil, err
		}
		if n > 0 {
			slog.Info("seeded customers", "count", n)
		}
	}
	return customers, postgres.NewOrderStore(pool), pool.Close, nil
}

// openCache picks Redis when REDIS_ADDR is set and reachable.
func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, func()) {
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedisCache(cfg.Redis.Addr, serviceName)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		err := rc.Ping(pingCtx)
		if err == nil {
			return rc, func() { _ = rc.Close() }
		}
		slog.Warn("redis unreachable, using in-process quote cache", "addr", cfg.Redis.Addr, "error", err)
		_ = rc.Close()
	}
	return cache.NewMemoryCache(serviceName, cfg.Shipping.CacheSize, cfg.Shipping.CacheTTL), func() {}
}

func openWorkflowLog(cfg *config.Config) (sagalog.Repository, func(), error) {
	if cfg.SagaLog.Path == "" {
		return sagalog.NewMemoryRepository(), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.SagaLog.Path), 0o755); err != nil {
		return nil, nil, err
	}
	repo, err := sqlite.Open(cfg.SagaLog.Path)
	if err != nil {
		return nil, nil, err
	}
	return repo, func() { _ = repo.Close() }, nil
}
