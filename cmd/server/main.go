// Command server runs the greenlane API: catalog browsing, compliance checks,
// order creation, and the admin rule API. main only wires dependencies;
// business logic lives in the internal services packages.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"greenlane/internal/audit"
	"greenlane/internal/catalog"
	catalogHandler "greenlane/internal/catalog/handler"
	"greenlane/internal/compliance"
	complianceHandler "greenlane/internal/compliance/handler"
	"greenlane/internal/compliance/metrics"
	"greenlane/internal/migrations"
	"greenlane/internal/order"
	orderHandler "greenlane/internal/order/handler"
	"greenlane/internal/order/ports"
	"greenlane/internal/platform/config"
	"greenlane/internal/platform/httpserver"
	"greenlane/internal/platform/logger"
	"greenlane/internal/platform/middleware"
	"greenlane/internal/platform/postgres"
	platformredis "greenlane/internal/platform/redis"
	"greenlane/internal/rules"
	rulesHandler "greenlane/internal/rules/handler"
	"greenlane/internal/storage"
	pgstore "greenlane/internal/storage/postgres"
	"greenlane/internal/storage/rulecache"
	httptransport "greenlane/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Env)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

type stores struct {
	users        storage.UserStore
	dispensaries storage.DispensaryStore
	products     storage.ProductStore
	rules        storage.RuleStore
	orders       storage.OrderStore
	audit        storage.AuditStore
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	st, cleanup, err := buildStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	cache, cacheCleanup, err := buildRuleCache(ctx, cfg, st.rules, log)
	if err != nil {
		return err
	}
	defer cacheCleanup()

	var sink audit.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(ctx, cfg.Kafka)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("audit events fan out to kafka", "topic", cfg.Kafka.AuditTopic)
	}
	auditor := audit.NewPublisher(st.audit, sink, log)

	engine := compliance.NewEngine(st.users, st.dispensaries, st.products, st.orders, cache, metrics.New())

	ruleService := rules.NewService(st.rules, cache, log)
	if cfg.IsDev() {
		if err := seedDev(ctx, st, ruleService); err != nil {
			return err
		}
		log.Info("seeded development fixtures")
	}

	orderService := order.NewService(st.orders, st.products, engine, ports.DevPaymentProvider{},
		ports.LogNotifier{Logger: log}, auditor, log)
	catalogService := catalog.NewService(st.dispensaries, st.products)

	router := httptransport.NewRouter(httptransport.Handlers{
		Compliance: complianceHandler.New(engine, log),
		Orders:     orderHandler.New(orderService, log),
		Catalog:    catalogHandler.New(catalogService, log),
		Rules:      rulesHandler.New(ruleService, log),
	}, httptransport.Options{
		AdminAuth: middleware.RequireAuth(cfg.Auth.JWTSigningKey, log),
	})

	srv := httpserver.New(cfg.Server, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting greenlane server", "addr", cfg.Server.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("server stopped")
	return nil
}

// buildStores picks PostgreSQL when a database URL is configured and falls
// back to in-memory stores otherwise.
func buildStores(ctx context.Context, cfg *config.Config, log *slog.Logger) (stores, func(), error) {
	if cfg.DB.URL == "" {
		log.Info("no database configured, using in-memory stores")
		return stores{
			users:        storage.NewInMemoryUserStore(),
			dispensaries: storage.NewInMemoryDispensaryStore(),
			products:     storage.NewInMemoryProductStore(),
			rules:        storage.NewInMemoryRuleStore(),
			orders:       storage.NewInMemoryOrderStore(),
			audit:        storage.NewInMemoryAuditStore(),
		}, func() {}, nil
	}

	db, err := postgres.Open(ctx, cfg.DB)
	if err != nil {
		return stores{}, nil, err
	}
	if err := migrations.Run(db, cfg.DB.MigrationsPath); err != nil {
		db.Close()
		return stores{}, nil, err
	}
	log.Info("database ready", "migrations_path", cfg.DB.MigrationsPath)
	return stores{
		users:        pgstore.NewUsers(db),
		dispensaries: pgstore.NewDispensaries(db),
		products:     pgstore.NewProducts(db),
		rules:        pgstore.NewRules(db),
		orders:       pgstore.NewOrders(db),
		audit:        pgstore.NewAudit(db),
	}, func() { db.Close() }, nil
}

// buildRuleCache uses Redis when configured and an in-process TTL cache
// otherwise.
func buildRuleCache(ctx context.Context, cfg *config.Config, source storage.RuleStore, log *slog.Logger) (rulecache.Cache, func(), error) {
	if cfg.Redis.URL == "" {
		log.Info("no redis configured, using in-process rule cache", "ttl", cfg.Redis.RuleCacheTTL)
		return rulecache.NewMemory(source, cfg.Redis.RuleCacheTTL), func() {}, nil
	}

	client, err := platformredis.New(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if err := client.Health(ctx); err != nil {
		client.Close()
		return nil, nil, err
	}
	log.Info("redis rule cache ready", "ttl", cfg.Redis.RuleCacheTTL)
	return rulecache.NewRedis(source, client, cfg.Redis.RuleCacheTTL), func() { _ = client.Close() }, nil
}

// seedDev loads a small fixture set so the API is usable out of the box:
// default state rules, one dispensary per configured state, a short menu,
// and a verified adult test user.
func seedDev(ctx context.Context, st stores, ruleService *rules.Service) error {
	if err := ruleService.SeedDefaults(ctx); err != nil {
		return err
	}

	dob := time.Date(1990, 3, 10, 0, 0, 0, 0, time.UTC)
	if err := st.users.Save(ctx, domainUser("dev-user", "dev@greenlane.test", &dob)); err != nil {
		return err
	}
	if err := st.dispensaries.Save(ctx, domainDispensary("disp-ca", "Golden State Greens", "CA")); err != nil {
		return err
	}
	if err := st.dispensaries.Save(ctx, domainDispensary("disp-ok", "Sooner Relief", "OK")); err != nil {
		return err
	}
	for _, p := range devMenu() {
		if err := st.products.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}
