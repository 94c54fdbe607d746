package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/omexsoft/b2b-backend/api/routes"
	"github.com/omexsoft/b2b-backend/internal/catalog"
	"github.com/omexsoft/b2b-backend/internal/customers"
	"github.com/omexsoft/b2b-backend/internal/groups"
	"github.com/omexsoft/b2b-backend/internal/ordervalidation"
	"github.com/omexsoft/b2b-backend/internal/pricing"
	"github.com/omexsoft/b2b-backend/internal/purchaseorders"
	"github.com/omexsoft/b2b-backend/internal/quotes"
	"github.com/omexsoft/b2b-backend/pkg/config"
	"github.com/omexsoft/b2b-backend/pkg/db"
	"github.com/omexsoft/b2b-backend/pkg/logger"
	"github.com/omexsoft/b2b-backend/pkg/metrics"
	"github.com/omexsoft/b2b-backend/pkg/migrate"
	"github.com/omexsoft/b2b-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	catalogRepo := catalog.NewRepository(dbClient.DB())
	customersRepo := customers.NewRepository(dbClient.DB())

	groupsService, err := groups.NewService(groups.NewRepository(dbClient.DB()), customersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create groups service", err)
		os.Exit(1)
	}

	calculator, err := pricing.NewCalculator(catalogRepo, groupsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing calculator", err)
		os.Exit(1)
	}

	validator, err := ordervalidation.NewValidator(catalogRepo, groupsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create order validator", err)
		os.Exit(1)
	}

	quotesService, err := quotes.NewService(quotes.NewRepository(dbClient.DB()), cfg.Quotes.Validity())
	if err != nil {
		logg.Error(context.Background(), "failed to create quotes service", err)
		os.Exit(1)
	}

	poService, err := purchaseorders.NewService(purchaseorders.NewRepository(dbClient.DB()), dbClient, groupsService)
	if err != nil {
		logg.Error(context.Background(), "failed to create purchase orders service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			HTTPMetrics:    metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
			Catalog:        catalogRepo,
			Calculator:     calculator,
			Validator:      validator,
			Groups:         groupsService,
			Quotes:         quotesService,
			PurchaseOrders: poService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
