package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"chatbi/adapters/llm"
	"chatbi/adapters/query"
	"chatbi/adapters/store"
	"chatbi/api"
	"chatbi/internal"
	"chatbi/internal/config"
	"chatbi/internal/errors"
	"chatbi/internal/migration"
)

// initStore connects to the MySQL configuration store and applies migrations
func initStore(ctx context.Context, cfg config.StoreConfig) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "mysql", cfg.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to configuration store")
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}
	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := initStore(ctx, cfg.Store)
	if err != nil {
		log.Fatalf("Failed to initialize configuration store: %v", err)
	}
	defer db.Close()

	registry := query.NewRegistry(cfg.Query)
	defer registry.Close()
	executor := query.NewExecutor(registry, cfg.Query, logger)

	client, err := llm.NewClient(cfg.AI)
	if err != nil {
		log.Fatalf("Failed to initialize model client: %v", err)
	}

	server := api.NewServer(cfg.Server, api.Deps{
		Sources:   store.NewDataSourceRepository(db),
		Tables:    store.NewDataTableRepository(db),
		Relations: store.NewRelationRepository(db),
		Executor:  executor,
		Generator: llm.NewGenerator(client),
		Pools:     registry,
		Logger:    logger,
	})
	ops := api.NewOpsServer(cfg.Ops, db, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx) })
	g.Go(func() error { return ops.Run(gctx) })

	if err := g.Wait(); err != nil {
		log.Fatalf("Server exited with error: %v", err)
	}
	logger.Info("shutdown complete")
}
