package main

import (
	"context"
	"flag"
	"time"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/config"
	chclient "github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/clickhouse"
	pgclient "github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/postgres"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/financial"
	pgrepo "github.com/tenured-master-chef-607/Reflash-sub001/internal/repository/postgres"
	devseeds "github.com/tenured-master-chef-607/Reflash-sub001/internal/seeds/dev"
	"github.com/tenured-master-chef-607/Reflash-sub001/migrations"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

type seedFunc func(ctx context.Context, w financial.Writer, now time.Time) error

func main() {
	// Parse flags
	env := flag.String("env", "dev", "Environment: dev")
	migrateOnly := flag.Bool("migrate-only", false, "Apply schema migrations without seeding")
	dryRun := flag.Bool("dry-run", false, "List seed functions without executing")
	flag.Parse()

	// Load config
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize logger
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()

	log.Infow("Starting seeder",
		"environment", *env,
		"dry_run", *dryRun,
		"database", cfg.Postgres.Database,
	)

	seeds := getSeedFunctions(*env)
	if len(seeds) == 0 && !*migrateOnly {
		log.Warnw("No seeds available for environment", "environment", *env)
		return
	}

	if *dryRun {
		log.Infow("✅ Dry-run mode: seed functions validated", "count", len(seeds))
		return
	}

	if !cfg.Postgres.Enabled() {
		log.Fatal("POSTGRES_HOST is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pg, err := pgclient.NewClient(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pg.Close()

	if err := migratePostgres(ctx, pg); err != nil {
		log.Fatalf("Failed to apply PostgreSQL migrations: %v", err)
	}
	log.Info("✓ PostgreSQL schema applied")

	if cfg.ClickHouse.Enabled() {
		if err := migrateClickHouse(ctx, cfg.ClickHouse); err != nil {
			log.Fatalf("Failed to apply ClickHouse migrations: %v", err)
		}
		log.Info("✓ ClickHouse schema applied")
	}

	if *migrateOnly {
		return
	}

	tx, err := pg.DB().BeginTxx(ctx, nil)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	repo := pgrepo.NewFinancialRepository(tx)

	now := time.Now().UTC()
	for i, seed := range seeds {
		log.Infow("Executing seed", "step", i+1, "total", len(seeds))

		if err := seed(ctx, repo, now); err != nil {
			_ = tx.Rollback()
			log.Fatalf("Failed to execute seed %d: %v", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Fatalf("Failed to commit seeds: %v", err)
	}

	log.Info("✅ All seeds applied successfully")
}

func migratePostgres(ctx context.Context, pg *pgclient.Client) error {
	stmts, err := migrations.Postgres()
	if err != nil {
		return errors.Wrap(err, "read postgres migrations")
	}
	return pg.Migrate(ctx, stmts)
}

func migrateClickHouse(ctx context.Context, cfg config.ClickHouseConfig) error {
	ch, err := chclient.NewClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer ch.Close()

	stmts, err := migrations.ClickHouse()
	if err != nil {
		return errors.Wrap(err, "read clickhouse migrations")
	}
	return ch.Migrate(ctx, stmts)
}

// getSeedFunctions returns seed functions for the given environment
// Order matters - dependencies should be seeded first
func getSeedFunctions(env string) []seedFunc {
	switch env {
	case "dev":
		return []seedFunc{
			devseeds.SeedCompanies,
		}
	default:
		return nil
	}
}
