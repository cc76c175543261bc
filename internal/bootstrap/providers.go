package bootstrap

import (
	"context"
	"time"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/ai"
	chclient "github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/clickhouse"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/config"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/errors/sentry"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/kafka"
	pgclient "github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/postgres"
	redisclient "github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/redis"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/agents"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/api"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/api/health"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/consumers"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/events"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/metrics"
	chrepo "github.com/tenured-master-chef-607/Reflash-sub001/internal/repository/clickhouse"
	pgrepo "github.com/tenured-master-chef-607/Reflash-sub001/internal/repository/postgres"
	analysissvc "github.com/tenured-master-chef-607/Reflash-sub001/internal/services/analysis"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// Version is stamped at build time via -ldflags
var Version = "dev"

const connectTimeout = 10 * time.Second

// ========================================
// Phase 1: Configuration & Logging
// ========================================

// MustInitConfig loads configuration and initializes logger
func (c *Container) MustInitConfig() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	c.Config = cfg

	// Initialize logger
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}

	c.Log = logger.Get()
	c.Log.Infof("Starting %s %s in %s mode", cfg.App.Name, Version, cfg.App.Env)

	// Initialize error tracker
	c.ErrorTracker = provideErrorTracker(cfg, c.Log)
	logger.SetErrorTracker(c.ErrorTracker)

	metrics.Init()
}

// ========================================
// Phase 2: Infrastructure Layer
// ========================================

// MustInitInfrastructure connects the configured data stores (Postgres, ClickHouse, Redis)
func (c *Container) MustInitInfrastructure() {
	var err error

	if c.Config.Postgres.Enabled() {
		c.Log.Info("Connecting to PostgreSQL...")
		c.PG, err = withTimeout(c.Context, func(ctx context.Context) (*pgclient.Client, error) {
			return pgclient.NewClient(ctx, c.Config.Postgres)
		})
		if err != nil {
			c.Log.Fatalf("failed to connect postgres: %v", err)
		}
		c.Log.Info("✓ PostgreSQL connected")
	} else {
		c.Log.Warn("PostgreSQL not configured, company analyses are disabled")
	}

	if c.Config.ClickHouse.Enabled() {
		c.Log.Info("Connecting to ClickHouse...")
		c.CH, err = withTimeout(c.Context, func(ctx context.Context) (*chclient.Client, error) {
			return chclient.NewClient(ctx, c.Config.ClickHouse)
		})
		if err != nil {
			c.Log.Fatalf("failed to connect clickhouse: %v", err)
		}
		c.Log.Info("✓ ClickHouse connected")
	}

	if c.Config.Redis.Enabled() {
		c.Log.Info("Connecting to Redis...")
		c.Redis, err = withTimeout(c.Context, func(ctx context.Context) (*redisclient.Client, error) {
			return redisclient.NewClient(ctx, c.Config.Redis)
		})
		if err != nil {
			c.Log.Fatalf("failed to connect redis: %v", err)
		}
		c.Log.Info("✓ Redis connected")
	}
}

// ========================================
// Phase 3: Domain Layer - Repositories
// ========================================

// MustInitRepositories initializes repositories for the connected stores
func (c *Container) MustInitRepositories() {
	if c.PG != nil {
		c.Repos.Financial = pgrepo.NewFinancialRepository(c.PG.DB())

		// A typed nil *redisclient.Client must not reach the cache as a non-nil interface
		var store analysissvc.KeyValueStore
		if c.Redis != nil {
			store = c.Redis
		}
		c.Repos.Statements = analysissvc.NewStatementCache(c.Repos.Financial, store, c.Config.Redis.CacheTTL)
	}

	if c.CH != nil {
		c.Repos.AnalysisRuns = chrepo.NewAnalysisRunRepository(c.CH.Conn())
	}

	metrics.RegisterCustomCollector(provideCustomCollector(c.Repos, c.Log))

	c.Log.Info("✓ Repositories initialized")
}

// ========================================
// Phase 4: External Adapters
// ========================================

// MustInitAdapters initializes external adapters (Kafka, analysis backend)
func (c *Container) MustInitAdapters() {
	var err error

	if c.Config.Kafka.Enabled() {
		c.Adapters.KafkaProducer = kafka.NewProducer(kafka.ProducerConfig{
			Brokers:    c.Config.Kafka.Brokers,
			RequireAll: c.Config.Kafka.RequireAll,
		})
		c.Adapters.Publisher = events.NewPublisher(c.Adapters.KafkaProducer, c.Config.Kafka.RunsTopic, c.Config.App.Name)

		if c.Repos.AnalysisRuns != nil {
			c.Adapters.AnalysisRunsReader = kafka.NewConsumer(kafka.ConsumerConfig{
				Brokers: c.Config.Kafka.Brokers,
				GroupID: c.Config.Kafka.GroupID,
				Topic:   c.Config.Kafka.RunsTopic,
			})
		}
		c.Log.Infow("✓ Kafka configured", "brokers", c.Config.Kafka.Brokers, "topic", c.Config.Kafka.RunsTopic)
	}

	c.Adapters.Clients, err = ai.NewClientProvider(c.Context, c.Config.AI)
	if err != nil {
		c.Log.Fatalf("failed to init analysis backend: %v", err)
	}
}

// ========================================
// Phase 5: Business Logic
// ========================================

// MustInitBusiness builds the agent factory, orchestrator and analysis service
func (c *Container) MustInitBusiness() {
	var err error

	c.Business.Factory, err = agents.NewFactory(agents.FactoryDeps{
		Clients: c.Adapters.Clients,
		Configs: provideAgentOverrides(c.Config.AI).Apply(agents.DefaultAgentConfigs()),
	})
	if err != nil {
		c.Log.Fatalf("failed to init agent factory: %v", err)
	}

	c.Business.Orchestrator = agents.NewOrchestrator(c.Business.Factory)

	deps := analysissvc.Deps{
		Orchestrator: c.Business.Orchestrator,
		Statements:   c.Repos.Statements,
		Provider:     c.Adapters.Clients.ProviderName().String(),
	}
	if c.Adapters.Publisher != nil {
		deps.Publisher = c.Adapters.Publisher
	}

	c.Business.Analysis, err = analysissvc.NewService(deps)
	if err != nil {
		c.Log.Fatalf("failed to init analysis service: %v", err)
	}

	c.Log.Info("✓ Agents initialized")
}

// ========================================
// Phase 6: Application Layer
// ========================================

// MustInitApplication builds the HTTP server and the run ingestion consumer
func (c *Container) MustInitApplication() {
	c.Application.Health = provideHealthHandler(c)

	c.Application.HTTPServer = api.NewServer(
		api.ServerConfig{
			Port:         c.Config.HTTP.Port,
			ServiceName:  c.Config.App.Name,
			Version:      Version,
			ReadTimeout:  c.Config.HTTP.ReadTimeout,
			WriteTimeout: c.Config.HTTP.WriteTimeout,
		},
		c.Application.Health,
		api.NewAnalysisHandler(c.Business.Analysis),
	)

	if c.Adapters.AnalysisRunsReader != nil {
		c.Application.AnalysisRunIngress = consumers.NewAnalysisRunConsumer(c.Adapters.AnalysisRunsReader, c.Repos.AnalysisRuns)
	}
}

// ========================================
// Providers
// ========================================

// provideErrorTracker initializes error tracking (Sentry or no-op)
func provideErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return errors.NopTracker{}
	}

	tracker, err := sentry.New(sentry.Options{
		DSN:         cfg.ErrorTracking.SentryDSN,
		Environment: cfg.ErrorTracking.Environment,
		Release:     Version,
		SampleRate:  cfg.ErrorTracking.SampleRate,
	})
	if err != nil {
		log.Warnw("Failed to initialize Sentry, tracking disabled", "error", err)
		return errors.NopTracker{}
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// provideAgentOverrides maps backend settings onto the per-agent defaults
func provideAgentOverrides(cfg config.AIConfig) agents.Overrides {
	temperature, newsTemperature := cfg.Temperature, cfg.NewsTemperature
	return agents.Overrides{
		Model:           cfg.Model,
		Temperature:     &temperature,
		NewsTemperature: &newsTemperature,
		MaxTokens:       cfg.MaxTokens,
		APIKeys:         cfg.AgentKeys,
	}
}

// provideCustomCollector exposes store-backed gauges. Interfaces stay nil for disabled stores.
func provideCustomCollector(repos *Repositories, log *logger.Logger) *metrics.CustomCollector {
	var companies metrics.CompanyCounter
	if repos.Financial != nil {
		companies = repos.Financial
	}

	var runs metrics.RunCounter
	if repos.AnalysisRuns != nil {
		runs = repos.AnalysisRuns
	}

	return metrics.NewCustomCollector(log.With("component", "metrics_collector"), companies, runs)
}

// provideHealthHandler registers a readiness check per connected store
func provideHealthHandler(c *Container) *health.Handler {
	h := health.New(c.Config.App.Name, Version)
	if c.Adapters.Clients != nil {
		h.Describe("backend", c.Adapters.Clients.ProviderName().String())
	}

	if c.PG != nil {
		h.Register("postgres", c.PG.Health)
	}
	if c.Redis != nil {
		h.Register("redis", c.Redis.Health)
	}
	if c.CH != nil {
		h.Register("clickhouse", c.CH.Health)
	}

	return h
}

func withTimeout[T any](parent context.Context, connect func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(parent, connectTimeout)
	defer cancel()
	return connect(ctx)
}
