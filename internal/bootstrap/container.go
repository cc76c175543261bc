package bootstrap

import (
	"context"
	"sync"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/ai"
	chclient "github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/clickhouse"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/config"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/kafka"
	pgclient "github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/postgres"
	redisclient "github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/redis"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/agents"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/api"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/api/health"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/consumers"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/financial"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/events"
	chrepo "github.com/tenured-master-chef-607/Reflash-sub001/internal/repository/clickhouse"
	pgrepo "github.com/tenured-master-chef-607/Reflash-sub001/internal/repository/postgres"
	analysissvc "github.com/tenured-master-chef-607/Reflash-sub001/internal/services/analysis"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// Container holds all application dependencies and their lifecycle.
// Every data store is optional: a nil client means the store is disabled.
type Container struct {
	// Core configuration & logging
	Config       *config.Config
	Log          *logger.Logger
	ErrorTracker errors.Tracker

	// Infrastructure Layer (Data stores)
	PG    *pgclient.Client
	CH    *chclient.Client
	Redis *redisclient.Client

	// Domain Layer - Repositories
	Repos *Repositories

	// External Adapters
	Adapters *Adapters

	// Business Logic
	Business *Business

	// Application Layer
	Application *Application

	// Lifecycle management
	Lifecycle *Lifecycle
	WG        *sync.WaitGroup
	Context   context.Context
	Cancel    context.CancelFunc
}

// Repositories groups all domain repositories
type Repositories struct {
	Financial    *pgrepo.FinancialRepository
	Statements   financial.Repository // Financial behind the Redis cache
	AnalysisRuns *chrepo.AnalysisRunRepository
}

// Adapters groups all external adapters
type Adapters struct {
	KafkaProducer      *kafka.Producer
	AnalysisRunsReader *kafka.Consumer
	Publisher          *events.Publisher
	Clients            *ai.ClientProvider
}

// Business groups the analysis engine
type Business struct {
	Factory      *agents.Factory
	Orchestrator *agents.Orchestrator
	Analysis     *analysissvc.Service
}

// Application groups the application layer components
type Application struct {
	Health             *health.Handler
	HTTPServer         *api.Server
	AnalysisRunIngress *consumers.AnalysisRunConsumer
}

// NewContainer creates an empty container
func NewContainer() *Container {
	ctx, cancel := context.WithCancel(context.Background())
	return &Container{
		Repos:       &Repositories{},
		Adapters:    &Adapters{},
		Business:    &Business{},
		Application: &Application{},
		Lifecycle:   NewLifecycle(),
		WG:          &sync.WaitGroup{},
		Context:     ctx,
		Cancel:      cancel,
	}
}

// MustInit runs every initialization phase in order
func (c *Container) MustInit() {
	c.MustInitConfig()
	c.MustInitInfrastructure()
	c.MustInitRepositories()
	c.MustInitAdapters()
	c.MustInitBusiness()
	c.MustInitApplication()
}

// Start launches the HTTP server and background consumers
func (c *Container) Start() {
	if ingress := c.Application.AnalysisRunIngress; ingress != nil {
		c.WG.Add(1)
		go func() {
			defer c.WG.Done()
			if err := ingress.Start(c.Context); err != nil {
				c.Log.Errorw("Analysis run consumer failed", "error", err)
			}
		}()
	}

	go func() {
		if err := c.Application.HTTPServer.Start(); err != nil {
			c.Log.Errorw("HTTP server failed", "error", err)
			c.Cancel()
		}
	}()

	c.Log.Info("✓ System started")
}

// Shutdown stops all components in dependency order
func (c *Container) Shutdown() {
	c.Cancel()
	c.Lifecycle.Shutdown(c)
}
