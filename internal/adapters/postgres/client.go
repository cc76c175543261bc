package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/config"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

const defaultMaxConns = 10

// Client owns the connection pool of the company data store
type Client struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewClient connects to PostgreSQL and sizes the pool from cfg.MaxConns
func NewClient(ctx context.Context, cfg config.PostgresConfig) (*Client, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.DSN())
	if err != nil {
		return nil, errors.WrapKind(errors.ErrUnavailable, errors.Wrapf(err, "postgres %s:%d/%s", cfg.Host, cfg.Port, cfg.Database))
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = defaultMaxConns
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(max(1, maxConns/2))
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	log := logger.Get().With("component", "postgres", "database", cfg.Database)
	log.Infow("Connected to company store", "host", cfg.Host, "max_conns", maxConns)

	return &Client{db: db, log: log}, nil
}

// DB exposes the pool for repositories
func (c *Client) DB() *sqlx.DB {
	return c.db
}

// Migrate applies schema statements in order inside one transaction
func (c *Client) Migrate(ctx context.Context, stmts []string) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin migration")
	}

	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return errors.Wrapf(err, "postgres migration %d", i+1)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit migration")
	}

	c.log.Infow("Schema migrations applied", "count", len(stmts))
	return nil
}

// Health runs a trivial query so readiness reflects a usable connection, not just a socket
func (c *Client) Health(ctx context.Context) error {
	var one int
	if err := c.db.GetContext(ctx, &one, "SELECT 1"); err != nil {
		return errors.WrapKind(errors.ErrUnavailable, err)
	}
	return nil
}

// Close releases the pool
func (c *Client) Close() error {
	stats := c.db.Stats()
	c.log.Infow("Closing company store", "open_connections", stats.OpenConnections, "in_use", stats.InUse)
	return c.db.Close()
}
