package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/config"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// Client holds the native-protocol connection used for analysis run history
type Client struct {
	conn driver.Conn
	log  *logger.Logger
}

// NewClient opens the connection and verifies it with a ping
func NewClient(ctx context.Context, cfg config.ClickHouseConfig) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
		DialTimeout:     5 * time.Second,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open clickhouse %s", addr)
	}

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, errors.WrapKind(errors.ErrUnavailable, errors.Wrapf(err, "ping clickhouse %s", addr))
	}

	log := logger.Get().With("component", "clickhouse", "database", cfg.Database)
	log.Infow("Connected to run history store", "addr", addr)

	return &Client{conn: conn, log: log}, nil
}

// Conn exposes the connection for repositories
func (c *Client) Conn() driver.Conn {
	return c.conn
}

// Migrate executes DDL statements in order. ClickHouse has no transactional DDL,
// so statements must be idempotent.
func (c *Client) Migrate(ctx context.Context, stmts []string) error {
	for i, stmt := range stmts {
		if err := c.conn.Exec(ctx, stmt); err != nil {
			return errors.Wrapf(err, "clickhouse migration %d", i+1)
		}
	}
	c.log.Infow("Schema migrations applied", "count", len(stmts))
	return nil
}

// Health pings the server
func (c *Client) Health(ctx context.Context) error {
	if err := c.conn.Ping(ctx); err != nil {
		return errors.WrapKind(errors.ErrUnavailable, err)
	}
	return nil
}

// Close closes the connection
func (c *Client) Close() error {
	c.log.Info("Closing run history store")
	return c.conn.Close()
}
