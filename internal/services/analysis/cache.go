package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/adapters/redis"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/financial"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/metrics"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// DefaultCacheTTL applies when no TTL is configured
const DefaultCacheTTL = 15 * time.Minute

// KeyValueStore is the JSON cache the statement cache sits on. *redis.Client implements it.
type KeyValueStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// StatementCache is a read-through cache in front of a financial.Repository.
// Only balance sheets are cached; transactions change too often.
type StatementCache struct {
	financial.Repository
	store KeyValueStore
	ttl   time.Duration
	log   *logger.Logger
}

// NewStatementCache wraps repo. A nil store disables caching.
func NewStatementCache(repo financial.Repository, store KeyValueStore, ttl time.Duration) *StatementCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &StatementCache{
		Repository: repo,
		store:      store,
		ttl:        ttl,
		log:        logger.Get().With("component", "statement_cache"),
	}
}

// LatestBalanceSheet serves from cache when possible. Cache failures fall through
// to the repository and never fail the call.
func (c *StatementCache) LatestBalanceSheet(ctx context.Context, companyID string, onOrBefore time.Time) (*financial.BalanceSheet, error) {
	if c.store == nil {
		return c.Repository.LatestBalanceSheet(ctx, companyID, onOrBefore)
	}

	key := balanceSheetKey(companyID, onOrBefore)

	var cached financial.BalanceSheet
	err := c.store.Get(ctx, key, &cached)
	switch {
	case err == nil:
		metrics.RecordCacheLookup("balance_sheet", "hit")
		return &cached, nil
	case errors.Is(err, redis.ErrCacheMiss):
		metrics.RecordCacheLookup("balance_sheet", "miss")
	default:
		metrics.RecordCacheLookup("balance_sheet", "error")
		c.log.Warnw("Balance sheet cache read failed", "key", key, "error", err)
	}

	bs, err := c.Repository.LatestBalanceSheet(ctx, companyID, onOrBefore)
	if err != nil {
		return nil, err
	}

	if err := c.store.Set(ctx, key, bs, c.ttl); err != nil {
		c.log.Warnw("Balance sheet cache write failed", "key", key, "error", err)
	}

	return bs, nil
}

func balanceSheetKey(companyID string, onOrBefore time.Time) string {
	return fmt.Sprintf("balance_sheet:%s:%s", companyID, onOrBefore.UTC().Format("2006-01-02"))
}
