package clickhouse

import (
	"context"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/tenured-master-chef-607/Reflash-sub001/internal/domain/analysis"
	"github.com/tenured-master-chef-607/Reflash-sub001/internal/metrics"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/clickhouse"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/errors"
	"github.com/tenured-master-chef-607/Reflash-sub001/pkg/logger"
)

// Compile-time check
var _ analysis.RunRepository = (*AnalysisRunRepository)(nil)

const insertAnalysisRuns = `
	INSERT INTO analysis_runs (
		run_id, agent_type, company_name, success, error,
		processing_time_ms, data_points, provider, model, comprehensive, created_at
	)`

// AnalysisRunRepository stores run metadata in ClickHouse through a batch writer
type AnalysisRunRepository struct {
	conn        driver.Conn
	batchWriter *clickhouse.BatchWriter[*analysis.Run]
	log         *logger.Logger
}

// NewAnalysisRunRepository creates the repository. Call Start before Store.
func NewAnalysisRunRepository(conn driver.Conn) *AnalysisRunRepository {
	repo := &AnalysisRunRepository{
		conn: conn,
		log:  logger.Get().With("component", "analysis_runs_repository"),
	}

	repo.batchWriter = clickhouse.NewBatchWriter(clickhouse.BatchWriterConfig[*analysis.Run]{
		FlushFunc:    repo.flushBatch,
		TableName:    "analysis_runs",
		MaxBatchSize: 200,
		MaxAge:       5 * time.Second,
		MaxPending:   5000,
		OnDrop: func(rows int) {
			metrics.RecordDroppedRows("analysis_runs", rows)
			repo.log.Warnw("Dropped analysis runs after failed writes", "rows", rows)
		},
	})

	return repo
}

// Start begins the background flush loop
func (r *AnalysisRunRepository) Start(ctx context.Context) {
	r.batchWriter.Start(ctx)
}

// Stop flushes buffered runs
func (r *AnalysisRunRepository) Stop(ctx context.Context) error {
	return r.batchWriter.Stop(ctx)
}

// Store buffers a run; it is written with the next batch
func (r *AnalysisRunRepository) Store(ctx context.Context, run *analysis.Run) error {
	if run == nil {
		return errors.NewValidationError("run", "is required", nil)
	}
	return r.batchWriter.Add(ctx, run)
}

// flushBatch sends all rows in a single INSERT
func (r *AnalysisRunRepository) flushBatch(ctx context.Context, runs []*analysis.Run) error {
	start := time.Now()

	stmt, err := r.conn.PrepareBatch(ctx, insertAnalysisRuns)
	if err != nil {
		metrics.RecordDBQuery("clickhouse", "insert_analysis_runs", time.Since(start), err)
		return errors.Wrap(err, "failed to prepare batch")
	}
	defer stmt.Close()

	for _, run := range runs {
		if err := stmt.AppendStruct(run); err != nil {
			return errors.Wrap(err, "failed to append to batch")
		}
	}

	err = stmt.Send()
	metrics.RecordDBQuery("clickhouse", "insert_analysis_runs", time.Since(start), err)
	if err != nil {
		return errors.Wrap(err, "failed to send batch")
	}

	r.log.Debugw("Inserted analysis runs", "rows", len(runs), "duration", time.Since(start))
	return nil
}

// CountSince returns the number of runs per agent type created after since
func (r *AnalysisRunRepository) CountSince(ctx context.Context, since time.Time) (map[string]uint64, error) {
	start := time.Now()

	query := `
		SELECT agent_type, count() AS runs
		FROM analysis_runs
		WHERE created_at >= ?
		GROUP BY agent_type`

	rows, err := r.conn.Query(ctx, query, since)
	if err != nil {
		metrics.RecordDBQuery("clickhouse", "count_analysis_runs", time.Since(start), err)
		return nil, errors.Wrap(err, "failed to count analysis runs")
	}
	defer rows.Close()

	counts := make(map[string]uint64)
	for rows.Next() {
		var agentType string
		var n uint64
		if err := rows.Scan(&agentType, &n); err != nil {
			return nil, errors.Wrap(err, "failed to scan analysis run count")
		}
		counts[agentType] = n
	}

	err = rows.Err()
	metrics.RecordDBQuery("clickhouse", "count_analysis_runs", time.Since(start), err)
	return counts, err
}
