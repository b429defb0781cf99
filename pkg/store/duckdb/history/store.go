package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/de-tools/report-atlas/pkg/models/store"
	"github.com/de-tools/report-atlas/pkg/store/duckdb"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	insertRunQuery = `
		INSERT INTO variance_runs (
			id, base_upload_id, compare_upload_id, net_income_change, explained_total,
			residual, explained_pct, driver_count, payload, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	listRunsQuery = `
		SELECT id, base_upload_id, compare_upload_id, net_income_change, explained_total,
			residual, explained_pct, driver_count, payload, created_at
		FROM variance_runs
		WHERE base_upload_id = ? AND compare_upload_id = ?
		ORDER BY created_at DESC
		LIMIT ?`

	pruneRunsQuery = `
		DELETE FROM variance_runs
		WHERE base_upload_id = ? AND compare_upload_id = ?
			AND id NOT IN (
				SELECT id FROM variance_runs
				WHERE base_upload_id = ? AND compare_upload_id = ?
				ORDER BY created_at DESC
				LIMIT ?
			)`

	DefaultListLimit = 50
)

// Store is the ledger of past variance computations.
type Store interface {
	Add(ctx context.Context, run *store.VarianceRun) error
	List(ctx context.Context, baseUploadID, compareUploadID string, limit int) ([]*store.VarianceRun, error)
}

type defaultStore struct {
	db   *sql.DB
	now  func() time.Time
	keep int
}

type Option func(*defaultStore)

// WithRetention keeps only the newest keep runs per upload pair. Zero keeps
// every run.
func WithRetention(keep int) Option {
	return func(s *defaultStore) {
		s.keep = max(0, keep)
	}
}

func NewStore(db *sql.DB, opts ...Option) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	s := &defaultStore{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Add assigns an id and creation time when the run has none.
func (s *defaultStore) Add(ctx context.Context, run *store.VarianceRun) error {
	if run == nil {
		return fmt.Errorf("variance run is nil")
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now()
	}

	if s.keep == 0 {
		return s.insert(ctx, run)
	}
	return duckdb.RunInTransaction(ctx, s.db, func(ctx context.Context) error {
		if err := s.insert(ctx, run); err != nil {
			return err
		}
		_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, pruneRunsQuery,
			run.BaseUploadID, run.CompareUploadID,
			run.BaseUploadID, run.CompareUploadID,
			s.keep,
		)
		if err != nil {
			return fmt.Errorf("prune variance runs: %w", err)
		}
		return nil
	})
}

func (s *defaultStore) insert(ctx context.Context, run *store.VarianceRun) error {
	var explainedPct sql.NullFloat64
	if run.ExplainedPct != nil {
		explainedPct = sql.NullFloat64{Float64: *run.ExplainedPct, Valid: true}
	}

	_, err := duckdb.Conn(ctx, s.db).ExecContext(ctx, insertRunQuery,
		run.ID,
		run.BaseUploadID,
		run.CompareUploadID,
		run.NetIncomeChange,
		run.ExplainedTotal,
		run.Residual,
		explainedPct,
		run.DriverCount,
		string(run.Payload),
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert variance run: %w", err)
	}
	return nil
}

func (s *defaultStore) List(
	ctx context.Context,
	baseUploadID, compareUploadID string,
	limit int,
) ([]*store.VarianceRun, error) {
	logger := zerolog.Ctx(ctx)
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := duckdb.Conn(ctx, s.db).QueryContext(ctx, listRunsQuery, baseUploadID, compareUploadID, limit)
	if err != nil {
		return nil, fmt.Errorf("query variance runs: %w", err)
	}
	defer func(rows *sql.Rows) {
		err := rows.Close()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to close variance runs rows")
		}
	}(rows)

	runs := []*store.VarianceRun{}
	for rows.Next() {
		var (
			run          store.VarianceRun
			explainedPct sql.NullFloat64
			payload      sql.NullString
		)
		if err := rows.Scan(
			&run.ID,
			&run.BaseUploadID,
			&run.CompareUploadID,
			&run.NetIncomeChange,
			&run.ExplainedTotal,
			&run.Residual,
			&explainedPct,
			&run.DriverCount,
			&payload,
			&run.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan variance run: %w", err)
		}
		if explainedPct.Valid {
			v := explainedPct.Float64
			run.ExplainedPct = &v
		}
		if payload.Valid {
			run.Payload = []byte(payload.String)
		}
		runs = append(runs, &run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate variance runs: %w", err)
	}
	return runs, nil
}
