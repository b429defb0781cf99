package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const VarianceRunsSchema = `
	CREATE TABLE IF NOT EXISTS variance_runs (
		id VARCHAR NOT NULL PRIMARY KEY,
		base_upload_id VARCHAR NOT NULL,
		compare_upload_id VARCHAR NOT NULL,
		net_income_change DOUBLE NOT NULL,
		explained_total DOUBLE NOT NULL,
		residual DOUBLE NOT NULL,
		explained_pct DOUBLE,
		driver_count INTEGER NOT NULL,
		payload VARCHAR,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
`

const VarianceRunsPairIndex = `
	CREATE INDEX IF NOT EXISTS variance_runs_pair_idx
		ON variance_runs (base_upload_id, compare_upload_id);
`

var bootQueries = []string{
	VarianceRunsSchema,
	VarianceRunsPairIndex,
}

type Settings struct {
	DbPath  string
	Threads int
}

func NewDB(settings Settings) (*sql.DB, error) {
	threads := settings.Threads
	if threads <= 0 {
		threads = 4
	}

	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=%d", settings.DbPath, threads), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
