package duckdb

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunInTransaction(t *testing.T) {
	tests := []struct {
		name      string
		fnErr     error
		setupMock func(sqlmock.Sqlmock)
	}{
		{
			name: "commits",
			setupMock: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec("DELETE FROM variance_runs").WillReturnResult(sqlmock.NewResult(0, 1))
				m.ExpectCommit()
			},
		},
		{
			name:  "rolls back on error",
			fnErr: errors.New("boom"),
			setupMock: func(m sqlmock.Sqlmock) {
				m.ExpectBegin()
				m.ExpectExec("DELETE FROM variance_runs").WillReturnResult(sqlmock.NewResult(0, 1))
				m.ExpectRollback()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()
			tt.setupMock(mock)

			err = RunInTransaction(context.Background(), db, func(ctx context.Context) error {
				require.NotNil(t, GetTransaction(ctx))
				if _, err := Conn(ctx, db).ExecContext(ctx, "DELETE FROM variance_runs"); err != nil {
					return err
				}
				return tt.fnErr
			})

			if tt.fnErr != nil {
				assert.ErrorIs(t, err, tt.fnErr)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRunInTransaction_JoinsOuterTransaction(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	outer := WithTransaction(context.Background(), tx)

	err = RunInTransaction(outer, db, func(ctx context.Context) error {
		assert.Same(t, tx, GetTransaction(ctx))
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConn_WithoutTransaction(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	assert.Nil(t, GetTransaction(context.Background()))
	assert.Equal(t, Querier(db), Conn(context.Background(), db))
}
