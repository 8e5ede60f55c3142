package migration

import (
	"bytes"
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := logOutput
	logOutput = &buf
	t.Cleanup(func() { logOutput = orig })
	return &buf
}

func TestEnsureMigrated(t *testing.T) {
	ctx := context.Background()
	sentinel := regexp.QuoteMeta("SELECT to_regclass('public.texts') IS NOT NULL")

	t.Run("schema exists", func(t *testing.T) {
		logs := captureLogs(t)
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinel).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err = EnsureMigrated(ctx, db, time.UTC, "db")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Contains(t, logs.String(), `"event":"db_migration_skip"`)
	})

	t.Run("runs every step", func(t *testing.T) {
		logs := captureLogs(t)
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinel).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		for _, step := range steps {
			mock.ExpectExec(regexp.QuoteMeta(step.SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
		}
		mock.ExpectCommit()

		err = EnsureMigrated(ctx, db, time.UTC, "db")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Equal(t, len(steps), strings.Count(logs.String(), `"event":"db_migration_step"`))
		assert.Contains(t, logs.String(), `"event":"db_migration_success"`)
	})

	t.Run("step failure rolls back", func(t *testing.T) {
		logs := captureLogs(t)
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinel).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(steps[0].SQL)).WillReturnError(errors.New("permission denied"))
		mock.ExpectRollback()

		err = EnsureMigrated(ctx, db, time.UTC, "db")
		assert.ErrorContains(t, err, "migration step create_extension_uuid_ossp failed")
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Contains(t, logs.String(), `"level":"error"`)
		assert.NotContains(t, logs.String(), `"event":"db_migration_success"`)
	})

	t.Run("begin failure", func(t *testing.T) {
		captureLogs(t)
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinel).WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		err = EnsureMigrated(ctx, db, time.UTC, "db")
		assert.ErrorContains(t, err, "begin tx: too many connections")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("sentinel check failure", func(t *testing.T) {
		captureLogs(t)
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(sentinel).WillReturnError(errors.New("connection refused"))

		err = EnsureMigrated(ctx, db, time.UTC, "db")
		assert.ErrorContains(t, err, "failed to check sentinel table")
	})
}
