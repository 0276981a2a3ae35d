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

	"resumeparser/internal/logging"
)

const sentinelQuery = "SELECT to_regclass('public.resumes') IS NOT NULL"

func TestEnsureMigrated(t *testing.T) {
	ctx := context.Background()

	t.Run("skips when schema exists", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		var buf bytes.Buffer
		mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err = EnsureMigrated(ctx, db, logging.New(&buf, time.UTC), "db.local")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Contains(t, buf.String(), `"event":"db_migration_skip"`)
		assert.Contains(t, buf.String(), `"db_host":"db.local"`)
	})

	t.Run("runs every step", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		for _, step := range steps {
			mock.ExpectExec(regexp.QuoteMeta(step.SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
		}

		var buf bytes.Buffer
		err = EnsureMigrated(ctx, db, logging.New(&buf, time.UTC), "db.local")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Equal(t, len(steps), strings.Count(buf.String(), `"event":"db_migration_step"`))
		assert.Contains(t, buf.String(), `"event":"db_migration_success"`)
	})

	t.Run("stops at failing step", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectExec(regexp.QuoteMeta(steps[0].SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(steps[1].SQL)).WillReturnError(errors.New("permission denied"))

		var buf bytes.Buffer
		err = EnsureMigrated(ctx, db, logging.New(&buf, time.UTC), "db.local")

		assert.ErrorContains(t, err, "migration step create_table_resumes failed")
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Contains(t, buf.String(), `"level":"error"`)
	})

	t.Run("sentinel check fails", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta(sentinelQuery)).WillReturnError(errors.New("conn reset"))

		err = EnsureMigrated(ctx, db, nil, "db.local")

		assert.ErrorContains(t, err, "failed to check sentinel table")
	})
}
