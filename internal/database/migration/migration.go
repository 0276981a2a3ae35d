package migration

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"resumeparser/internal/logging"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_extension_uuid_ossp",
		SQL:  `CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
	},
	{
		Name: "create_table_resumes",
		SQL: `CREATE TABLE IF NOT EXISTS resumes (
  id                  UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  title               TEXT        NOT NULL,
  filename            TEXT        NOT NULL,
  storage_path        TEXT        NOT NULL UNIQUE,
  size                BIGINT      NOT NULL CHECK (size >= 0),
  content_type        TEXT        NOT NULL,
  extraction_strategy TEXT        NOT NULL DEFAULT '',
  uploaded_at         TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_parsed_texts",
		SQL: `CREATE TABLE IF NOT EXISTS parsed_texts (
  resume_id  UUID        PRIMARY KEY REFERENCES resumes (id) ON DELETE CASCADE,
  content    TEXT        NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_resumes_uploaded_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_resumes_uploaded_at ON resumes (uploaded_at);`,
	},
}

// EnsureMigrated creates the schema when the resumes table is missing.
func EnsureMigrated(ctx context.Context, db *sql.DB, logger *logging.Logger, dbHost string) error {
	start := time.Now()
	log := logger.With(map[string]any{"component": "database", "db_host": dbHost})

	log.Log("", "db_migration_check", map[string]any{"status": "starting"})

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass('public.resumes') IS NOT NULL").Scan(&exists)
	if err != nil {
		log.Log("", "db_migration_failed", map[string]any{
			"status":        "error",
			"error_message": fmt.Sprintf("failed to check sentinel table: %v", err),
			"duration_ms":   time.Since(start).Milliseconds(),
		})
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		log.Log("", "db_migration_skip", map[string]any{
			"status":      "success",
			"msg":         "schema already exists, skipping migration",
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return nil
	}

	log.Log("", "db_migration_start", map[string]any{"status": "in_progress"})

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.Log("", "db_migration_failed", map[string]any{
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"duration_ms":      time.Since(start).Milliseconds(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}

		log.Log("", "db_migration_step", map[string]any{
			"status":           "success",
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	log.Log("", "db_migration_success", map[string]any{
		"status":      "success",
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}
