package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"docingest/internal/database"
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
		Name: "create_table_projects",
		SQL: `CREATE TABLE IF NOT EXISTS projects (
  id          UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  name        TEXT        NOT NULL,
  tags        JSONB       NOT NULL DEFAULT '[]'::jsonb,
  model_state TEXT        NOT NULL DEFAULT 'Untrained',
  created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_texts",
		SQL: `CREATE TABLE IF NOT EXISTS texts (
  id         UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  seq        BIGSERIAL   NOT NULL,
  project_id UUID        NOT NULL REFERENCES projects (id) ON DELETE CASCADE,
  name       TEXT        NOT NULL,
  value      TEXT        NOT NULL,
  tags       JSONB       NOT NULL DEFAULT '[]'::jsonb,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_source_files",
		SQL: `CREATE TABLE IF NOT EXISTS source_files (
  id           UUID        PRIMARY KEY DEFAULT uuid_generate_v4(),
  project_id   UUID        NOT NULL REFERENCES projects (id) ON DELETE CASCADE,
  filename     TEXT        NOT NULL,
  storage_path TEXT        NOT NULL UNIQUE,
  size         BIGINT      NOT NULL CHECK (size >= 0),
  content_type TEXT        NOT NULL,
  created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_texts_project_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_texts_project_id ON texts (project_id, seq);`,
	},
	{
		Name: "create_index_source_files_project_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_source_files_project_id ON source_files (project_id);`,
	},
}

// logOutput is where migration log lines are written.
var logOutput io.Writer = os.Stdout

// EnsureMigrated creates the schema unless the 'texts' table already exists.
// All steps run in one transaction, so a failed step leaves no partial schema.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	start := time.Now()
	base := func(event, status string) map[string]any {
		return map[string]any{
			"component": "database",
			"event":     event,
			"status":    status,
			"db_host":   dbHost,
		}
	}

	logJSON(loc, base("db_migration_check", "starting"))

	var exists bool
	err := db.QueryRowContext(ctx, "SELECT to_regclass('public.texts') IS NOT NULL").Scan(&exists)
	if err != nil {
		entry := base("db_migration_failed", "error")
		entry["error_message"] = fmt.Sprintf("failed to check sentinel table: %v", err)
		entry["duration_ms"] = time.Since(start).Milliseconds()
		logJSON(loc, entry)
		return fmt.Errorf("failed to check sentinel table: %w", err)
	}

	if exists {
		entry := base("db_migration_skip", "success")
		entry["msg"] = "schema already exists, skipping migration"
		entry["duration_ms"] = time.Since(start).Milliseconds()
		logJSON(loc, entry)
		return nil
	}

	err = database.Transact(ctx, db, func(tx *sql.Tx) error {
		for _, step := range steps {
			stepStart := time.Now()
			if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
				entry := base("db_migration_failed", "error")
				entry["migration_step"] = step.Name
				entry["error_message"] = err.Error()
				entry["step_duration_ms"] = time.Since(stepStart).Milliseconds()
				logJSON(loc, entry)
				return fmt.Errorf("migration step %s failed: %w", step.Name, err)
			}

			entry := base("db_migration_step", "success")
			entry["migration_step"] = step.Name
			entry["step_duration_ms"] = time.Since(stepStart).Milliseconds()
			logJSON(loc, entry)
		}
		return nil
	})
	if err != nil {
		return err
	}

	entry := base("db_migration_success", "success")
	entry["steps"] = len(steps)
	entry["duration_ms"] = time.Since(start).Milliseconds()
	logJSON(loc, entry)

	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	if loc == nil {
		loc = time.UTC
	}
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	fmt.Fprintln(logOutput, string(b))
}
