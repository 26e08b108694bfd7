// Package migration creates the HR schema with idempotent DDL steps.
package migration

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

type migrationStep struct {
	Name string
	SQL  string
}

// SentinelTable is created by the last table step; its presence means the
// schema is complete.
const SentinelTable = "public.document_download_audit"

var steps = []migrationStep{
	{
		Name: "create_table_employees",
		SQL: `CREATE TABLE IF NOT EXISTS employees (
  id          BIGSERIAL    PRIMARY KEY,
  name        VARCHAR(150) NOT NULL,
  national_id VARCHAR(30)  NOT NULL UNIQUE,
  position    VARCHAR(100),
  email       VARCHAR(150),
  phone       VARCHAR(30),
  hired_on    DATE,
  status      VARCHAR(20)  NOT NULL DEFAULT 'activo'
);`,
	},
	{
		Name: "create_table_users",
		SQL: `CREATE TABLE IF NOT EXISTS users (
  id            BIGSERIAL    PRIMARY KEY,
  name          VARCHAR(150) NOT NULL,
  email         VARCHAR(150) NOT NULL UNIQUE,
  password_hash VARCHAR(255) NOT NULL,
  role          VARCHAR(30)  NOT NULL,
  employee_id   BIGINT       UNIQUE REFERENCES employees (id) ON DELETE SET NULL,
  created_at    TIMESTAMPTZ  NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_table_employee_documents",
		SQL: `CREATE TABLE IF NOT EXISTS employee_documents (
  id          BIGSERIAL    PRIMARY KEY,
  employee_id BIGINT       NOT NULL REFERENCES employees (id) ON DELETE RESTRICT,
  type        VARCHAR(20)  NOT NULL CHECK (type IN ('contrato', 'incapacidad', 'colilla', 'otro')),
  filename    VARCHAR(255) NOT NULL,
  url         VARCHAR(500) NOT NULL UNIQUE,
  period      VARCHAR(20),
  uploaded_at TIMESTAMPTZ  NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_employee_documents_employee",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_employee_documents_employee ON employee_documents (employee_id, uploaded_at DESC);`,
	},
	{
		Name: "create_index_employee_documents_type",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_employee_documents_type ON employee_documents (type);`,
	},
	{
		Name: "create_table_document_download_audit",
		SQL: `CREATE TABLE IF NOT EXISTS document_download_audit (
  id            BIGSERIAL    PRIMARY KEY,
  user_id       BIGINT       NOT NULL,
  document_id   BIGINT       NOT NULL,
  employee_id   BIGINT       NOT NULL,
  document_type VARCHAR(20)  NOT NULL,
  ip            VARCHAR(45)  NOT NULL DEFAULT '',
  user_agent    VARCHAR(255) NOT NULL DEFAULT '',
  downloaded_at TIMESTAMPTZ  NOT NULL DEFAULT now()
);`,
	},
	{
		Name: "create_index_audit_downloaded_at",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_downloaded_at ON document_download_audit (downloaded_at DESC, id DESC);`,
	},
	{
		Name: "create_index_audit_employee",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_audit_employee ON document_download_audit (employee_id);`,
	},
}

// EnsureMigrated runs the schema steps unless the sentinel table already
// exists. Every step is safe to re-run.
func EnsureMigrated(ctx context.Context, db *sql.DB, log *slog.Logger, dbHost string) error {
	start := time.Now()
	log = log.With("component", "database", "db_host", dbHost)
	log.InfoContext(ctx, "db_migration_check", "status", "starting")

	var exists bool
	if err := db.QueryRowContext(ctx, "SELECT to_regclass($1) IS NOT NULL", SentinelTable).Scan(&exists); err != nil {
		log.ErrorContext(ctx, "db_migration_failed",
			"status", "error",
			"error", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return errors.Wrap(err, "check sentinel table")
	}

	if exists {
		log.InfoContext(ctx, "db_migration_skip",
			"status", "success",
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil
	}

	log.InfoContext(ctx, "db_migration_start", "status", "in_progress", "steps", len(steps))

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := db.ExecContext(ctx, step.SQL); err != nil {
			log.ErrorContext(ctx, "db_migration_failed",
				"status", "error",
				"migration_step", step.Name,
				"error", err,
				"duration_ms", time.Since(start).Milliseconds(),
				"step_duration_ms", time.Since(stepStart).Milliseconds(),
			)
			return errors.Wrapf(err, "migration step %s", step.Name)
		}

		log.DebugContext(ctx, "db_migration_step",
			"status", "success",
			"migration_step", step.Name,
			"step_duration_ms", time.Since(stepStart).Milliseconds(),
		)
	}

	log.InfoContext(ctx, "db_migration_success",
		"status", "success",
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
