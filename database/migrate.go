package database

import (
	"context"
	"database/sql"
	"embed"

	"github.com/bookverse/bookverse/version"
	"github.com/pkg/errors"
)

//go:embed migration
var migrationFS embed.FS

const latestSchemaFileName = "migration/LATEST_SCHEMA.sql"

// Migrate applies the latest schema to the database. The schema only uses
// idempotent statements, so re-applying on an up-to-date database is a no-op.
func Migrate(ctx context.Context, db *sql.DB) error {
	buf, err := migrationFS.ReadFile(latestSchemaFileName)
	if err != nil {
		return errors.Wrapf(err, "failed to read schema file %q", latestSchemaFileName)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	if err := upsertMigrationHistory(ctx, tx, version.GetCurrentVersion()); err != nil {
		return errors.Wrap(err, "failed to upsert migration history")
	}

	return tx.Commit()
}

func upsertMigrationHistory(ctx context.Context, tx *sql.Tx, v string) error {
	stmt := `
		INSERT INTO migration_history (
			version
		)
		VALUES (?)
		ON CONFLICT(version) DO UPDATE
		SET
			version=EXCLUDED.version
	`
	_, err := tx.ExecContext(ctx, stmt, v)
	return err
}

// FindMigrationHistoryList returns the applied schema versions, newest first.
func FindMigrationHistoryList(ctx context.Context, db *sql.DB) ([]string, error) {
	query := "SELECT `version` FROM `migration_history` ORDER BY `created_ts` DESC"
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		list = append(list, v)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
