package sync

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/punchline/attendance/internal/model"
)

// validateSchema checks the configured table and every mapped column exist
// on the upstream before a real sync attempt, grounded on
// original_source/resource/utils.py's test_connection: both MSSQL and
// Postgres expose an ANSI INFORMATION_SCHEMA, so one query shape covers
// both dialects without the original's duplicated branches.
func validateSchema(ctx context.Context, db *sql.DB, src model.ExternalSource) error {
	// lib/pq accepts only $N placeholders; go-mssqldb's "sqlserver" driver
	// takes @pN, bound positionally.
	ph1, ph2 := "@p1", "@p2"
	if src.Type == model.ExternalSourcePostgres {
		ph1, ph2 = "$1", "$2"
	}

	var exists int
	err := db.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES WHERE TABLE_NAME = %s`, ph1), src.Table,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("check table %q exists: %w", src.Table, err)
	}
	if exists == 0 {
		return fmt.Errorf("table %q does not exist on external source", src.Table)
	}

	fields := []string{src.FieldID, src.FieldEmployeeID, src.FieldDirection, src.FieldShortname, src.FieldSerialNo, src.FieldLogDatetime}
	query := fmt.Sprintf(`SELECT COUNT(*) FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_NAME = %s AND COLUMN_NAME = %s`, ph1, ph2)
	for _, field := range fields {
		var count int
		if err := db.QueryRowContext(ctx, query, src.Table, field).Scan(&count); err != nil {
			return fmt.Errorf("check column %q exists: %w", field, err)
		}
		if count == 0 {
			return fmt.Errorf("column %q does not exist in table %q", field, src.Table)
		}
	}
	return nil
}
