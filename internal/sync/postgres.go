package sync

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // registers the "postgres" driver

	"github.com/punchline/attendance/internal/model"
)

// postgresDialect fetches from an upstream PostgreSQL table, the sibling
// leg sync_logs.py supports alongside MSSQL.
type postgresDialect struct{}

func (postgresDialect) Open(src model.ExternalSource) (*sql.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		src.Host, src.Port, src.User, src.Password, src.Database)
	return sql.Open("postgres", dsn)
}

func (postgresDialect) ValidateSchema(ctx context.Context, db *sql.DB, src model.ExternalSource) error {
	return validateSchema(ctx, db, src)
}

func (postgresDialect) FetchBatch(ctx context.Context, db *sql.DB, src model.ExternalSource, afterID int64, limit int) ([]RawPunch, error) {
	if err := validateIdentifiers(src.Table, src.FieldID, src.FieldEmployeeID, src.FieldDirection, src.FieldShortname, src.FieldSerialNo, src.FieldLogDatetime); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s > $1
		ORDER BY %s
		LIMIT $2
	`, src.FieldID, src.FieldEmployeeID, src.FieldDirection, src.FieldShortname, src.FieldSerialNo, src.FieldLogDatetime,
		src.Table, src.FieldID, src.FieldID)

	rows, err := db.QueryContext(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch postgres batch: %w", err)
	}
	defer rows.Close()

	var out []RawPunch
	for rows.Next() {
		var p RawPunch
		if err := rows.Scan(&p.ExternalID, &p.EmployeeID, &p.Direction, &p.Shortname, &p.SerialNo, &p.LogDatetime); err != nil {
			return nil, fmt.Errorf("scan postgres row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
