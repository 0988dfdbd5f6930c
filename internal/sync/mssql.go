package sync

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb" // registers the "sqlserver" driver

	"github.com/punchline/attendance/internal/model"
)

// mssqlDialect fetches from an upstream SQL Server table, grounded on
// sync_logs.py's pyodbc path generalized to Go's database/sql + go-mssqldb.
type mssqlDialect struct{}

func (mssqlDialect) Open(src model.ExternalSource) (*sql.DB, error) {
	dsn := fmt.Sprintf("sqlserver://%s:%s@%s:%d?database=%s&TrustServerCertificate=true",
		src.User, src.Password, src.Host, src.Port, src.Database)
	return sql.Open("sqlserver", dsn)
}

func (mssqlDialect) ValidateSchema(ctx context.Context, db *sql.DB, src model.ExternalSource) error {
	return validateSchema(ctx, db, src)
}

func (mssqlDialect) FetchBatch(ctx context.Context, db *sql.DB, src model.ExternalSource, afterID int64, limit int) ([]RawPunch, error) {
	if err := validateIdentifiers(src.Table, src.FieldID, src.FieldEmployeeID, src.FieldDirection, src.FieldShortname, src.FieldSerialNo, src.FieldLogDatetime); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT DISTINCT TOP (@p1)
			[%s], [%s], [%s], [%s], [%s], [%s]
		FROM [%s].[dbo].[%s]
		WHERE [%s] > @p2
		ORDER BY [%s]
	`, src.FieldID, src.FieldEmployeeID, src.FieldDirection, src.FieldShortname, src.FieldSerialNo, src.FieldLogDatetime,
		src.Database, src.Table, src.FieldID, src.FieldID)

	rows, err := db.QueryContext(ctx, query, sql.Named("p1", limit), sql.Named("p2", afterID))
	if err != nil {
		return nil, fmt.Errorf("fetch mssql batch: %w", err)
	}
	defer rows.Close()

	var out []RawPunch
	for rows.Next() {
		var p RawPunch
		if err := rows.Scan(&p.ExternalID, &p.EmployeeID, &p.Direction, &p.Shortname, &p.SerialNo, &p.LogDatetime); err != nil {
			return nil, fmt.Errorf("scan mssql row: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
