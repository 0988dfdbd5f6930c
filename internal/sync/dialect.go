// Package sync implements external database ingestion: pulling raw
// punches from an operator-configured upstream (MSSQL or PostgreSQL) into
// the local DeviceLog table, and folding DeviceLog/ManualLog into the
// unified Punch view the attendance engine consumes.
package sync

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"github.com/punchline/attendance/internal/model"
)

// RawPunch is one row pulled from the upstream table, before it is known to
// be a device or manual log.
type RawPunch struct {
	ExternalID int64
	EmployeeID string
	Direction string
	Shortname string
	SerialNo string
	LogDatetime time.Time
}

// Dialect abstracts the two upstream flavors spec supports. Each
// implementation owns its own driver registration and query shape; the
// Syncer only needs open/validate/fetch.
type Dialect interface {
	Open(src model.ExternalSource) (*sql.DB, error)
	ValidateSchema(ctx context.Context, db *sql.DB, src model.ExternalSource) error
	FetchBatch(ctx context.Context, db *sql.DB, src model.ExternalSource, afterID int64, limit int) ([]RawPunch, error)
}

// identifierPattern guards every field-mapping column name before it is
// interpolated into raw SQL: these come from an operator-edited
// ExternalSource row, not end-user input, but the upstream driver libraries
// give no placeholder syntax for identifiers, so this is the defense against
// a typo or a compromised config row turning into arbitrary SQL.
var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func validateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q in external source field mapping", name)
	}
	return nil
}

func validateIdentifiers(names...string) error {
	for _, n := range names {
		if err := validateIdentifier(n); err != nil {
			return err
		}
	}
	return nil
}
