package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/punchline/attendance/internal/model"
	"github.com/punchline/attendance/internal/repository"
)

// dialects maps the configured upstream type to its driver implementation.
var dialects = map[model.ExternalSourceType]Dialect{
	model.ExternalSourceMSSQL: mssqlDialect{},
	model.ExternalSourcePostgres: postgresDialect{},
}

// Syncer pulls raw punches from the operator-configured external database
// into the local DeviceLog table (grounded on sync_logs.py).
type Syncer struct {
	sources *repository.ExternalSourceRepository
	punches *repository.PunchRepository
	batchSize int
}

func NewSyncer(sources *repository.ExternalSourceRepository, punches *repository.PunchRepository, batchSize int) *Syncer {
	if batchSize <= 0 {
		batchSize = 100000
	}
	return &Syncer{sources: sources, punches: punches, batchSize: batchSize}
}

// Result is the tally requires every sync run to log.
type Result struct {
	Fetched int
	Inserted int
}

// Run fetches every record past the source's resumable cursor and appends
// it as a DeviceLog row. Absence of a configured source is not an error:
// external sync is an optional tick step.
func (s *Syncer) Run(ctx context.Context) (Result, error) {
	source, err := s.sources.Get(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrExternalSourceNotFound) {
			log.Debug().Msg("no external source configured, skipping sync")
			return Result{}, nil
		}
		return Result{}, fmt.Errorf("load external source: %w", err)
	}

	dialect, ok := dialects[source.Type]
	if !ok {
		return Result{}, fmt.Errorf("unsupported external source type %q", source.Type)
	}

	db, err := dialect.Open(*source)
	if err != nil {
		return Result{}, fmt.Errorf("open external source connection: %w", err)
	}
	defer db.Close()

	if err := dialect.ValidateSchema(ctx, db, *source); err != nil {
		return Result{}, fmt.Errorf("validate external source schema: %w", err)
	}

	var result Result
	lastID := source.LastID

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		batch, err := dialect.FetchBatch(ctx, db, *source, lastID, s.batchSize)
		if err != nil {
			return result, fmt.Errorf("fetch external batch: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		result.Fetched += len(batch)

		for _, raw := range batch {
			employeeID, err := uuid.Parse(raw.EmployeeID)
			if err != nil {
				log.Warn().Str("raw_employee_id", raw.EmployeeID).Int64("external_id", raw.ExternalID).Msg("skipping external row with unparseable employee id")
				continue
			}
			if err := s.punches.CreateDeviceLog(ctx, &model.DeviceLog{
				ExternalID: raw.ExternalID,
				EmployeeID: employeeID,
				LogDatetime: raw.LogDatetime,
				DeviceShortname: raw.Shortname,
				DeviceSerial: raw.SerialNo,
			}); err != nil {
				return result, fmt.Errorf("insert device log from external row %d: %w", raw.ExternalID, err)
			}
			result.Inserted++
		}

		lastID = batch[len(batch)-1].ExternalID
		if err := s.sources.AdvanceCursor(ctx, source.ID, lastID); err != nil {
			return result, fmt.Errorf("advance external source cursor: %w", err)
		}

		if len(batch) < s.batchSize {
			break
		}
	}

	log.Info().Int("fetched", result.Fetched).Int("inserted", result.Inserted).Int64("cursor", lastID).Msg("external sync complete")
	return result, nil
}
