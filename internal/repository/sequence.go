package repository

import (
	"context"
	"fmt"
)

// SequenceRepository resets a table's identity sequence to the current max
// id, grounded on the original's reset_sequences command ("reset_sequences").
type SequenceRepository struct {
	db *DB
}

func NewSequenceRepository(db *DB) *SequenceRepository {
	return &SequenceRepository{db: db}
}

// autoIncrementTables lists every table whose primary key is a sequence
// rather than a UUID — the only tables reset_sequences needs to touch.
var autoIncrementTables = []string{"logs", "manual_logs", "all_logs"}

// ResetAll resets the identity sequence of every auto-increment table to
// one past its current max id, guarding against a stale sequence colliding
// with bulk-inserted rows (e.g. after a raw-SQL external sync load).
func (r *SequenceRepository) ResetAll(ctx context.Context) error {
	for _, table := range autoIncrementTables {
		if err := r.reset(ctx, table); err != nil {
			return fmt.Errorf("reset sequence for %s: %w", table, err)
		}
	}
	return nil
}

func (r *SequenceRepository) reset(ctx context.Context, table string) error {
	sql := fmt.Sprintf(`SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)`, table, table)
	return r.db.GORM.WithContext(ctx).Exec(sql).Error
}
