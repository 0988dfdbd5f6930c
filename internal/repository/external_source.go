package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/punchline/attendance/internal/model"
)

// ExternalSourceRepository manages the single external-database credential
// and field-mapping row external sync reads before every pull.
type ExternalSourceRepository struct {
	db *DB
}

func NewExternalSourceRepository(db *DB) *ExternalSourceRepository {
	return &ExternalSourceRepository{db: db}
}

func (r *ExternalSourceRepository) Get(ctx context.Context) (*model.ExternalSource, error) {
	var s model.ExternalSource
	if err := r.db.GORM.WithContext(ctx).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrExternalSourceNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ExternalSourceRepository) Upsert(ctx context.Context, s *model.ExternalSource) error {
	return r.db.GORM.WithContext(ctx).Save(s).Error
}

// AdvanceCursor moves the resumable paging cursor forward after a
// successful sync batch ("resumable via highest previously-seen id").
func (r *ExternalSourceRepository) AdvanceCursor(ctx context.Context, id uuid.UUID, lastID int64) error {
	return r.db.GORM.WithContext(ctx).
		Model(&model.ExternalSource{}).
		Where("id = ?", id).
		Update("last_id", lastID).Error
}
