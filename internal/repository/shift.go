package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/punchline/attendance/internal/model"
)

// ShiftRepository persists Shift rows.
type ShiftRepository struct {
	db *DB
}

func NewShiftRepository(db *DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

func (r *ShiftRepository) Create(ctx context.Context, s *model.Shift) error {
	return r.db.GORM.WithContext(ctx).Create(s).Error
}

func (r *ShiftRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Shift, error) {
	var s model.Shift
	if err := r.db.GORM.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *ShiftRepository) GetByName(ctx context.Context, name string) (*model.Shift, error) {
	var s model.Shift
	if err := r.db.GORM.WithContext(ctx).First(&s, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	return &s, nil
}

// ListForAutoShiftMatch returns every active shift ordered by name, the
// deterministic first-match order auto-shift matching resolves ties with.
func (r *ShiftRepository) ListForAutoShiftMatch(ctx context.Context) ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.GORM.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&shifts).Error
	return shifts, err
}
