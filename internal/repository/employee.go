package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/punchline/attendance/internal/model"
)

// EmployeeRepository persists Employee rows.
type EmployeeRepository struct {
	db *DB
}

func NewEmployeeRepository(db *DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, e *model.Employee) error {
	return r.db.GORM.WithContext(ctx).Create(e).Error
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var e model.Employee
	if err := r.db.GORM.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *EmployeeRepository) Update(ctx context.Context, e *model.Employee) error {
	return r.db.GORM.WithContext(ctx).Save(e).Error
}

// ListActive returns every employee flagged is_active, whatever their
// join/leave dates, for loading into the Caches.
func (r *EmployeeRepository) ListActive(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.GORM.WithContext(ctx).Where("is_active = ?", true).Find(&employees).Error
	return employees, err
}

// ListCoveringDate returns active employees whose employment window covers
// date.
func (r *EmployeeRepository) ListCoveringDate(ctx context.Context, date time.Time) ([]model.Employee, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	var employees []model.Employee
	err := r.db.GORM.WithContext(ctx).
		Where("is_active = ?", true).
		Where("join_date IS NULL OR join_date <= ?", day).
		Where("leave_date IS NULL OR leave_date >= ?", day).
		Find(&employees).Error
	return employees, err
}
