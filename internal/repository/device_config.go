package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/punchline/attendance/internal/model"
)

// DeviceConfigRepository persists device identity → direction-of-use
// mappings consulted by the direction resolver.
type DeviceConfigRepository struct {
	db *DB
}

func NewDeviceConfigRepository(db *DB) *DeviceConfigRepository {
	return &DeviceConfigRepository{db: db}
}

func (r *DeviceConfigRepository) Upsert(ctx context.Context, c *model.DeviceConfig) error {
	return r.db.GORM.WithContext(ctx).Save(c).Error
}

func (r *DeviceConfigRepository) GetByIdentity(ctx context.Context, shortname, serial string) (*model.DeviceConfig, error) {
	var c model.DeviceConfig
	err := r.db.GORM.WithContext(ctx).
		First(&c, "shortname = ? AND serial = ?", shortname, serial).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// ListAll returns every device config, used to build the in-memory lookup
// cache when the Caches are loaded.
func (r *DeviceConfigRepository) ListAll(ctx context.Context) ([]model.DeviceConfig, error) {
	var configs []model.DeviceConfig
	err := r.db.GORM.WithContext(ctx).Find(&configs).Error
	return configs, err
}
