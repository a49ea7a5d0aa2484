// Package settings stores the key/value state of the watch sync.
//
// # Usage
//
//	repo := settings.NewRepository(db)
//	digest := repo.GetValue(entities.SettingKeyWatchClippingsDigest)
package settings

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/orgclips/internal/entities"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetSetting(key string) (*entities.Setting, error) {
	var setting entities.Setting
	if err := r.db.Where("key = ?", key).First(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// GetValue returns the stored value, or "" when the key is unset or the
// lookup fails.
func (r *Repository) GetValue(key string) string {
	setting, err := r.GetSetting(key)
	if err != nil {
		return ""
	}
	return setting.Value
}

// SetSetting creates or overwrites a setting.
func (r *Repository) SetSetting(key, value string) error {
	if key == "" {
		return errors.New("setting key is empty")
	}
	setting := entities.Setting{Key: key, Value: value}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&setting).Error
}

// DeleteSetting removes a setting. Unknown keys are not an error.
func (r *Repository) DeleteSetting(key string) error {
	return r.db.Where("key = ?", key).Delete(&entities.Setting{}).Error
}
