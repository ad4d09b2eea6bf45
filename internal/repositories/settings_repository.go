package repositories

import (
	"errors"
	"fmt"

	"upline/internal/models"

	"gorm.io/gorm"
)

var ErrSettingsNotFound = errors.New("settings not found")

// SettingsRepository persists the singleton MLM settings row.
type SettingsRepository interface {
	Get() (*models.MLMSettings, error)
	// GetOrCreate returns the settings row, creating it with defaults when
	// no row exists yet.
	GetOrCreate() (*models.MLMSettings, error)
	Update(settings *models.MLMSettings) error
}

type settingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get() (*models.MLMSettings, error) {
	var settings models.MLMSettings
	if err := r.db.Order("id ASC").First(&settings).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &settings, nil
}

func (r *settingsRepository) GetOrCreate() (*models.MLMSettings, error) {
	settings, err := r.Get()
	if err == nil {
		return settings, nil
	}
	if err != ErrSettingsNotFound {
		return nil, err
	}

	settings = models.DefaultMLMSettings()
	if err := r.db.Create(settings).Error; err != nil {
		return nil, fmt.Errorf("failed to create default settings: %w", err)
	}
	return settings, nil
}

func (r *settingsRepository) Update(settings *models.MLMSettings) error {
	if err := r.db.Save(settings).Error; err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	return nil
}
