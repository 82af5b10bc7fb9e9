package services

import (
	"errors"
	"fmt"
	"strconv"

	"certificate-management-api/models"

	"gorm.io/gorm"
)

// Setting keys consumed by the numbering and status services.
const (
	SettingBatchNumberFormat       = "batch_number_format"
	SettingBatchStartNumber        = "batch_start_number"
	SettingCertificateNumberFormat = "certificate_number_format"
	SettingCertificateStartNumber  = "certificate_start_number"
	SettingExpiryWarningDays       = "expiry_warning_days"
	SettingNumberFallbackPolicy    = "number_fallback_policy"
	SettingNotificationEmail       = "notification_email"
)

// Defaults applied when a setting row is absent.
const (
	DefaultBatchNumberFormat       = "BM-{#####}"
	DefaultCertificateNumberFormat = "FS-{YYYY}-{####}"
	DefaultStartNumber             = 1
	DefaultExpiryWarningDays       = 30
)

// Fallback policies for SettingNumberFallbackPolicy. PolicyFallback keeps the
// legacy behavior: when the latest identifier has no trailing digits the
// allocator continues from the configured start number and relies on the
// unique index to catch a collision. PolicyStrict fails the allocation
// instead.
const (
	PolicyFallback = "fallback"
	PolicyStrict   = "strict"
)

// SettingsService reads and writes the settings table. Reads are never
// cached: a later setting must take effect on the very next allocation.
type SettingsService struct {
	db *gorm.DB
}

func NewSettingsService(db *gorm.DB) *SettingsService {
	return &SettingsService{db: db}
}

// Get returns the stored value for key, or ok=false when the row is absent.
func (s *SettingsService) Get(tx *gorm.DB, key string) (string, bool, error) {
	if tx == nil {
		tx = s.db
	}

	var setting models.Setting
	err := tx.Where("setting_key = ?", key).First(&setting).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read setting %s: %w", key, err)
	}
	return setting.SettingValue, true, nil
}

// GetString returns the stored value for key, or fallback when unset.
func (s *SettingsService) GetString(tx *gorm.DB, key, fallback string) (string, error) {
	value, ok, err := s.Get(tx, key)
	if err != nil {
		return "", err
	}
	if !ok || value == "" {
		return fallback, nil
	}
	return value, nil
}

// GetInt returns the stored value for key parsed as an integer. A missing or
// malformed value yields fallback.
func (s *SettingsService) GetInt(tx *gorm.DB, key string, fallback int) (int, error) {
	value, ok, err := s.Get(tx, key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return fallback, nil
	}
	n, convErr := strconv.Atoi(value)
	if convErr != nil {
		return fallback, nil
	}
	return n, nil
}

// Set upserts a setting row.
func (s *SettingsService) Set(key, value string) error {
	var existing models.Setting
	err := s.db.Where("setting_key = ?", key).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		setting := models.Setting{SettingKey: key, SettingValue: value}
		if err := s.db.Create(&setting).Error; err != nil {
			return fmt.Errorf("create setting %s: %w", key, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("read setting %s: %w", key, err)
	}

	if err := s.db.Model(&existing).Update("setting_value", value).Error; err != nil {
		return fmt.Errorf("update setting %s: %w", key, err)
	}
	return nil
}

// All returns every setting row keyed by setting_key.
func (s *SettingsService) All() (map[string]models.Setting, error) {
	var rows []models.Setting
	if err := s.db.Order("setting_key").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	settings := make(map[string]models.Setting, len(rows))
	for _, row := range rows {
		settings[row.SettingKey] = row
	}
	return settings, nil
}
