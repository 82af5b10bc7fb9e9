package services

import (
	"fmt"
	"log"
	"time"

	"certificate-management-api/models"

	"gorm.io/gorm"
)

// ComputeStatus derives a certificate's lifecycle status from its due date.
// Boundaries: due < now is Expired; now <= due < now+window is Expiring Soon;
// anything later is Active. A due date exactly window days away is still
// inside the warning window.
func ComputeStatus(dueDate, now time.Time, warningWindowDays int) string {
	if dueDate.Before(now) {
		return models.StatusExpired
	}
	if !dueDate.After(now.AddDate(0, 0, warningWindowDays)) {
		return models.StatusExpiringSoon
	}
	return models.StatusActive
}

// StatusService recomputes certificate statuses, one record at a time on
// updates and in bulk during the periodic sweep.
type StatusService struct {
	db       *gorm.DB
	settings *SettingsService

	// now is swappable for boundary tests.
	now func() time.Time
}

func NewStatusService(db *gorm.DB) *StatusService {
	return &StatusService{db: db, settings: NewSettingsService(db), now: time.Now}
}

// StatusFor computes the current status for a due date using the configured
// warning window.
func (s *StatusService) StatusFor(tx *gorm.DB, dueDate time.Time) (string, error) {
	if tx == nil {
		tx = s.db
	}
	window, err := s.settings.GetInt(tx, SettingExpiryWarningDays, DefaultExpiryWarningDays)
	if err != nil {
		return "", err
	}
	return ComputeStatus(dueDate, s.now(), window), nil
}

// RefreshAll recomputes the status of every certificate and persists the ones
// that changed. Unchanged rows are not written, so a second run with no
// elapsed time performs zero writes. A failed write is logged and counted but
// does not abort the sweep.
func (s *StatusService) RefreshAll() (updated int, failed int, err error) {
	window, err := s.settings.GetInt(s.db, SettingExpiryWarningDays, DefaultExpiryWarningDays)
	if err != nil {
		return 0, 0, err
	}
	now := s.now()

	var certs []models.Certificate
	if err := s.db.Select("id", "due_date", "status").Find(&certs).Error; err != nil {
		return 0, 0, fmt.Errorf("load certificates for sweep: %w", err)
	}

	for _, cert := range certs {
		newStatus := ComputeStatus(cert.DueDate, now, window)
		if newStatus == cert.Status {
			continue
		}

		writeErr := s.db.Model(&models.Certificate{}).
			Where("id = ?", cert.ID).
			Update("status", newStatus).Error
		if writeErr != nil {
			log.Printf("status sweep: certificate %d: %v", cert.ID, writeErr)
			failed++
			continue
		}
		updated++
	}

	return updated, failed, nil
}
