package services

import (
	"fmt"
	"strings"

	"certificate-management-api/models"

	"gorm.io/gorm"
)

// ReservationService hands out contiguous blocks of certificate sequence
// numbers, one block per batch, partitioned by certificate type. A block
// starts right after the highest number any batch of the same type has
// reserved so far, so blocks of one type never overlap.
type ReservationService struct {
	db       *gorm.DB
	settings *SettingsService
}

func NewReservationService(db *gorm.DB) *ReservationService {
	return &ReservationService{db: db, settings: NewSettingsService(db)}
}

// ReserveBlock computes a block of count sequence numbers for the given
// certificate type. It does not persist anything: the caller stores the block
// into the batch row within the same transaction. The scan over existing
// blocks takes a row lock (MySQL) so two concurrent reservations for the same
// type cannot both see the old maximum.
func (s *ReservationService) ReserveBlock(tx *gorm.DB, count int, certificateType string) ([]int, error) {
	return s.reserveBlock(tx, count, certificateType, 0)
}

// reserveBlock is ReserveBlock with an optional batch excluded from the
// overlap scan. Block regeneration on update passes the batch's own id so the
// block being replaced does not push the new one upward.
func (s *ReservationService) reserveBlock(tx *gorm.DB, count int, certificateType string, excludeBatchID int) ([]int, error) {
	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBlockCount, count)
	}
	if strings.TrimSpace(certificateType) == "" {
		return nil, ErrInvalidCertificateType
	}
	if tx == nil {
		tx = s.db
	}

	start, err := s.settings.GetInt(tx, SettingCertificateStartNumber, DefaultStartNumber)
	if err != nil {
		return nil, err
	}

	query := lockForUpdate(tx).
		Select("id", "reserved_cert_numbers").
		Where("certificate_type = ? AND reserved_cert_numbers IS NOT NULL", certificateType)
	if excludeBatchID != 0 {
		query = query.Where("id <> ?", excludeBatchID)
	}

	var batches []models.Batch
	if err := query.Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("scan reserved blocks: %w", err)
	}

	next := start
	for _, batch := range batches {
		if max, ok := batch.ReservedCertNumbers.Max(); ok && max >= start && max+1 > next {
			next = max + 1
		}
	}

	block := make([]int, count)
	for i := range block {
		block[i] = next + i
	}
	return block, nil
}
