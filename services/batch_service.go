package services

import (
	"errors"
	"fmt"
	"time"

	"certificate-management-api/models"

	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// BatchService owns the batch lifecycle: numbering, certificate-number block
// reservation, partial updates with block regeneration, and the delete guard.
type BatchService struct {
	db           *gorm.DB
	sequences    *SequenceService
	reservations *ReservationService
}

func NewBatchService(db *gorm.DB) *BatchService {
	return &BatchService{
		db:           db,
		sequences:    NewSequenceService(db),
		reservations: NewReservationService(db),
	}
}

// Create validates the instructor, settles the batch number, reserves the
// certificate-number block and inserts the row, all in one transaction. A
// duplicate-key collision on a generated number retries the whole sequence; a
// caller-supplied duplicate fails immediately with ErrDuplicateNumber.
func (s *BatchService) Create(req *models.BatchCreateRequest) (*models.Batch, error) {
	for attempt := 0; ; attempt++ {
		batch, err := s.createOnce(req)
		if err == nil {
			return batch, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if req.BatchNumber == "" && attempt < allocateRetries {
				continue
			}
			return nil, ErrDuplicateNumber
		}
		return nil, err
	}
}

func (s *BatchService) createOnce(req *models.BatchCreateRequest) (*models.Batch, error) {
	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("parse start_date: %w", err)
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("parse end_date: %w", err)
	}

	var batch models.Batch
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := validateInstructor(tx, req.InstructorID); err != nil {
			return err
		}

		number := req.BatchNumber
		if number == "" {
			generated, err := s.sequences.Next(tx, EntityBatch)
			if err != nil {
				return err
			}
			number = generated
		} else {
			var count int64
			if err := tx.Model(&models.Batch{}).Where("batch_number = ?", number).Count(&count).Error; err != nil {
				return fmt.Errorf("check batch number: %w", err)
			}
			if count > 0 {
				return ErrDuplicateNumber
			}
		}

		// Instructor and number checks passed; only now is the block computed.
		block, err := s.reservations.ReserveBlock(tx, req.NumberOfParticipants, req.CertificateType)
		if err != nil {
			return err
		}

		instructorID := req.InstructorID
		batch = models.Batch{
			BatchNumber:          number,
			CompanyName:          req.CompanyName,
			ReferredBy:           req.ReferredBy,
			NumberOfParticipants: req.NumberOfParticipants,
			BatchType:            req.BatchType,
			CertificateType:      req.CertificateType,
			StartDate:            startDate,
			EndDate:              endDate,
			InstructorID:         &instructorID,
			Description:          req.Description,
			ReservedCertNumbers:  models.IntList(block),
		}
		if err := tx.Create(&batch).Error; err != nil {
			return fmt.Errorf("insert batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(batch.ID)
}

// Update applies partial-update semantics: only fields present in the request
// are written. Changing the participant count or the certificate type
// regenerates the reserved block in full; an update touching neither leaves
// the stored block untouched. The batch number is immutable.
func (s *BatchService) Update(id int, req *models.BatchUpdateRequest) (*models.Batch, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var batch models.Batch
		if err := tx.First(&batch, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load batch: %w", err)
		}

		if req.InstructorID != nil {
			if err := validateInstructor(tx, *req.InstructorID); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{}
		if req.CompanyName != nil {
			updates["company_name"] = *req.CompanyName
		}
		if req.ReferredBy != nil {
			updates["referred_by"] = *req.ReferredBy
		}
		if req.BatchType != nil {
			updates["batch_type"] = *req.BatchType
		}
		if req.Description != nil {
			updates["description"] = *req.Description
		}
		if req.InstructorID != nil {
			updates["instructor_id"] = *req.InstructorID
		}
		if req.StartDate != nil {
			startDate, err := time.Parse(dateLayout, *req.StartDate)
			if err != nil {
				return fmt.Errorf("parse start_date: %w", err)
			}
			updates["start_date"] = startDate
		}
		if req.EndDate != nil {
			endDate, err := time.Parse(dateLayout, *req.EndDate)
			if err != nil {
				return fmt.Errorf("parse end_date: %w", err)
			}
			updates["end_date"] = endDate
		}

		// Block regeneration triggers: participant count or certificate type
		// actually changing. The regenerated block replaces the old one in
		// full and excludes this batch's own numbers from the overlap scan.
		newCount := batch.NumberOfParticipants
		newType := batch.CertificateType
		regenerate := false
		if req.NumberOfParticipants != nil {
			updates["number_of_participants"] = *req.NumberOfParticipants
			if *req.NumberOfParticipants != batch.NumberOfParticipants {
				newCount = *req.NumberOfParticipants
				regenerate = true
			}
		}
		if req.CertificateType != nil {
			updates["certificate_type"] = *req.CertificateType
			if *req.CertificateType != batch.CertificateType {
				newType = *req.CertificateType
				regenerate = true
			}
		}
		if regenerate {
			block, err := s.reservations.reserveBlock(tx, newCount, newType, batch.ID)
			if err != nil {
				return err
			}
			updates["reserved_cert_numbers"] = models.IntList(block)
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&batch).Updates(updates).Error; err != nil {
			return fmt.Errorf("update batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(id)
}

// Delete removes a batch. Deletion is refused while any certificate still
// references the batch.
func (s *BatchService) Delete(id int) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var batch models.Batch
		if err := tx.First(&batch, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load batch: %w", err)
		}

		var count int64
		if err := tx.Model(&models.Certificate{}).Where("batch_id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("count dependent certificates: %w", err)
		}
		if count > 0 {
			return ErrBatchHasCertificates
		}

		if err := tx.Delete(&batch).Error; err != nil {
			return fmt.Errorf("delete batch: %w", err)
		}
		return nil
	})
}

func (s *BatchService) Get(id int) (*models.Batch, error) {
	var batch models.Batch
	err := s.db.Preload("Instructor").First(&batch, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load batch: %w", err)
	}
	return &batch, nil
}

// List returns batches newest first, optionally filtered by batch type and
// certificate type.
func (s *BatchService) List(batchType, certificateType string) ([]models.Batch, error) {
	query := s.db.Preload("Instructor").Order("created_at DESC")
	if batchType != "" {
		query = query.Where("batch_type = ?", batchType)
	}
	if certificateType != "" {
		query = query.Where("certificate_type = ?", certificateType)
	}

	var batches []models.Batch
	if err := query.Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	return batches, nil
}

// validateInstructor checks the referenced user exists, carries the
// Instructor role and is active. Checked at write time, never cached.
func validateInstructor(tx *gorm.DB, id int) error {
	var user models.User
	err := tx.Where("id = ? AND role = ? AND is_active = ?", id, models.RoleInstructor, true).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrInstructorInvalid
	}
	if err != nil {
		return fmt.Errorf("validate instructor: %w", err)
	}
	return nil
}
