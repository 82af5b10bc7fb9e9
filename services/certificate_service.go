package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"certificate-management-api/models"

	"gorm.io/gorm"
)

// CertificateService owns the certificate lifecycle. Certificate numbers come
// from the owning batch's reserved block: the first unused slot integer is
// rendered through the certificate number format template. Only when the
// block is exhausted does the sequence allocator generate an independent
// number (the legacy path).
type CertificateService struct {
	db        *gorm.DB
	sequences *SequenceService
	statuses  *StatusService
	settings  *SettingsService
}

func NewCertificateService(db *gorm.DB) *CertificateService {
	return &CertificateService{
		db:        db,
		sequences: NewSequenceService(db),
		statuses:  NewStatusService(db),
		settings:  NewSettingsService(db),
	}
}

// Create issues a certificate against an existing batch. The status is
// derived from the due date, never taken from the client. A duplicate-key
// collision on a generated number retries (the next attempt sees the slot as
// used and moves on); a caller-supplied duplicate fails immediately.
func (s *CertificateService) Create(req *models.CertificateCreateRequest) (*models.Certificate, error) {
	for attempt := 0; ; attempt++ {
		cert, err := s.createOnce(req)
		if err == nil {
			return cert, nil
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if req.CertificateNumber == "" && attempt < allocateRetries {
				continue
			}
			return nil, ErrDuplicateNumber
		}
		return nil, err
	}
}

func (s *CertificateService) createOnce(req *models.CertificateCreateRequest) (*models.Certificate, error) {
	trainingDate, err := time.Parse(dateLayout, req.TrainingDate)
	if err != nil {
		return nil, fmt.Errorf("parse training_date: %w", err)
	}
	issueDate, err := time.Parse(dateLayout, req.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("parse issue_date: %w", err)
	}
	dueDate, err := time.Parse(dateLayout, req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("parse due_date: %w", err)
	}

	var cert models.Certificate
	err = s.db.Transaction(func(tx *gorm.DB) error {
		var batch models.Batch
		if err := lockForUpdate(tx).First(&batch, req.BatchID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load batch: %w", err)
		}

		number := req.CertificateNumber
		if number != "" {
			var count int64
			if err := tx.Model(&models.Certificate{}).Where("certificate_number = ?", number).Count(&count).Error; err != nil {
				return fmt.Errorf("check certificate number: %w", err)
			}
			if count > 0 {
				return ErrDuplicateNumber
			}
		} else {
			number, err = s.nextReservedNumber(tx, &batch)
			if err != nil {
				return err
			}
			if number == "" {
				// Reserved block exhausted; fall back to the standalone
				// certificate sequence.
				number, err = s.sequences.Next(tx, EntityCertificate)
				if err != nil {
					return err
				}
			}
		}

		status, err := s.statuses.StatusFor(tx, dueDate)
		if err != nil {
			return err
		}

		batchID := batch.ID
		cert = models.Certificate{
			CertificateNumber: number,
			BatchID:           &batchID,
			Name:              req.Name,
			Nationality:       req.Nationality,
			EidLicense:        req.EidLicense,
			Employer:          req.Employer,
			TrainingName:      req.TrainingName,
			TrainingDate:      trainingDate,
			IssueDate:         issueDate,
			DueDate:           dueDate,
			Status:            status,
		}
		if err := tx.Create(&cert).Error; err != nil {
			return fmt.Errorf("insert certificate: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(cert.ID)
}

// nextReservedNumber renders every slot of the batch's reserved block through
// the certificate number template and returns the first rendering not yet
// taken by an existing certificate. Returns "" when every slot is used.
func (s *CertificateService) nextReservedNumber(tx *gorm.DB, batch *models.Batch) (string, error) {
	if len(batch.ReservedCertNumbers) == 0 {
		return "", nil
	}

	format, err := s.settings.GetString(tx, SettingCertificateNumberFormat, DefaultCertificateNumberFormat)
	if err != nil {
		return "", err
	}
	tokens := parseNumberFormat(format)
	now := time.Now()

	rendered := make([]string, len(batch.ReservedCertNumbers))
	for i, n := range batch.ReservedCertNumbers {
		rendered[i] = renderNumberFormat(tokens, n, now)
	}

	var existing []models.Certificate
	if err := tx.Select("certificate_number").Where("certificate_number IN ?", rendered).Find(&existing).Error; err != nil {
		return "", fmt.Errorf("scan used slots: %w", err)
	}
	used := make(map[string]bool, len(existing))
	for _, cert := range existing {
		used[cert.CertificateNumber] = true
	}

	for _, candidate := range rendered {
		if !used[candidate] {
			return candidate, nil
		}
	}
	return "", nil
}

// Update applies partial-update semantics. A due-date change recomputes the
// status in the same write, so a stored status can never lag its due date.
func (s *CertificateService) Update(id int, req *models.CertificateUpdateRequest) (*models.Certificate, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cert models.Certificate
		if err := tx.First(&cert, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load certificate: %w", err)
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = *req.Name
		}
		if req.Nationality != nil {
			updates["nationality"] = *req.Nationality
		}
		if req.EidLicense != nil {
			updates["eid_license"] = *req.EidLicense
		}
		if req.Employer != nil {
			updates["employer"] = *req.Employer
		}
		if req.TrainingName != nil {
			updates["training_name"] = *req.TrainingName
		}
		if req.TrainingDate != nil {
			trainingDate, err := time.Parse(dateLayout, *req.TrainingDate)
			if err != nil {
				return fmt.Errorf("parse training_date: %w", err)
			}
			updates["training_date"] = trainingDate
		}
		if req.IssueDate != nil {
			issueDate, err := time.Parse(dateLayout, *req.IssueDate)
			if err != nil {
				return fmt.Errorf("parse issue_date: %w", err)
			}
			updates["issue_date"] = issueDate
		}
		if req.DueDate != nil {
			dueDate, err := time.Parse(dateLayout, *req.DueDate)
			if err != nil {
				return fmt.Errorf("parse due_date: %w", err)
			}
			status, err := s.statuses.StatusFor(tx, dueDate)
			if err != nil {
				return err
			}
			updates["due_date"] = dueDate
			updates["status"] = status
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&cert).Updates(updates).Error; err != nil {
			return fmt.Errorf("update certificate: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(id)
}

// Delete removes a certificate and its attachment rows, then removes the
// stored files best-effort. A file that cannot be removed is logged and left
// behind; the record deletion stands.
func (s *CertificateService) Delete(id int) error {
	var filePaths []string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cert models.Certificate
		if err := tx.Preload("Attachments").First(&cert, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load certificate: %w", err)
		}

		for _, attachment := range cert.Attachments {
			filePaths = append(filePaths, attachment.FilePath)
		}

		if err := tx.Where("certificate_id = ?", id).Delete(&models.CertificateAttachment{}).Error; err != nil {
			return fmt.Errorf("delete attachments: %w", err)
		}
		if err := tx.Delete(&cert).Error; err != nil {
			return fmt.Errorf("delete certificate: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, path := range filePaths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Printf("delete certificate %d: remove file %s: %v", id, path, err)
		}
	}
	return nil
}

// AddAttachment records an uploaded file against a certificate. A second
// upload of the same file type replaces the first: the old row is removed and
// its file deleted best-effort.
func (s *CertificateService) AddAttachment(certID int, fileName, fileType, filePath string, fileSize int64) (*models.CertificateAttachment, error) {
	var oldPath string
	var attachment models.CertificateAttachment

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var cert models.Certificate
		if err := tx.First(&cert, certID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("load certificate: %w", err)
		}

		var existing models.CertificateAttachment
		err := tx.Where("certificate_id = ? AND file_type = ?", certID, fileType).First(&existing).Error
		if err == nil {
			oldPath = existing.FilePath
			if err := tx.Delete(&existing).Error; err != nil {
				return fmt.Errorf("replace attachment: %w", err)
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("check existing attachment: %w", err)
		}

		attachment = models.CertificateAttachment{
			CertificateID: certID,
			FileName:      fileName,
			FileType:      fileType,
			FilePath:      filePath,
			FileSize:      fileSize,
			UploadedAt:    time.Now(),
		}
		if err := tx.Create(&attachment).Error; err != nil {
			return fmt.Errorf("insert attachment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if oldPath != "" && oldPath != filePath {
		if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
			log.Printf("replace attachment for certificate %d: remove file %s: %v", certID, oldPath, err)
		}
	}
	return &attachment, nil
}

// DeleteAttachment removes one attachment row and its stored file.
func (s *CertificateService) DeleteAttachment(certID, attachmentID int) error {
	var attachment models.CertificateAttachment
	err := s.db.Where("id = ? AND certificate_id = ?", attachmentID, certID).First(&attachment).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("load attachment: %w", err)
	}

	if err := s.db.Delete(&attachment).Error; err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}

	if err := os.Remove(attachment.FilePath); err != nil && !os.IsNotExist(err) {
		log.Printf("delete attachment %d: remove file %s: %v", attachmentID, attachment.FilePath, err)
	}
	return nil
}

func (s *CertificateService) Get(id int) (*models.Certificate, error) {
	var cert models.Certificate
	err := s.db.Preload("Batch").Preload("Attachments").First(&cert, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load certificate: %w", err)
	}
	return &cert, nil
}

// List returns certificates newest first, optionally filtered by status and
// owning batch.
func (s *CertificateService) List(status string, batchID int) ([]models.Certificate, error) {
	query := s.db.Preload("Batch").Preload("Attachments").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if batchID != 0 {
		query = query.Where("batch_id = ?", batchID)
	}

	var certs []models.Certificate
	if err := query.Find(&certs).Error; err != nil {
		return nil, fmt.Errorf("list certificates: %w", err)
	}
	return certs, nil
}
