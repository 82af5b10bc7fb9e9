package services

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"certificate-management-api/models"

	"gorm.io/gorm"
)

// EntityClass selects which format/start-number settings and which
// existing-record scan an allocation uses.
type EntityClass string

const (
	EntityBatch       EntityClass = "batch"
	EntityCertificate EntityClass = "certificate"
)

// Number of times allocate+insert is retried when the unique index reports a
// collision before the error is surfaced to the caller.
const allocateRetries = 3

var trailingDigits = regexp.MustCompile(`\d+$`)

// SequenceService computes the next human-facing identifier for batches and
// certificates from a format template and the most recently issued number.
//
// Next has no side effect: it neither reserves nor persists the returned
// string. A number is consumed only by a successful insert, so callers must
// run Next and the insert inside one transaction and treat a duplicate-key
// error as a retryable collision.
type SequenceService struct {
	db       *gorm.DB
	settings *SettingsService
}

func NewSequenceService(db *gorm.DB) *SequenceService {
	return &SequenceService{db: db, settings: NewSettingsService(db)}
}

// Next returns the next identifier string for the entity class. Settings are
// read fresh on every call. The candidate continues from the trailing digits
// of the most recently inserted row; when that row's identifier carries no
// usable trailing digits the configured fallback policy decides between
// continuing from the start number and failing with ErrNumberPatternMismatch.
func (s *SequenceService) Next(tx *gorm.DB, entity EntityClass) (string, error) {
	if tx == nil {
		tx = s.db
	}

	format, start, err := s.formatSettings(tx, entity)
	if err != nil {
		return "", err
	}

	candidate := start + 1

	latest, found, err := s.latestNumber(tx, entity)
	if err != nil {
		return "", err
	}
	if found {
		// A digit run that does not fit an int counts as a mismatch too, so
		// both failure modes go through the same policy.
		match := trailingDigits.FindString(latest)
		lastNum, convErr := strconv.Atoi(match)
		if match == "" || convErr != nil {
			policy, err := s.settings.GetString(tx, SettingNumberFallbackPolicy, PolicyFallback)
			if err != nil {
				return "", err
			}
			if policy == PolicyStrict {
				return "", fmt.Errorf("%w: %q", ErrNumberPatternMismatch, latest)
			}
			// PolicyFallback: keep the settings-derived candidate and let the
			// unique index catch any collision with an already issued number.
		} else {
			candidate = lastNum + 1
		}
	}

	return renderNumberFormat(parseNumberFormat(format), candidate, time.Now()), nil
}

func (s *SequenceService) formatSettings(tx *gorm.DB, entity EntityClass) (string, int, error) {
	var formatKey, startKey, formatDefault string
	switch entity {
	case EntityBatch:
		formatKey, startKey, formatDefault = SettingBatchNumberFormat, SettingBatchStartNumber, DefaultBatchNumberFormat
	case EntityCertificate:
		formatKey, startKey, formatDefault = SettingCertificateNumberFormat, SettingCertificateStartNumber, DefaultCertificateNumberFormat
	default:
		return "", 0, fmt.Errorf("unknown entity class %q", entity)
	}

	format, err := s.settings.GetString(tx, formatKey, formatDefault)
	if err != nil {
		return "", 0, err
	}
	start, err := s.settings.GetInt(tx, startKey, DefaultStartNumber)
	if err != nil {
		return "", 0, err
	}
	return format, start, nil
}

// latestNumber returns the identifier of the most recently inserted row of
// the entity class. Insertion order, not numeric order: a manually entered
// lower number in the latest row moves the sequence back, which is why the
// unique index stays the final arbiter.
func (s *SequenceService) latestNumber(tx *gorm.DB, entity EntityClass) (string, bool, error) {
	switch entity {
	case EntityBatch:
		var batch models.Batch
		err := lockForUpdate(tx).Select("id", "batch_number").Order("id DESC").First(&batch).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("read latest batch number: %w", err)
		}
		return batch.BatchNumber, true, nil
	case EntityCertificate:
		var cert models.Certificate
		err := lockForUpdate(tx).Select("id", "certificate_number").Order("id DESC").First(&cert).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("read latest certificate number: %w", err)
		}
		return cert.CertificateNumber, true, nil
	}
	return "", false, fmt.Errorf("unknown entity class %q", entity)
}
