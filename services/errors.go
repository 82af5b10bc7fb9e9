package services

import "errors"

// Sentinel errors returned by the numbering, reservation and lifecycle
// services. Controllers map these to HTTP statuses; anything else is a
// storage failure and surfaces as a 500.
var (
	// ErrNotFound is returned when a referenced batch, certificate,
	// attachment or instructor does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrInstructorInvalid is returned when the referenced user does not
	// exist, is not an instructor, or is inactive.
	ErrInstructorInvalid = errors.New("invalid or inactive instructor")

	// ErrDuplicateNumber is returned when a generated or caller-supplied
	// identifier collides with an existing record. For generated numbers the
	// services retry allocation before surfacing it.
	ErrDuplicateNumber = errors.New("number already exists")

	// ErrBatchHasCertificates blocks deletion of a batch that certificates
	// still reference.
	ErrBatchHasCertificates = errors.New("batch has associated certificates")

	// ErrInvalidBlockCount is returned for a reservation request of fewer
	// than one number.
	ErrInvalidBlockCount = errors.New("reservation count must be at least 1")

	// ErrInvalidCertificateType is returned for a reservation request with
	// an empty certificate type.
	ErrInvalidCertificateType = errors.New("certificate type is required")

	// ErrNumberPatternMismatch is returned under the strict fallback policy
	// when the latest issued identifier carries no usable trailing digits to
	// continue from.
	ErrNumberPatternMismatch = errors.New("latest number has no trailing digits")

	// ErrDuplicateEmail is returned when a user create or update would take
	// an email already held by another account.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrDuplicateCode is returned when a group create or update would take
	// a code already held by another group entry.
	ErrDuplicateCode = errors.New("code already exists")

	// ErrUserHasBatches blocks deletion of a user still assigned as
	// instructor on any batch.
	ErrUserHasBatches = errors.New("user has associated batches")
)
