package models

import "time"

type Batch struct {
	ID                   int       `gorm:"primaryKey;column:id" json:"id"`
	BatchNumber          string    `gorm:"column:batch_number;unique" json:"batch_number"`
	CompanyName          string    `gorm:"column:company_name" json:"company_name"`
	ReferredBy           string    `gorm:"column:referred_by" json:"referred_by"`
	NumberOfParticipants int       `gorm:"column:number_of_participants" json:"number_of_participants"`
	BatchType            string    `gorm:"column:batch_type" json:"batch_type"`
	CertificateType      string    `gorm:"column:certificate_type" json:"certificate_type"`
	StartDate            time.Time `gorm:"column:start_date;type:date" json:"start_date"`
	EndDate              time.Time `gorm:"column:end_date;type:date" json:"end_date"`
	InstructorID         *int      `gorm:"column:instructor_id" json:"instructor_id"`
	Description          string    `gorm:"column:description" json:"description"`
	ReservedCertNumbers  IntList   `gorm:"column:reserved_cert_numbers" json:"reserved_cert_numbers"`
	CreatedAt            time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt            time.Time `gorm:"column:updated_at" json:"updated_at"`

	Instructor *User `gorm:"foreignKey:InstructorID" json:"instructor,omitempty"`
}

func (Batch) TableName() string {
	return "batches"
}

// BatchCreateRequest carries the client payload for batch creation.
// batch_number is optional; when absent the sequence allocator generates one.
// Cross-field date ordering is checked by the validation registered in utils.
type BatchCreateRequest struct {
	BatchNumber          string `json:"batch_number" binding:"omitempty,max=50"`
	CompanyName          string `json:"company_name" binding:"required,min=2,max=255"`
	ReferredBy           string `json:"referred_by" binding:"required,min=2,max=255"`
	NumberOfParticipants int    `json:"number_of_participants" binding:"required,min=1,max=100"`
	BatchType            string `json:"batch_type" binding:"required,oneof=Onsite Hybrid Online"`
	CertificateType      string `json:"certificate_type" binding:"required,max=100"`
	StartDate            string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate              string `json:"end_date" binding:"required,datetime=2006-01-02"`
	InstructorID         int    `json:"instructor_id" binding:"required"`
	Description          string `json:"description" binding:"max=1000"`
}

// BatchUpdateRequest uses pointers for partial-update semantics: a nil field
// was absent from the request and leaves the stored value untouched.
// batch_number is deliberately missing; it is immutable after creation.
type BatchUpdateRequest struct {
	CompanyName          *string `json:"company_name" binding:"omitempty,min=2,max=255"`
	ReferredBy           *string `json:"referred_by" binding:"omitempty,min=2,max=255"`
	NumberOfParticipants *int    `json:"number_of_participants" binding:"omitempty,min=1,max=100"`
	BatchType            *string `json:"batch_type" binding:"omitempty,oneof=Onsite Hybrid Online"`
	CertificateType      *string `json:"certificate_type" binding:"omitempty,max=100"`
	StartDate            *string `json:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate              *string `json:"end_date" binding:"omitempty,datetime=2006-01-02"`
	InstructorID         *int    `json:"instructor_id"`
	Description          *string `json:"description" binding:"omitempty,max=1000"`
}
