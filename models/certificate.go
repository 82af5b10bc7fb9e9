package models

import "time"

// Certificate lifecycle statuses, derived from due_date and never
// client-supplied.
const (
	StatusActive       = "Active"
	StatusExpiringSoon = "Expiring Soon"
	StatusExpired      = "Expired"
)

// Attachment file types accepted for a certificate.
const (
	AttachmentEID         = "EID"
	AttachmentLicense     = "Driving License"
	AttachmentSignedCert  = "Signed Certificate"
	AttachmentHolderPhoto = "Photo"
)

type Certificate struct {
	ID                int       `gorm:"primaryKey;column:id" json:"id"`
	CertificateNumber string    `gorm:"column:certificate_number;unique" json:"certificate_number"`
	BatchID           *int      `gorm:"column:batch_id" json:"batch_id"`
	Name              string    `gorm:"column:name" json:"name"`
	Nationality       string    `gorm:"column:nationality" json:"nationality"`
	EidLicense        string    `gorm:"column:eid_license" json:"eid_license"`
	Employer          string    `gorm:"column:employer" json:"employer"`
	TrainingName      string    `gorm:"column:training_name" json:"training_name"`
	TrainingDate      time.Time `gorm:"column:training_date;type:date" json:"training_date"`
	IssueDate         time.Time `gorm:"column:issue_date;type:date" json:"issue_date"`
	DueDate           time.Time `gorm:"column:due_date;type:date" json:"due_date"`
	Status            string    `gorm:"column:status;default:Active" json:"status"`
	CreatedAt         time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at" json:"updated_at"`

	Batch       *Batch                  `gorm:"foreignKey:BatchID" json:"batch,omitempty"`
	Attachments []CertificateAttachment `gorm:"foreignKey:CertificateID;constraint:OnDelete:CASCADE" json:"attachments"`
}

func (Certificate) TableName() string {
	return "certificates"
}

type CertificateAttachment struct {
	ID            int       `gorm:"primaryKey;column:id" json:"id"`
	CertificateID int       `gorm:"column:certificate_id" json:"certificate_id"`
	FileName      string    `gorm:"column:file_name" json:"file_name"`
	FileType      string    `gorm:"column:file_type" json:"file_type"`
	FilePath      string    `gorm:"column:file_path" json:"file_path"`
	FileSize      int64     `gorm:"column:file_size" json:"file_size"`
	UploadedAt    time.Time `gorm:"column:uploaded_at" json:"uploaded_at"`
}

func (CertificateAttachment) TableName() string {
	return "certificate_attachments"
}

// CertificateCreateRequest carries the client payload for issuing a
// certificate. certificate_number is optional; when absent the next unused
// number from the batch's reserved block is taken. Status is derived, never
// accepted from the client. due_date > issue_date is enforced by the
// registered cross-field validation.
type CertificateCreateRequest struct {
	CertificateNumber string `json:"certificate_number" binding:"omitempty,max=100"`
	BatchID           int    `json:"batch_id" binding:"required"`
	Name              string `json:"name" binding:"required,min=2,max=255"`
	Nationality       string `json:"nationality" binding:"required,min=2,max=100"`
	EidLicense        string `json:"eid_license" binding:"required,min=5,max=100"`
	Employer          string `json:"employer" binding:"required,min=2,max=255"`
	TrainingName      string `json:"training_name" binding:"required,min=2,max=255"`
	TrainingDate      string `json:"training_date" binding:"required,datetime=2006-01-02"`
	IssueDate         string `json:"issue_date" binding:"required,datetime=2006-01-02"`
	DueDate           string `json:"due_date" binding:"required,datetime=2006-01-02"`
}

type CertificateUpdateRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=2,max=255"`
	Nationality  *string `json:"nationality" binding:"omitempty,min=2,max=100"`
	EidLicense   *string `json:"eid_license" binding:"omitempty,min=5,max=100"`
	Employer     *string `json:"employer" binding:"omitempty,min=2,max=255"`
	TrainingName *string `json:"training_name" binding:"omitempty,min=2,max=255"`
	TrainingDate *string `json:"training_date" binding:"omitempty,datetime=2006-01-02"`
	IssueDate    *string `json:"issue_date" binding:"omitempty,datetime=2006-01-02"`
	DueDate      *string `json:"due_date" binding:"omitempty,datetime=2006-01-02"`
}
