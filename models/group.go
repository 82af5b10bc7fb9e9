package models

import "time"

// Group codes for the lookup entries this system maintains. The batch and
// certificate type options shown to clients live in these partitions.
const (
	GroupCodeBatchType       = "batch_type"
	GroupCodeCertificateType = "certificate_type"
)

// Group is one entry of the lookup table: a coded value (code/code_name)
// belonging to a named partition (group_code/group_name).
type Group struct {
	ID          int       `gorm:"primaryKey;column:id" json:"id"`
	Code        string    `gorm:"column:code;unique" json:"code"`
	CodeName    string    `gorm:"column:code_name" json:"code_name"`
	GroupCode   string    `gorm:"column:group_code" json:"group_code"`
	GroupName   string    `gorm:"column:group_name" json:"group_name"`
	Description string    `gorm:"column:description" json:"description"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Group) TableName() string {
	return "groups"
}

type GroupCreateRequest struct {
	Code        string `json:"code" binding:"required,min=1,max=50"`
	CodeName    string `json:"code_name" binding:"required,min=2,max=255"`
	GroupCode   string `json:"group_code" binding:"required,min=2,max=100"`
	GroupName   string `json:"group_name" binding:"required,min=2,max=255"`
	Description string `json:"description" binding:"max=1000"`
}

type GroupUpdateRequest struct {
	Code        *string `json:"code" binding:"omitempty,min=1,max=50"`
	CodeName    *string `json:"code_name" binding:"omitempty,min=2,max=255"`
	GroupCode   *string `json:"group_code" binding:"omitempty,min=2,max=100"`
	GroupName   *string `json:"group_name" binding:"omitempty,min=2,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
}
