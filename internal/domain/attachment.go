package domain

import "time"

// AttachmentType classifies an uploaded file
type AttachmentType string

const (
	AttachmentTypeImage AttachmentType = "IMAGE"
	AttachmentTypeExcel AttachmentType = "EXCEL"
)

// Upload limits, enforced per upload batch
const (
	MaxImageCount     = 5
	MaxExcelCount     = 1
	MaxFilesPerUpload = 10
)

// Attachment is a file attached to an approval request. Attachments are
// created only through the upload endpoint and never mutated afterwards;
// their lifetime is bound to the owning approval.
type Attachment struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	ApprovalID uint           `gorm:"not null;index:idx_attachments_approval_id" json:"approval_id"`
	Type       AttachmentType `gorm:"type:varchar(10);not null" json:"type"`
	Filename   string         `gorm:"type:varchar(255);not null" json:"filename"`
	Path       string         `gorm:"type:text;not null" json:"path"`
	MimeType   string         `gorm:"type:varchar(100);not null" json:"mime_type"`
	Size       int64          `gorm:"not null" json:"size"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
}

// TableName specifies the table name for Attachment
func (Attachment) TableName() string {
	return "attachments"
}
