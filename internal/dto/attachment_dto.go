package dto

import (
	"time"

	"approval-flow-api/internal/domain"
)

// AttachmentResponse describes an uploaded file
type AttachmentResponse struct {
	ID         uint                  `json:"id"`
	ApprovalID uint                  `json:"approvalId"`
	Type       domain.AttachmentType `json:"type"`
	Filename   string                `json:"filename"`
	Path       string                `json:"path"`
	MimeType   string                `json:"mimeType"`
	Size       int64                 `json:"size"`
	CreatedAt  time.Time             `json:"createdAt"`
}
