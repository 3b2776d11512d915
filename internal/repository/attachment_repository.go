package repository

import (
	"context"

	"gorm.io/gorm"

	"approval-flow-api/internal/domain"
)

// AttachmentRepository defines the interface for attachment data access
type AttachmentRepository interface {
	CreateBatch(ctx context.Context, attachments []*domain.Attachment) error
	FindByApprovalID(ctx context.Context, approvalID uint) ([]*domain.Attachment, error)
	CountByApprovalAndType(ctx context.Context, approvalID uint, attachmentType domain.AttachmentType) (int64, error)
}

// attachmentRepositoryImpl is the GORM implementation of AttachmentRepository
type attachmentRepositoryImpl struct {
	db *gorm.DB
}

// NewAttachmentRepository creates a new instance of AttachmentRepository
func NewAttachmentRepository(db *gorm.DB) AttachmentRepository {
	return &attachmentRepositoryImpl{db: db}
}

// CreateBatch inserts all attachments of one upload batch
func (r *attachmentRepositoryImpl) CreateBatch(ctx context.Context, attachments []*domain.Attachment) error {
	if len(attachments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&attachments).Error
}

// FindByApprovalID returns all attachments of an approval, newest first
func (r *attachmentRepositoryImpl) FindByApprovalID(ctx context.Context, approvalID uint) ([]*domain.Attachment, error) {
	var attachments []*domain.Attachment
	if err := r.db.WithContext(ctx).
		Where("approval_id = ?", approvalID).
		Order("created_at DESC").
		Find(&attachments).Error; err != nil {
		return nil, err
	}
	return attachments, nil
}

// CountByApprovalAndType counts stored attachments of one type for an approval
func (r *attachmentRepositoryImpl) CountByApprovalAndType(ctx context.Context, approvalID uint, attachmentType domain.AttachmentType) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Attachment{}).
		Where("approval_id = ? AND type = ?", approvalID, attachmentType).
		Count(&count).Error
	return count, err
}
