package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"approval-flow-api/internal/apperror"
	"approval-flow-api/internal/client"
	"approval-flow-api/internal/domain"
	"approval-flow-api/internal/dto"
	"approval-flow-api/internal/metrics"
	"approval-flow-api/internal/repository"
)

// allowedMimeTypes is the upload allow-list: images plus the two excel types
var allowedMimeTypes = map[string]domain.AttachmentType{
	"image/jpg":  domain.AttachmentTypeImage,
	"image/jpeg": domain.AttachmentTypeImage,
	"image/png":  domain.AttachmentTypeImage,
	"image/gif":  domain.AttachmentTypeImage,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": domain.AttachmentTypeExcel,
	"application/vnd.ms-excel": domain.AttachmentTypeExcel,
}

// UploadFile is one file of an upload batch, decoupled from the multipart layer
type UploadFile struct {
	Filename string
	MimeType string
	Size     int64
	Reader   io.Reader
}

// AttachmentService defines the interface for attachment uploads
type AttachmentService interface {
	Upload(ctx context.Context, approvalID uint, files []UploadFile) ([]dto.AttachmentResponse, error)
}

// attachmentServiceImpl is the implementation of AttachmentService
type attachmentServiceImpl struct {
	attachmentRepo repository.AttachmentRepository
	approvalRepo   repository.ApprovalRepository
	store          client.FileStore
	metrics        *metrics.Metrics
	logger         *zap.Logger
}

// NewAttachmentService creates a new instance of AttachmentService
func NewAttachmentService(
	attachmentRepo repository.AttachmentRepository,
	approvalRepo repository.ApprovalRepository,
	store client.FileStore,
	m *metrics.Metrics,
	logger *zap.Logger,
) AttachmentService {
	return &attachmentServiceImpl{
		attachmentRepo: attachmentRepo,
		approvalRepo:   approvalRepo,
		store:          store,
		metrics:        m,
		logger:         logger,
	}
}

// Upload validates the batch against type and count limits, persists the file
// bytes through the store and records one attachment row per file. Limits are
// enforced per batch, not against files already stored on the approval.
func (s *attachmentServiceImpl) Upload(ctx context.Context, approvalID uint, files []UploadFile) ([]dto.AttachmentResponse, error) {
	if _, err := s.approvalRepo.FindByID(ctx, approvalID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("approval %d not found", approvalID)
		}
		return nil, apperror.Internal("failed to fetch approval: %v", err)
	}

	if len(files) == 0 {
		return nil, apperror.InvalidInput("no files uploaded")
	}
	if len(files) > domain.MaxFilesPerUpload {
		return nil, apperror.InvalidInput("max %d files allowed per upload", domain.MaxFilesPerUpload)
	}

	imageCount := 0
	excelCount := 0
	for _, f := range files {
		fileType, ok := allowedMimeTypes[strings.ToLower(f.MimeType)]
		if !ok {
			return nil, apperror.InvalidInput("only image or excel files are allowed, got %q", f.MimeType)
		}
		if fileType == domain.AttachmentTypeImage {
			imageCount++
		} else {
			excelCount++
		}
	}
	if imageCount > domain.MaxImageCount {
		return nil, apperror.InvalidInput("max %d images allowed", domain.MaxImageCount)
	}
	if excelCount > domain.MaxExcelCount {
		return nil, apperror.InvalidInput("max %d excel allowed", domain.MaxExcelCount)
	}

	attachments := make([]*domain.Attachment, 0, len(files))
	for _, f := range files {
		path, err := s.store.Save(ctx, f.Filename, f.MimeType, f.Reader)
		if err != nil {
			return nil, apperror.Internal("failed to store file %q: %v", f.Filename, err)
		}
		attachments = append(attachments, &domain.Attachment{
			ApprovalID: approvalID,
			Type:       allowedMimeTypes[strings.ToLower(f.MimeType)],
			Filename:   f.Filename,
			Path:       path,
			MimeType:   f.MimeType,
			Size:       f.Size,
		})
	}

	if err := s.attachmentRepo.CreateBatch(ctx, attachments); err != nil {
		return nil, apperror.Internal("failed to save attachments: %v", err)
	}

	responses := make([]dto.AttachmentResponse, len(attachments))
	for i, a := range attachments {
		s.metrics.RecordAttachmentUpload(a.Size)
		responses[i] = toAttachmentResponse(a)
	}

	s.logger.Info("Attachments uploaded",
		zap.Uint("approval_id", approvalID),
		zap.Int("count", len(attachments)),
	)
	return responses, nil
}
