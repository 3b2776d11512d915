package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"approval-flow-api/internal/apperror"
	"approval-flow-api/internal/domain"
	"approval-flow-api/internal/repository"
)

// fakeStore records saved files without touching disk
type fakeStore struct {
	saved []string
}

func (s *fakeStore) Save(ctx context.Context, originalName string, contentType string, r io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	path := fmt.Sprintf("uploads/fake-%d", len(s.saved))
	s.saved = append(s.saved, originalName)
	return path, nil
}

func setupAttachmentService(t *testing.T) (AttachmentService, *fakeStore, uint, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Approval{}, &domain.Attachment{}))

	// each in-memory sqlite connection is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	approval := &domain.Approval{
		SerialNo:       "AP-20231027-0001",
		ProjectName:    "server upgrade",
		Content:        "replace rack 12",
		DepartmentIDs:  domain.DepartmentIDList{"A", "A1", "A1-1"},
		DepartmentPath: "技术部 / 研发中心 / 前端组",
		ExecuteDate:    time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC),
		Status:         domain.StatusPending,
		CreatorID:      "u1",
		CreatorName:    "Alice",
	}
	require.NoError(t, db.Create(approval).Error)

	store := &fakeStore{}
	svc := NewAttachmentService(
		repository.NewAttachmentRepository(db),
		repository.NewApprovalRepository(db),
		store,
		nil,
		zap.NewNop(),
	)
	return svc, store, approval.ID, db
}

func imageFile(name string) UploadFile {
	return UploadFile{
		Filename: name,
		MimeType: "image/png",
		Size:     1024,
		Reader:   strings.NewReader("png bytes"),
	}
}

func excelFile(name string) UploadFile {
	return UploadFile{
		Filename: name,
		MimeType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Size:     2048,
		Reader:   strings.NewReader("xlsx bytes"),
	}
}

func TestAttachmentService_Upload(t *testing.T) {
	svc, store, approvalID, db := setupAttachmentService(t)
	ctx := context.Background()

	result, err := svc.Upload(ctx, approvalID, []UploadFile{
		imageFile("photo.png"),
		excelFile("budget.xlsx"),
	})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, domain.AttachmentTypeImage, result[0].Type)
	assert.Equal(t, domain.AttachmentTypeExcel, result[1].Type)
	assert.Equal(t, []string{"photo.png", "budget.xlsx"}, store.saved)

	var count int64
	require.NoError(t, db.Model(&domain.Attachment{}).Where("approval_id = ?", approvalID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestAttachmentService_Upload_ImageCap(t *testing.T) {
	svc, store, approvalID, _ := setupAttachmentService(t)
	ctx := context.Background()

	six := make([]UploadFile, 6)
	for i := range six {
		six[i] = imageFile(fmt.Sprintf("photo-%d.png", i))
	}

	_, err := svc.Upload(ctx, approvalID, six)
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Equal(t, "max 5 images allowed", appErr.Message)
	assert.Empty(t, store.saved)

	five := six[:5]
	result, err := svc.Upload(ctx, approvalID, five)
	require.NoError(t, err)
	assert.Len(t, result, 5)
}

func TestAttachmentService_Upload_ExcelCap(t *testing.T) {
	svc, _, approvalID, _ := setupAttachmentService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, approvalID, []UploadFile{
		excelFile("a.xlsx"),
		excelFile("b.xlsx"),
	})
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "max 1 excel allowed", appErr.Message)
}

func TestAttachmentService_Upload_RejectsDisallowedType(t *testing.T) {
	svc, store, approvalID, _ := setupAttachmentService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, approvalID, []UploadFile{{
		Filename: "malware.exe",
		MimeType: "application/octet-stream",
		Size:     10,
		Reader:   strings.NewReader("nope"),
	}})
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
	assert.Contains(t, appErr.Message, "only image or excel files are allowed")
	assert.Empty(t, store.saved)
}

func TestAttachmentService_Upload_EmptyBatch(t *testing.T) {
	svc, _, approvalID, _ := setupAttachmentService(t)

	_, err := svc.Upload(context.Background(), approvalID, nil)
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "no files uploaded", appErr.Message)
}

func TestAttachmentService_Upload_TooManyFiles(t *testing.T) {
	svc, _, approvalID, _ := setupAttachmentService(t)

	eleven := make([]UploadFile, 11)
	for i := range eleven {
		eleven[i] = imageFile(fmt.Sprintf("photo-%d.png", i))
	}

	_, err := svc.Upload(context.Background(), approvalID, eleven)
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, "max 10 files allowed per upload", appErr.Message)
}

func TestAttachmentService_Upload_UnknownApproval(t *testing.T) {
	svc, _, _, _ := setupAttachmentService(t)

	_, err := svc.Upload(context.Background(), 99999, []UploadFile{imageFile("photo.png")})
	require.Error(t, err)
	appErr, ok := err.(*apperror.AppError)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeNotFound, appErr.Code)
}
