package repository

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"approval-flow-api/internal/domain"
)

// ListFilter holds the query conditions for listing approvals. All filters
// are combined with AND; soft-deleted rows are always excluded.
type ListFilter struct {
	Status         domain.ApprovalStatus
	ProjectKeyword string
	DepartmentPath string
	CreatedStart   *time.Time
	CreatedEnd     *time.Time // exclusive upper bound
	Page           int
	PageSize       int
}

// ApprovalRepository defines the interface for approval data access
type ApprovalRepository interface {
	Create(ctx context.Context, approval *domain.Approval) error
	FindByID(ctx context.Context, id uint) (*domain.Approval, error)
	FindByIDWithAttachments(ctx context.Context, id uint) (*domain.Approval, error)
	Update(ctx context.Context, approval *domain.Approval) error
	CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[domain.ApprovalStatus]int64, error)
	List(ctx context.Context, filter ListFilter) ([]*domain.Approval, int64, error)
}

// approvalRepositoryImpl is the GORM implementation of ApprovalRepository
type approvalRepositoryImpl struct {
	db *gorm.DB
}

// NewApprovalRepository creates a new instance of ApprovalRepository
func NewApprovalRepository(db *gorm.DB) ApprovalRepository {
	return &approvalRepositoryImpl{db: db}
}

// Create inserts a new approval
func (r *approvalRepositoryImpl) Create(ctx context.Context, approval *domain.Approval) error {
	return r.db.WithContext(ctx).Create(approval).Error
}

// FindByID finds a non-deleted approval by id
func (r *approvalRepositoryImpl) FindByID(ctx context.Context, id uint) (*domain.Approval, error) {
	var approval domain.Approval
	if err := r.db.WithContext(ctx).
		Where("deleted = ?", false).
		First(&approval, id).Error; err != nil {
		return nil, err
	}
	return &approval, nil
}

// FindByIDWithAttachments finds a non-deleted approval with its attachments preloaded
func (r *approvalRepositoryImpl) FindByIDWithAttachments(ctx context.Context, id uint) (*domain.Approval, error) {
	var approval domain.Approval
	if err := r.db.WithContext(ctx).
		Preload("Attachments").
		Where("deleted = ?", false).
		First(&approval, id).Error; err != nil {
		return nil, err
	}
	return &approval, nil
}

// Update persists all fields of the approval
func (r *approvalRepositoryImpl) Update(ctx context.Context, approval *domain.Approval) error {
	return r.db.WithContext(ctx).Save(approval).Error
}

// CountCreatedBetween counts approvals created within [start, end),
// including soft-deleted ones so serial numbers are never reused
func (r *approvalRepositoryImpl) CountCreatedBetween(ctx context.Context, start, end time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Approval{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error
	return count, err
}

// CountByStatus returns the number of non-deleted approvals per status
func (r *approvalRepositoryImpl) CountByStatus(ctx context.Context) (map[domain.ApprovalStatus]int64, error) {
	type row struct {
		Status domain.ApprovalStatus
		Count  int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&domain.Approval{}).
		Select("status, count(*) as count").
		Where("deleted = ?", false).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[domain.ApprovalStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// applyFilter builds the shared WHERE clause used by both the page query and
// the total count so they always see the same filter set
func (r *approvalRepositoryImpl) applyFilter(ctx context.Context, filter ListFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&domain.Approval{}).Where("deleted = ?", false)
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ProjectKeyword != "" {
		q = q.Where("project_name LIKE ?", "%"+filter.ProjectKeyword+"%")
	}
	if filter.DepartmentPath != "" {
		q = q.Where("department_path LIKE ?", "%"+filter.DepartmentPath+"%")
	}
	if filter.CreatedStart != nil {
		q = q.Where("created_at >= ?", *filter.CreatedStart)
	}
	if filter.CreatedEnd != nil {
		q = q.Where("created_at < ?", *filter.CreatedEnd)
	}
	return q
}

// List returns one page of approvals plus the pre-pagination total, ordered
// by created_at descending. Page and count run concurrently on separate
// sessions built from the same filter.
func (r *approvalRepositoryImpl) List(ctx context.Context, filter ListFilter) ([]*domain.Approval, int64, error) {
	var (
		approvals []*domain.Approval
		total     int64
		listErr   error
		countErr  error
		wg        sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		listErr = r.applyFilter(ctx, filter).
			Order("created_at DESC").
			Offset((filter.Page - 1) * filter.PageSize).
			Limit(filter.PageSize).
			Find(&approvals).Error
	}()
	go func() {
		defer wg.Done()
		countErr = r.applyFilter(ctx, filter).Count(&total).Error
	}()
	wg.Wait()

	if listErr != nil {
		return nil, 0, listErr
	}
	if countErr != nil {
		return nil, 0, countErr
	}
	return approvals, total, nil
}
