package repository

import (
	"context"

	"gorm.io/gorm"

	"approval-flow-api/internal/domain"
)

// DepartmentRepository defines the interface for department data access
type DepartmentRepository interface {
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Department, error)
	FindAll(ctx context.Context) ([]*domain.Department, error)
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, departments []*domain.Department) error
}

// departmentRepositoryImpl is the GORM implementation of DepartmentRepository
type departmentRepositoryImpl struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new instance of DepartmentRepository
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepositoryImpl{db: db}
}

// FindByIDs fetches all departments matching the given ids in one query
func (r *departmentRepositoryImpl) FindByIDs(ctx context.Context, ids []string) ([]*domain.Department, error) {
	if len(ids) == 0 {
		return []*domain.Department{}, nil
	}
	var departments []*domain.Department
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

// FindAll returns every department, ordered by level then id
func (r *departmentRepositoryImpl) FindAll(ctx context.Context) ([]*domain.Department, error) {
	var departments []*domain.Department
	if err := r.db.WithContext(ctx).
		Order("level ASC, id ASC").
		Find(&departments).Error; err != nil {
		return nil, err
	}
	return departments, nil
}

// Count returns the total number of departments
func (r *departmentRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Department{}).Count(&count).Error
	return count, err
}

// CreateBatch inserts the given departments
func (r *departmentRepositoryImpl) CreateBatch(ctx context.Context, departments []*domain.Department) error {
	if len(departments) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&departments).Error
}
