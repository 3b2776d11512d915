package repository

import (
	"context"

	"gorm.io/gorm"

	"approval-flow-api/internal/domain"
)

// FormConfigRepository defines the interface for form config data access
type FormConfigRepository interface {
	FindByKey(ctx context.Context, key string) (*domain.FormConfig, error)
	Create(ctx context.Context, config *domain.FormConfig) error
}

// formConfigRepositoryImpl is the GORM implementation of FormConfigRepository
type formConfigRepositoryImpl struct {
	db *gorm.DB
}

// NewFormConfigRepository creates a new instance of FormConfigRepository
func NewFormConfigRepository(db *gorm.DB) FormConfigRepository {
	return &formConfigRepositoryImpl{db: db}
}

// FindByKey finds a form config by its unique key
func (r *formConfigRepositoryImpl) FindByKey(ctx context.Context, key string) (*domain.FormConfig, error) {
	var config domain.FormConfig
	if err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&config).Error; err != nil {
		return nil, err
	}
	return &config, nil
}

// Create inserts a new form config
func (r *formConfigRepositoryImpl) Create(ctx context.Context, config *domain.FormConfig) error {
	return r.db.WithContext(ctx).Create(config).Error
}
