package database

import (
	"gorm.io/gorm"

	"approval-flow-api/internal/domain"
)

// AutoMigrate creates or updates all application tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Approval{},
		&domain.Attachment{},
		&domain.Department{},
		&domain.FormConfig{},
	)
}
