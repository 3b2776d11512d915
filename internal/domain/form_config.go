package domain

import (
	"time"

	"gorm.io/datatypes"
)

// FormConfig stores a dynamic form schema keyed by form name. The schema is
// an opaque JSON document rendered by the frontend.
type FormConfig struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Key       string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"key"`
	Schema    datatypes.JSON `gorm:"not null" json:"schema"`
	Remark    string         `gorm:"type:varchar(255)" json:"remark"`
	CreatedAt time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for FormConfig
func (FormConfig) TableName() string {
	return "form_configs"
}
