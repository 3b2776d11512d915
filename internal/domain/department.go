package domain

// Department is a node in the organizational hierarchy. IDs are stable
// human-assigned codes ("A", "A1", "A1-1"), not surrogate keys.
type Department struct {
	ID       string  `gorm:"type:varchar(32);primaryKey" json:"id"`
	Name     string  `gorm:"type:varchar(64);not null" json:"name"`
	Level    int     `gorm:"not null" json:"level"`
	ParentID *string `gorm:"type:varchar(32);index:idx_departments_parent_id" json:"parent_id"`
	Path     string  `gorm:"type:varchar(255);not null" json:"path"`
}

// TableName specifies the table name for Department
func (Department) TableName() string {
	return "departments"
}
