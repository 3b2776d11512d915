package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DepartmentIDList is an ordered sequence of department node ids, selected from
// root to leaf. It is persisted as a JSON-encoded list in a single text column;
// encoding happens only here at the storage edge, never in business logic.
type DepartmentIDList []string

// Value implements driver.Valuer
func (d DepartmentIDList) Value() (driver.Value, error) {
	if d == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(d))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner
func (d *DepartmentIDList) Scan(value interface{}) error {
	if value == nil {
		*d = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into DepartmentIDList", value)
	}
	return json.Unmarshal(data, (*[]string)(d))
}

// Approval represents an approval request submitted by an applicant and
// resolved by an approver
type Approval struct {
	ID             uint             `gorm:"primaryKey;autoIncrement" json:"id"`
	SerialNo       string           `gorm:"type:varchar(20);uniqueIndex;not null" json:"serial_no"`
	ProjectName    string           `gorm:"type:varchar(20);not null" json:"project_name"`
	Content        string           `gorm:"type:varchar(300);not null" json:"content"`
	DepartmentIDs  DepartmentIDList `gorm:"type:text;not null" json:"department_ids"`
	DepartmentPath string           `gorm:"type:varchar(255);not null" json:"department_path"`
	ExecuteDate    time.Time        `gorm:"type:date;not null" json:"execute_date"`
	Status         ApprovalStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index:idx_approvals_status" json:"status"`
	CreatorID      string           `gorm:"type:varchar(64);not null;index:idx_approvals_creator_id" json:"creator_id"`
	CreatorName    string           `gorm:"type:varchar(64);not null" json:"creator_name"`
	ApproverID     string           `gorm:"type:varchar(64)" json:"approver_id"`
	ApproverName   string           `gorm:"type:varchar(64)" json:"approver_name"`
	RejectReason   string           `gorm:"type:varchar(500)" json:"reject_reason"`
	// ApprovedAt is the terminal-transition timestamp: it is set on approve,
	// reject and withdraw alike, not only on approval.
	ApprovedAt  *time.Time   `json:"approved_at"`
	CreatedAt   time.Time    `gorm:"not null;index:idx_approvals_created_at" json:"created_at"`
	UpdatedAt   time.Time    `gorm:"not null" json:"updated_at"`
	Deleted     bool         `gorm:"not null;default:false;index:idx_approvals_deleted" json:"deleted"`
	Attachments []Attachment `gorm:"foreignKey:ApprovalID;constraint:OnDelete:CASCADE" json:"attachments,omitempty"`
}

// TableName specifies the table name for Approval
func (Approval) TableName() string {
	return "approvals"
}
