package dto

import (
	"time"

	"approval-flow-api/internal/domain"
)

// CreateApprovalRequest is the payload for creating an approval request
type CreateApprovalRequest struct {
	ProjectName   string   `json:"projectName" binding:"required,min=1,max=20"`
	Content       string   `json:"content" binding:"required,min=1,max=300"`
	DepartmentIDs []string `json:"departmentIds" binding:"required,min=3,dive,required"`
	ExecuteDate   string   `json:"executeDate" binding:"required"`
}

// UpdateApprovalRequest is the payload for a partial update. Omitted fields
// are left unchanged.
type UpdateApprovalRequest struct {
	ProjectName   *string  `json:"projectName" binding:"omitempty,min=1,max=20"`
	Content       *string  `json:"content" binding:"omitempty,min=1,max=300"`
	DepartmentIDs []string `json:"departmentIds" binding:"omitempty,min=3,dive,required"`
	ExecuteDate   *string  `json:"executeDate"`
}

// RejectRequest carries the mandatory rejection reason
type RejectRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ApprovalQuery holds list filters and pagination
type ApprovalQuery struct {
	Page           int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize       int    `form:"pageSize,default=10" binding:"omitempty,min=1,max=100"`
	Status         string `form:"status"`
	ProjectKeyword string `form:"projectKeyword"`
	DepartmentPath string `form:"departmentPath"`
	CreatedStart   string `form:"createdStart"`
	CreatedEnd     string `form:"createdEnd"`
}

// ApprovalResponse is the list/summary view of an approval request
type ApprovalResponse struct {
	ID             uint                  `json:"id"`
	SerialNo       string                `json:"serialNo"`
	ProjectName    string                `json:"projectName"`
	Content        string                `json:"content"`
	DepartmentIDs  []string              `json:"departmentIds"`
	DepartmentPath string                `json:"departmentPath"`
	ExecuteDate    string                `json:"executeDate"`
	Status         domain.ApprovalStatus `json:"status"`
	CreatorID      string                `json:"creatorId"`
	CreatorName    string                `json:"creatorName"`
	ApproverID     string                `json:"approverId,omitempty"`
	ApproverName   string                `json:"approverName,omitempty"`
	RejectReason   string                `json:"rejectReason,omitempty"`
	ApprovedAt     *time.Time            `json:"approvedAt,omitempty"`
	CreatedAt      time.Time             `json:"createdAt"`
	UpdatedAt      time.Time             `json:"updatedAt"`
}

// ApprovalDetailResponse adds attachments to the summary view
type ApprovalDetailResponse struct {
	ApprovalResponse
	Attachments []AttachmentResponse `json:"attachments"`
}

// ApprovalListResponse is a paginated page of approvals
type ApprovalListResponse struct {
	List     []*ApprovalResponse `json:"list"`
	Total    int64               `json:"total"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"pageSize"`
}
