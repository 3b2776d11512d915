package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"approval-flow-api/internal/apperror"
	"approval-flow-api/internal/domain"
	"approval-flow-api/internal/dto"
	"approval-flow-api/internal/metrics"
	"approval-flow-api/internal/repository"
)

// StatusNotifier receives status transition events. The websocket publisher
// implements it; a nil notifier disables notifications.
type StatusNotifier interface {
	NotifyStatusChange(approvalID uint, serialNo string, from, to domain.ApprovalStatus)
}

// ApprovalService defines the interface for the approval lifecycle and queries
type ApprovalService interface {
	Create(ctx context.Context, req *dto.CreateApprovalRequest, caller domain.Caller) (*dto.ApprovalResponse, error)
	List(ctx context.Context, query *dto.ApprovalQuery) (*dto.ApprovalListResponse, error)
	Get(ctx context.Context, id uint) (*dto.ApprovalDetailResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateApprovalRequest, caller domain.Caller) (*dto.ApprovalResponse, error)
	Withdraw(ctx context.Context, id uint, caller domain.Caller) (*dto.ApprovalResponse, error)
	Approve(ctx context.Context, id uint, caller domain.Caller) (*dto.ApprovalResponse, error)
	Reject(ctx context.Context, id uint, caller domain.Caller, reason string) (*dto.ApprovalResponse, error)
}

// approvalServiceImpl is the implementation of ApprovalService
type approvalServiceImpl struct {
	approvalRepo   repository.ApprovalRepository
	departmentRepo repository.DepartmentRepository
	notifier       StatusNotifier
	metrics        *metrics.Metrics
	logger         *zap.Logger
	now            func() time.Time
}

// NewApprovalService creates a new instance of ApprovalService
func NewApprovalService(
	approvalRepo repository.ApprovalRepository,
	departmentRepo repository.DepartmentRepository,
	notifier StatusNotifier,
	m *metrics.Metrics,
	logger *zap.Logger,
) ApprovalService {
	return &approvalServiceImpl{
		approvalRepo:   approvalRepo,
		departmentRepo: departmentRepo,
		notifier:       notifier,
		metrics:        m,
		logger:         logger,
		now:            time.Now,
	}
}

// generateSerialNo builds the per-day sequential serial AP-YYYYMMDD-NNNN.
// The count-then-insert pair is not atomic; two same-day creations racing
// through here can draw the same sequence number.
func (s *approvalServiceImpl) generateSerialNo(ctx context.Context) (string, error) {
	now := s.now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	end := start.AddDate(0, 0, 1)

	count, err := s.approvalRepo.CountCreatedBetween(ctx, start, end)
	if err != nil {
		return "", apperror.Internal("failed to count today's approvals: %v", err)
	}
	return fmt.Sprintf("AP-%s-%04d", now.Format("20060102"), count+1), nil
}

// buildDepartmentPath renders the department id sequence as a human-readable
// path, preserving the caller-supplied root-to-leaf order. Unresolvable ids
// pass through verbatim.
func (s *approvalServiceImpl) buildDepartmentPath(ctx context.Context, departmentIDs []string) (string, error) {
	departments, err := s.departmentRepo.FindByIDs(ctx, departmentIDs)
	if err != nil {
		return "", apperror.Internal("failed to look up departments: %v", err)
	}

	names := make(map[string]string, len(departments))
	for _, d := range departments {
		names[d.ID] = d.Name
	}

	path := ""
	for i, id := range departmentIDs {
		name, ok := names[id]
		if !ok {
			name = id
		}
		if i > 0 {
			path += " / "
		}
		path += name
	}
	return path, nil
}

// Create validates the execute date, assigns a serial number, denormalizes the
// department path and persists a new PENDING approval
func (s *approvalServiceImpl) Create(ctx context.Context, req *dto.CreateApprovalRequest, caller domain.Caller) (*dto.ApprovalResponse, error) {
	executeDate, err := parseDate(req.ExecuteDate)
	if err != nil {
		return nil, apperror.InvalidInput("invalid execute date %q", req.ExecuteDate)
	}

	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if executeDate.Before(today) {
		return nil, apperror.InvalidInput("execute date cannot be in the past")
	}

	serialNo, err := s.generateSerialNo(ctx)
	if err != nil {
		return nil, err
	}

	departmentPath, err := s.buildDepartmentPath(ctx, req.DepartmentIDs)
	if err != nil {
		return nil, err
	}

	approval := &domain.Approval{
		SerialNo:       serialNo,
		ProjectName:    req.ProjectName,
		Content:        req.Content,
		DepartmentIDs:  domain.DepartmentIDList(req.DepartmentIDs),
		DepartmentPath: departmentPath,
		ExecuteDate:    executeDate,
		Status:         domain.StatusPending,
		CreatorID:      caller.UserID,
		CreatorName:    caller.UserName,
		// stamped from the service clock so the serial window and the row
		// always agree on the creation day
		CreatedAt: now,
	}

	if err := s.approvalRepo.Create(ctx, approval); err != nil {
		return nil, apperror.Internal("failed to create approval: %v", err)
	}

	s.metrics.IncrementApprovalCreated()
	s.logger.Info("Approval created",
		zap.Uint("approval_id", approval.ID),
		zap.String("serial_no", approval.SerialNo),
		zap.String("creator_id", approval.CreatorID),
	)

	return toApprovalResponse(approval), nil
}

// List returns one filtered, paginated page of approvals plus the total
func (s *approvalServiceImpl) List(ctx context.Context, query *dto.ApprovalQuery) (*dto.ApprovalListResponse, error) {
	page := query.Page
	if page < 1 {
		page = 1
	}
	pageSize := query.PageSize
	if pageSize < 1 {
		pageSize = 10
	}

	filter := repository.ListFilter{
		Status:         domain.ApprovalStatus(query.Status),
		ProjectKeyword: query.ProjectKeyword,
		DepartmentPath: query.DepartmentPath,
		Page:           page,
		PageSize:       pageSize,
	}

	if query.CreatedStart != "" {
		start, err := parseDate(query.CreatedStart)
		if err != nil {
			return nil, apperror.InvalidInput("invalid createdStart %q", query.CreatedStart)
		}
		filter.CreatedStart = &start
	}
	if query.CreatedEnd != "" {
		end, err := parseDate(query.CreatedEnd)
		if err != nil {
			return nil, apperror.InvalidInput("invalid createdEnd %q", query.CreatedEnd)
		}
		// extend by one day so the end date is inclusive at day granularity
		endExclusive := end.AddDate(0, 0, 1)
		filter.CreatedEnd = &endExclusive
	}

	approvals, total, err := s.approvalRepo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("failed to list approvals: %v", err)
	}

	responses := make([]*dto.ApprovalResponse, len(approvals))
	for i, approval := range approvals {
		responses[i] = toApprovalResponse(approval)
	}

	return &dto.ApprovalListResponse{
		List:     responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Get fetches one approval with its attachments
func (s *approvalServiceImpl) Get(ctx context.Context, id uint) (*dto.ApprovalDetailResponse, error) {
	approval, err := s.approvalRepo.FindByIDWithAttachments(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("approval %d not found", id)
		}
		return nil, apperror.Internal("failed to fetch approval: %v", err)
	}

	attachments := make([]dto.AttachmentResponse, len(approval.Attachments))
	for i, a := range approval.Attachments {
		attachments[i] = toAttachmentResponse(&a)
	}

	return &dto.ApprovalDetailResponse{
		ApprovalResponse: *toApprovalResponse(approval),
		Attachments:      attachments,
	}, nil
}

// Update applies a partial update while the approval is still PENDING. The
// check order is fixed: existence, then permission, then transition legality.
func (s *approvalServiceImpl) Update(ctx context.Context, id uint, req *dto.UpdateApprovalRequest, caller domain.Caller) (*dto.ApprovalResponse, error) {
	approval, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := domain.CheckPermission(caller, approval.CreatorID, domain.ActionUpdate); err != nil {
		return nil, err
	}
	if err := domain.ValidateTransition(approval.Status, domain.StatusPending); err != nil {
		return nil, err
	}

	if req.ProjectName != nil {
		approval.ProjectName = *req.ProjectName
	}
	if req.Content != nil {
		approval.Content = *req.Content
	}
	if req.DepartmentIDs != nil {
		departmentPath, err := s.buildDepartmentPath(ctx, req.DepartmentIDs)
		if err != nil {
			return nil, err
		}
		approval.DepartmentIDs = domain.DepartmentIDList(req.DepartmentIDs)
		approval.DepartmentPath = departmentPath
	}
	if req.ExecuteDate != nil {
		// not re-validated against today, matching the lenient create-time-only rule
		executeDate, err := parseDate(*req.ExecuteDate)
		if err != nil {
			return nil, apperror.InvalidInput("invalid execute date %q", *req.ExecuteDate)
		}
		approval.ExecuteDate = executeDate
	}

	if err := s.approvalRepo.Update(ctx, approval); err != nil {
		return nil, apperror.Internal("failed to update approval: %v", err)
	}
	return toApprovalResponse(approval), nil
}

// Withdraw moves a PENDING approval to WITHDRAWN on behalf of its creator
func (s *approvalServiceImpl) Withdraw(ctx context.Context, id uint, caller domain.Caller) (*dto.ApprovalResponse, error) {
	return s.transition(ctx, id, caller, domain.ActionWithdraw, domain.StatusWithdrawn, func(approval *domain.Approval) {})
}

// Approve moves a PENDING approval to APPROVED and records the approver
func (s *approvalServiceImpl) Approve(ctx context.Context, id uint, caller domain.Caller) (*dto.ApprovalResponse, error) {
	return s.transition(ctx, id, caller, domain.ActionApprove, domain.StatusApproved, func(approval *domain.Approval) {
		approval.ApproverID = caller.UserID
		approval.ApproverName = caller.UserName
	})
}

// Reject moves a PENDING approval to REJECTED, recording the approver and the
// mandatory reason
func (s *approvalServiceImpl) Reject(ctx context.Context, id uint, caller domain.Caller, reason string) (*dto.ApprovalResponse, error) {
	if reason == "" {
		return nil, apperror.InvalidInput("reject reason is required")
	}
	if len([]rune(reason)) > 500 {
		return nil, apperror.InvalidInput("reject reason must be within 500 characters")
	}
	return s.transition(ctx, id, caller, domain.ActionReject, domain.StatusRejected, func(approval *domain.Approval) {
		approval.ApproverID = caller.UserID
		approval.ApproverName = caller.UserName
		approval.RejectReason = reason
	})
}

// transition runs the shared resolution sequence: load, permission check,
// transition check, mutation, persist, notify
func (s *approvalServiceImpl) transition(
	ctx context.Context,
	id uint,
	caller domain.Caller,
	action domain.Action,
	next domain.ApprovalStatus,
	mutate func(*domain.Approval),
) (*dto.ApprovalResponse, error) {
	approval, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := domain.CheckPermission(caller, approval.CreatorID, action); err != nil {
		return nil, err
	}
	if err := domain.ValidateTransition(approval.Status, next); err != nil {
		return nil, err
	}

	from := approval.Status
	resolvedAt := s.now()
	approval.Status = next
	approval.ApprovedAt = &resolvedAt
	mutate(approval)

	if err := s.approvalRepo.Update(ctx, approval); err != nil {
		return nil, apperror.Internal("failed to update approval: %v", err)
	}

	s.metrics.IncrementTransition(string(next))
	s.logger.Info("Approval status changed",
		zap.Uint("approval_id", approval.ID),
		zap.String("serial_no", approval.SerialNo),
		zap.String("from", string(from)),
		zap.String("to", string(next)),
		zap.String("actor_id", caller.UserID),
	)

	if s.notifier != nil {
		s.notifier.NotifyStatusChange(approval.ID, approval.SerialNo, from, next)
	}

	return toApprovalResponse(approval), nil
}

// load fetches the approval or maps its absence to NotFound
func (s *approvalServiceImpl) load(ctx context.Context, id uint) (*domain.Approval, error) {
	approval, err := s.approvalRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("approval %d not found", id)
		}
		return nil, apperror.Internal("failed to fetch approval: %v", err)
	}
	return approval, nil
}

// parseDate accepts a date-only string or a full RFC3339 timestamp and
// returns the value truncated to day granularity
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()), nil
}

// toApprovalResponse converts domain.Approval to dto.ApprovalResponse
func toApprovalResponse(approval *domain.Approval) *dto.ApprovalResponse {
	return &dto.ApprovalResponse{
		ID:             approval.ID,
		SerialNo:       approval.SerialNo,
		ProjectName:    approval.ProjectName,
		Content:        approval.Content,
		DepartmentIDs:  []string(approval.DepartmentIDs),
		DepartmentPath: approval.DepartmentPath,
		ExecuteDate:    approval.ExecuteDate.Format("2006-01-02"),
		Status:         approval.Status,
		CreatorID:      approval.CreatorID,
		CreatorName:    approval.CreatorName,
		ApproverID:     approval.ApproverID,
		ApproverName:   approval.ApproverName,
		RejectReason:   approval.RejectReason,
		ApprovedAt:     approval.ApprovedAt,
		CreatedAt:      approval.CreatedAt,
		UpdatedAt:      approval.UpdatedAt,
	}
}

// toAttachmentResponse converts domain.Attachment to dto.AttachmentResponse
func toAttachmentResponse(a *domain.Attachment) dto.AttachmentResponse {
	return dto.AttachmentResponse{
		ID:         a.ID,
		ApprovalID: a.ApprovalID,
		Type:       a.Type,
		Filename:   a.Filename,
		Path:       a.Path,
		MimeType:   a.MimeType,
		Size:       a.Size,
		CreatedAt:  a.CreatedAt,
	}
}
