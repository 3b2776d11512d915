// Package handler provides HTTP request handlers for the API.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"approval-flow-api/internal/dto"
	"approval-flow-api/internal/middleware"
	"approval-flow-api/internal/response"
	"approval-flow-api/internal/service"
)

// ApprovalHandler handles approval-related requests
type ApprovalHandler struct {
	approvalService service.ApprovalService
}

// NewApprovalHandler creates a new ApprovalHandler
func NewApprovalHandler(approvalService service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

// Create godoc
// @Summary      Create an approval request
// @Description  Creates a new approval request in PENDING status
// @Description  Assigns a per-day sequential serial number (AP-YYYYMMDD-NNNN)
// @Description  Resolves the department id chain into a readable path snapshot
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        request body dto.CreateApprovalRequest true "Approval to create"
// @Success      200 {object} response.Envelope{data=dto.ApprovalResponse}
// @Failure      400 {object} response.Envelope "Validation failed or execute date in the past"
// @Failure      401 {object} response.Envelope "Missing identity"
// @Router       /approvals [post]
func (h *ApprovalHandler) Create(c *gin.Context) {
	var req dto.CreateApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.approvalService.Create(c.Request.Context(), &req, middleware.CallerFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// List godoc
// @Summary      List approval requests
// @Description  Returns a filtered, paginated page of approvals, newest first
// @Tags         approvals
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        pageSize query int false "Page size" default(10) maximum(100)
// @Param        status query string false "Filter by status" Enums(PENDING, APPROVED, REJECTED, WITHDRAWN)
// @Param        projectKeyword query string false "Substring match on project name"
// @Param        departmentPath query string false "Substring match on department path"
// @Param        createdStart query string false "Creation date lower bound (YYYY-MM-DD, inclusive)"
// @Param        createdEnd query string false "Creation date upper bound (YYYY-MM-DD, inclusive)"
// @Success      200 {object} response.Envelope{data=dto.ApprovalListResponse}
// @Failure      400 {object} response.Envelope
// @Router       /approvals [get]
func (h *ApprovalHandler) List(c *gin.Context) {
	var query dto.ApprovalQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.approvalService.List(c.Request.Context(), &query)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// Get godoc
// @Summary      Get one approval request
// @Description  Returns the approval with its attachments
// @Tags         approvals
// @Produce      json
// @Param        id path int true "Approval ID"
// @Success      200 {object} response.Envelope{data=dto.ApprovalDetailResponse}
// @Failure      404 {object} response.Envelope
// @Router       /approvals/{id} [get]
func (h *ApprovalHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.approvalService.Get(c.Request.Context(), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// Update godoc
// @Summary      Update an approval request
// @Description  Partially updates a PENDING approval; only its creator may update it
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        id path int true "Approval ID"
// @Param        request body dto.UpdateApprovalRequest true "Fields to change"
// @Success      200 {object} response.Envelope{data=dto.ApprovalResponse}
// @Failure      400 {object} response.Envelope "Already in a final status"
// @Failure      403 {object} response.Envelope "Caller is not the applicant creator"
// @Failure      404 {object} response.Envelope
// @Router       /approvals/{id} [put]
func (h *ApprovalHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateApprovalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.approvalService.Update(c.Request.Context(), id, &req, middleware.CallerFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// Withdraw godoc
// @Summary      Withdraw an approval request
// @Description  Moves a PENDING approval to WITHDRAWN; only its creator may withdraw it
// @Tags         approvals
// @Produce      json
// @Param        id path int true "Approval ID"
// @Success      200 {object} response.Envelope{data=dto.ApprovalResponse}
// @Failure      400 {object} response.Envelope "Already in a final status"
// @Failure      403 {object} response.Envelope
// @Failure      404 {object} response.Envelope
// @Router       /approvals/{id}/withdraw [post]
func (h *ApprovalHandler) Withdraw(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.approvalService.Withdraw(c.Request.Context(), id, middleware.CallerFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// Approve godoc
// @Summary      Approve an approval request
// @Description  Moves a PENDING approval to APPROVED and records the approver
// @Description  Approvers cannot approve their own requests
// @Tags         approvals
// @Produce      json
// @Param        id path int true "Approval ID"
// @Success      200 {object} response.Envelope{data=dto.ApprovalResponse}
// @Failure      400 {object} response.Envelope "Already in a final status"
// @Failure      403 {object} response.Envelope
// @Failure      404 {object} response.Envelope
// @Router       /approvals/{id}/approve [post]
func (h *ApprovalHandler) Approve(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.approvalService.Approve(c.Request.Context(), id, middleware.CallerFrom(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// Reject godoc
// @Summary      Reject an approval request
// @Description  Moves a PENDING approval to REJECTED with a mandatory reason
// @Tags         approvals
// @Accept       json
// @Produce      json
// @Param        id path int true "Approval ID"
// @Param        request body dto.RejectRequest true "Rejection reason"
// @Success      200 {object} response.Envelope{data=dto.ApprovalResponse}
// @Failure      400 {object} response.Envelope "Missing reason or already in a final status"
// @Failure      403 {object} response.Envelope
// @Failure      404 {object} response.Envelope
// @Router       /approvals/{id}/reject [post]
func (h *ApprovalHandler) Reject(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.approvalService.Reject(c.Request.Context(), id, middleware.CallerFrom(c), req.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, result)
}

// parseID reads the numeric id path parameter, writing a 400 on failure
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}
