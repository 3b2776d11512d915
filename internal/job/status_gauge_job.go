// Package job contains scheduled background tasks.
package job

import (
	"context"

	"go.uber.org/zap"

	"approval-flow-api/internal/domain"
	"approval-flow-api/internal/metrics"
	"approval-flow-api/internal/repository"
)

// allStatuses lists every status the gauge reports, so counts that drop to
// zero are published instead of going stale
var allStatuses = []domain.ApprovalStatus{
	domain.StatusPending,
	domain.StatusApproved,
	domain.StatusRejected,
	domain.StatusWithdrawn,
}

// StatusGaugeJob refreshes the per-status approval count gauge
type StatusGaugeJob struct {
	approvalRepo repository.ApprovalRepository
	metrics      *metrics.Metrics
	logger       *zap.Logger
}

// NewStatusGaugeJob creates a new StatusGaugeJob instance
func NewStatusGaugeJob(approvalRepo repository.ApprovalRepository, m *metrics.Metrics, logger *zap.Logger) *StatusGaugeJob {
	return &StatusGaugeJob{
		approvalRepo: approvalRepo,
		metrics:      m,
		logger:       logger,
	}
}

// Run counts approvals per status and publishes the gauge
func (j *StatusGaugeJob) Run() {
	ctx := context.Background()

	counts, err := j.approvalRepo.CountByStatus(ctx)
	if err != nil {
		j.logger.Error("Failed to count approvals by status", zap.Error(err))
		return
	}

	for _, status := range allStatuses {
		j.metrics.SetApprovalsByStatus(string(status), counts[status])
	}
}
