package job

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"approval-flow-api/internal/domain"
	"approval-flow-api/internal/metrics"
	"approval-flow-api/internal/repository"
)

func TestStatusGaugeJob_Run(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Approval{}, &domain.Attachment{}))

	// each in-memory sqlite connection is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	statuses := []domain.ApprovalStatus{
		domain.StatusPending,
		domain.StatusPending,
		domain.StatusApproved,
	}
	for i, status := range statuses {
		require.NoError(t, db.Create(&domain.Approval{
			SerialNo:       serialFor(i),
			ProjectName:    "server upgrade",
			Content:        "replace rack 12",
			DepartmentIDs:  domain.DepartmentIDList{"A", "A1", "A1-1"},
			DepartmentPath: "技术部 / 研发中心 / 前端组",
			ExecuteDate:    time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC),
			Status:         status,
			CreatorID:      "u1",
			CreatorName:    "Alice",
		}).Error)
	}

	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry)

	job := NewStatusGaugeJob(repository.NewApprovalRepository(db), m, zap.NewNop())
	job.Run()

	gauge := m.ApprovalsByStatus
	assert.Equal(t, 2.0, testutil.ToFloat64(gauge.WithLabelValues("PENDING")))
	assert.Equal(t, 1.0, testutil.ToFloat64(gauge.WithLabelValues("APPROVED")))
	assert.Equal(t, 0.0, testutil.ToFloat64(gauge.WithLabelValues("REJECTED")))
	assert.Equal(t, 0.0, testutil.ToFloat64(gauge.WithLabelValues("WITHDRAWN")))
}

func serialFor(i int) string {
	return fmt.Sprintf("AP-20231027-%04d", i+1)
}
