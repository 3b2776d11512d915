package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"approval-flow-api/internal/domain"
)

func setupApprovalTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Approval{}, &domain.Attachment{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	// each in-memory sqlite connection is a separate database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db
}

func newApproval(serial string, createdAt time.Time) *domain.Approval {
	return &domain.Approval{
		SerialNo:       serial,
		ProjectName:    "server upgrade",
		Content:        "replace rack 12",
		DepartmentIDs:  domain.DepartmentIDList{"A", "A1", "A1-1"},
		DepartmentPath: "技术部 / 研发中心 / 前端组",
		ExecuteDate:    time.Date(2023, 11, 1, 0, 0, 0, 0, time.UTC),
		Status:         domain.StatusPending,
		CreatorID:      "u1",
		CreatorName:    "Alice",
		CreatedAt:      createdAt,
	}
}

func TestApprovalRepository_CountCreatedBetween(t *testing.T) {
	db := setupApprovalTestDB(t)
	repo := NewApprovalRepository(db)
	ctx := context.Background()

	day := time.Date(2023, 10, 27, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newApproval("AP-20231027-0001", day.Add(1*time.Hour))))
	require.NoError(t, repo.Create(ctx, newApproval("AP-20231027-0002", day.Add(23*time.Hour))))
	// previous day, outside the window
	require.NoError(t, repo.Create(ctx, newApproval("AP-20231026-0001", day.Add(-1*time.Hour))))

	// soft-deleted rows still count so serial numbers are never reused
	deleted := newApproval("AP-20231027-0003", day.Add(2*time.Hour))
	deleted.Deleted = true
	require.NoError(t, repo.Create(ctx, deleted))

	count, err := repo.CountCreatedBetween(ctx, day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestApprovalRepository_FindByID_ExcludesDeleted(t *testing.T) {
	db := setupApprovalTestDB(t)
	repo := NewApprovalRepository(db)
	ctx := context.Background()

	approval := newApproval("AP-20231027-0001", time.Now())
	approval.Deleted = true
	require.NoError(t, repo.Create(ctx, approval))

	_, err := repo.FindByID(ctx, approval.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestApprovalRepository_List(t *testing.T) {
	db := setupApprovalTestDB(t)
	repo := NewApprovalRepository(db)
	ctx := context.Background()

	base := time.Date(2023, 10, 20, 12, 0, 0, 0, time.UTC)

	a1 := newApproval("AP-20231020-0001", base)
	a1.ProjectName = "database upgrade"
	require.NoError(t, repo.Create(ctx, a1))

	a2 := newApproval("AP-20231021-0001", base.AddDate(0, 0, 1))
	a2.Status = domain.StatusApproved
	require.NoError(t, repo.Create(ctx, a2))

	a3 := newApproval("AP-20231022-0001", base.AddDate(0, 0, 2))
	a3.Deleted = true
	require.NoError(t, repo.Create(ctx, a3))

	t.Run("excludes soft-deleted and orders newest first", func(t *testing.T) {
		approvals, total, err := repo.List(ctx, ListFilter{Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, approvals, 2)
		assert.Equal(t, "AP-20231021-0001", approvals[0].SerialNo)
		assert.Equal(t, "AP-20231020-0001", approvals[1].SerialNo)
	})

	t.Run("filters by status", func(t *testing.T) {
		approvals, total, err := repo.List(ctx, ListFilter{Status: domain.StatusApproved, Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, approvals, 1)
		assert.Equal(t, "AP-20231021-0001", approvals[0].SerialNo)
	})

	t.Run("filters by project keyword", func(t *testing.T) {
		approvals, total, err := repo.List(ctx, ListFilter{ProjectKeyword: "database", Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, approvals, 1)
		assert.Equal(t, "database upgrade", approvals[0].ProjectName)
	})

	t.Run("filters by created window", func(t *testing.T) {
		start := base.AddDate(0, 0, 1).Truncate(24 * time.Hour)
		end := start.AddDate(0, 0, 1)
		approvals, total, err := repo.List(ctx, ListFilter{CreatedStart: &start, CreatedEnd: &end, Page: 1, PageSize: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, approvals, 1)
		assert.Equal(t, "AP-20231021-0001", approvals[0].SerialNo)
	})

	t.Run("paginates", func(t *testing.T) {
		approvals, total, err := repo.List(ctx, ListFilter{Page: 2, PageSize: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, approvals, 1)
		assert.Equal(t, "AP-20231020-0001", approvals[0].SerialNo)
	})
}

func TestApprovalRepository_CountByStatus(t *testing.T) {
	db := setupApprovalTestDB(t)
	repo := NewApprovalRepository(db)
	ctx := context.Background()

	now := time.Now()
	for i, status := range []domain.ApprovalStatus{
		domain.StatusPending,
		domain.StatusPending,
		domain.StatusApproved,
		domain.StatusRejected,
	} {
		a := newApproval(fmt.Sprintf("AP-20231027-%04d", i+1), now)
		a.Status = status
		require.NoError(t, repo.Create(ctx, a))
	}

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[domain.StatusPending])
	assert.Equal(t, int64(1), counts[domain.StatusApproved])
	assert.Equal(t, int64(1), counts[domain.StatusRejected])
	assert.Equal(t, int64(0), counts[domain.StatusWithdrawn])
}
