package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"approval-flow-api/internal/domain"
	"approval-flow-api/internal/repository"
)

func setupDepartmentService(t *testing.T) (DepartmentService, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Department{}))

	// each in-memory sqlite connection is a separate database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	svc := NewDepartmentService(repository.NewDepartmentRepository(db), nil, 0, zap.NewNop())
	return svc, db
}

func TestDepartmentService_GetTree_SeedsOnFirstUse(t *testing.T) {
	svc, db := setupDepartmentService(t)
	ctx := context.Background()

	tree, err := svc.GetTree(ctx)
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&domain.Department{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)

	require.Len(t, tree, 2)
	assert.Equal(t, "A", tree[0].Value)
	assert.Equal(t, "技术部", tree[0].Label)
	assert.Equal(t, "B", tree[1].Value)
	assert.Equal(t, "产品部", tree[1].Label)
	assert.Nil(t, tree[1].Children)

	require.Len(t, tree[0].Children, 1)
	assert.Equal(t, "A1", tree[0].Children[0].Value)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "A1-1", tree[0].Children[0].Children[0].Value)
}

func TestDepartmentService_GetTree_DoesNotReseed(t *testing.T) {
	svc, db := setupDepartmentService(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&domain.Department{ID: "X", Name: "行政部", Level: 1, Path: "行政部"}).Error)

	tree, err := svc.GetTree(ctx)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "X", tree[0].Value)

	var count int64
	require.NoError(t, db.Model(&domain.Department{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
