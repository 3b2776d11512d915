package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"approval-flow-api/internal/apperror"
	"approval-flow-api/internal/domain"
	"approval-flow-api/internal/dto"
	"approval-flow-api/internal/repository"
)

const departmentTreeCacheKey = "approval:department:tree"

// DepartmentService defines the interface for the department hierarchy
type DepartmentService interface {
	GetTree(ctx context.Context) ([]*dto.DepartmentNode, error)
}

// departmentServiceImpl is the implementation of DepartmentService
type departmentServiceImpl struct {
	departmentRepo repository.DepartmentRepository
	redis          *redis.Client
	cacheTTL       time.Duration
	logger         *zap.Logger
}

// NewDepartmentService creates a new instance of DepartmentService. A nil
// redis client disables caching.
func NewDepartmentService(
	departmentRepo repository.DepartmentRepository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
	logger *zap.Logger,
) DepartmentService {
	return &departmentServiceImpl{
		departmentRepo: departmentRepo,
		redis:          redisClient,
		cacheTTL:       cacheTTL,
		logger:         logger,
	}
}

// GetTree returns the department hierarchy as a cascader-shaped tree,
// seeding the table on first use
func (s *departmentServiceImpl) GetTree(ctx context.Context) ([]*dto.DepartmentNode, error) {
	if tree, ok := s.fromCache(ctx); ok {
		return tree, nil
	}

	if err := s.seedIfEmpty(ctx); err != nil {
		return nil, err
	}

	departments, err := s.departmentRepo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Internal("failed to list departments: %v", err)
	}

	tree := buildTree(departments, nil)
	s.toCache(ctx, tree)
	return tree, nil
}

// seedIfEmpty inserts the initial hierarchy on a fresh database
func (s *departmentServiceImpl) seedIfEmpty(ctx context.Context) error {
	count, err := s.departmentRepo.Count(ctx)
	if err != nil {
		return apperror.Internal("failed to count departments: %v", err)
	}
	if count > 0 {
		return nil
	}

	a := "A"
	a1 := "A1"
	seed := []*domain.Department{
		{ID: "A", Name: "技术部", Level: 1, Path: "技术部"},
		{ID: "A1", Name: "研发中心", Level: 2, ParentID: &a, Path: "技术部 / 研发中心"},
		{ID: "A1-1", Name: "前端组", Level: 3, ParentID: &a1, Path: "技术部 / 研发中心 / 前端组"},
		{ID: "B", Name: "产品部", Level: 1, Path: "产品部"},
	}
	if err := s.departmentRepo.CreateBatch(ctx, seed); err != nil {
		return apperror.Internal("failed to seed departments: %v", err)
	}

	s.logger.Info("Seeded initial department hierarchy", zap.Int("count", len(seed)))
	return nil
}

// buildTree assembles child nodes under the given parent, nil meaning roots
func buildTree(departments []*domain.Department, parentID *string) []*dto.DepartmentNode {
	var nodes []*dto.DepartmentNode
	for _, d := range departments {
		switch {
		case parentID == nil:
			if d.ParentID != nil && *d.ParentID != "" {
				continue
			}
		default:
			if d.ParentID == nil || *d.ParentID != *parentID {
				continue
			}
		}
		nodes = append(nodes, &dto.DepartmentNode{
			Value:    d.ID,
			Label:    d.Name,
			Children: buildTree(departments, &d.ID),
		})
	}
	return nodes
}

// fromCache returns the cached tree when redis is configured and has it
func (s *departmentServiceImpl) fromCache(ctx context.Context) ([]*dto.DepartmentNode, bool) {
	if s.redis == nil {
		return nil, false
	}

	data, err := s.redis.Get(ctx, departmentTreeCacheKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			s.logger.Warn("Department cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var tree []*dto.DepartmentNode
	if err := json.Unmarshal(data, &tree); err != nil {
		s.logger.Warn("Department cache entry corrupt, ignoring", zap.Error(err))
		return nil, false
	}
	return tree, true
}

// toCache stores the tree best-effort; cache failures never fail the request
func (s *departmentServiceImpl) toCache(ctx context.Context, tree []*dto.DepartmentNode) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(tree)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, departmentTreeCacheKey, data, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("Department cache write failed", zap.Error(err))
	}
}
