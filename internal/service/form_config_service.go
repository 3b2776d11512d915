package service

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"approval-flow-api/internal/apperror"
	"approval-flow-api/internal/domain"
	"approval-flow-api/internal/repository"
)

// defaultFormSchema is the built-in approval form, materialized into the
// database the first time a key is requested
var defaultFormSchema = []map[string]interface{}{
	{
		"field":     "projectName",
		"name":      "审批项目",
		"component": "Input",
		"validator": map[string]interface{}{"required": true, "maxCount": 20},
	},
	{
		"field":     "content",
		"name":      "审批内容",
		"component": "Textarea",
		"validator": map[string]interface{}{"required": true, "maxCount": 300},
	},
	{
		"field":     "departmentIds",
		"name":      "部门",
		"component": "DepartmentSelect",
		"validator": map[string]interface{}{"required": true},
	},
	{
		"field":     "executeDate",
		"name":      "执行日期",
		"component": "DatePicker",
		"validator": map[string]interface{}{"required": true},
	},
}

// FormConfigService defines the interface for dynamic form schemas
type FormConfigService interface {
	GetSchema(ctx context.Context, key string) (json.RawMessage, error)
}

// formConfigServiceImpl is the implementation of FormConfigService
type formConfigServiceImpl struct {
	formConfigRepo repository.FormConfigRepository
	logger         *zap.Logger
}

// NewFormConfigService creates a new instance of FormConfigService
func NewFormConfigService(formConfigRepo repository.FormConfigRepository, logger *zap.Logger) FormConfigService {
	return &formConfigServiceImpl{formConfigRepo: formConfigRepo, logger: logger}
}

// GetSchema returns the stored schema for the key, creating it from the
// default form on first access
func (s *formConfigServiceImpl) GetSchema(ctx context.Context, key string) (json.RawMessage, error) {
	if key == "" {
		return nil, apperror.InvalidInput("form config key is required")
	}

	config, err := s.formConfigRepo.FindByKey(ctx, key)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Internal("failed to fetch form config: %v", err)
		}
		config, err = s.createDefault(ctx, key)
		if err != nil {
			return nil, err
		}
	}

	return json.RawMessage(config.Schema), nil
}

// createDefault persists the default schema under the given key
func (s *formConfigServiceImpl) createDefault(ctx context.Context, key string) (*domain.FormConfig, error) {
	schema, err := json.Marshal(defaultFormSchema)
	if err != nil {
		return nil, apperror.Internal("failed to encode default schema: %v", err)
	}

	config := &domain.FormConfig{
		Key:    key,
		Schema: datatypes.JSON(schema),
		Remark: "Default Approval Form",
	}
	if err := s.formConfigRepo.Create(ctx, config); err != nil {
		return nil, apperror.Internal("failed to create form config: %v", err)
	}

	s.logger.Info("Created default form config", zap.String("key", key))
	return config, nil
}
