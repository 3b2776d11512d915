package handler

import (
	"github.com/gin-gonic/gin"

	"approval-flow-api/internal/response"
	"approval-flow-api/internal/service"
)

// FormConfigHandler handles dynamic form schema requests
type FormConfigHandler struct {
	formConfigService service.FormConfigService
}

// NewFormConfigHandler creates a new FormConfigHandler
func NewFormConfigHandler(formConfigService service.FormConfigService) *FormConfigHandler {
	return &FormConfigHandler{formConfigService: formConfigService}
}

// GetSchema godoc
// @Summary      Get a form schema by key
// @Description  Returns the stored schema, creating the default approval form on first access
// @Tags         form-configs
// @Produce      json
// @Param        key path string true "Form config key"
// @Success      200 {object} response.Envelope
// @Router       /form-configs/{key} [get]
func (h *FormConfigHandler) GetSchema(c *gin.Context) {
	schema, err := h.formConfigService.GetSchema(c.Request.Context(), c.Param("key"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, schema)
}
