package handler

import (
	"github.com/gin-gonic/gin"

	"approval-flow-api/internal/response"
	"approval-flow-api/internal/service"
)

// DepartmentHandler handles department hierarchy requests
type DepartmentHandler struct {
	departmentService service.DepartmentService
}

// NewDepartmentHandler creates a new DepartmentHandler
func NewDepartmentHandler(departmentService service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departmentService: departmentService}
}

// GetTree godoc
// @Summary      Get the department tree
// @Description  Returns the full department hierarchy as nested value/label nodes
// @Tags         departments
// @Produce      json
// @Success      200 {object} response.Envelope{data=[]dto.DepartmentNode}
// @Router       /departments [get]
func (h *DepartmentHandler) GetTree(c *gin.Context) {
	tree, err := h.departmentService.GetTree(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, tree)
}
