package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"approval-flow-api/internal/apperror"
	"approval-flow-api/internal/response"
)

// handleServiceError maps service layer errors to appropriate HTTP responses
func handleServiceError(c *gin.Context, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.Error(c, http.StatusNotFound, "Resource not found")
		return
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		response.Error(c, response.HTTPStatus(appErr.Code), appErr.Message)
		return
	}

	response.Error(c, http.StatusInternalServerError, "Internal server error")
}
