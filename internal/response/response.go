package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"approval-flow-api/internal/apperror"
)

// Envelope is the uniform response body: code 0 means success, a non-zero
// code mirrors the HTTP status of the failure.
type Envelope struct {
	Code int         `json:"code"`
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

// Success writes a 200 response with the success envelope
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Envelope{Code: 0, Msg: "success", Data: data})
}

// Error writes an error envelope with the given HTTP status
func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, Envelope{Code: status, Msg: msg})
}

// HTTPStatus maps an apperror code to its HTTP status
func HTTPStatus(code string) int {
	switch code {
	case apperror.CodeNotFound:
		return http.StatusNotFound
	case apperror.CodeInvalidInput, apperror.CodeInvalidTransition:
		return http.StatusBadRequest
	case apperror.CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
