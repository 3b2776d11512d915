package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"approval-flow-api/internal/response"
	"approval-flow-api/internal/service"
)

// AttachmentHandler handles attachment upload requests
type AttachmentHandler struct {
	attachmentService service.AttachmentService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(attachmentService service.AttachmentService) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService}
}

// Upload godoc
// @Summary      Upload attachments to an approval request
// @Description  Accepts up to 10 files per call under the "files" multipart field
// @Description  Allowed types: images (jpg, jpeg, png, gif) and excel (xlsx, xls)
// @Description  Per call limits: 5 images, 1 excel file
// @Tags         attachments
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path int true "Approval ID"
// @Param        files formData file true "Files to upload"
// @Success      200 {object} response.Envelope{data=[]dto.AttachmentResponse}
// @Failure      400 {object} response.Envelope "No files, too many files, or disallowed type"
// @Failure      404 {object} response.Envelope
// @Router       /approvals/{id}/attachments [post]
func (h *AttachmentHandler) Upload(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "invalid multipart form")
		return
	}

	fileHeaders := form.File["files"]
	files := make([]service.UploadFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		f, err := fh.Open()
		if err != nil {
			response.Error(c, http.StatusBadRequest, "failed to read uploaded file")
			return
		}
		defer f.Close()

		files = append(files, service.UploadFile{
			Filename: fh.Filename,
			MimeType: fh.Header.Get("Content-Type"),
			Size:     fh.Size,
			Reader:   f,
		})
	}

	result, err := h.attachmentService.Upload(c.Request.Context(), id, files)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, result)
}
