package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-connect-api/internal/service"
	appErrors "github.com/noah-isme/school-connect-api/pkg/errors"
	"github.com/noah-isme/school-connect-api/pkg/response"
)

type attachmentService interface {
	Upload(ctx context.Context, uploaderID string, upload service.AttachmentUpload) (*service.UploadedAttachment, error)
	Open(ctx context.Context, token string) (*service.AttachmentDownload, error)
}

// AttachmentHandler handles file uploads referenced by messages.
type AttachmentHandler struct {
	service attachmentService
}

// NewAttachmentHandler constructs the handler.
func NewAttachmentHandler(svc attachmentService) *AttachmentHandler {
	return &AttachmentHandler{service: svc}
}

// Upload godoc
// @Summary Upload attachment
// @Description Stores a file and returns the attachment reference with a signed download URL
// @Tags Attachments
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /attachments [post]
func (h *AttachmentHandler) Upload(c *gin.Context) {
	userID, ok := requireCaller(c)
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Validation("file is required", []appErrors.FieldError{{Field: "file", Message: "file is required"}}))
		return
	}
	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to read upload"))
		return
	}
	defer file.Close()

	uploaded, err := h.service.Upload(c.Request.Context(), userID, service.AttachmentUpload{
		Filename: header.Filename,
		MimeType: header.Header.Get("Content-Type"),
		Content:  file,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, uploaded)
}

// Download godoc
// @Summary Download attachment
// @Tags Attachments
// @Produce octet-stream
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Router /attachments/download [get]
func (h *AttachmentHandler) Download(c *gin.Context) {
	download, err := h.service.Open(c.Request.Context(), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close()

	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Internal(err, "failed to read attachment"))
		return
	}
	c.DataFromReader(http.StatusOK, info.Size(), download.MimeType, download.File, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", download.Filename),
	})
}
