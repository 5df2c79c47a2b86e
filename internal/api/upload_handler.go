package api

import (
	"errors"
	"net/http"

	"alcyxob/donation-share/internal/domain"
	"alcyxob/donation-share/internal/service"

	"github.com/gin-gonic/gin"
)

// UploadHandler brokers direct-to-storage uploads.
type UploadHandler struct {
	uploadService service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

type UploadURLRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"required,gt=0"`
}

type DeleteUploadRequest struct {
	Key string `json:"key" binding:"required"`
}

// RequestUploadURL godoc
// @Summary Presign a direct upload
// @Tags Uploads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param file body UploadURLRequest true "File description"
// @Success 200 {object} domain.UploadDescriptor
// @Failure 400 {object} gin.H "Malformed request"
// @Failure 500 {object} gin.H "Issuer failure"
// @Router /uploads [post]
func (h *UploadHandler) RequestUploadURL(c *gin.Context) {
	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	desc, err := h.uploadService.RequestUpload(c.Request.Context(), userID, domain.UploadRequest{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Size:        req.Size,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidUploadRequest) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	c.JSON(http.StatusOK, desc)
}

// DeleteUpload godoc
// @Summary Delete an uploaded object
// @Tags Uploads
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param key body DeleteUploadRequest true "Storage key"
// @Success 200 {object} gin.H
// @Failure 403 {object} gin.H
// @Router /uploads [delete]
func (h *UploadHandler) DeleteUpload(c *gin.Context) {
	var req DeleteUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return
	}

	err = h.uploadService.DeleteUpload(c.Request.Context(), userID, req.Key)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"success": true, "key": req.Key})
	case errors.Is(err, service.ErrInvalidUploadRequest):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUploadKeyForbidden):
		abortWithError(c, http.StatusForbidden, err.Error())
	default:
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "Failed to delete file")
	}
}
