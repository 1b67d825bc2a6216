// internal/handlers/documents.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/parkspot/admin-backend/internal/services"
	"github.com/parkspot/admin-backend/internal/utils"
)

type DocumentHandler struct {
	storageService *services.StorageService
}

func NewDocumentHandler(storageService *services.StorageService) *DocumentHandler {
	return &DocumentHandler{
		storageService: storageService,
	}
}

// GET /admin/documents/presign?key=...
// Identity documents are private objects; reviewers read them through a
// short-lived link.
func (h *DocumentHandler) PresignDocument(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		utils.BadRequestResponse(c, "Missing document key", nil)
		return
	}

	url, err := h.storageService.GeneratePresignedURL(key, 15*time.Minute)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"url":        url,
		"expires_in": int((15 * time.Minute).Seconds()),
	})
}

// POST /admin/uploads
func (h *DocumentHandler) UploadFile(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		utils.BadRequestResponse(c, "Missing file", nil)
		return
	}
	defer file.Close()

	category := c.PostForm("category")
	options := h.storageService.GetDefaultUploadOptions(category)

	result, err := h.storageService.UploadFile(file, header, options)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{"upload": result})
}
