// internal/handlers/settings.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/parkspot/admin-backend/internal/i18n"
	"github.com/parkspot/admin-backend/internal/services"
	"github.com/parkspot/admin-backend/internal/utils"
)

type SettingsHandler struct {
	settingsService *services.SettingsService
}

func NewSettingsHandler(settingsService *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// GET /admin/settings
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsService.GetSettings()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"settings": settings})
}

// PUT /admin/settings
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	adminID, ok := adminIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Category string      `json:"category" validate:"required"`
		Key      string      `json:"key" validate:"required"`
		Value    interface{} `json:"value" validate:"required"`
		DataType string      `json:"data_type" validate:"required,oneof=string number boolean json"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	if err := h.settingsService.UpdateSetting(req.Category, req.Key, req.Value, req.DataType, adminID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminSettingsUpdated),
	})
}

// GET /admin/audit-logs
func (h *SettingsHandler) GetAuditLogs(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.AuditLogFilter{
		PaginationParams: params,
		Action:           c.Query("action"),
		ResourceType:     c.Query("resource_type"),
	}
	if user := c.Query("user_id"); user != "" {
		if id, err := uuid.Parse(user); err == nil {
			filter.UserID = &id
		}
	}
	if after := c.Query("after"); after != "" {
		if t, err := time.Parse("2006-01-02", after); err == nil {
			filter.After = &t
		}
	}
	if before := c.Query("before"); before != "" {
		if t, err := time.Parse("2006-01-02", before); err == nil {
			filter.Before = &t
		}
	}

	logs, total, err := h.settingsService.GetAuditLogs(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(logs, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /admin/notifications
func (h *SettingsHandler) GetNotifications(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	unreadOnly := false
	if raw := c.Query("unread"); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			unreadOnly = v
		}
	}

	notifications, total, err := h.settingsService.GetNotifications(params, unreadOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(notifications, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/notifications/:id/read
func (h *SettingsHandler) MarkNotificationRead(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid notification ID", nil)
		return
	}

	if err := h.settingsService.MarkNotificationRead(notificationID); err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyAdminActionSuccess),
	})
}
