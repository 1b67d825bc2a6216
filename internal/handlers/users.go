// internal/handlers/users.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/parkspot/admin-backend/internal/i18n"
	"github.com/parkspot/admin-backend/internal/models"
	"github.com/parkspot/admin-backend/internal/services"
	"github.com/parkspot/admin-backend/internal/utils"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GET /admin/users
func (h *UserHandler) GetUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.UserFilter{
		PaginationParams: params,
	}

	if userType := c.Query("user_type"); userType != "" {
		uType := models.UserType(userType)
		filter.UserType = &uType
	}
	if status := c.Query("status"); status != "" {
		uStatus := models.UserStatus(status)
		filter.Status = &uStatus
	}
	if verified := c.Query("verified"); verified != "" {
		if v, err := strconv.ParseBool(verified); err == nil {
			filter.Verified = &v
		}
	}
	if newsletter := c.Query("newsletter"); newsletter != "" {
		if v, err := strconv.ParseBool(newsletter); err == nil {
			filter.Newsletter = &v
		}
	}
	filter.CreatedAfter = parseDateQuery(c, "created_after")
	filter.CreatedBefore = parseDateQuery(c, "created_before")

	users, total, err := h.userService.GetUsers(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(users, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /admin/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"user": user})
}

// PUT /admin/users/:id/status
func (h *UserHandler) UpdateUserStatus(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid user ID", nil)
		return
	}

	adminID, ok := adminIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Status models.UserStatus `json:"status" validate:"required,oneof=active suspended banned"`
		Reason string            `json:"reason,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	user, err := h.userService.UpdateUserStatus(userID, req.Status, adminID, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	var message string
	switch req.Status {
	case models.UserStatusSuspended:
		message = i18n.T(lang, i18n.KeyAdminUserSuspended)
	case models.UserStatusActive:
		message = i18n.T(lang, i18n.KeyAdminUserReactivated)
	default:
		message = i18n.T(lang, i18n.KeyAdminActionSuccess)
	}

	utils.SuccessResponse(c, gin.H{
		"message": message,
		"user":    user,
	})
}

// GET /admin/applications
func (h *UserHandler) GetJobApplications(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.ApplicationFilter{
		PaginationParams: params,
		Position:         c.Query("position"),
	}
	if status := c.Query("status"); status != "" {
		aStatus := models.ApplicationStatus(status)
		filter.Status = &aStatus
	}

	applications, total, err := h.userService.GetJobApplications(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(applications, total, params)
	utils.PaginatedResponse(c, result)
}

// PUT /admin/applications/:id/status
func (h *UserHandler) ReviewJobApplication(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	applicationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid application ID", nil)
		return
	}

	adminID, ok := adminIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		Status models.ApplicationStatus `json:"status" validate:"required,oneof=submitted reviewed accepted declined"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	application, err := h.userService.ReviewJobApplication(applicationID, req.Status, adminID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":     i18n.T(lang, i18n.KeyAdminActionSuccess),
		"application": application,
	})
}
