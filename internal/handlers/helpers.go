// internal/handlers/helpers.go
package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/parkspot/admin-backend/internal/i18n"
	"github.com/parkspot/admin-backend/internal/services"
	"github.com/parkspot/admin-backend/internal/utils"
)

// adminIDFromContext pulls the authenticated admin's id out of the request
// context. A miss means the auth middleware did not run; respond 401.
func adminIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	idStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	adminID, err := uuid.Parse(idStr)
	if err != nil {
		utils.UnauthorizedResponse(c, "")
		return uuid.Nil, false
	}

	return adminID, true
}

// respondServiceError translates service sentinel errors into the response
// envelope. Unrecognized errors become 500s.
func respondServiceError(c *gin.Context, err error) {
	lang := utils.GetLangFromContext(c)

	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, i18n.T(lang, i18n.KeyModerationNotFound))
	case errors.Is(err, services.ErrConflict):
		utils.ConflictResponse(c, i18n.T(lang, i18n.KeyModerationConflict))
	case errors.Is(err, services.ErrValidation):
		utils.BadRequestResponse(c, err.Error(), nil)
	case errors.Is(err, services.ErrForbidden):
		utils.ForbiddenResponse(c, err.Error())
	default:
		utils.InternalErrorResponse(c, err.Error())
	}
}

func parseDateQuery(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return &t
	}
	return nil
}
