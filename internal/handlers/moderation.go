// internal/handlers/moderation.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/parkspot/admin-backend/internal/i18n"
	"github.com/parkspot/admin-backend/internal/services"
	"github.com/parkspot/admin-backend/internal/utils"
	"github.com/parkspot/admin-backend/internal/workflow"
)

// ModerationHandler exposes one queue, one stats rollup, and one set of
// action endpoints per moderation kind. Handlers are built per kind at
// route registration so the URL space stays explicit.
type ModerationHandler struct {
	moderationService *services.ModerationService
	statsService      *services.StatsService
}

type actionRequest struct {
	Reason         string   `json:"reason,omitempty"`
	AdminNotes     string   `json:"admin_notes,omitempty"`
	ApprovedAmount *float64 `json:"approved_amount,omitempty"`
	Reference      string   `json:"reference,omitempty"`
}

func NewModerationHandler(moderationService *services.ModerationService, statsService *services.StatsService) *ModerationHandler {
	return &ModerationHandler{
		moderationService: moderationService,
		statsService:      statsService,
	}
}

// Queue returns the list handler for one kind.
// GET /admin/{kind}
func (h *ModerationHandler) Queue(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := h.queueFilter(c)

		var (
			data  interface{}
			total int64
			err   error
		)
		switch kind {
		case workflow.KindVerification:
			data, total, err = h.moderationService.GetVerificationQueue(filter)
		case workflow.KindRefund:
			data, total, err = h.moderationService.GetRefundQueue(filter)
		case workflow.KindPayout:
			data, total, err = h.moderationService.GetPayoutQueue(filter)
		case workflow.KindListing:
			data, total, err = h.moderationService.GetListingQueue(filter)
		case workflow.KindDispute:
			data, total, err = h.moderationService.GetDisputeQueue(filter)
		}
		if err != nil {
			respondServiceError(c, err)
			return
		}

		result := utils.CreatePaginationResult(data, total, filter.PaginationParams)
		utils.PaginatedResponse(c, result)
	}
}

// KindStats returns the per-queue rollup handler.
// GET /admin/{kind}/stats
func (h *ModerationHandler) KindStats(kind workflow.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := h.statsService.GetKindStats(c.Request.Context(), kind)
		if err != nil {
			respondServiceError(c, err)
			return
		}

		utils.SuccessResponse(c, gin.H{
			"kind":  kind,
			"stats": stats,
		})
	}
}

// Act returns the decision handler for one kind and action pair.
// POST /admin/{kind}/:id/{action}
func (h *ModerationHandler) Act(kind workflow.Kind, action workflow.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := utils.GetLangFromContext(c)

		entityID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			utils.BadRequestResponse(c, "Invalid entity ID", nil)
			return
		}

		adminID, ok := adminIDFromContext(c)
		if !ok {
			return
		}

		var req actionRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&req); err != nil {
				utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
				return
			}
		}

		entity, err := h.moderationService.Perform(kind, entityID, adminID, action, services.ActionInput{
			Reason:         req.Reason,
			AdminNotes:     req.AdminNotes,
			ApprovedAmount: req.ApprovedAmount,
			Reference:      req.Reference,
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}

		// A fresh decision changes queue counters on the next dashboard load.
		h.statsService.InvalidateCache(c.Request.Context())

		var message string
		switch action {
		case workflow.ActionApprove:
			message = i18n.T(lang, i18n.KeyModerationApproved)
		case workflow.ActionReject:
			message = i18n.T(lang, i18n.KeyModerationRejected)
		case workflow.ActionRevision:
			message = i18n.T(lang, i18n.KeyModerationRevision)
		case workflow.ActionComplete:
			message = i18n.T(lang, i18n.KeyModerationCompleted)
		}

		utils.SuccessResponse(c, gin.H{
			"message": message,
			"entity":  entity,
		})
	}
}

// GET /admin/dashboard/stats
func (h *ModerationHandler) GetDashboardStats(c *gin.Context) {
	stats := h.statsService.GetDashboardStats(c.Request.Context())

	utils.SuccessResponse(c, gin.H{
		"stats": stats,
	})
}

func (h *ModerationHandler) queueFilter(c *gin.Context) services.QueueFilter {
	filter := services.QueueFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	switch status := c.Query("status"); status {
	case "", "pending":
		// Queue default: pending only.
	case "all":
		filter.AllStatuses = true
	default:
		s := workflow.Status(status)
		filter.Status = &s
	}

	if subject := c.Query("subject_id"); subject != "" {
		if id, err := uuid.Parse(subject); err == nil {
			filter.SubjectID = &id
		}
	}
	filter.CreatedAfter = parseDateQuery(c, "created_after")
	filter.CreatedBefore = parseDateQuery(c, "created_before")

	return filter
}
