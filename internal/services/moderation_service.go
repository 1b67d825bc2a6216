// internal/services/moderation_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/parkspot/admin-backend/internal/models"
	"github.com/parkspot/admin-backend/internal/utils"
	"github.com/parkspot/admin-backend/internal/workflow"
)

// ModerationService is the authoritative side of every moderation decision.
// Clients run the same transition guard before calling; the service runs it
// again against current database state, so a stale client loses the race
// with a conflict rather than corrupting a decided entity.
type ModerationService struct {
	db                  *gorm.DB
	logger              *logrus.Logger
	notificationService *NotificationService
	paymentService      *PaymentService
}

// ActionInput carries the admin-supplied parts of a decision. Reason is
// mandatory for reject and revision, optional elsewhere. ApprovedAmount is
// honored only on refund and payout approvals. Reference overrides the
// rail-generated id on payout completion.
type ActionInput struct {
	Reason         string   `json:"reason,omitempty"`
	AdminNotes     string   `json:"admin_notes,omitempty"`
	ApprovedAmount *float64 `json:"approved_amount,omitempty"`
	Reference      string   `json:"reference,omitempty"`
}

// QueueFilter narrows a moderation queue listing. A nil Status means the
// queue defaults to pending entries only; pass a concrete status (or use
// the "all" query value, decoded to nil Status plus AllStatuses) to widen.
type QueueFilter struct {
	utils.PaginationParams
	Status        *workflow.Status `json:"status,omitempty"`
	AllStatuses   bool             `json:"-"`
	SubjectID     *uuid.UUID       `json:"subject_id,omitempty"`
	CreatedAfter  *time.Time       `json:"created_after,omitempty"`
	CreatedBefore *time.Time       `json:"created_before,omitempty"`
}

func NewModerationService(db *gorm.DB, logger *logrus.Logger, notificationService *NotificationService, paymentService *PaymentService) *ModerationService {
	return &ModerationService{
		db:                  db,
		logger:              logger,
		notificationService: notificationService,
		paymentService:      paymentService,
	}
}

// Perform applies one moderation action to one entity and returns the
// updated entity. The returned value is authoritative; clients replace
// their local copy with it.
func (s *ModerationService) Perform(kind workflow.Kind, entityID, adminID uuid.UUID, action workflow.Action, input ActionInput) (interface{}, error) {
	switch kind {
	case workflow.KindVerification:
		return s.performVerification(entityID, adminID, action, input)
	case workflow.KindRefund:
		return s.performRefund(entityID, adminID, action, input)
	case workflow.KindPayout:
		return s.performPayout(entityID, adminID, action, input)
	case workflow.KindListing:
		return s.performListing(entityID, adminID, action, input)
	case workflow.KindDispute:
		return s.performDispute(entityID, adminID, action, input)
	default:
		return nil, fmt.Errorf("%w: unknown moderation kind %q", ErrNotFound, kind)
	}
}

func (s *ModerationService) performVerification(entityID, adminID uuid.UUID, action workflow.Action, input ActionInput) (*models.VerificationRequest, error) {
	var request models.VerificationRequest
	if err := s.db.Preload("User").First(&request, entityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: verification request", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	next, err := s.guard(workflow.KindVerification, &request.ReviewFields, action, input)
	if err != nil {
		return nil, err
	}

	applyDecision(&request.ReviewFields, next, action, adminID, input)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&request).Error; err != nil {
			return fmt.Errorf("failed to save verification request: %w", err)
		}
		if action == workflow.ActionApprove {
			if err := tx.Model(&models.User{}).Where("id = ?", request.UserID).
				Update("identity_verified", true).Error; err != nil {
				return fmt.Errorf("failed to mark user verified: %w", err)
			}
			request.User.IdentityVerified = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	go s.createAuditLog(adminID, auditAction(workflow.KindVerification, action), "verification_request", &request.ID, nil,
		map[string]interface{}{"status": request.Status, "reason": input.Reason})
	go s.sendVerificationDecisionEmail(&request, action, input.Reason)

	return &request, nil
}

func (s *ModerationService) performRefund(entityID, adminID uuid.UUID, action workflow.Action, input ActionInput) (*models.RefundRequest, error) {
	var request models.RefundRequest
	if err := s.db.Preload("Booking").Preload("Requester").First(&request, entityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: refund request", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	next, err := s.guard(workflow.KindRefund, &request.ReviewFields, action, input)
	if err != nil {
		return nil, err
	}

	if action == workflow.ActionApprove {
		if input.ApprovedAmount != nil {
			if *input.ApprovedAmount <= 0 {
				return nil, fmt.Errorf("%w: approved amount must be positive", ErrValidation)
			}
			if *input.ApprovedAmount > request.RequestedAmount {
				return nil, fmt.Errorf("%w: approved amount %.2f exceeds requested %.2f",
					ErrValidation, *input.ApprovedAmount, request.RequestedAmount)
			}
			request.ApprovedAmount = input.ApprovedAmount
		}
		request.ResolveFinalAmount()
	}

	applyDecision(&request.ReviewFields, next, action, adminID, input)

	if err := s.db.Save(&request).Error; err != nil {
		return nil, fmt.Errorf("failed to save refund request: %w", err)
	}

	// Money moves after the decision is durable. A rail failure leaves the
	// decision standing; the refund is retried from the rail dashboard.
	if action == workflow.ActionApprove {
		settleRefund(s.paymentService, &request, s.logger)
	}

	go s.createAuditLog(adminID, auditAction(workflow.KindRefund, action), "refund_request", &request.ID, nil,
		map[string]interface{}{"status": request.Status, "final_amount": request.FinalAmount, "reason": input.Reason})
	go s.sendRefundDecisionEmail(&request, action, input.Reason)

	return &request, nil
}

func (s *ModerationService) performPayout(entityID, adminID uuid.UUID, action workflow.Action, input ActionInput) (*models.PayoutRequest, error) {
	var payout models.PayoutRequest
	if err := s.db.Preload("Host").First(&payout, entityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: payout request", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	next, err := s.guard(workflow.KindPayout, &payout.ReviewFields, action, input)
	if err != nil {
		return nil, err
	}

	if action == workflow.ActionApprove {
		if input.ApprovedAmount != nil {
			if *input.ApprovedAmount <= 0 {
				return nil, fmt.Errorf("%w: approved amount must be positive", ErrValidation)
			}
			if *input.ApprovedAmount > payout.RequestedAmount {
				return nil, fmt.Errorf("%w: approved amount %.2f exceeds requested %.2f",
					ErrValidation, *input.ApprovedAmount, payout.RequestedAmount)
			}
			payout.ApprovedAmount = input.ApprovedAmount
		}
		payout.ResolveFinalAmount()
	}

	if action == workflow.ActionComplete {
		reference := strings.TrimSpace(input.Reference)
		if reference == "" {
			ref, err := s.paymentService.SendPayout(&payout)
			if err != nil {
				return nil, fmt.Errorf("payout not completed: %w", err)
			}
			reference = ref
		}
		payout.ExternalReference = reference
	}

	applyDecision(&payout.ReviewFields, next, action, adminID, input)

	if err := s.db.Save(&payout).Error; err != nil {
		return nil, fmt.Errorf("failed to save payout request: %w", err)
	}

	go s.createAuditLog(adminID, auditAction(workflow.KindPayout, action), "payout_request", &payout.ID, nil,
		map[string]interface{}{"status": payout.Status, "final_amount": payout.FinalAmount, "reference": payout.ExternalReference})
	if action == workflow.ActionComplete {
		go s.sendPayoutCompletedEmail(&payout)
	}

	return &payout, nil
}

func (s *ModerationService) performListing(entityID, adminID uuid.UUID, action workflow.Action, input ActionInput) (*models.ParkingListing, error) {
	var listing models.ParkingListing
	if err := s.db.Preload("Host").First(&listing, entityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: parking listing", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	next, err := s.guard(workflow.KindListing, &listing.ReviewFields, action, input)
	if err != nil {
		return nil, err
	}

	applyDecision(&listing.ReviewFields, next, action, adminID, input)

	publishOnApproval(&listing, action, s.autoPublishApproved())

	if err := s.db.Save(&listing).Error; err != nil {
		return nil, fmt.Errorf("failed to save listing: %w", err)
	}

	go s.createAuditLog(adminID, auditAction(workflow.KindListing, action), "parking_listing", &listing.ID, nil,
		map[string]interface{}{"status": listing.Status, "listed": listing.Listed, "reason": input.Reason})
	go s.sendListingDecisionEmail(&listing, action, input.Reason)

	return &listing, nil
}

func (s *ModerationService) performDispute(entityID, adminID uuid.UUID, action workflow.Action, input ActionInput) (*models.Dispute, error) {
	var dispute models.Dispute
	if err := s.db.Preload("Complainant").Preload("Respondent").Preload("Booking").First(&dispute, entityID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: dispute", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	next, err := s.guard(workflow.KindDispute, &dispute.ReviewFields, action, input)
	if err != nil {
		return nil, err
	}

	applyDecision(&dispute.ReviewFields, next, action, adminID, input)

	if input.AdminNotes != "" {
		dispute.Resolution = input.AdminNotes
	} else if input.Reason != "" {
		dispute.Resolution = input.Reason
	}

	if err := s.db.Save(&dispute).Error; err != nil {
		return nil, fmt.Errorf("failed to save dispute: %w", err)
	}

	go s.createAuditLog(adminID, auditAction(workflow.KindDispute, action), "dispute", &dispute.ID, nil,
		map[string]interface{}{"status": dispute.Status, "resolution": dispute.Resolution})
	go s.sendDisputeResolvedEmail(&dispute, action)

	return &dispute, nil
}

// guard re-runs the transition check against current state and translates
// workflow errors into the service error taxonomy.
func (s *ModerationService) guard(kind workflow.Kind, rf *models.ReviewFields, action workflow.Action, input ActionInput) (workflow.Status, error) {
	rf.ComputeReviewable()
	if err := workflow.Guard(kind, rf.Status, rf.Reviewable, action, input.Reason); err != nil {
		switch {
		case errors.Is(err, workflow.ErrReasonRequired):
			return "", fmt.Errorf("%w: %v", ErrValidation, err)
		case errors.Is(err, workflow.ErrUnknownKind):
			return "", fmt.Errorf("%w: %v", ErrNotFound, err)
		default:
			return "", fmt.Errorf("%w: %v", ErrConflict, err)
		}
	}

	next, _ := workflow.Next(kind, rf.Status, action)
	return next, nil
}

// applyDecision mutates the shared review fields for one transition. The
// first decision out of pending stamps ReviewedAt; completion stamps
// ProcessedAt and leaves the original review stamp untouched.
func applyDecision(rf *models.ReviewFields, next workflow.Status, action workflow.Action, adminID uuid.UUID, input ActionInput) {
	now := time.Now()
	rf.Status = next

	switch action {
	case workflow.ActionApprove, workflow.ActionReject, workflow.ActionRevision:
		rf.ReviewedBy = &adminID
		rf.ReviewedAt = &now
	case workflow.ActionComplete:
		rf.ProcessedAt = &now
	}

	switch action {
	case workflow.ActionReject:
		rf.RejectionReason = strings.TrimSpace(input.Reason)
	case workflow.ActionRevision:
		rf.RevisionReason = strings.TrimSpace(input.Reason)
	}

	if input.AdminNotes != "" {
		rf.AdminNotes = input.AdminNotes
	}

	rf.ComputeReviewable()
}

// Moderation queues

func (s *ModerationService) GetVerificationQueue(filter QueueFilter) ([]models.VerificationRequest, int64, error) {
	query := s.applyQueueFilter(s.db.Model(&models.VerificationRequest{}).Preload("User"), filter, "user_id")

	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Joins("JOIN users ON users.id = verification_requests.user_id").
			Where("users.username ILIKE ? OR users.email ILIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count verification requests: %w", err)
	}

	query = utils.ApplySort(query, filter.PaginationParams, []string{"created_at", "updated_at", "status"})
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var requests []models.VerificationRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch verification requests: %w", err)
	}

	return requests, total, nil
}

func (s *ModerationService) GetRefundQueue(filter QueueFilter) ([]models.RefundRequest, int64, error) {
	query := s.applyQueueFilter(s.db.Model(&models.RefundRequest{}).Preload("Booking").Preload("Requester"), filter, "requester_id")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count refund requests: %w", err)
	}

	query = utils.ApplySort(query, filter.PaginationParams, []string{"created_at", "updated_at", "status", "requested_amount"})
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var requests []models.RefundRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch refund requests: %w", err)
	}

	return requests, total, nil
}

func (s *ModerationService) GetPayoutQueue(filter QueueFilter) ([]models.PayoutRequest, int64, error) {
	query := s.applyQueueFilter(s.db.Model(&models.PayoutRequest{}).Preload("Host"), filter, "host_id")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payout requests: %w", err)
	}

	query = utils.ApplySort(query, filter.PaginationParams, []string{"created_at", "updated_at", "status", "requested_amount"})
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var payouts []models.PayoutRequest
	if err := query.Find(&payouts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch payout requests: %w", err)
	}

	return payouts, total, nil
}

func (s *ModerationService) GetListingQueue(filter QueueFilter) ([]models.ParkingListing, int64, error) {
	query := s.applyQueueFilter(s.db.Model(&models.ParkingListing{}).Preload("Host"), filter, "host_id")

	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR address ILIKE ? OR city ILIKE ?", searchTerm, searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count listings: %w", err)
	}

	query = utils.ApplySort(query, filter.PaginationParams, []string{"created_at", "updated_at", "title", "city", "status"})
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var listings []models.ParkingListing
	if err := query.Find(&listings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch listings: %w", err)
	}

	return listings, total, nil
}

func (s *ModerationService) GetDisputeQueue(filter QueueFilter) ([]models.Dispute, int64, error) {
	query := s.applyQueueFilter(s.db.Model(&models.Dispute{}).Preload("Complainant").Preload("Respondent").Preload("Booking"), filter, "complainant_id")

	if filter.Search != "" {
		searchTerm := "%" + filter.Search + "%"
		query = query.Where("subject ILIKE ? OR details ILIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count disputes: %w", err)
	}

	query = utils.ApplySort(query, filter.PaginationParams, []string{"created_at", "updated_at", "subject", "status"})
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var disputes []models.Dispute
	if err := query.Find(&disputes).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch disputes: %w", err)
	}

	return disputes, total, nil
}

func (s *ModerationService) applyQueueFilter(query *gorm.DB, filter QueueFilter, subjectColumn string) *gorm.DB {
	switch {
	case filter.Status != nil:
		query = query.Where("status = ?", *filter.Status)
	case !filter.AllStatuses:
		query = query.Where("status = ?", workflow.StatusPending)
	}

	if filter.SubjectID != nil {
		query = query.Where(subjectColumn+" = ?", *filter.SubjectID)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}

	return query
}

// Helpers

func auditAction(kind workflow.Kind, action workflow.Action) string {
	return strings.ToUpper(string(action)) + "_" + strings.ToUpper(string(kind))
}

func (s *ModerationService) autoPublishApproved() bool {
	var setting models.AdminSettings
	if err := s.db.Where("category = ? AND key = ?",
		models.SettingCategoryListings, models.SettingKeyAutoPublishApproved).
		First(&setting).Error; err != nil {
		return true
	}
	return settingBool(setting, true)
}

// refundRail is the slice of the payment service that refund settlement
// needs.
type refundRail interface {
	VerifyPaymentIntent(reference string) error
	IssueRefund(booking *models.Booking, amount float64, reason string) (string, error)
}

// settleRefund pushes an approved refund through the rail. The intent is
// verified first so a charge that never settled is not refunded blind.
// Failures are logged and left for the rail dashboard; the decision in the
// database already stands.
func settleRefund(rail refundRail, request *models.RefundRequest, logger *logrus.Logger) {
	booking := &request.Booking
	fields := logrus.Fields{
		"refund_request_id": request.ID,
		"booking_code":      booking.Code,
	}

	if booking.PaymentReference != "" {
		if err := rail.VerifyPaymentIntent(booking.PaymentReference); err != nil {
			logger.WithError(err).WithFields(fields).Warn("refund approved but payment intent not settled")
			return
		}
	}

	if _, err := rail.IssueRefund(booking, *request.FinalAmount, request.Reason); err != nil {
		logger.WithError(err).WithFields(fields).Warn("refund approved but rail call failed")
	}
}

func settingBool(setting models.AdminSettings, fallback bool) bool {
	if v, ok := setting.Value["value"].(bool); ok {
		return v
	}
	return fallback
}

// publishOnApproval flips an approved listing live when the platform is
// configured to auto-publish. Any other action leaves Listed alone.
func publishOnApproval(listing *models.ParkingListing, action workflow.Action, autoPublish bool) {
	if action == workflow.ActionApprove && autoPublish {
		listing.Listed = models.ListingStatusActive
	}
}

func (s *ModerationService) createAuditLog(userID uuid.UUID, action, resourceType string, resourceID *uuid.UUID, oldValues, newValues map[string]interface{}) {
	auditLog := &models.AuditLog{
		UserID:       &userID,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		OldValues:    models.JSONB(oldValues),
		NewValues:    models.JSONB(newValues),
	}

	s.db.Create(auditLog)
}

func (s *ModerationService) sendVerificationDecisionEmail(request *models.VerificationRequest, action workflow.Action, reason string) {
	if err := s.notificationService.SendVerificationDecisionEmail(request, action, reason); err != nil {
		s.logger.WithError(err).Warn("failed to send verification decision email")
	}
}

func (s *ModerationService) sendRefundDecisionEmail(request *models.RefundRequest, action workflow.Action, reason string) {
	if err := s.notificationService.SendRefundDecisionEmail(request, action, reason); err != nil {
		s.logger.WithError(err).Warn("failed to send refund decision email")
	}
}

func (s *ModerationService) sendPayoutCompletedEmail(payout *models.PayoutRequest) {
	if err := s.notificationService.SendPayoutCompletedEmail(payout); err != nil {
		s.logger.WithError(err).Warn("failed to send payout completed email")
	}
}

func (s *ModerationService) sendListingDecisionEmail(listing *models.ParkingListing, action workflow.Action, reason string) {
	if err := s.notificationService.SendListingDecisionEmail(listing, action, reason); err != nil {
		s.logger.WithError(err).Warn("failed to send listing decision email")
	}
}

func (s *ModerationService) sendDisputeResolvedEmail(dispute *models.Dispute, action workflow.Action) {
	if err := s.notificationService.SendDisputeResolvedEmail(dispute, action); err != nil {
		s.logger.WithError(err).Warn("failed to send dispute resolved email")
	}
}
