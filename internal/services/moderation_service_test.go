// internal/services/moderation_service_test.go
package services

import (
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkspot/admin-backend/internal/models"
	"github.com/parkspot/admin-backend/internal/workflow"
)

func pendingReviewFields() models.ReviewFields {
	rf := models.ReviewFields{Status: workflow.StatusPending}
	rf.ComputeReviewable()
	return rf
}

func TestGuardTranslatesWorkflowErrors(t *testing.T) {
	s := &ModerationService{}

	t.Run("missing reason is a validation error", func(t *testing.T) {
		rf := pendingReviewFields()
		_, err := s.guard(workflow.KindListing, &rf, workflow.ActionReject, ActionInput{})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("whitespace reason is a validation error", func(t *testing.T) {
		rf := pendingReviewFields()
		_, err := s.guard(workflow.KindVerification, &rf, workflow.ActionRevision, ActionInput{Reason: "  \t "})
		assert.ErrorIs(t, err, ErrValidation)
	})

	t.Run("decided entity is a conflict", func(t *testing.T) {
		rf := models.ReviewFields{Status: workflow.StatusApproved}
		_, err := s.guard(workflow.KindVerification, &rf, workflow.ActionApprove, ActionInput{})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("unsupported action is a conflict", func(t *testing.T) {
		rf := pendingReviewFields()
		_, err := s.guard(workflow.KindRefund, &rf, workflow.ActionRevision, ActionInput{Reason: "resubmit"})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("unknown kind is not found", func(t *testing.T) {
		rf := pendingReviewFields()
		_, err := s.guard(workflow.Kind("karaoke"), &rf, workflow.ActionApprove, ActionInput{})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("legal approval returns the next status", func(t *testing.T) {
		rf := pendingReviewFields()
		next, err := s.guard(workflow.KindListing, &rf, workflow.ActionApprove, ActionInput{})
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusApproved, next)
	})

	t.Run("completing an approved payout is legal", func(t *testing.T) {
		rf := models.ReviewFields{Status: workflow.StatusApproved}
		rf.ComputeReviewable()
		next, err := s.guard(workflow.KindPayout, &rf, workflow.ActionComplete, ActionInput{})
		require.NoError(t, err)
		assert.Equal(t, workflow.StatusCompleted, next)
	})
}

func TestApplyDecisionStampsReview(t *testing.T) {
	adminID := uuid.New()

	t.Run("rejection records reason and review stamp", func(t *testing.T) {
		rf := pendingReviewFields()
		applyDecision(&rf, workflow.StatusRejected, workflow.ActionReject, adminID, ActionInput{Reason: "  blurry photos  "})

		assert.Equal(t, workflow.StatusRejected, rf.Status)
		assert.Equal(t, "blurry photos", rf.RejectionReason)
		assert.Empty(t, rf.RevisionReason)
		require.NotNil(t, rf.ReviewedBy)
		assert.Equal(t, adminID, *rf.ReviewedBy)
		assert.NotNil(t, rf.ReviewedAt)
		assert.Nil(t, rf.ProcessedAt)
		assert.False(t, rf.Reviewable)
	})

	t.Run("revision records the revision reason", func(t *testing.T) {
		rf := pendingReviewFields()
		applyDecision(&rf, workflow.StatusRevisionRequested, workflow.ActionRevision, adminID, ActionInput{Reason: "add a daytime photo"})

		assert.Equal(t, workflow.StatusRevisionRequested, rf.Status)
		assert.Equal(t, "add a daytime photo", rf.RevisionReason)
		assert.Empty(t, rf.RejectionReason)
		assert.False(t, rf.Reviewable)
	})

	t.Run("approval leaves both reasons empty", func(t *testing.T) {
		rf := pendingReviewFields()
		applyDecision(&rf, workflow.StatusApproved, workflow.ActionApprove, adminID, ActionInput{AdminNotes: "checked against registry"})

		assert.Equal(t, workflow.StatusApproved, rf.Status)
		assert.Empty(t, rf.RejectionReason)
		assert.Empty(t, rf.RevisionReason)
		assert.Equal(t, "checked against registry", rf.AdminNotes)
		assert.NotNil(t, rf.ReviewedAt)
	})

	t.Run("completion keeps the original review stamp", func(t *testing.T) {
		rf := pendingReviewFields()
		applyDecision(&rf, workflow.StatusApproved, workflow.ActionApprove, adminID, ActionInput{})
		reviewedAt := rf.ReviewedAt

		applyDecision(&rf, workflow.StatusCompleted, workflow.ActionComplete, adminID, ActionInput{})

		assert.Equal(t, workflow.StatusCompleted, rf.Status)
		assert.Equal(t, reviewedAt, rf.ReviewedAt, "completion must not restamp the review")
		assert.NotNil(t, rf.ProcessedAt)
	})
}

func TestResolveFinalAmount(t *testing.T) {
	t.Run("defaults to requested", func(t *testing.T) {
		a := models.AmountFields{RequestedAmount: 80}
		assert.Equal(t, 80.0, a.ResolveFinalAmount())
		require.NotNil(t, a.FinalAmount)
		assert.Equal(t, 80.0, *a.FinalAmount)
	})

	t.Run("approved amount wins when set", func(t *testing.T) {
		approved := 50.0
		a := models.AmountFields{RequestedAmount: 80, ApprovedAmount: &approved}
		assert.Equal(t, 50.0, a.ResolveFinalAmount())
		assert.Equal(t, 50.0, *a.FinalAmount)
	})
}

func TestAuditAction(t *testing.T) {
	assert.Equal(t, "APPROVE_VERIFICATION", auditAction(workflow.KindVerification, workflow.ActionApprove))
	assert.Equal(t, "COMPLETE_PAYOUT", auditAction(workflow.KindPayout, workflow.ActionComplete))
	assert.Equal(t, "REVISION_LISTING", auditAction(workflow.KindListing, workflow.ActionRevision))
}

func TestPublishOnApproval(t *testing.T) {
	t.Run("approval publishes when auto-publish is on", func(t *testing.T) {
		listing := models.ParkingListing{Listed: models.ListingStatusDraft}
		publishOnApproval(&listing, workflow.ActionApprove, true)
		assert.Equal(t, models.ListingStatusActive, listing.Listed)
	})

	t.Run("auto-publish off leaves the listing unlisted", func(t *testing.T) {
		listing := models.ParkingListing{Listed: models.ListingStatusDraft}
		publishOnApproval(&listing, workflow.ActionApprove, false)
		assert.Equal(t, models.ListingStatusDraft, listing.Listed)
	})

	t.Run("rejection never publishes", func(t *testing.T) {
		listing := models.ParkingListing{Listed: models.ListingStatusDraft}
		publishOnApproval(&listing, workflow.ActionReject, true)
		assert.Equal(t, models.ListingStatusDraft, listing.Listed)
	})
}

func TestSettingBool(t *testing.T) {
	t.Run("stored false is respected", func(t *testing.T) {
		setting := models.AdminSettings{Value: models.JSONB{"value": false}}
		assert.False(t, settingBool(setting, true))
	})

	t.Run("stored true is respected", func(t *testing.T) {
		setting := models.AdminSettings{Value: models.JSONB{"value": true}}
		assert.True(t, settingBool(setting, false))
	})

	t.Run("non-bool value falls back", func(t *testing.T) {
		setting := models.AdminSettings{Value: models.JSONB{"value": "yes"}}
		assert.True(t, settingBool(setting, true))
	})
}

type fakeRefundRail struct {
	verifyErr  error
	issueErr   error
	verified   []string
	issuedWith []float64
}

func (f *fakeRefundRail) VerifyPaymentIntent(reference string) error {
	f.verified = append(f.verified, reference)
	return f.verifyErr
}

func (f *fakeRefundRail) IssueRefund(booking *models.Booking, amount float64, reason string) (string, error) {
	f.issuedWith = append(f.issuedWith, amount)
	if f.issueErr != nil {
		return "", f.issueErr
	}
	return "re_test", nil
}

func approvedRefundRequest(reference string) *models.RefundRequest {
	final := 42.0
	request := &models.RefundRequest{
		AmountFields: models.AmountFields{RequestedAmount: 42, FinalAmount: &final},
		Booking:      models.Booking{Code: "BK-1001", PaymentReference: reference},
	}
	request.Status = workflow.StatusApproved
	return request
}

func TestSettleRefund(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	t.Run("verifies the intent before issuing", func(t *testing.T) {
		rail := &fakeRefundRail{}
		settleRefund(rail, approvedRefundRequest("pi_123"), logger)
		require.Equal(t, []string{"pi_123"}, rail.verified)
		assert.Equal(t, []float64{42}, rail.issuedWith)
	})

	t.Run("unsettled intent blocks the rail call", func(t *testing.T) {
		rail := &fakeRefundRail{verifyErr: ErrConflict}
		settleRefund(rail, approvedRefundRequest("pi_123"), logger)
		assert.Empty(t, rail.issuedWith)
	})

	t.Run("off-rail booking skips verification", func(t *testing.T) {
		rail := &fakeRefundRail{}
		settleRefund(rail, approvedRefundRequest(""), logger)
		assert.Empty(t, rail.verified)
		assert.Len(t, rail.issuedWith, 1)
	})

	t.Run("rail failure does not panic or retry", func(t *testing.T) {
		rail := &fakeRefundRail{issueErr: ErrConflict}
		settleRefund(rail, approvedRefundRequest("pi_123"), logger)
		assert.Len(t, rail.issuedWith, 1)
	})
}
