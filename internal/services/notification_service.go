// internal/services/notification_service.go
package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkspot/admin-backend/internal/config"
	"github.com/parkspot/admin-backend/internal/models"
	"github.com/parkspot/admin-backend/internal/workflow"
)

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
}

type EmailTemplate struct {
	Subject string
	Body    string
}

type NotificationRequest struct {
	UserID    uuid.UUID              `json:"user_id" validate:"required"`
	Type      string                 `json:"type" validate:"required"`
	Title     string                 `json:"title" validate:"required"`
	Message   string                 `json:"message" validate:"required"`
	Data      map[string]interface{} `json:"data,omitempty"`
	SendEmail bool                   `json:"send_email,omitempty"`
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	return &NotificationService{
		db:     db,
		config: config,
	}
}

// Moderation decision notifications

func (s *NotificationService) SendVerificationDecisionEmail(request *models.VerificationRequest, action workflow.Action, reason string) error {
	user := request.User

	data := map[string]interface{}{
		"Username": user.Username,
		"Reason":   reason,
	}

	var subject string
	var tmpl EmailTemplate
	switch action {
	case workflow.ActionApprove:
		subject = "Identity Verification Approved"
		tmpl = s.getEmailTemplate("verification_approved")
	case workflow.ActionReject:
		subject = "Identity Verification Rejected"
		tmpl = s.getEmailTemplate("verification_rejected")
	case workflow.ActionRevision:
		subject = "Identity Verification Needs Changes"
		tmpl = s.getEmailTemplate("verification_revision")
	default:
		return nil
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

func (s *NotificationService) SendListingDecisionEmail(listing *models.ParkingListing, action workflow.Action, reason string) error {
	host := listing.Host

	data := map[string]interface{}{
		"HostName":   host.Username,
		"Title":      listing.Title,
		"Reason":     reason,
		"ListingURL": fmt.Sprintf("%s/listings/%s", s.config.Frontend.BaseURL, listing.ID),
	}

	var subject string
	var tmpl EmailTemplate
	switch action {
	case workflow.ActionApprove:
		subject = "Listing Approved - " + listing.Title
		tmpl = s.getEmailTemplate("listing_approved")
	case workflow.ActionReject:
		subject = "Listing Rejected - " + listing.Title
		tmpl = s.getEmailTemplate("listing_rejected")
	case workflow.ActionRevision:
		subject = "Listing Needs Changes - " + listing.Title
		tmpl = s.getEmailTemplate("listing_revision")
	default:
		return nil
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(host.Email, subject, body)
}

func (s *NotificationService) SendRefundDecisionEmail(request *models.RefundRequest, action workflow.Action, reason string) error {
	requester := request.Requester

	data := map[string]interface{}{
		"Username":    requester.Username,
		"BookingCode": request.Booking.Code,
		"Reason":      reason,
	}
	if request.FinalAmount != nil {
		data["Amount"] = fmt.Sprintf("%.2f", *request.FinalAmount)
	}

	var subject string
	var tmpl EmailTemplate
	switch action {
	case workflow.ActionApprove:
		subject = "Refund Approved - " + request.Booking.Code
		tmpl = s.getEmailTemplate("refund_approved")
	case workflow.ActionReject:
		subject = "Refund Request Rejected - " + request.Booking.Code
		tmpl = s.getEmailTemplate("refund_rejected")
	default:
		return nil
	}

	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(requester.Email, subject, body)
}

func (s *NotificationService) SendPayoutCompletedEmail(payout *models.PayoutRequest) error {
	host := payout.Host

	data := map[string]interface{}{
		"HostName":  host.Username,
		"Reference": payout.ExternalReference,
	}
	if payout.FinalAmount != nil {
		data["Amount"] = fmt.Sprintf("%.2f", *payout.FinalAmount)
	}

	subject := "Payout Completed"
	tmpl := s.getEmailTemplate("payout_completed")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(host.Email, subject, body)
}

func (s *NotificationService) SendDisputeResolvedEmail(dispute *models.Dispute, action workflow.Action) error {
	complainant := dispute.Complainant

	outcome := "upheld"
	if action == workflow.ActionReject {
		outcome = "dismissed"
	}

	data := map[string]interface{}{
		"Username":   complainant.Username,
		"Subject":    dispute.Subject,
		"Outcome":    outcome,
		"Resolution": dispute.Resolution,
	}

	subject := "Dispute Resolved - " + dispute.Subject
	tmpl := s.getEmailTemplate("dispute_resolved")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(complainant.Email, subject, body)
}

// Admin notifications

func (s *NotificationService) SendUserStatusChangeNotification(user *models.User, oldStatus models.UserStatus, reason string) error {
	data := map[string]interface{}{
		"Username":  user.Username,
		"NewStatus": user.Status,
		"OldStatus": oldStatus,
		"Reason":    reason,
	}

	subject := "Account Status Update"
	tmpl := s.getEmailTemplate("user_status_change")
	body, err := s.renderTemplate(tmpl.Body, data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	return s.sendEmail(user.Email, subject, body)
}

// NotifyAdmins records an in-app notification on the admin dashboard.
func (s *NotificationService) NotifyAdmins(notifType, title, message, priority, resourceType string, resourceID *uuid.UUID) error {
	notification := &models.AdminNotification{
		Type:                notifType,
		Title:               title,
		Message:             message,
		Priority:            priority,
		RelatedResourceType: resourceType,
		RelatedResourceID:   resourceID,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// Generic notification methods

func (s *NotificationService) SendCustomNotification(req *NotificationRequest) error {
	notification := &models.AdminNotification{
		Type:    req.Type,
		Title:   req.Title,
		Message: req.Message,
	}

	if err := s.db.Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if req.SendEmail {
		var user models.User
		if err := s.db.First(&user, req.UserID).Error; err != nil {
			return fmt.Errorf("user not found: %w", err)
		}

		return s.sendEmail(user.Email, req.Title, req.Message)
	}

	return nil
}

// Helper methods

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		// Email not configured, just log
		fmt.Printf("Email would be sent to %s: %s\n", to, subject)
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)

	msg := []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s", to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(templateStr string, data interface{}) (string, error) {
	tmpl, err := template.New("email").Parse(templateStr)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

func (s *NotificationService) getEmailTemplate(templateType string) EmailTemplate {
	// In a real implementation, these would be loaded from files or database
	templates := map[string]EmailTemplate{
		"verification_approved": {
			Subject: "Identity Verification Approved",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>You're verified!</h2>
	<p>Hello {{.Username}},</p>
	<p>Your identity documents have been reviewed and approved. You can now list parking spaces.</p>
	<p>Best regards,<br>ParkSpot Team</p>
</body>
</html>`,
		},
		"verification_rejected": {
			Subject: "Identity Verification Rejected",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Verification Rejected</h2>
	<p>Hello {{.Username}},</p>
	<p>Unfortunately we could not verify your identity documents.</p>
	<p>Reason: {{.Reason}}</p>
	<p>You may submit a new verification request at any time.</p>
	<p>Best regards,<br>ParkSpot Team</p>
</body>
</html>`,
		},
		"verification_revision": {
			Subject: "Identity Verification Needs Changes",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Changes Requested</h2>
	<p>Hello {{.Username}},</p>
	<p>Your verification documents need changes before we can approve them:</p>
	<p>{{.Reason}}</p>
	<p>Please update your submission and resubmit.</p>
	<p>Best regards,<br>ParkSpot Team</p>
</body>
</html>`,
		},
		"listing_approved": {
			Subject: "Listing Approved",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Listing Approved!</h2>
	<p>Hello {{.HostName}},</p>
	<p>Your parking listing "{{.Title}}" has been approved and is now visible to drivers.</p>
	<a href="{{.ListingURL}}">View Listing</a>
	<p>Best regards,<br>ParkSpot Team</p>
</body>
</html>`,
		},
		"listing_rejected": {
			Subject: "Listing Rejected",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Listing Rejected</h2>
	<p>Hello {{.HostName}},</p>
	<p>Your parking listing "{{.Title}}" was rejected.</p>
	<p>Reason: {{.Reason}}</p>
	<p>Best regards,<br>ParkSpot Team</p>
</body>
</html>`,
		},
		"listing_revision": {
			Subject: "Listing Needs Changes",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Changes Requested</h2>
	<p>Hello {{.HostName}},</p>
	<p>Your parking listing "{{.Title}}" needs changes before it can go live:</p>
	<p>{{.Reason}}</p>
	<a href="{{.ListingURL}}">Edit Listing</a>
	<p>Best regards,<br>ParkSpot Team</p>
</body>
</html>`,
		},
		"refund_approved": {
			Subject: "Refund Approved",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Refund Approved</h2>
	<p>Hello {{.Username}},</p>
	<p>Your refund request for booking {{.BookingCode}} has been approved for ${{.Amount}}.</p>
	<p>The refund should appear on your statement within 5-10 business days.</p>
	<p>Best regards,<br>ParkSpot Team</p>
</body>
</html>`,
		},
		"refund_rejected": {
			Subject: "Refund Request Rejected",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Refund Request Rejected</h2>
	<p>Hello {{.Username}},</p>
	<p>Your refund request for booking {{.BookingCode}} was not approved.</p>
	<p>Reason: {{.Reason}}</p>
	<p>Best regards,<br>ParkSpot Team</p>
</body>
</html>`,
		},
		"payout_completed": {
			Subject: "Payout Completed",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Payout Sent</h2>
	<p>Hello {{.HostName}},</p>
	<p>Your payout of ${{.Amount}} has been sent (reference {{.Reference}}).</p>
	<p>Best regards,<br>ParkSpot Team</p>
</body>
</html>`,
		},
		"dispute_resolved": {
			Subject: "Dispute Resolved",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Dispute Resolved</h2>
	<p>Hello {{.Username}},</p>
	<p>Your dispute "{{.Subject}}" has been {{.Outcome}}.</p>
	<p>{{.Resolution}}</p>
	<p>Best regards,<br>ParkSpot Team</p>
</body>
</html>`,
		},
		"user_status_change": {
			Subject: "Account Status Update",
			Body: `
<!DOCTYPE html>
<html>
<body>
	<h2>Account Status Changed</h2>
	<p>Hello {{.Username}},</p>
	<p>Your account status has been changed from {{.OldStatus}} to {{.NewStatus}}.</p>
	{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
	<p>If you believe this was done in error, please contact support.</p>
	<p>Best regards,<br>ParkSpot Team</p>
</body>
</html>`,
		},
	}

	if tmpl, exists := templates[templateType]; exists {
		return tmpl
	}

	return EmailTemplate{
		Subject: "Notification from ParkSpot",
		Body:    "<p>{{.Message}}</p>",
	}
}
