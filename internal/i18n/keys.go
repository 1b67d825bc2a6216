// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"
	KeyWarning = "warning"

	// Validation
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationRequired = "validation.required"

	// Auth
	KeyAuthRequired     = "auth.required"
	KeyAuthInvalidToken = "auth.invalid_token"
	KeyAuthTokenExpired = "auth.token_expired"
	KeyAuthLoginFailed  = "auth.login_failed"

	// Admin
	KeyAdminAccessDenied    = "admin.access_denied"
	KeyAdminActionSuccess   = "admin.action_success"
	KeyAdminUserSuspended   = "admin.user_suspended"
	KeyAdminUserReactivated = "admin.user_reactivated"
	KeyAdminSettingsUpdated = "admin.settings_updated"

	// Moderation
	KeyModerationApproved    = "moderation.approved"
	KeyModerationRejected    = "moderation.rejected"
	KeyModerationRevision    = "moderation.revision_requested"
	KeyModerationCompleted   = "moderation.completed"
	KeyModerationConflict    = "moderation.conflict"
	KeyModerationNotFound    = "moderation.not_found"
	KeyModerationNeedsReason = "moderation.reason_required"

	// Entities
	KeyUserNotFound        = "user.not_found"
	KeyListingNotFound     = "listing.not_found"
	KeyBookingNotFound     = "booking.not_found"
	KeyApplicationNotFound = "application.not_found"

	// Listings
	KeyListingUpdated = "listing.updated"
)
