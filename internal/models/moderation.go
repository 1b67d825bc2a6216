// internal/models/moderation.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	"gorm.io/gorm"
)

// VerificationRequest is a host identity-verification submission. Documents
// live in object storage; only their URLs are stored here.
type VerificationRequest struct {
	BaseModel
	ReviewFields
	UserID        uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	DocumentType  DocumentType   `json:"document_type" gorm:"type:varchar(30);not null"`
	DocumentURLs  pq.StringArray `json:"document_urls" gorm:"type:text[]"`
	SubmittedNote string         `json:"submitted_note,omitempty" gorm:"type:text"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (v *VerificationRequest) AfterFind(tx *gorm.DB) error {
	v.ComputeReviewable()
	return nil
}

// RefundRequest references exactly one booking.
type RefundRequest struct {
	BaseModel
	ReviewFields
	AmountFields
	BookingID   uuid.UUID `json:"booking_id" gorm:"type:uuid;not null;index"`
	RequesterID uuid.UUID `json:"requester_id" gorm:"type:uuid;not null;index"`
	Reason      string    `json:"reason" gorm:"type:text"`

	// Relationships
	Booking   Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
	Requester User    `json:"requester,omitempty" gorm:"foreignKey:RequesterID"`
}

func (r *RefundRequest) AfterFind(tx *gorm.DB) error {
	r.ComputeReviewable()
	return nil
}

// PayoutRequest is a host request to withdraw earned balance. The external
// reference holds the payment-rail transaction id once completed.
type PayoutRequest struct {
	BaseModel
	ReviewFields
	AmountFields
	HostID            uuid.UUID `json:"host_id" gorm:"type:uuid;not null;index"`
	Method            string    `json:"method" gorm:"size:50"`
	AccountInfo       JSONB     `json:"account_info" gorm:"type:jsonb"`
	ExternalReference string    `json:"external_reference,omitempty" gorm:"size:255"`

	// Relationships
	Host User `json:"host,omitempty" gorm:"foreignKey:HostID"`
}

func (p *PayoutRequest) AfterFind(tx *gorm.DB) error {
	p.ComputeReviewable()
	return nil
}

// Dispute references a complainant and optionally a respondent and a
// booking. Approving a dispute upholds the complaint; rejecting dismisses it.
type Dispute struct {
	BaseModel
	ReviewFields
	ComplainantID uuid.UUID  `json:"complainant_id" gorm:"type:uuid;not null;index"`
	RespondentID  *uuid.UUID `json:"respondent_id" gorm:"type:uuid;index"`
	BookingID     *uuid.UUID `json:"booking_id" gorm:"type:uuid;index"`
	Subject       string     `json:"subject" gorm:"size:255;not null"`
	Details       string     `json:"details" gorm:"type:text"`
	Resolution    string     `json:"resolution,omitempty" gorm:"type:text"`

	// Relationships
	Complainant User     `json:"complainant,omitempty" gorm:"foreignKey:ComplainantID"`
	Respondent  *User    `json:"respondent,omitempty" gorm:"foreignKey:RespondentID"`
	Booking     *Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}

func (d *Dispute) AfterFind(tx *gorm.DB) error {
	d.ComputeReviewable()
	return nil
}
