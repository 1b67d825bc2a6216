// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkspot/admin-backend/internal/workflow"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// ReviewFields is embedded by every moderatable entity. Status is the
// single source of truth for lifecycle position; Reviewable is derived
// server-side and serialized for clients, which never recompute it.
type ReviewFields struct {
	Status          workflow.Status `json:"status" gorm:"type:varchar(30);default:'pending';index"`
	Reviewable      bool            `json:"reviewable" gorm:"-"`
	AdminNotes      string          `json:"admin_notes,omitempty" gorm:"type:text"`
	RejectionReason string          `json:"rejection_reason,omitempty" gorm:"type:text"`
	RevisionReason  string          `json:"revision_reason,omitempty" gorm:"type:text"`
	ReviewedBy      *uuid.UUID      `json:"reviewed_by" gorm:"type:uuid"`
	ReviewedAt      *time.Time      `json:"reviewed_at"`
	ProcessedAt     *time.Time      `json:"processed_at"`
}

// ComputeReviewable derives the reviewable flag: pending and no terminal
// decision recorded yet.
func (r *ReviewFields) ComputeReviewable() {
	r.Reviewable = r.Status == workflow.StatusPending && r.ReviewedAt == nil
}

// AmountFields carries the monetary quantities of refund and payout
// requests. FinalAmount defaults to ApprovedAmount if present, else
// RequestedAmount, fixed at approval time.
type AmountFields struct {
	RequestedAmount float64  `json:"requested_amount" gorm:"type:decimal(10,2);not null"`
	ApprovedAmount  *float64 `json:"approved_amount" gorm:"type:decimal(10,2)"`
	FinalAmount     *float64 `json:"final_amount" gorm:"type:decimal(10,2)"`
}

// ResolveFinalAmount fixes FinalAmount per the approval rules and returns it.
func (a *AmountFields) ResolveFinalAmount() float64 {
	amount := a.RequestedAmount
	if a.ApprovedAmount != nil {
		amount = *a.ApprovedAmount
	}
	a.FinalAmount = &amount
	return amount
}

// Enums
type UserType string

const (
	UserTypeHost   UserType = "host"
	UserTypeDriver UserType = "driver"
	UserTypeAdmin  UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusBanned    UserStatus = "banned"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

type ListingStatus string

const (
	ListingStatusDraft    ListingStatus = "draft"
	ListingStatusActive   ListingStatus = "active"
	ListingStatusInactive ListingStatus = "inactive"
)

type DocumentType string

const (
	DocumentTypeID            DocumentType = "national_id"
	DocumentTypePassport      DocumentType = "passport"
	DocumentTypeDriverLicense DocumentType = "driver_license"
	DocumentTypeProofOfOwner  DocumentType = "proof_of_ownership"
)

type ApplicationStatus string

const (
	ApplicationStatusSubmitted ApplicationStatus = "submitted"
	ApplicationStatusReviewed  ApplicationStatus = "reviewed"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusDeclined  ApplicationStatus = "declined"
)
