// internal/models/admin.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Setting coordinates shared by the seed and the code that reads them.
const (
	SettingCategoryListings = "listings"

	SettingKeyAutoPublishApproved = "auto_publish_approved_listings"
)

type AdminSettings struct {
	BaseModel
	Category    string    `json:"category" gorm:"size:50;not null;index"`
	Key         string    `json:"key" gorm:"size:100;not null;index"`
	Value       JSONB     `json:"value" gorm:"type:jsonb;not null"`
	DataType    string    `json:"data_type" gorm:"size:20;not null"`
	Description string    `json:"description" gorm:"type:text"`
	UpdatedBy   uuid.UUID `json:"updated_by" gorm:"type:uuid;not null"`

	// Relationships
	UpdatedByUser User `json:"updated_by_user,omitempty" gorm:"foreignKey:UpdatedBy"`
}

type AuditLog struct {
	BaseModel
	UserID       *uuid.UUID `json:"user_id" gorm:"type:uuid;index"`
	Action       string     `json:"action" gorm:"size:100;not null;index"`
	ResourceType string     `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   *uuid.UUID `json:"resource_id" gorm:"type:uuid;index"`
	OldValues    JSONB      `json:"old_values" gorm:"type:jsonb"`
	NewValues    JSONB      `json:"new_values" gorm:"type:jsonb"`
	IPAddress    string     `json:"ip_address" gorm:"size:45"`
	UserAgent    string     `json:"user_agent" gorm:"type:text"`

	// Relationships
	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

type AdminNotification struct {
	BaseModel
	Type                string     `json:"type" gorm:"type:varchar(50);not null;index"`
	Title               string     `json:"title" gorm:"size:255;not null"`
	Message             string     `json:"message" gorm:"type:text;not null"`
	Priority            string     `json:"priority" gorm:"type:varchar(20);default:'medium';index"`
	Status              string     `json:"status" gorm:"type:varchar(20);default:'unread';index"`
	RelatedResourceType string     `json:"related_resource_type,omitempty" gorm:"size:50"`
	RelatedResourceID   *uuid.UUID `json:"related_resource_id" gorm:"type:uuid"`
	ReadAt              *time.Time `json:"read_at"`
}

// JobApplication is reviewed from the admin careers screen. Its lifecycle
// is a simple submitted/reviewed/accepted/declined ladder, not part of the
// moderation workflow.
type JobApplication struct {
	BaseModel
	FullName   string            `json:"full_name" gorm:"size:255;not null"`
	Email      string            `json:"email" gorm:"size:255;not null;index"`
	Phone      string            `json:"phone,omitempty" gorm:"size:30"`
	Position   string            `json:"position" gorm:"size:100;not null;index"`
	ResumeURL  string            `json:"resume_url" gorm:"size:500"`
	CoverNote  string            `json:"cover_note,omitempty" gorm:"type:text"`
	Status     ApplicationStatus `json:"status" gorm:"type:varchar(20);default:'submitted';index"`
	ReviewedBy *uuid.UUID        `json:"reviewed_by" gorm:"type:uuid"`
	ReviewedAt *time.Time        `json:"reviewed_at"`

	// Relationships
	Reviewer *User `json:"reviewer,omitempty" gorm:"foreignKey:ReviewedBy"`
}
