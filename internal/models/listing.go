// internal/models/listing.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"

	"gorm.io/gorm"
)

// ParkingListing is a host-submitted parking space. ReviewFields.Status is
// the approval status driven by the moderation workflow; content edits go
// through a separate update path that must never touch it.
type ParkingListing struct {
	BaseModel
	ReviewFields
	HostID       uuid.UUID      `json:"host_id" gorm:"type:uuid;not null;index"`
	Title        string         `json:"title" gorm:"size:255;not null"`
	Description  string         `json:"description" gorm:"type:text"`
	Address      string         `json:"address" gorm:"size:500;not null"`
	City         string         `json:"city" gorm:"size:100;index"`
	Latitude     float64        `json:"latitude" gorm:"type:decimal(9,6)"`
	Longitude    float64        `json:"longitude" gorm:"type:decimal(9,6)"`
	PricePerHour float64        `json:"price_per_hour" gorm:"type:decimal(8,2);not null"`
	PricePerDay  *float64       `json:"price_per_day" gorm:"type:decimal(8,2)"`
	SpaceType    string         `json:"space_type" gorm:"size:50;index"`
	PhotoURLs    pq.StringArray `json:"photo_urls" gorm:"type:text[]"`
	Amenities    pq.StringArray `json:"amenities" gorm:"type:text[]"`
	Listed       ListingStatus  `json:"listed" gorm:"type:varchar(20);default:'draft';index"`

	// Relationships
	Host     User      `json:"host,omitempty" gorm:"foreignKey:HostID"`
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:ListingID"`
}

func (l *ParkingListing) AfterFind(tx *gorm.DB) error {
	l.ComputeReviewable()
	return nil
}
