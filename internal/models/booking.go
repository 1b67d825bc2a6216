// internal/models/booking.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Booking struct {
	BaseModel
	Code             string        `json:"code" gorm:"size:20;uniqueIndex;not null"`
	RenterID         uuid.UUID     `json:"renter_id" gorm:"type:uuid;not null;index"`
	ListingID        uuid.UUID     `json:"listing_id" gorm:"type:uuid;not null;index"`
	StartsAt         time.Time     `json:"starts_at" gorm:"not null;index"`
	EndsAt           time.Time     `json:"ends_at" gorm:"not null"`
	Amount           float64       `json:"amount" gorm:"type:decimal(10,2);not null"`
	PlatformFee      float64       `json:"platform_fee" gorm:"type:decimal(10,2);not null"`
	PaymentReference string        `json:"payment_reference" gorm:"size:255"`
	Status           BookingStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	VehiclePlate     string        `json:"vehicle_plate,omitempty" gorm:"size:20"`

	// Relationships
	Renter  User           `json:"renter,omitempty" gorm:"foreignKey:RenterID"`
	Listing ParkingListing `json:"listing,omitempty" gorm:"foreignKey:ListingID"`
}
