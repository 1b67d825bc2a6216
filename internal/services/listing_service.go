// internal/services/listing_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/parkspot/admin-backend/internal/models"
)

// ListingService handles the content side of parking listings. Moderation
// transitions go through ModerationService; nothing here may touch the
// review fields.
type ListingService struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// ListingUpdateInput holds the admin-editable content fields. All pointers:
// nil means leave the field alone.
type ListingUpdateInput struct {
	Title        *string               `json:"title,omitempty" validate:"omitempty,min=3,max=255"`
	Description  *string               `json:"description,omitempty"`
	Address      *string               `json:"address,omitempty" validate:"omitempty,min=5,max=500"`
	City         *string               `json:"city,omitempty" validate:"omitempty,max=100"`
	PricePerHour *float64              `json:"price_per_hour,omitempty" validate:"omitempty,gt=0"`
	PricePerDay  *float64              `json:"price_per_day,omitempty" validate:"omitempty,gt=0"`
	SpaceType    *string               `json:"space_type,omitempty"`
	PhotoURLs    *[]string             `json:"photo_urls,omitempty"`
	Amenities    *[]string             `json:"amenities,omitempty"`
	Listed       *models.ListingStatus `json:"listed,omitempty" validate:"omitempty,oneof=draft active inactive"`
}

func NewListingService(db *gorm.DB, logger *logrus.Logger) *ListingService {
	return &ListingService{db: db, logger: logger}
}

func (s *ListingService) GetListing(listingID uuid.UUID) (*models.ParkingListing, error) {
	var listing models.ParkingListing
	if err := s.db.Preload("Host").First(&listing, listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: parking listing", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &listing, nil
}

// UpdateListing edits listing content in place. The approval status and
// every other review field are deliberately outside this path: editing a
// pending listing leaves it pending, editing an approved one leaves it
// approved.
func (s *ListingService) UpdateListing(listingID, adminID uuid.UUID, input ListingUpdateInput) (*models.ParkingListing, error) {
	var listing models.ParkingListing
	if err := s.db.Preload("Host").First(&listing, listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: parking listing", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates, err := buildListingUpdates(&listing, input)
	if err != nil {
		return nil, err
	}

	if len(updates) == 0 {
		listing.ComputeReviewable()
		return &listing, nil
	}

	// Column-scoped update; gorm never writes the untouched review fields.
	if err := s.db.Model(&models.ParkingListing{}).Where("id = ?", listingID).
		Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update listing: %w", err)
	}

	go s.createAuditLog(adminID, "UPDATE_LISTING_CONTENT", &listingID, updates)

	listing.ComputeReviewable()
	return &listing, nil
}

// buildListingUpdates turns the input into a column-scoped update map and
// mirrors the changes onto the in-memory listing. Only content columns ever
// enter the map; review columns have no path in.
func buildListingUpdates(listing *models.ParkingListing, input ListingUpdateInput) (map[string]interface{}, error) {
	updates := map[string]interface{}{}
	if input.Title != nil {
		updates["title"] = *input.Title
		listing.Title = *input.Title
	}
	if input.Description != nil {
		updates["description"] = *input.Description
		listing.Description = *input.Description
	}
	if input.Address != nil {
		updates["address"] = *input.Address
		listing.Address = *input.Address
	}
	if input.City != nil {
		updates["city"] = *input.City
		listing.City = *input.City
	}
	if input.PricePerHour != nil {
		if *input.PricePerHour <= 0 {
			return nil, fmt.Errorf("%w: price per hour must be positive", ErrValidation)
		}
		updates["price_per_hour"] = *input.PricePerHour
		listing.PricePerHour = *input.PricePerHour
	}
	if input.PricePerDay != nil {
		if *input.PricePerDay <= 0 {
			return nil, fmt.Errorf("%w: price per day must be positive", ErrValidation)
		}
		updates["price_per_day"] = *input.PricePerDay
		listing.PricePerDay = input.PricePerDay
	}
	if input.SpaceType != nil {
		updates["space_type"] = *input.SpaceType
		listing.SpaceType = *input.SpaceType
	}
	if input.PhotoURLs != nil {
		urls := pq.StringArray(*input.PhotoURLs)
		updates["photo_urls"] = urls
		listing.PhotoURLs = urls
	}
	if input.Amenities != nil {
		amenities := pq.StringArray(*input.Amenities)
		updates["amenities"] = amenities
		listing.Amenities = amenities
	}
	if input.Listed != nil {
		updates["listed"] = *input.Listed
		listing.Listed = *input.Listed
	}

	return updates, nil
}

func (s *ListingService) createAuditLog(adminID uuid.UUID, action string, resourceID *uuid.UUID, newValues map[string]interface{}) {
	values := models.JSONB{}
	for k, v := range newValues {
		values[k] = v
	}

	auditLog := &models.AuditLog{
		UserID:       &adminID,
		Action:       action,
		ResourceType: "parking_listing",
		ResourceID:   resourceID,
		NewValues:    values,
	}

	s.db.Create(auditLog)
}
