// internal/services/booking_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/parkspot/admin-backend/internal/models"
	"github.com/parkspot/admin-backend/internal/utils"
)

// MinSearchLength is the shortest free-text query the search endpoint
// accepts. Clients enforce the same floor before issuing a request.
const MinSearchLength = 3

type BookingService struct {
	db *gorm.DB
}

type BookingFilter struct {
	utils.PaginationParams
	Status      *models.BookingStatus `json:"status,omitempty"`
	RenterID    *uuid.UUID            `json:"renter_id,omitempty"`
	ListingID   *uuid.UUID            `json:"listing_id,omitempty"`
	StartsAfter *time.Time            `json:"starts_after,omitempty"`
	EndsBefore  *time.Time            `json:"ends_before,omitempty"`
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{db: db}
}

func (s *BookingService) GetBookings(filter BookingFilter) ([]models.Booking, int64, error) {
	query := s.db.Model(&models.Booking{}).Preload("Renter").Preload("Listing")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.RenterID != nil {
		query = query.Where("renter_id = ?", *filter.RenterID)
	}
	if filter.ListingID != nil {
		query = query.Where("listing_id = ?", *filter.ListingID)
	}
	if filter.StartsAfter != nil {
		query = query.Where("starts_at >= ?", *filter.StartsAfter)
	}
	if filter.EndsBefore != nil {
		query = query.Where("ends_at <= ?", *filter.EndsBefore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	query = utils.ApplySort(query, filter.PaginationParams, []string{"created_at", "updated_at", "starts_at", "amount", "status"})
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch bookings: %w", err)
	}

	return bookings, total, nil
}

// Search matches the free-text query against booking codes, renter names
// and emails, and listing titles. Queries shorter than MinSearchLength
// after trimming are rejected; clients treat them as "show nothing" and
// never reach this endpoint.
func (s *BookingService) Search(query string, limit int) ([]models.Booking, error) {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) < MinSearchLength {
		return nil, fmt.Errorf("%w: search query must be at least %d characters", ErrValidation, MinSearchLength)
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	searchTerm := "%" + trimmed + "%"
	var bookings []models.Booking
	err := s.db.Model(&models.Booking{}).
		Preload("Renter").Preload("Listing").
		Joins("JOIN users ON users.id = bookings.renter_id").
		Joins("JOIN parking_listings ON parking_listings.id = bookings.listing_id").
		Where("bookings.code ILIKE ? OR users.username ILIKE ? OR users.email ILIKE ? OR parking_listings.title ILIKE ?",
			searchTerm, searchTerm, searchTerm, searchTerm).
		Order("bookings.created_at DESC").
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("booking search failed: %w", err)
	}

	return bookings, nil
}

func (s *BookingService) GetBooking(bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := s.db.Preload("Renter").Preload("Listing").Preload("Listing.Host").
		First(&booking, bookingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: booking", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &booking, nil
}
