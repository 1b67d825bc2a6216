// internal/handlers/bookings.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/parkspot/admin-backend/internal/models"
	"github.com/parkspot/admin-backend/internal/services"
	"github.com/parkspot/admin-backend/internal/utils"
)

type BookingHandler struct {
	bookingService *services.BookingService
}

func NewBookingHandler(bookingService *services.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
	}
}

// GET /admin/bookings
func (h *BookingHandler) GetBookings(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	filter := services.BookingFilter{
		PaginationParams: params,
	}

	if status := c.Query("status"); status != "" {
		bStatus := models.BookingStatus(status)
		filter.Status = &bStatus
	}
	if renter := c.Query("renter_id"); renter != "" {
		if id, err := uuid.Parse(renter); err == nil {
			filter.RenterID = &id
		}
	}
	if listing := c.Query("listing_id"); listing != "" {
		if id, err := uuid.Parse(listing); err == nil {
			filter.ListingID = &id
		}
	}
	filter.StartsAfter = parseDateQuery(c, "starts_after")
	filter.EndsBefore = parseDateQuery(c, "ends_before")

	bookings, total, err := h.bookingService.GetBookings(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(bookings, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /admin/bookings/search?q=...
// Free-text lookup over booking codes, renter names and emails, and
// listing titles. Queries shorter than the minimum are a 400; well-behaved
// clients never send them.
func (h *BookingHandler) SearchBookings(c *gin.Context) {
	query := c.Query("q")

	limit := 25
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	bookings, err := h.bookingService.Search(query, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"query":    query,
		"bookings": bookings,
	})
}

// GET /admin/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid booking ID", nil)
		return
	}

	booking, err := h.bookingService.GetBooking(bookingID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"booking": booking})
}
