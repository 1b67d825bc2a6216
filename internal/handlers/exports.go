// internal/handlers/exports.go
package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/parkspot/admin-backend/internal/services"
	"github.com/parkspot/admin-backend/internal/utils"
)

// ExportHandler streams CSV downloads. Data services own the queries; the
// export service owns the rendering.
type ExportHandler struct {
	exportService  *services.ExportService
	userService    *services.UserService
	bookingService *services.BookingService
}

func NewExportHandler(exportService *services.ExportService, userService *services.UserService, bookingService *services.BookingService) *ExportHandler {
	return &ExportHandler{
		exportService:  exportService,
		userService:    userService,
		bookingService: bookingService,
	}
}

// GET /admin/exports/users
func (h *ExportHandler) ExportUsers(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	params.Limit = 10000

	users, _, err := h.userService.GetUsers(services.UserFilter{PaginationParams: params})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	data, err := h.exportService.UsersCSV(users)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.sendCSV(c, services.ExportFilename("users", time.Now()), data)
}

// GET /admin/exports/newsletter
func (h *ExportHandler) ExportNewsletter(c *gin.Context) {
	subscribers, err := h.userService.GetNewsletterSubscribers()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	data, err := h.exportService.NewsletterCSV(subscribers)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.sendCSV(c, services.ExportFilename("newsletter", time.Now()), data)
}

// GET /admin/exports/applications
func (h *ExportHandler) ExportApplications(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	params.Limit = 10000

	applications, _, err := h.userService.GetJobApplications(services.ApplicationFilter{PaginationParams: params})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	data, err := h.exportService.ApplicationsCSV(applications)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.sendCSV(c, services.ExportFilename("applications", time.Now()), data)
}

// GET /admin/exports/bookings
func (h *ExportHandler) ExportBookings(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	params.Limit = 10000

	bookings, _, err := h.bookingService.GetBookings(services.BookingFilter{PaginationParams: params})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	data, err := h.exportService.BookingsCSV(bookings)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.sendCSV(c, services.ExportFilename("bookings", time.Now()), data)
}

func (h *ExportHandler) sendCSV(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
