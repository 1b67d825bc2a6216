// internal/services/export_service.go
package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/parkspot/admin-backend/internal/models"
)

// ExportService renders admin datasets as CSV downloads. Rendering is a
// pure transform over already-fetched rows so the same input always
// produces the same bytes; the data services own the queries.
type ExportService struct{}

func NewExportService() *ExportService {
	return &ExportService{}
}

// ExportFilename builds the download name, e.g. "users_2026-09-01.csv".
func ExportFilename(name string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", name, now.Format("2006-01-02"))
}

// UsersCSV renders the user management export.
func (s *ExportService) UsersCSV(users []models.User) ([]byte, error) {
	header := []string{"id", "username", "email", "user_type", "status", "identity_verified", "newsletter_opt_in", "created_at"}

	records := make([][]string, 0, len(users))
	for _, u := range users {
		records = append(records, []string{
			u.ID.String(),
			u.Username,
			u.Email,
			string(u.UserType),
			string(u.Status),
			strconv.FormatBool(u.IdentityVerified),
			strconv.FormatBool(u.NewsletterOptIn),
			u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return writeCSV(header, records)
}

// NewsletterCSV renders the subscriber list for the mailing tool.
func (s *ExportService) NewsletterCSV(users []models.User) ([]byte, error) {
	header := []string{"email", "username", "subscribed_at"}

	records := make([][]string, 0, len(users))
	for _, u := range users {
		records = append(records, []string{
			u.Email,
			u.Username,
			u.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return writeCSV(header, records)
}

// ApplicationsCSV renders the job application pipeline.
func (s *ExportService) ApplicationsCSV(applications []models.JobApplication) ([]byte, error) {
	header := []string{"id", "full_name", "email", "position", "status", "resume_url", "submitted_at"}

	records := make([][]string, 0, len(applications))
	for _, a := range applications {
		records = append(records, []string{
			a.ID.String(),
			a.FullName,
			a.Email,
			a.Position,
			string(a.Status),
			a.ResumeURL,
			a.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return writeCSV(header, records)
}

// BookingsCSV renders the booking report.
func (s *ExportService) BookingsCSV(bookings []models.Booking) ([]byte, error) {
	header := []string{"code", "renter_email", "listing_title", "starts_at", "ends_at", "amount", "platform_fee", "status"}

	records := make([][]string, 0, len(bookings))
	for _, b := range bookings {
		records = append(records, []string{
			b.Code,
			b.Renter.Email,
			b.Listing.Title,
			b.StartsAt.UTC().Format(time.RFC3339),
			b.EndsAt.UTC().Format(time.RFC3339),
			strconv.FormatFloat(b.Amount, 'f', 2, 64),
			strconv.FormatFloat(b.PlatformFee, 'f', 2, 64),
			string(b.Status),
		})
	}

	return writeCSV(header, records)
}

func writeCSV(header []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write csv records: %w", err)
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	return buf.Bytes(), nil
}
