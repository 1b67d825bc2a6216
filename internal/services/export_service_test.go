// internal/services/export_service_test.go
package services

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkspot/admin-backend/internal/models"
)

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 9, 1, 15, 4, 5, 0, time.UTC)

	assert.Equal(t, "users_2026-09-01.csv", ExportFilename("users", now))
	assert.Equal(t, "newsletter_2026-09-01.csv", ExportFilename("newsletter", now))
}

func TestUsersCSV(t *testing.T) {
	svc := NewExportService()

	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	users := []models.User{
		{
			BaseModel:        models.BaseModel{ID: uuid.MustParse("11111111-1111-1111-1111-111111111111"), CreatedAt: created},
			Username:         "host_anna",
			Email:            "anna@example.com",
			UserType:         models.UserTypeHost,
			Status:           models.UserStatusActive,
			IdentityVerified: true,
			NewsletterOptIn:  true,
		},
		{
			BaseModel: models.BaseModel{ID: uuid.MustParse("22222222-2222-2222-2222-222222222222"), CreatedAt: created},
			Username:  "driver_bo",
			Email:     "bo@example.com",
			UserType:  models.UserTypeDriver,
			Status:    models.UserStatusSuspended,
		},
	}

	data, err := svc.UsersCSV(users)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,username,email,user_type,status,identity_verified,newsletter_opt_in,created_at", lines[0])
	assert.Equal(t, "11111111-1111-1111-1111-111111111111,host_anna,anna@example.com,host,active,true,true,2026-03-14T09:30:00Z", lines[1])
	assert.Equal(t, "22222222-2222-2222-2222-222222222222,driver_bo,bo@example.com,driver,suspended,false,false,2026-03-14T09:30:00Z", lines[2])

	// Same input, same bytes.
	again, err := svc.UsersCSV(users)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestNewsletterCSV(t *testing.T) {
	svc := NewExportService()

	created := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	data, err := svc.NewsletterCSV([]models.User{
		{BaseModel: models.BaseModel{CreatedAt: created}, Username: "anna", Email: "anna@example.com"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "email,username,subscribed_at", lines[0])
	assert.Equal(t, "anna@example.com,anna,2025-12-01T00:00:00Z", lines[1])
}

func TestApplicationsCSVQuotesCommas(t *testing.T) {
	svc := NewExportService()

	created := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	data, err := svc.ApplicationsCSV([]models.JobApplication{
		{
			BaseModel: models.BaseModel{ID: uuid.MustParse("33333333-3333-3333-3333-333333333333"), CreatedAt: created},
			FullName:  "Reyes, Carmen",
			Email:     "carmen@example.com",
			Position:  "Support Lead",
			Status:    models.ApplicationStatusSubmitted,
			ResumeURL: "https://cdn.example.com/resumes/carmen.pdf",
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[1], `"Reyes, Carmen"`, "fields containing commas must be quoted")
}

func TestBookingsCSV(t *testing.T) {
	svc := NewExportService()

	starts := time.Date(2026, 6, 10, 8, 0, 0, 0, time.UTC)
	data, err := svc.BookingsCSV([]models.Booking{
		{
			Code:        "BKA1B2C3",
			StartsAt:    starts,
			EndsAt:      starts.Add(4 * time.Hour),
			Amount:      18.5,
			PlatformFee: 2.78,
			Status:      models.BookingStatusCompleted,
			Renter:      models.User{Email: "bo@example.com"},
			Listing:     models.ParkingListing{Title: "Covered spot near station"},
		},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "BKA1B2C3,bo@example.com,Covered spot near station,2026-06-10T08:00:00Z,2026-06-10T12:00:00Z,18.50,2.78,completed", lines[1])
}
