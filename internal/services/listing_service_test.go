// internal/services/listing_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkspot/admin-backend/internal/models"
	"github.com/parkspot/admin-backend/internal/workflow"
)

func TestBuildListingUpdatesNeverTouchesReviewColumns(t *testing.T) {
	title := "Covered spot near central station"
	desc := "Gated garage, 24h access"
	city := "Valencia"
	hourly := 2.5
	daily := 18.0
	spaceType := "garage"
	photos := []string{"https://cdn.example.com/p1.jpg"}
	amenities := []string{"covered", "ev_charging"}
	listed := models.ListingStatusActive

	listing := models.ParkingListing{
		ReviewFields: models.ReviewFields{Status: workflow.StatusPending},
		Title:        "Old title",
	}
	listing.ComputeReviewable()
	require.True(t, listing.Reviewable)

	updates, err := buildListingUpdates(&listing, ListingUpdateInput{
		Title:        &title,
		Description:  &desc,
		City:         &city,
		PricePerHour: &hourly,
		PricePerDay:  &daily,
		SpaceType:    &spaceType,
		PhotoURLs:    &photos,
		Amenities:    &amenities,
		Listed:       &listed,
	})
	require.NoError(t, err)

	for _, col := range []string{
		"status", "reviewable", "admin_notes", "rejection_reason",
		"revision_reason", "reviewed_by", "reviewed_at", "processed_at",
	} {
		assert.NotContains(t, updates, col)
	}

	assert.Equal(t, title, updates["title"])
	assert.Equal(t, hourly, updates["price_per_hour"])
	assert.Equal(t, daily, updates["price_per_day"])
	assert.Equal(t, listed, updates["listed"])

	// A pending listing stays pending through a content edit.
	assert.Equal(t, workflow.StatusPending, listing.Status)
	assert.Equal(t, title, listing.Title)
	assert.Equal(t, daily, *listing.PricePerDay)
}

func TestBuildListingUpdatesPartialInput(t *testing.T) {
	city := "Sevilla"

	listing := models.ParkingListing{Title: "Keep me"}
	listing.ReviewFields.Status = workflow.StatusApproved

	updates, err := buildListingUpdates(&listing, ListingUpdateInput{City: &city})
	require.NoError(t, err)

	assert.Len(t, updates, 1)
	assert.Equal(t, city, updates["city"])
	assert.Equal(t, "Keep me", listing.Title)
	assert.Equal(t, workflow.StatusApproved, listing.Status)
}

func TestBuildListingUpdatesRejectsNonPositivePrices(t *testing.T) {
	zero := 0.0
	negative := -3.0

	var listing models.ParkingListing
	_, err := buildListingUpdates(&listing, ListingUpdateInput{PricePerHour: &zero})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = buildListingUpdates(&listing, ListingUpdateInput{PricePerDay: &negative})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestBuildListingUpdatesEmptyInputIsNoop(t *testing.T) {
	var listing models.ParkingListing
	updates, err := buildListingUpdates(&listing, ListingUpdateInput{})
	require.NoError(t, err)
	assert.Empty(t, updates)
}
