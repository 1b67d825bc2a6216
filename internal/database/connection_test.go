// internal/database/connection_test.go
package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkspot/admin-backend/internal/models"
)

func TestDefaultSettingsSeedAutoPublishToggle(t *testing.T) {
	var found *models.AdminSettings
	for _, setting := range DefaultSettings() {
		if setting.Category == models.SettingCategoryListings &&
			setting.Key == models.SettingKeyAutoPublishApproved {
			s := setting
			found = &s
			break
		}
	}

	// Seeded under the same coordinates the moderation service reads,
	// so flipping the stored value actually changes publication behavior.
	require.NotNil(t, found, "auto-publish toggle missing from seed defaults")
	assert.Equal(t, "boolean", found.DataType)

	value, ok := found.Value["value"].(bool)
	require.True(t, ok, "auto-publish value must be a bool")
	assert.True(t, value)
}

func TestDefaultSettingsUniqueCoordinates(t *testing.T) {
	seen := map[string]bool{}
	for _, setting := range DefaultSettings() {
		coord := setting.Category + "." + setting.Key
		assert.False(t, seen[coord], "duplicate setting %s", coord)
		seen[coord] = true
	}
}
