// pkg/adminclient/stats_test.go
package adminclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStats(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    data,
	})
}

func TestDashboardStatsConsolidated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/admin/dashboard/stats", r.URL.Path)
		writeStats(w, map[string]interface{}{
			"stats": map[string]interface{}{
				"verification": map[string]interface{}{"total": 10, "pending": 4},
				"refund":       map[string]interface{}{"total": 3, "pending": 1, "requested_amount": 120.5},
				"total_users":  200,
			},
		})
	}))
	defer server.Close()

	client := New(server.URL, Session{AccessToken: "token"})

	stats := client.DashboardStats(context.Background())
	require.NotNil(t, stats)
	assert.EqualValues(t, 10, stats.Verification.Total)
	assert.EqualValues(t, 4, stats.Verification.Pending)
	assert.Equal(t, 120.5, stats.Refund.RequestedAmount)
	assert.EqualValues(t, 200, stats.TotalUsers)
}

func TestDashboardStatsFallbackDegradesPerQueue(t *testing.T) {
	// Consolidated endpoint is down; per-queue endpoints answer except
	// payouts, which must degrade to zeros without failing the snapshot.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/v1/admin/dashboard/stats":
			w.WriteHeader(http.StatusInternalServerError)
		case strings.HasPrefix(r.URL.Path, "/v1/admin/payouts"):
			w.WriteHeader(http.StatusInternalServerError)
		case strings.HasSuffix(r.URL.Path, "/stats"):
			writeStats(w, map[string]interface{}{
				"stats": map[string]interface{}{"total": 7, "pending": 2},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := New(server.URL, Session{AccessToken: "token"})

	stats := client.DashboardStats(context.Background())
	require.NotNil(t, stats, "snapshot must always render")

	assert.EqualValues(t, 7, stats.Verification.Total)
	assert.EqualValues(t, 7, stats.Refund.Total)
	assert.EqualValues(t, 7, stats.Listing.Total)
	assert.EqualValues(t, 7, stats.Dispute.Total)

	assert.True(t, stats.Payout.Degraded)
	assert.EqualValues(t, 0, stats.Payout.Total)
	assert.EqualValues(t, 0, stats.Payout.Pending)
}

func TestDashboardStatsEverythingDownStillRenders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, Session{AccessToken: "token"})

	stats := client.DashboardStats(context.Background())
	require.NotNil(t, stats)

	for _, queue := range []QueueStats{stats.Verification, stats.Refund, stats.Payout, stats.Listing, stats.Dispute} {
		assert.True(t, queue.Degraded)
		assert.EqualValues(t, 0, queue.Total)
	}
}

func TestQueueStatsSingleKind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/admin/refunds/stats", r.URL.Path)
		writeStats(w, map[string]interface{}{
			"kind": "refund",
			"stats": map[string]interface{}{
				"total":            12,
				"pending":          5,
				"pending_amount":   340.0,
				"completed_amount": 90.0,
			},
		})
	}))
	defer server.Close()

	client := New(server.URL, Session{AccessToken: "token"})

	stats, err := client.QueueStats(context.Background(), "refund")
	require.NoError(t, err)
	assert.EqualValues(t, 12, stats.Total)
	assert.EqualValues(t, 5, stats.Pending)
	assert.Equal(t, 340.0, stats.PendingAmount)
	assert.Equal(t, 90.0, stats.CompletedAmount)
}
