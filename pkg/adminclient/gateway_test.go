// pkg/adminclient/gateway_test.go
package adminclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parkspot/admin-backend/internal/workflow"
)

// countingServer records how many action requests arrive and answers each
// with a canned decided entity.
func countingServer(t *testing.T, status int, entity map[string]interface{}) (*httptest.Server, *int64) {
	t.Helper()
	var calls int64

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status >= 400 {
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"error":   map[string]interface{}{"code": "ERR", "message": "nope"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"message": "done",
				"entity":  entity,
			},
		})
	})

	return httptest.NewServer(handler), &calls
}

func TestPerformGuardFailsWithoutNetwork(t *testing.T) {
	server, calls := countingServer(t, http.StatusOK, nil)
	defer server.Close()

	client := New(server.URL, Session{AccessToken: "token"})

	cases := []struct {
		name   string
		kind   workflow.Kind
		entity Entity
		action workflow.Action
		req    ActionRequest
		want   error
	}{
		{
			name:   "approve already approved",
			kind:   workflow.KindVerification,
			entity: Entity{ID: "e1", Status: workflow.StatusApproved, Reviewable: false},
			action: workflow.ActionApprove,
			want:   ErrConflict,
		},
		{
			name:   "reject already rejected",
			kind:   workflow.KindRefund,
			entity: Entity{ID: "e2", Status: workflow.StatusRejected, Reviewable: false},
			action: workflow.ActionReject,
			req:    ActionRequest{Reason: "still no"},
			want:   ErrConflict,
		},
		{
			name:   "complete pending payout",
			kind:   workflow.KindPayout,
			entity: Entity{ID: "e3", Status: workflow.StatusPending, Reviewable: true},
			action: workflow.ActionComplete,
			want:   ErrConflict,
		},
		{
			name:   "revision on refund",
			kind:   workflow.KindRefund,
			entity: Entity{ID: "e4", Status: workflow.StatusPending, Reviewable: true},
			action: workflow.ActionRevision,
			req:    ActionRequest{Reason: "please fix"},
			want:   ErrConflict,
		},
		{
			name:   "pending but not reviewable",
			kind:   workflow.KindListing,
			entity: Entity{ID: "e5", Status: workflow.StatusPending, Reviewable: false},
			action: workflow.ActionApprove,
			want:   ErrConflict,
		},
		{
			name:   "reject without reason",
			kind:   workflow.KindListing,
			entity: Entity{ID: "e6", Status: workflow.StatusPending, Reviewable: true},
			action: workflow.ActionReject,
			want:   ErrValidationFailed,
		},
		{
			name:   "revision with whitespace reason",
			kind:   workflow.KindVerification,
			entity: Entity{ID: "e7", Status: workflow.StatusPending, Reviewable: true},
			action: workflow.ActionRevision,
			req:    ActionRequest{Reason: "   "},
			want:   ErrValidationFailed,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := client.Perform(context.Background(), tc.kind, tc.entity, tc.action, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	assert.EqualValues(t, 0, atomic.LoadInt64(calls), "guard rejections must not reach the server")
}

func TestPerformRefundApproveReturnsAuthoritativeEntity(t *testing.T) {
	final := 50.0
	server, calls := countingServer(t, http.StatusOK, map[string]interface{}{
		"id":               "r1",
		"status":           "approved",
		"reviewable":       false,
		"requested_amount": 80.0,
		"approved_amount":  50.0,
		"final_amount":     50.0,
	})
	defer server.Close()

	client := New(server.URL, Session{AccessToken: "token"})

	entity := Entity{ID: "r1", Status: workflow.StatusPending, Reviewable: true, RequestedAmount: 80}
	updated, err := client.Perform(context.Background(), workflow.KindRefund, entity, workflow.ActionApprove, ActionRequest{
		ApprovedAmount: &final,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.EqualValues(t, 1, atomic.LoadInt64(calls))
	assert.Equal(t, workflow.StatusApproved, updated.Status)
	assert.False(t, updated.Reviewable)
	require.NotNil(t, updated.FinalAmount)
	assert.Equal(t, 50.0, *updated.FinalAmount)
}

func TestPerformPayoutComplete(t *testing.T) {
	server, _ := countingServer(t, http.StatusOK, map[string]interface{}{
		"id":                 "p1",
		"status":             "completed",
		"reviewable":         false,
		"external_reference": "px_123",
	})
	defer server.Close()

	client := New(server.URL, Session{AccessToken: "token"})

	// Approved payouts remain actionable: complete is legal without a
	// reason and without the reviewable flag.
	entity := Entity{ID: "p1", Status: workflow.StatusApproved, Reviewable: false}
	updated, err := client.Perform(context.Background(), workflow.KindPayout, entity, workflow.ActionComplete, ActionRequest{
		Reference: "px_123",
	})
	require.NoError(t, err)

	assert.Equal(t, workflow.StatusCompleted, updated.Status)
	assert.Equal(t, "px_123", updated.ExternalReference)
}

func TestPerformServerErrorMapping(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusForbidden, ErrUnauthorized},
		{http.StatusNotFound, ErrNotFound},
		{http.StatusConflict, ErrConflict},
		{http.StatusBadRequest, ErrValidationFailed},
		{http.StatusInternalServerError, ErrServer},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("status %d", tc.status), func(t *testing.T) {
			server, calls := countingServer(t, tc.status, nil)
			defer server.Close()

			client := New(server.URL, Session{AccessToken: "token"})
			entity := Entity{ID: "x1", Status: workflow.StatusPending, Reviewable: true}

			_, err := client.Perform(context.Background(), workflow.KindDispute, entity, workflow.ActionApprove, ActionRequest{})
			assert.ErrorIs(t, err, tc.want)
			assert.EqualValues(t, 1, atomic.LoadInt64(calls), "legal action must reach the server exactly once")
		})
	}
}

func TestPerformUnknownKind(t *testing.T) {
	client := New("http://127.0.0.1:0", Session{})

	_, err := client.Perform(context.Background(), workflow.Kind("karaoke"), Entity{ID: "k"}, workflow.ActionApprove, ActionRequest{})
	assert.ErrorIs(t, err, ErrNotFound)
}
