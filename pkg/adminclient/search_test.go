// pkg/adminclient/search_test.go
package adminclient

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resultRecorder captures callback deliveries for assertions.
type resultRecorder struct {
	mu      sync.Mutex
	queries []string
	results [][]Booking
}

func (r *resultRecorder) record(query string, bookings []Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, query)
	r.results = append(r.results, bookings)
}

func (r *resultRecorder) last() (string, []Booking, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.queries) == 0 {
		return "", nil, false
	}
	return r.queries[len(r.queries)-1], r.results[len(r.results)-1], true
}

func (r *resultRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.queries)
}

func searchServer(t *testing.T, calls *int64, delay func(query string) time.Duration) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)
		query := r.URL.Query().Get("q")
		if delay != nil {
			time.Sleep(delay(query))
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"query": query,
				"bookings": []map[string]interface{}{
					{"id": "b-" + query, "code": "BK" + query, "status": "confirmed", "amount": 42.0},
				},
			},
		})
	}))
}

func TestSearcherShortQueryClearsWithoutRequest(t *testing.T) {
	var calls int64
	server := searchServer(t, &calls, nil)
	defer server.Close()

	recorder := &resultRecorder{}
	searcher := NewBookingSearcher(New(server.URL, Session{}), recorder.record, WithDebounce(5*time.Millisecond))
	defer searcher.Close()

	searcher.SetQuery("ab")

	query, bookings, ok := recorder.last()
	require.True(t, ok, "short query must deliver a clear immediately")
	assert.Equal(t, "ab", query)
	assert.Nil(t, bookings)

	time.Sleep(30 * time.Millisecond)
	assert.EqualValues(t, 0, atomic.LoadInt64(&calls), "short queries never hit the network")
}

func TestSearcherBlankQueryClears(t *testing.T) {
	var calls int64
	server := searchServer(t, &calls, nil)
	defer server.Close()

	recorder := &resultRecorder{}
	searcher := NewBookingSearcher(New(server.URL, Session{}), recorder.record, WithDebounce(5*time.Millisecond))
	defer searcher.Close()

	searcher.SetQuery("   ")

	query, bookings, ok := recorder.last()
	require.True(t, ok)
	assert.Equal(t, "", query)
	assert.Nil(t, bookings)
	assert.EqualValues(t, 0, atomic.LoadInt64(&calls))
}

func TestSearcherDebouncesBursts(t *testing.T) {
	var calls int64
	server := searchServer(t, &calls, nil)
	defer server.Close()

	recorder := &resultRecorder{}
	searcher := NewBookingSearcher(New(server.URL, Session{}), recorder.record, WithDebounce(25*time.Millisecond))
	defer searcher.Close()

	// A typing burst faster than the debounce window collapses to one
	// request for the final query.
	searcher.SetQuery("gar")
	searcher.SetQuery("gara")
	searcher.SetQuery("garag")
	searcher.SetQuery("garage")

	assert.Eventually(t, func() bool {
		return recorder.count() == 1
	}, time.Second, 5*time.Millisecond)

	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))
	query, bookings, _ := recorder.last()
	assert.Equal(t, "garage", query)
	require.Len(t, bookings, 1)
	assert.Equal(t, "BKgarage", bookings[0].Code)
}

func TestSearcherLastRequestWins(t *testing.T) {
	var calls int64
	server := searchServer(t, &calls, func(query string) time.Duration {
		if query == "slow" {
			return 80 * time.Millisecond
		}
		return 0
	})
	defer server.Close()

	recorder := &resultRecorder{}
	searcher := NewBookingSearcher(New(server.URL, Session{}), recorder.record, WithDebounce(time.Millisecond))
	defer searcher.Close()

	searcher.SetQuery("slow")
	// Let the slow request leave before superseding it.
	time.Sleep(20 * time.Millisecond)
	searcher.SetQuery("fast")

	assert.Eventually(t, func() bool {
		query, _, ok := recorder.last()
		return ok && query == "fast"
	}, time.Second, 5*time.Millisecond)

	// The slow response lands after being superseded; it must not be
	// delivered on top of the fast one.
	time.Sleep(120 * time.Millisecond)
	query, bookings, _ := recorder.last()
	assert.Equal(t, "fast", query)
	require.Len(t, bookings, 1)
	assert.Equal(t, "b-fast", bookings[0].ID)
	assert.Equal(t, 1, recorder.count())
}

func TestSearcherErrorsDoNotClobberResults(t *testing.T) {
	var calls int64
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	recorder := &resultRecorder{}
	var searchErr error
	var errMu sync.Mutex
	searcher := NewBookingSearcher(New(failing.URL, Session{}), recorder.record,
		WithDebounce(time.Millisecond),
		WithErrorHandler(func(query string, err error) {
			errMu.Lock()
			searchErr = err
			errMu.Unlock()
		}))
	defer searcher.Close()

	searcher.SetQuery("garage")

	assert.Eventually(t, func() bool {
		errMu.Lock()
		defer errMu.Unlock()
		return searchErr != nil
	}, time.Second, 5*time.Millisecond)

	errMu.Lock()
	assert.ErrorIs(t, searchErr, ErrServer)
	errMu.Unlock()
	assert.Equal(t, 0, recorder.count(), "failed searches deliver no results")
}

func TestSearcherCloseStopsPendingWork(t *testing.T) {
	var calls int64
	server := searchServer(t, &calls, nil)
	defer server.Close()

	recorder := &resultRecorder{}
	searcher := NewBookingSearcher(New(server.URL, Session{}), recorder.record, WithDebounce(20*time.Millisecond))

	searcher.SetQuery("garage")
	searcher.Close()

	time.Sleep(60 * time.Millisecond)
	assert.EqualValues(t, 0, atomic.LoadInt64(&calls))
	assert.Equal(t, 0, recorder.count())

	// After Close, further input is ignored.
	searcher.SetQuery("another")
	time.Sleep(40 * time.Millisecond)
	assert.Equal(t, 0, recorder.count())
}
