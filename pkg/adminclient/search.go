// pkg/adminclient/search.go
package adminclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MinSearchLength matches the server's floor for free-text booking
// search; shorter queries clear results without a request.
const MinSearchLength = 3

// DefaultDebounce is the pause after the last keystroke before a search
// request is sent.
const DefaultDebounce = 300 * time.Millisecond

// Booking is the client-side search result row.
type Booking struct {
	ID     string  `json:"id"`
	Code   string  `json:"code"`
	Status string  `json:"status"`
	Amount float64 `json:"amount"`
	Renter struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	} `json:"renter"`
	Listing struct {
		Title string `json:"title"`
		City  string `json:"city"`
	} `json:"listing"`
}

// SearchBookings runs one immediate free-text search.
func (c *Client) SearchBookings(ctx context.Context, query string, limit int) ([]Booking, error) {
	values := url.Values{}
	values.Set("q", query)
	if limit > 0 {
		values.Set("limit", strconv.Itoa(limit))
	}

	var resp struct {
		Query    string    `json:"query"`
		Bookings []Booking `json:"bookings"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/admin/bookings/search?"+values.Encode(), nil, &resp); err != nil {
		return nil, err
	}

	return resp.Bookings, nil
}

// BookingSearcher debounces keystroke-driven booking search. Results are
// delivered through the callback; only the most recent query's results
// are delivered, stale responses are dropped.
type BookingSearcher struct {
	client   *Client
	debounce time.Duration
	limit    int
	onResult func(query string, bookings []Booking)
	onError  func(query string, err error)

	mu         sync.Mutex
	timer      *time.Timer
	cancel     context.CancelFunc
	generation uint64
	closed     bool
}

type SearcherOption func(*BookingSearcher)

// WithDebounce overrides the keystroke settling delay.
func WithDebounce(d time.Duration) SearcherOption {
	return func(s *BookingSearcher) { s.debounce = d }
}

func WithSearchLimit(limit int) SearcherOption {
	return func(s *BookingSearcher) { s.limit = limit }
}

// WithErrorHandler receives failures of delivered queries. Without one,
// errors are logged and the result set is left unchanged.
func WithErrorHandler(fn func(query string, err error)) SearcherOption {
	return func(s *BookingSearcher) { s.onError = fn }
}

func NewBookingSearcher(client *Client, onResult func(query string, bookings []Booking), opts ...SearcherOption) *BookingSearcher {
	s := &BookingSearcher{
		client:   client,
		debounce: DefaultDebounce,
		limit:    25,
		onResult: onResult,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetQuery registers the latest keystroke state. Queries shorter than
// MinSearchLength after trimming cancel any pending request and clear the
// results immediately, without network traffic. Longer queries are sent
// after the debounce delay; a newer SetQuery call supersedes an older one
// even if the older response arrives later.
func (s *BookingSearcher) SetQuery(query string) {
	trimmed := strings.TrimSpace(query)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	s.generation++
	generation := s.generation

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	if len(trimmed) < MinSearchLength {
		s.mu.Unlock()
		s.onResult(trimmed, nil)
		return
	}

	s.timer = time.AfterFunc(s.debounce, func() {
		s.fire(generation, trimmed)
	})
	s.mu.Unlock()
}

func (s *BookingSearcher) fire(generation uint64, query string) {
	s.mu.Lock()
	if s.closed || generation != s.generation {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.mu.Unlock()

	bookings, err := s.client.SearchBookings(ctx, query, s.limit)

	s.mu.Lock()
	stale := s.closed || generation != s.generation
	s.mu.Unlock()
	if stale {
		return
	}

	if err != nil {
		if s.onError != nil {
			s.onError(query, err)
		} else {
			s.client.logger.WithError(err).WithField("query", query).Warn("booking search failed")
		}
		return
	}

	s.onResult(query, bookings)
}

// Close stops pending work; subsequent SetQuery calls are ignored.
func (s *BookingSearcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
