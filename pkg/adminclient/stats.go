// pkg/adminclient/stats.go
package adminclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/parkspot/admin-backend/internal/workflow"
)

// QueueStats mirrors the server's per-kind rollup. Degraded marks a queue
// whose numbers could not be computed and are zero-filled.
type QueueStats struct {
	Total     int64 `json:"total"`
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Revision  int64 `json:"revision_requested"`
	Completed int64 `json:"completed"`

	RequestedAmount float64 `json:"requested_amount,omitempty"`
	PendingAmount   float64 `json:"pending_amount,omitempty"`
	CompletedAmount float64 `json:"completed_amount,omitempty"`

	Degraded bool `json:"degraded,omitempty"`
}

// DashboardStats is the consolidated snapshot the dashboard renders.
type DashboardStats struct {
	Verification QueueStats `json:"verification"`
	Refund       QueueStats `json:"refund"`
	Payout       QueueStats `json:"payout"`
	Listing      QueueStats `json:"listing"`
	Dispute      QueueStats `json:"dispute"`

	TotalUsers     int64     `json:"total_users"`
	ActiveUsers    int64     `json:"active_users"`
	ActiveListings int64     `json:"active_listings"`
	TotalBookings  int64     `json:"total_bookings"`
	MonthlyRevenue float64   `json:"monthly_revenue"`
	GeneratedAt    time.Time `json:"generated_at"`
}

func (d *DashboardStats) queueFor(kind workflow.Kind) *QueueStats {
	switch kind {
	case workflow.KindVerification:
		return &d.Verification
	case workflow.KindRefund:
		return &d.Refund
	case workflow.KindPayout:
		return &d.Payout
	case workflow.KindListing:
		return &d.Listing
	case workflow.KindDispute:
		return &d.Dispute
	}
	return nil
}

// DashboardStats fetches the consolidated snapshot, falling back to
// per-queue requests when the consolidated endpoint fails. Individual
// queue failures degrade that queue to zeros; this method never returns
// an error alongside a nil snapshot, the dashboard always has something
// to render.
func (c *Client) DashboardStats(ctx context.Context) *DashboardStats {
	var resp struct {
		Stats DashboardStats `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/admin/dashboard/stats", nil, &resp); err == nil {
		return &resp.Stats
	} else {
		c.logger.WithError(err).Warn("consolidated stats unavailable, falling back to per-queue requests")
	}

	stats := &DashboardStats{GeneratedAt: time.Now().UTC()}

	var wg sync.WaitGroup
	for _, kind := range workflow.Kinds() {
		wg.Add(1)
		go func(kind workflow.Kind) {
			defer wg.Done()
			target := stats.queueFor(kind)
			queue, err := c.QueueStats(ctx, kind)
			if err != nil {
				c.logger.WithError(err).WithField("kind", kind).Warn("queue stats unavailable, showing zeros")
				*target = QueueStats{Degraded: true}
				return
			}
			*target = *queue
		}(kind)
	}
	wg.Wait()

	return stats
}

// QueueStats fetches the rollup for a single moderation queue.
func (c *Client) QueueStats(ctx context.Context, kind workflow.Kind) (*QueueStats, error) {
	path, ok := kindPaths[kind]
	if !ok {
		return nil, fmt.Errorf("%w: unknown moderation kind %q", ErrNotFound, kind)
	}

	var resp struct {
		Kind  workflow.Kind `json:"kind"`
		Stats QueueStats    `json:"stats"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/admin/"+path+"/stats", nil, &resp); err != nil {
		return nil, err
	}

	return &resp.Stats, nil
}
