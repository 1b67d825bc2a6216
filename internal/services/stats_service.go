// internal/services/stats_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/parkspot/admin-backend/internal/config"
	"github.com/parkspot/admin-backend/internal/models"
	"github.com/parkspot/admin-backend/internal/workflow"
)

const statsCacheKey = "parkspot:admin:dashboard_stats"

// KindStats is the per-queue rollup shown on the dashboard. A queue whose
// computation failed reports zeros rather than failing the whole snapshot.
type KindStats struct {
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

// StatsSnapshot is the consolidated dashboard payload.
type StatsSnapshot struct {
	Verification KindStats `json:"verification"`
	Refund       KindStats `json:"refund"`
	Payout       KindStats `json:"payout"`
	Listing      KindStats `json:"listing"`
	Dispute      KindStats `json:"dispute"`

	TotalUsers     int64     `json:"total_users"`
	ActiveUsers    int64     `json:"active_users"`
	ActiveListings int64     `json:"active_listings"`
	TotalBookings  int64     `json:"total_bookings"`
	MonthlyRevenue float64   `json:"monthly_revenue"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// StatsService aggregates queue counters across every moderation kind.
// Per-kind queries run concurrently; an individual failure degrades that
// kind to zeros with a warning instead of surfacing an error, so the
// dashboard always renders.
type StatsService struct {
	db     *gorm.DB
	redis  *redis.Client
	config *config.Config
	logger *logrus.Logger
}

func NewStatsService(db *gorm.DB, redisClient *redis.Client, config *config.Config, logger *logrus.Logger) *StatsService {
	return &StatsService{
		db:     db,
		redis:  redisClient,
		config: config,
		logger: logger,
	}
}

// GetDashboardStats returns the consolidated snapshot, serving from the
// redis cache when a fresh copy exists. Cache failures fall through to a
// recompute; they never fail the caller.
func (s *StatsService) GetDashboardStats(ctx context.Context) *StatsSnapshot {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, statsCacheKey).Bytes(); err == nil {
			var snapshot StatsSnapshot
			if err := json.Unmarshal(cached, &snapshot); err == nil {
				return &snapshot
			}
		}
	}

	snapshot := s.computeSnapshot(ctx)

	if s.redis != nil {
		if payload, err := json.Marshal(snapshot); err == nil {
			ttl := time.Duration(s.config.Redis.StatsTTL) * time.Second
			if err := s.redis.Set(ctx, statsCacheKey, payload, ttl).Err(); err != nil {
				s.logger.WithError(err).Debug("failed to cache dashboard stats")
			}
		}
	}

	return snapshot
}

// GetKindStats computes the rollup for one moderation queue.
func (s *StatsService) GetKindStats(ctx context.Context, kind workflow.Kind) (KindStats, error) {
	switch kind {
	case workflow.KindVerification:
		return s.statusCounts(ctx, &models.VerificationRequest{}, false)
	case workflow.KindRefund:
		return s.statusCounts(ctx, &models.RefundRequest{}, true)
	case workflow.KindPayout:
		return s.statusCounts(ctx, &models.PayoutRequest{}, true)
	case workflow.KindListing:
		return s.statusCounts(ctx, &models.ParkingListing{}, false)
	case workflow.KindDispute:
		return s.statusCounts(ctx, &models.Dispute{}, false)
	default:
		return KindStats{}, fmt.Errorf("%w: unknown moderation kind %q", ErrNotFound, kind)
	}
}

func (s *StatsService) computeSnapshot(ctx context.Context) *StatsSnapshot {
	snapshot := &StatsSnapshot{GeneratedAt: time.Now().UTC()}

	targets := map[workflow.Kind]*KindStats{
		workflow.KindVerification: &snapshot.Verification,
		workflow.KindRefund:       &snapshot.Refund,
		workflow.KindPayout:       &snapshot.Payout,
		workflow.KindListing:      &snapshot.Listing,
		workflow.KindDispute:      &snapshot.Dispute,
	}

	var wg sync.WaitGroup
	for kind, target := range targets {
		wg.Add(1)
		go func(kind workflow.Kind, target *KindStats) {
			defer wg.Done()
			stats, err := s.GetKindStats(ctx, kind)
			if err != nil {
				s.logger.WithError(err).WithField("kind", kind).Warn("stats computation failed, reporting zeros")
				*target = KindStats{Degraded: true}
				return
			}
			*target = stats
		}(kind, target)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := s.platformCounters(ctx, snapshot); err != nil {
			s.logger.WithError(err).Warn("platform counters failed, reporting zeros")
		}
	}()

	wg.Wait()
	return snapshot
}

func (s *StatsService) statusCounts(ctx context.Context, model interface{}, withAmounts bool) (KindStats, error) {
	var stats KindStats
	db := s.db.WithContext(ctx)

	if err := db.Model(model).Count(&stats.Total).Error; err != nil {
		return KindStats{}, fmt.Errorf("count failed: %w", err)
	}

	rows := []struct {
		Status workflow.Status
		N      int64
	}{}
	if err := db.Model(model).Select("status, COUNT(*) AS n").Group("status").Scan(&rows).Error; err != nil {
		return KindStats{}, fmt.Errorf("status breakdown failed: %w", err)
	}
	for _, row := range rows {
		switch row.Status {
		case workflow.StatusPending:
			stats.Pending = row.N
		case workflow.StatusApproved:
			stats.Approved = row.N
		case workflow.StatusRejected:
			stats.Rejected = row.N
		case workflow.StatusRevisionRequested:
			stats.Revision = row.N
		case workflow.StatusCompleted:
			stats.Completed = row.N
		}
	}

	if withAmounts {
		if err := db.Model(model).Select("COALESCE(SUM(requested_amount), 0)").
			Scan(&stats.RequestedAmount).Error; err != nil {
			return KindStats{}, fmt.Errorf("requested amount sum failed: %w", err)
		}
		if err := db.Model(model).Where("status = ?", workflow.StatusPending).
			Select("COALESCE(SUM(requested_amount), 0)").Scan(&stats.PendingAmount).Error; err != nil {
			return KindStats{}, fmt.Errorf("pending amount sum failed: %w", err)
		}
		if err := db.Model(model).Where("status = ?", workflow.StatusCompleted).
			Select("COALESCE(SUM(final_amount), 0)").Scan(&stats.CompletedAmount).Error; err != nil {
			return KindStats{}, fmt.Errorf("completed amount sum failed: %w", err)
		}
	}

	return stats, nil
}

func (s *StatsService) platformCounters(ctx context.Context, snapshot *StatsSnapshot) error {
	db := s.db.WithContext(ctx)
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	if err := db.Model(&models.User{}).Count(&snapshot.TotalUsers).Error; err != nil {
		return err
	}
	if err := db.Model(&models.User{}).Where("status = ?", models.UserStatusActive).
		Count(&snapshot.ActiveUsers).Error; err != nil {
		return err
	}
	if err := db.Model(&models.ParkingListing{}).Where("listed = ?", models.ListingStatusActive).
		Count(&snapshot.ActiveListings).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Booking{}).Count(&snapshot.TotalBookings).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Booking{}).
		Where("status = ? AND created_at >= ?", models.BookingStatusCompleted, monthStart).
		Select("COALESCE(SUM(platform_fee), 0)").Scan(&snapshot.MonthlyRevenue).Error; err != nil {
		return err
	}

	return nil
}

// InvalidateCache drops the cached snapshot; called after decisions that
// should be visible on the next dashboard load.
func (s *StatsService) InvalidateCache(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, statsCacheKey).Err(); err != nil {
		s.logger.WithError(err).Debug("failed to invalidate stats cache")
	}
}
