package reporting

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/keurgym/membership/pkg/config"
	"github.com/keurgym/membership/pkg/logctx"
	"github.com/keurgym/membership/pkg/types"
)

// Service is the read-only reporting facade: pure aggregation over the
// membership, payment and check-in stores. Results are cached in redis for a
// short TTL when a client is configured; a nil client queries straight
// through.
type Service struct {
	db    *gorm.DB
	cache *redis.Client
	cfg   *config.Config
	log   *zap.SugaredLogger
}

func New(db *gorm.DB, cache *redis.Client, cfg *config.Config, log *zap.SugaredLogger) *Service {
	return &Service{db: db, cache: cache, cfg: cfg, log: log}
}

type RevenueItem struct {
	Method   types.PaymentMethod `gorm:"column:method" json:"method"`
	TotalXOF int64               `gorm:"column:total_xof" json:"total_xof"`
	Payments int64               `gorm:"column:payments" json:"payments"`
}

type RevenueReport struct {
	From     time.Time     `json:"from"`
	To       time.Time     `json:"to"`
	TotalXOF int64         `json:"total_xof"`
	ByMethod []RevenueItem `json:"by_method"`
}

// Revenue sums succeeded payments in [from, to], broken down by method.
func (s *Service) Revenue(ctx context.Context, from, to time.Time) (*RevenueReport, error) {
	key := fmt.Sprintf("report:revenue:%d:%d", from.Unix(), to.Unix())
	return cached(ctx, s, key, func() (*RevenueReport, error) {
		var items []RevenueItem
		err := s.db.WithContext(ctx).Table("payment").
			Select("method, SUM(amount_xof) AS total_xof, COUNT(*) AS payments").
			Where("status = ? AND paid_at >= ? AND paid_at <= ?", types.PaymentStatusSucceeded, from, to).
			Group("method").
			Order("method").
			Find(&items).Error
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate revenue: %w", err)
		}
		return &RevenueReport{
			From:     from,
			To:       to,
			TotalXOF: lo.SumBy(items, func(i RevenueItem) int64 { return i.TotalXOF }),
			ByMethod: items,
		}, nil
	})
}

type ExpiringMembership struct {
	MembershipID string    `gorm:"column:membership_id" json:"membership_id"`
	MemberID     string    `gorm:"column:member_id" json:"member_id"`
	PlanName     string    `gorm:"column:plan_name" json:"plan_name"`
	ExpireAt     time.Time `gorm:"column:expire_at" json:"expire_at"`
}

// ExpiringSoon lists active memberships with 0 < expiry-now <= days.
func (s *Service) ExpiringSoon(ctx context.Context, days int) ([]ExpiringMembership, error) {
	if days <= 0 {
		days = s.cfg.Lifecycle.ExpiringSoonDays
	}
	key := fmt.Sprintf("report:expiring:%d", days)
	return cached(ctx, s, key, func() ([]ExpiringMembership, error) {
		now := time.Now()
		cutoff := now.Add(time.Duration(days) * 24 * time.Hour)
		var rows []ExpiringMembership
		err := s.db.WithContext(ctx).Table("membership m").
			Select("m.id AS membership_id, m.member_id, p.name AS plan_name, m.expire_at").
			Joins("JOIN plan p ON p.id = m.plan_id").
			Where("m.status = ? AND m.expire_at > ? AND m.expire_at <= ?", types.MembershipStatusActive, now, cutoff).
			Order("m.expire_at asc").
			Find(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list expiring memberships: %w", err)
		}
		return rows, nil
	})
}

type GymOccupancy struct {
	GymID         string  `gorm:"column:gym_id" json:"gym_id"`
	Name          string  `gorm:"column:name" json:"name"`
	Capacity      int     `gorm:"column:capacity" json:"capacity"`
	ActiveMembers int64   `gorm:"column:active_members" json:"active_members"`
	Rate          float64 `gorm:"-" json:"rate"`
}

// Occupancy reports, per gym, how many currently-active memberships have
// checked in there, relative to the gym's capacity.
func (s *Service) Occupancy(ctx context.Context) ([]GymOccupancy, error) {
	return cached(ctx, s, "report:occupancy", func() ([]GymOccupancy, error) {
		var rows []GymOccupancy
		err := s.db.WithContext(ctx).Raw(`
SELECT g.id AS gym_id, g.name, g.capacity, COUNT(DISTINCT m.id) AS active_members
FROM gym g
LEFT JOIN check_in c ON c.gym_id = g.id
LEFT JOIN membership m ON m.id = c.membership_id AND m.status = ? AND m.expire_at > NOW()
GROUP BY g.id, g.name, g.capacity
ORDER BY g.name
`, types.MembershipStatusActive).Scan(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate occupancy: %w", err)
		}
		return lo.Map(rows, func(r GymOccupancy, _ int) GymOccupancy {
			if r.Capacity > 0 {
				r.Rate = float64(r.ActiveMembers) / float64(r.Capacity)
			}
			return r
		}), nil
	})
}

type ChurnReport struct {
	From       time.Time `json:"from"`
	To         time.Time `json:"to"`
	Expired    int64     `json:"expired"`
	Reinstated int64     `json:"reinstated"`
	Churn      int64     `json:"churn"`
}

// Churn counts memberships that expired in the range, net of reinstatements,
// from the transition log.
func (s *Service) Churn(ctx context.Context, from, to time.Time) (*ChurnReport, error) {
	key := fmt.Sprintf("report:churn:%d:%d", from.Unix(), to.Unix())
	return cached(ctx, s, key, func() (*ChurnReport, error) {
		count := func(reason types.MembershipChangeReason) (int64, error) {
			var n int64
			err := s.db.WithContext(ctx).Table("membership_log").
				Where("reason = ? AND created_at >= ? AND created_at <= ?", reason, from, to).
				Count(&n).Error
			return n, err
		}
		expired, err := count(types.MembershipChangeReasonExpire)
		if err != nil {
			return nil, fmt.Errorf("failed to count expirations: %w", err)
		}
		reinstated, err := count(types.MembershipChangeReasonReinstate)
		if err != nil {
			return nil, fmt.Errorf("failed to count reinstatements: %w", err)
		}
		return &ChurnReport{From: from, To: to, Expired: expired, Reinstated: reinstated, Churn: expired - reinstated}, nil
	})
}

type Summary struct {
	Revenue   *RevenueReport       `json:"revenue"`
	Expiring  []ExpiringMembership `json:"expiring"`
	Occupancy []GymOccupancy       `json:"occupancy"`
	Churn     *ChurnReport         `json:"churn"`
}

// DashboardSummary fans the four aggregates out in parallel over the last 30
// days. This is the single call the operator dashboard's landing page makes.
func (s *Service) DashboardSummary(ctx context.Context) (*Summary, error) {
	to := time.Now()
	from := to.Add(-30 * 24 * time.Hour)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		summary  Summary
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		r, err := s.Revenue(ctx, from, to)
		if err != nil {
			fail(err)
			return
		}
		summary.Revenue = r
	}()
	go func() {
		defer wg.Done()
		e, err := s.ExpiringSoon(ctx, s.cfg.Lifecycle.ExpiringSoonDays)
		if err != nil {
			fail(err)
			return
		}
		summary.Expiring = e
	}()
	go func() {
		defer wg.Done()
		o, err := s.Occupancy(ctx)
		if err != nil {
			fail(err)
			return
		}
		summary.Occupancy = o
	}()
	go func() {
		defer wg.Done()
		c, err := s.Churn(ctx, from, to)
		if err != nil {
			fail(err)
			return
		}
		summary.Churn = c
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return &summary, nil
}

// cached serves a report from redis when possible, recomputing and storing it
// otherwise. Cache errors degrade to a direct query.
func cached[T any](ctx context.Context, s *Service, key string, compute func() (T, error)) (T, error) {
	var zero T
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			var v T
			if jsonErr := json.Unmarshal(raw, &v); jsonErr == nil {
				return v, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logctx.FromCtx(ctx, s.log).Warnw("report cache read failed", "key", key, "err", err)
		}
	}

	v, err := compute()
	if err != nil {
		return zero, err
	}

	if s.cache != nil {
		if raw, jsonErr := json.Marshal(v); jsonErr == nil {
			if err := s.cache.Set(ctx, key, raw, s.cfg.Redis.ReportTTL).Err(); err != nil {
				logctx.FromCtx(ctx, s.log).Warnw("report cache write failed", "key", key, "err", err)
			}
		}
	}
	return v, nil
}
