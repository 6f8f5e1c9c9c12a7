package checkin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/keurgym/membership/internal/app/service/membership"
	"github.com/keurgym/membership/internal/models"
	"github.com/keurgym/membership/pkg/logctx"
	"github.com/keurgym/membership/pkg/metrics"
	"github.com/keurgym/membership/pkg/tool"
	"github.com/keurgym/membership/pkg/types"
)

// ErrMembershipNotActive rejects check-ins against pending, expired,
// suspended or cancelled memberships.
var ErrMembershipNotActive = errors.New("membership is not active")

var ErrGymNotFound = errors.New("gym not found")

type Service struct {
	db     *gorm.DB
	log    *zap.SugaredLogger
	engine *membership.Service
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, engine *membership.Service) *Service {
	return &Service{db: db, log: log, engine: engine}
}

// Record stores one gym visit. The status check goes through the lifecycle
// engine so an active-but-lapsed membership expires first and is rejected.
func (s *Service) Record(ctx context.Context, membershipID, gymID string) (*models.CheckIn, error) {
	status, err := s.engine.CurrentStatus(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if status != types.MembershipStatusActive {
		return nil, ErrMembershipNotActive
	}

	var gym models.Gym
	if err := s.db.WithContext(ctx).Where("id = ?", gymID).First(&gym).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGymNotFound
		}
		return nil, fmt.Errorf("failed to load gym: %w", err)
	}

	c := &models.CheckIn{
		ID:           tool.GenerateUUIDV7(),
		MembershipID: membershipID,
		GymID:        gymID,
		CheckedInAt:  time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}
	metrics.CheckInsRecorded.Inc()
	logctx.FromCtx(ctx, s.log).Infow("check-in recorded",
		"membership_id", membershipID, "gym_id", gymID)
	return c, nil
}

// CountVisits returns the number of visits, optionally since a point in time.
func (s *Service) CountVisits(ctx context.Context, membershipID string, since *time.Time) (int64, error) {
	q := s.db.WithContext(ctx).Model(&models.CheckIn{}).Where("membership_id = ?", membershipID)
	if since != nil {
		q = q.Where("checked_in_at >= ?", *since)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count visits: %w", err)
	}
	return count, nil
}

// LastVisit returns the most recent visit time, or nil when there is none.
func (s *Service) LastVisit(ctx context.Context, membershipID string) (*time.Time, error) {
	var c models.CheckIn
	err := s.db.WithContext(ctx).
		Where("membership_id = ?", membershipID).
		Order("checked_in_at desc").
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last visit: %w", err)
	}
	return &c.CheckedInAt, nil
}

// List returns a membership's check-ins, oldest first.
func (s *Service) List(ctx context.Context, membershipID string) ([]*models.CheckIn, error) {
	var visits []*models.CheckIn
	if err := s.db.WithContext(ctx).
		Where("membership_id = ?", membershipID).
		Order("checked_in_at asc").
		Find(&visits).Error; err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	return visits, nil
}
