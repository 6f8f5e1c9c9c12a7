package plan

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/keurgym/membership/internal/models"
	"github.com/keurgym/membership/pkg/tool"
)

var (
	ErrPlanNotFound = errors.New("plan not found")
	ErrPlanInactive = errors.New("plan is no longer offered")
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// List returns plans, optionally only the ones currently offered.
func (s *Service) List(ctx context.Context, activeOnly bool) ([]*models.Plan, error) {
	var plans []*models.Plan
	q := s.db.WithContext(ctx).Order("price_xof asc")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&plans).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Plan, error) {
	var p models.Plan
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return &p, nil
}

// Create adds a new plan to the catalog. Operator action only.
func (s *Service) Create(ctx context.Context, p *models.Plan) (*models.Plan, error) {
	if p.Name == "" || p.PriceXOF <= 0 || p.DurationDays <= 0 {
		return nil, fmt.Errorf("invalid plan: name, price and duration are required")
	}
	if p.ID == "" {
		p.ID = tool.GenerateUUIDV7()
	}
	p.Active = true
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	s.log.Infow("plan created", "plan_id", p.ID, "name", p.Name, "price_xof", p.PriceXOF)
	return p, nil
}

// Deactivate withdraws a plan from sale. The row stays: memberships keep
// referencing it for expiry arithmetic and history.
func (s *Service) Deactivate(ctx context.Context, id string) (*models.Plan, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Active {
		return p, nil
	}
	if err := s.db.WithContext(ctx).Model(p).Update("active", false).Error; err != nil {
		return nil, fmt.Errorf("failed to deactivate plan: %w", err)
	}
	p.Active = false
	s.log.Infow("plan deactivated", "plan_id", id)
	return p, nil
}
