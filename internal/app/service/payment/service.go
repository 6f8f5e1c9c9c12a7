package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/keurgym/membership/internal/app/service/membership"
	"github.com/keurgym/membership/internal/models"
	"github.com/keurgym/membership/pkg/logctx"
	"github.com/keurgym/membership/pkg/metrics"
	"github.com/keurgym/membership/pkg/tool"
	"github.com/keurgym/membership/pkg/types"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrInvalidMembership is returned when initiating a payment for a
	// membership that does not exist or was cancelled.
	ErrInvalidMembership = errors.New("membership does not exist or is cancelled")
	// ErrConflictingPaymentState marks ledger/gateway disagreement: the
	// stored payment already holds a different terminal status. Never
	// auto-resolved; surfaced for manual reconciliation.
	ErrConflictingPaymentState = errors.New("conflicting terminal payment state")
)

// Service is the payment ledger. A succeeded gateway event recorded here is
// the sole trigger for membership activation and renewal.
type Service struct {
	db     *gorm.DB
	log    *zap.SugaredLogger
	engine *membership.Service
}

func NewService(db *gorm.DB, log *zap.SugaredLogger, engine *membership.Service) *Service {
	return &Service{db: db, log: log, engine: engine}
}

// Initiate creates a new initiated payment against an existing, non-cancelled
// membership. Used for retries after a failed attempt; the initial payment of
// a purchase is created by the lifecycle engine in the purchase transaction.
func (s *Service) Initiate(ctx context.Context, membershipID string, amount int64, method types.PaymentMethod) (*models.Payment, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("invalid amount: %d", amount)
	}
	if !method.Valid() {
		return nil, fmt.Errorf("unsupported payment method: %s", method)
	}

	var m models.Membership
	if err := s.db.WithContext(ctx).Where("id = ?", membershipID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidMembership
		}
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}
	if m.Status == types.MembershipStatusCancelled {
		return nil, ErrInvalidMembership
	}

	p := &models.Payment{
		ID:           tool.GenerateUUIDV7(),
		MembershipID: m.ID,
		AmountXOF:    amount,
		Currency:     types.CurrencyXOF,
		Method:       method,
		Status:       types.PaymentStatusInitiated,
		ExternalRef:  tool.GenerateUUIDV7(),
	}
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	logctx.FromCtx(ctx, s.log).Infow("payment initiated",
		"payment_id", p.ID, "membership_id", m.ID, "amount_xof", amount, "method", method)
	return p, nil
}

// RecordGatewayEvent applies one gateway status event, keyed on the external
// reference. The payment row is locked for the duration of the transaction;
// on a transition to succeeded the lifecycle engine runs inside the same
// transaction, so ledger and membership commit or roll back together.
func (s *Service) RecordGatewayEvent(ctx context.Context, externalRef string, newStatus types.PaymentStatus, metadata datatypes.JSONMap) (*models.Payment, error) {
	var out *models.Payment
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p models.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("external_ref = ?", externalRef).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return fmt.Errorf("failed to lock payment: %w", err)
		}

		apply, err := resolveGatewayTransition(p.Status, newStatus)
		if err != nil {
			metrics.PaymentConflicts.Inc()
			logctx.FromCtx(ctx, s.log).Errorw("conflicting gateway event",
				"external_ref", externalRef, "stored_status", p.Status, "incoming_status", newStatus)
			return err
		}
		if !apply {
			// Replayed event; return the stored record unchanged.
			out = &p
			return nil
		}

		now := time.Now()
		p.Status = newStatus
		if len(metadata) > 0 {
			p.Metadata = metadata
		}
		switch newStatus {
		case types.PaymentStatusSucceeded:
			p.PaidAt = &now
		case types.PaymentStatusRefunded:
			p.RefundedAt = &now
		}
		if err := tx.Save(&p).Error; err != nil {
			return fmt.Errorf("failed to save payment: %w", err)
		}

		if newStatus == types.PaymentStatusSucceeded {
			if _, err := s.engine.ActivateOrRenew(ctx, tx, &p); err != nil {
				return err
			}
		}

		out = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// List returns a membership's payments, oldest first.
func (s *Service) List(ctx context.Context, membershipID string) ([]*models.Payment, error) {
	var payments []*models.Payment
	if err := s.db.WithContext(ctx).
		Where("membership_id = ?", membershipID).
		Order("created_at asc").
		Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// filtersAnd combines multiple CommonFilter into a single clause.Expression.
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

type ScanPaymentsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanPaymentsResponse struct {
	Items []*models.Payment `json:"items"`
	Total int64             `json:"total"`
}

// ScanPayments implements the paginated, filterable listing behind the
// operator dashboard's payment pages.
func (s *Service) ScanPayments(ctx context.Context, req *ScanPaymentsRequest) (*ScanPaymentsResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.Payment{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count payments: %w", err)
	}

	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if req.SortBy != "" {
		q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})
	}

	var rows []*models.Payment
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return &ScanPaymentsResponse{Items: rows, Total: total}, nil
}
