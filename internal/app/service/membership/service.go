package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	planpkg "github.com/keurgym/membership/internal/app/service/plan"
	"github.com/keurgym/membership/internal/models"
	"github.com/keurgym/membership/pkg/config"
	"github.com/keurgym/membership/pkg/logctx"
	"github.com/keurgym/membership/pkg/metrics"
	"github.com/keurgym/membership/pkg/tool"
	"github.com/keurgym/membership/pkg/types"
)

var (
	ErrMembershipNotFound = errors.New("membership not found")
	// ErrInvalidState is returned when an operation is not legal from the
	// membership's current status, e.g. reinstating a cancelled membership.
	ErrInvalidState = errors.New("operation not valid from current membership state")
	// ErrStalePayment is returned when a succeeded payment references a
	// membership that was cancelled in the meantime.
	ErrStalePayment = errors.New("payment references a cancelled membership")
)

// Service is the lifecycle engine. Every mutation of a single membership goes
// through a row lock (SELECT ... FOR UPDATE) inside one transaction, so the
// expiry arithmetic always starts from a consistently-read prior state.
type Service struct {
	db  *gorm.DB
	cfg *config.Config
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, cfg *config.Config, log *zap.SugaredLogger) *Service {
	return &Service{db: db, cfg: cfg, log: log}
}

// PurchaseResult pairs the pending membership with its initiated payment.
type PurchaseResult struct {
	Membership *models.Membership `json:"membership"`
	Payment    *models.Payment    `json:"payment"`
}

// Purchase creates a pending membership for the selected plan together with
// an initiated payment. Any previously open membership of the member
// (pending or active) is cancelled as superseded, keeping the at-most-one
// open membership invariant.
func (s *Service) Purchase(ctx context.Context, memberID, planID string, method types.PaymentMethod) (*PurchaseResult, error) {
	if !method.Valid() {
		return nil, fmt.Errorf("unsupported payment method: %s", method)
	}

	var result PurchaseResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan models.Plan
		if err := tx.Where("id = ?", planID).First(&plan).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return planpkg.ErrPlanNotFound
			}
			return fmt.Errorf("failed to load plan: %w", err)
		}
		if !plan.Active {
			return planpkg.ErrPlanInactive
		}

		var open []*models.Membership
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("member_id = ? AND status IN ?", memberID,
				[]types.MembershipStatus{types.MembershipStatusPending, types.MembershipStatusActive}).
			Find(&open).Error; err != nil {
			return fmt.Errorf("failed to lock open memberships: %w", err)
		}
		for _, prior := range open {
			before := *prior
			prior.Status = types.MembershipStatusCancelled
			if err := tx.Save(prior).Error; err != nil {
				return fmt.Errorf("failed to supersede membership %s: %w", prior.ID, err)
			}
			s.writeLog(ctx, tx, &before, prior, types.MembershipChangeReasonSuperseded, datatypes.JSONMap{})
		}

		m := &models.Membership{
			ID:       tool.GenerateUUIDV7(),
			MemberID: memberID,
			PlanID:   plan.ID,
			Status:   types.MembershipStatusPending,
		}
		if err := tx.Create(m).Error; err != nil {
			return fmt.Errorf("failed to create membership: %w", err)
		}

		p := &models.Payment{
			ID:           tool.GenerateUUIDV7(),
			MembershipID: m.ID,
			AmountXOF:    plan.PriceXOF,
			Currency:     types.CurrencyXOF,
			Method:       method,
			Status:       types.PaymentStatusInitiated,
			ExternalRef:  tool.GenerateUUIDV7(),
		}
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("failed to create payment: %w", err)
		}

		s.writeLog(ctx, tx, nil, m, types.MembershipChangeReasonPurchase, datatypes.JSONMap{"payment_id": p.ID})
		result = PurchaseResult{Membership: m, Payment: p}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logctx.FromCtx(ctx, s.log).Infow("membership purchased",
		"membership_id", result.Membership.ID, "member_id", memberID, "plan_id", planID, "method", method)
	return &result, nil
}

// ActivateOrRenew applies a succeeded payment to its membership. It runs
// inside the caller's transaction so the ledger mutation and the lifecycle
// transition commit atomically. The membership row is locked and re-read
// here; concurrent renewals serialize on that lock and each extension is
// computed from the committed state of the previous one.
func (s *Service) ActivateOrRenew(ctx context.Context, tx *gorm.DB, payment *models.Payment) (*models.Membership, error) {
	var m models.Membership
	if err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", payment.MembershipID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to lock membership: %w", err)
	}

	var plan models.Plan
	if err := tx.WithContext(ctx).Where("id = ?", m.PlanID).First(&plan).Error; err != nil {
		return nil, fmt.Errorf("failed to load plan %s: %w", m.PlanID, err)
	}

	paidAt := time.Now()
	if payment.PaidAt != nil {
		paidAt = *payment.PaidAt
	}

	before := m
	reason, err := applySucceededPayment(&m, plan.Duration(), paidAt)
	if err != nil {
		return nil, err
	}
	if err := tx.WithContext(ctx).Save(&m).Error; err != nil {
		return nil, fmt.Errorf("failed to save membership: %w", err)
	}
	s.writeLog(ctx, tx, &before, &m, reason, datatypes.JSONMap{
		"payment_id":   payment.ID,
		"external_ref": payment.ExternalRef,
	})

	logctx.FromCtx(ctx, s.log).Infow("membership payment applied",
		"membership_id", m.ID, "reason", reason, "expire_at", m.ExpireAt)
	return &m, nil
}

// Get returns the membership after lazy expiry evaluation: an active row past
// its expiry is transitioned to expired through the same locked mutation path
// the sweep uses, then re-read.
func (s *Service) Get(ctx context.Context, id string) (*models.Membership, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if shouldExpire(m, time.Now()) {
		if err := s.expireOne(ctx, id, "lazy"); err != nil {
			return nil, err
		}
		return s.load(ctx, id)
	}
	return m, nil
}

// CurrentStatus re-evaluates expiry lazily before returning the status.
func (s *Service) CurrentStatus(ctx context.Context, id string) (types.MembershipStatus, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return "", err
	}
	return m.Status, nil
}

// Suspend freezes a pending or active membership. Idempotent: suspending an
// already-suspended membership is a no-op.
func (s *Service) Suspend(ctx context.Context, id, reason string) (*models.Membership, error) {
	return s.mutate(ctx, id, func(tx *gorm.DB, m *models.Membership, now time.Time) (types.MembershipChangeReason, error) {
		switch m.Status {
		case types.MembershipStatusSuspended:
			return "", nil
		case types.MembershipStatusPending, types.MembershipStatusActive:
			m.Status = types.MembershipStatusSuspended
			m.SuspendReason = &reason
			return types.MembershipChangeReasonSuspend, nil
		default:
			return "", ErrInvalidState
		}
	})
}

// Reinstate lifts a suspension. The membership returns to active while its
// paid period still runs, to expired once it is over, and to pending when it
// never activated. Reinstating an already-active or expired membership is a
// no-op, so a retried reinstate that previously landed on expired converges.
func (s *Service) Reinstate(ctx context.Context, id string) (*models.Membership, error) {
	return s.mutate(ctx, id, func(tx *gorm.DB, m *models.Membership, now time.Time) (types.MembershipChangeReason, error) {
		switch m.Status {
		case types.MembershipStatusActive, types.MembershipStatusExpired:
			return "", nil
		case types.MembershipStatusSuspended:
			m.Status = reinstateTarget(m, now)
			m.SuspendReason = nil
			if m.Status == types.MembershipStatusExpired {
				return types.MembershipChangeReasonExpire, nil
			}
			return types.MembershipChangeReasonReinstate, nil
		default:
			return "", ErrInvalidState
		}
	})
}

// Cancel is terminal and reachable from any non-expired state. Idempotent.
func (s *Service) Cancel(ctx context.Context, id string) (*models.Membership, error) {
	return s.mutate(ctx, id, func(tx *gorm.DB, m *models.Membership, now time.Time) (types.MembershipChangeReason, error) {
		switch m.Status {
		case types.MembershipStatusCancelled:
			return "", nil
		case types.MembershipStatusExpired:
			return "", ErrInvalidState
		default:
			m.Status = types.MembershipStatusCancelled
			return types.MembershipChangeReasonCancel, nil
		}
	})
}

// OverrideActivate activates a membership without a payment. This is the one
// sanctioned exception to the payment-activation coupling; it always writes
// an operator_override log entry carrying the operator id.
func (s *Service) OverrideActivate(ctx context.Context, id, operatorID string) (*models.Membership, error) {
	var plan models.Plan
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Where("id = ?", m.PlanID).First(&plan).Error; err != nil {
		return nil, fmt.Errorf("failed to load plan %s: %w", m.PlanID, err)
	}

	return s.mutateWithExtra(ctx, id, datatypes.JSONMap{"operator_id": operatorID},
		func(tx *gorm.DB, m *models.Membership, now time.Time) (types.MembershipChangeReason, error) {
			switch m.Status {
			case types.MembershipStatusActive:
				return "", nil
			case types.MembershipStatusCancelled:
				return "", ErrInvalidState
			}
			if m.StartAt == nil {
				start := now
				m.StartAt = &start
			}
			if m.ExpireAt == nil || m.Lapsed(now) {
				exp := now.Add(plan.Duration())
				m.ExpireAt = &exp
			}
			m.Status = types.MembershipStatusActive
			m.SuspendReason = nil
			return types.MembershipChangeReasonOperatorOverride, nil
		})
}

// SweepExpired batch-expires active memberships past their expiry. Each row
// goes through the same locked transition path as lazy reads, so a sweep
// never races a concurrent renewal.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	var ids []string
	if err := s.db.WithContext(ctx).Model(&models.Membership{}).
		Where("status = ? AND expire_at < ?", types.MembershipStatusActive, time.Now()).
		Limit(s.cfg.Lifecycle.SweepBatchSize).
		Pluck("id", &ids).Error; err != nil {
		return 0, fmt.Errorf("failed to list lapsed memberships: %w", err)
	}

	expired := 0
	for _, id := range ids {
		if err := s.expireOne(ctx, id, "sweep"); err != nil {
			logctx.FromCtx(ctx, s.log).Errorw("sweep: expire failed", "membership_id", id, "err", err)
			continue
		}
		expired++
	}
	return expired, nil
}

func (s *Service) load(ctx context.Context, id string) (*models.Membership, error) {
	var m models.Membership
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMembershipNotFound
		}
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}
	return &m, nil
}

// expireOne flips one membership to expired under lock, re-checking the
// condition so a renewal that landed in between wins.
func (s *Service) expireOne(ctx context.Context, id, trigger string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.Membership
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMembershipNotFound
			}
			return err
		}
		if !shouldExpire(&m, time.Now()) {
			return nil
		}
		before := m
		m.Status = types.MembershipStatusExpired
		if err := tx.Save(&m).Error; err != nil {
			return fmt.Errorf("failed to expire membership: %w", err)
		}
		s.writeLog(ctx, tx, &before, &m, types.MembershipChangeReasonExpire, datatypes.JSONMap{"trigger": trigger})
		metrics.MembershipsExpired.WithLabelValues(trigger).Inc()
		return nil
	})
}

type mutateFn func(tx *gorm.DB, m *models.Membership, now time.Time) (types.MembershipChangeReason, error)

func (s *Service) mutate(ctx context.Context, id string, fn mutateFn) (*models.Membership, error) {
	return s.mutateWithExtra(ctx, id, datatypes.JSONMap{}, fn)
}

// mutateWithExtra runs one operator transition under the membership row lock.
// Lazy expiry is applied first, inside the same transaction, so the decision
// function always sees a current status. fn returning an empty reason means
// the target state is already in place (idempotent no-op).
func (s *Service) mutateWithExtra(ctx context.Context, id string, extra datatypes.JSONMap, fn mutateFn) (*models.Membership, error) {
	var out *models.Membership
	var opErr error

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.Membership
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrMembershipNotFound
			}
			return err
		}

		now := time.Now()
		if shouldExpire(&m, now) {
			before := m
			m.Status = types.MembershipStatusExpired
			if err := tx.Save(&m).Error; err != nil {
				return fmt.Errorf("failed to expire membership: %w", err)
			}
			s.writeLog(ctx, tx, &before, &m, types.MembershipChangeReasonExpire, datatypes.JSONMap{"trigger": "lazy"})
			metrics.MembershipsExpired.WithLabelValues("lazy").Inc()
		}

		before := m
		reason, err := fn(tx, &m, now)
		if err != nil {
			// Commit the lazy expiry above; surface the state error after.
			opErr = err
			out = &m
			return nil
		}
		if reason == "" {
			out = &m
			return nil
		}
		if err := tx.Save(&m).Error; err != nil {
			return fmt.Errorf("failed to save membership: %w", err)
		}
		s.writeLog(ctx, tx, &before, &m, reason, extra)
		out = &m
		return nil
	})
	if err != nil {
		return nil, err
	}
	if opErr != nil {
		return nil, opErr
	}
	return out, nil
}

// writeLog persists a transition snapshot in the same transaction as the
// mutation it describes. The churn report and the override audit trail read
// this table.
func (s *Service) writeLog(ctx context.Context, tx *gorm.DB, before, after *models.Membership, reason types.MembershipChangeReason, extra datatypes.JSONMap) {
	entry := &models.MembershipLog{
		ID:           tool.GenerateUUIDV7(),
		MembershipID: after.ID,
		MemberID:     after.MemberID,
		Reason:       reason,
		Before:       datatypes.NewJSONType(before),
		After:        datatypes.NewJSONType(after),
		Extra:        extra,
	}
	if err := tx.WithContext(ctx).Create(entry).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Errorf("failed to save membership log: %v", err)
	}
}
