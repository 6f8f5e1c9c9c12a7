package gatewaylog

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/keurgym/membership/internal/models"
	"github.com/keurgym/membership/pkg/logctx"
	"github.com/keurgym/membership/pkg/tool"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Save upserts a gateway event log entry. Failures are logged and swallowed;
// reconciliation logging must never fail webhook handling.
func (s *Service) Save(ctx context.Context, entry *models.GatewayEventLog) {
	if entry == nil {
		return
	}
	if entry.ID == "" {
		entry.ID = tool.GenerateUUIDV7()
	}
	if err := s.db.WithContext(ctx).Save(entry).Error; err != nil {
		logctx.FromCtx(ctx, s.log).Errorf("failed to save gateway event log: %v", err)
	}
}
