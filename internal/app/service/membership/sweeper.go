package membership

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/keurgym/membership/pkg/config"
)

// runSweeper schedules the periodic expiry sweep. The sweep is a safety net
// behind lazy evaluation: a membership nobody reads still gets flipped to
// expired within one sweep interval.
func runSweeper(lc fx.Lifecycle, svc *Service, cfg *config.Config, log *zap.SugaredLogger) {
	interval := cfg.Lifecycle.SweepInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	stop := make(chan struct{})
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						n, err := svc.SweepExpired(context.Background())
						if err != nil {
							log.Errorw("expiry sweep failed", "err", err)
							continue
						}
						if n > 0 {
							log.Infow("expiry sweep completed", "expired", n)
						}
					case <-stop:
						return
					}
				}
			}()
			log.Infow("expiry sweep scheduled", "interval", interval)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(stop)
			select {
			case <-done:
			case <-ctx.Done():
			}
			return nil
		},
	})
}
