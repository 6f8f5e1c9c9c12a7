package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/keurgym/membership/docs"
	"github.com/keurgym/membership/internal/app/api/handlers"
	mw "github.com/keurgym/membership/internal/app/api/middleware"
	"github.com/keurgym/membership/internal/app/service/checkin"
	"github.com/keurgym/membership/internal/app/service/gatewaylog"
	"github.com/keurgym/membership/internal/app/service/membership"
	"github.com/keurgym/membership/internal/app/service/payment"
	"github.com/keurgym/membership/internal/app/service/plan"
	"github.com/keurgym/membership/internal/app/service/reporting"
	cfgpkg "github.com/keurgym/membership/pkg/config"
	metrics "github.com/keurgym/membership/pkg/metrics"
)

func newEngine() *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	// Tracing only; request logger & access log are attached per group.
	r.Use(mw.TraceMiddleware())
	return r
}

type routeDeps struct {
	fx.In

	Log     *zap.SugaredLogger
	Cfg     *cfgpkg.Config
	Plans   *plan.Service
	Engine  *membership.Service
	Ledger  *payment.Service
	Events  *gatewaylog.Service
	Tracker *checkin.Service
	Reports *reporting.Service
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	if d.Cfg.MetricsAddr != "" {
		p := metrics.NewHTTPMetrics(metrics.Options{
			ListenAddress: d.Cfg.MetricsAddr,
			URLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: d.Log,
		})
		p.Use(r)
		d.Log.Infow("metrics started", "addr", d.Cfg.MetricsAddr)
	}

	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	apiV1 := r.Group("/api/v1")
	apiV1.Use(mw.RequestLoggerMiddleware(d.Log), mw.AccessLogMiddleware())

	handlers.RegisterPlanRoutes(apiV1, d.Plans)
	handlers.RegisterMembershipRoutes(apiV1, d.Engine, d.Ledger, d.Tracker)
	handlers.RegisterPaymentRoutes(apiV1, d.Ledger, d.Engine, d.Plans)

	// Turnstile bursts share the gateway's per-IP budget.
	checkins := apiV1.Group("/")
	checkins.Use(mw.RateLimitMiddleware(d.Cfg.Gateway.WebhookRPS, d.Cfg.Gateway.WebhookBurst))
	handlers.RegisterCheckInRoutes(checkins, d.Tracker)

	// Gateway callbacks: rate limited, signature checked in the handler.
	webhook := apiV1.Group("/")
	webhook.Use(mw.RateLimitMiddleware(d.Cfg.Gateway.WebhookRPS, d.Cfg.Gateway.WebhookBurst))
	handlers.RegisterWebhookRoutes(webhook, d.Ledger, d.Events, d.Cfg, d.Log)

	admin := apiV1.Group("/admin")
	admin.Use(mw.OperatorAuthMiddleware(d.Cfg.Admin.JWTSecret))
	handlers.RegisterAdminPlanRoutes(admin, d.Plans)
	handlers.RegisterAdminMembershipRoutes(admin, d.Engine, d.Ledger)
	handlers.RegisterReportRoutes(admin, d.Reports, d.Cfg)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
