package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/keurgym/membership/internal/app/api/server"
	"github.com/keurgym/membership/internal/app/service/checkin"
	"github.com/keurgym/membership/internal/app/service/gatewaylog"
	"github.com/keurgym/membership/internal/app/service/membership"
	"github.com/keurgym/membership/internal/app/service/payment"
	"github.com/keurgym/membership/internal/app/service/plan"
	"github.com/keurgym/membership/internal/app/service/reporting"
	"github.com/keurgym/membership/internal/platform/cache"
	"github.com/keurgym/membership/internal/platform/db"
	"github.com/keurgym/membership/pkg/config"
	"github.com/keurgym/membership/pkg/logger"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	cache.Module,
	server.Module,
	plan.Module,
	membership.Module,
	payment.Module,
	gatewaylog.Module,
	checkin.Module,
	reporting.Module,
)
