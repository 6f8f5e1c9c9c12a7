package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/keurgym/membership/internal/app/service/reporting"
	"github.com/keurgym/membership/pkg/config"
	"github.com/keurgym/membership/pkg/response"
)

// reportRange parses from/to query params, defaulting to the last 30 days.
func reportRange(c *gin.Context) (time.Time, time.Time, bool) {
	to := time.Now()
	from := to.Add(-30 * 24 * time.Hour)
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "from must be RFC3339"))
			return from, to, false
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "to must be RFC3339"))
			return from, to, false
		}
		to = t
	}
	return from, to, true
}

// @Summary      Revenue Report (Admin)
// @Description  Succeeded payment totals in a window, broken down by method.
// @Tags         Admin
// @Produce      json
// @Param        from query string false "RFC3339 window start (default: 30 days ago)"
// @Param        to query string false "RFC3339 window end (default: now)"
// @Success      200  {object}  handlers.RespRevenue
// @Router       /api/v1/admin/reports/revenue [get]
func ApiRevenueReport(svc *reporting.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, ok := reportRange(c)
		if !ok {
			return
		}
		r, err := svc.Revenue(c.Request.Context(), from, to)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(r))
	}
}

// @Summary      Expiring Soon Report (Admin)
// @Description  Active memberships whose paid period ends within the window, for renewal reminders.
// @Tags         Admin
// @Produce      json
// @Param        days query int false "Window in days (default from config)"
// @Success      200  {object}  handlers.RespExpiring
// @Router       /api/v1/admin/reports/expiring [get]
func ApiExpiringReport(svc *reporting.Service, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		days := cfg.Lifecycle.ExpiringSoonDays
		if raw := c.Query("days"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "days must be a positive integer"))
				return
			}
			days = n
		}
		items, err := svc.ExpiringSoon(c.Request.Context(), days)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

// @Summary      Occupancy Report (Admin)
// @Description  Distinct active memberships that have checked in at each gym, against capacity.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespOccupancy
// @Router       /api/v1/admin/reports/occupancy [get]
func ApiOccupancyReport(svc *reporting.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := svc.Occupancy(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(items))
	}
}

// @Summary      Churn Report (Admin)
// @Description  Expirations minus reinstatements over a window.
// @Tags         Admin
// @Produce      json
// @Param        from query string false "RFC3339 window start (default: 30 days ago)"
// @Param        to query string false "RFC3339 window end (default: now)"
// @Success      200  {object}  handlers.RespChurn
// @Router       /api/v1/admin/reports/churn [get]
func ApiChurnReport(svc *reporting.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, to, ok := reportRange(c)
		if !ok {
			return
		}
		r, err := svc.Churn(c.Request.Context(), from, to)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(r))
	}
}

// @Summary      Dashboard Summary (Admin)
// @Description  Revenue, expiring, occupancy and churn over the last 30 days in one call.
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  handlers.RespSummary
// @Router       /api/v1/admin/reports/summary [get]
func ApiDashboardSummary(svc *reporting.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, err := svc.DashboardSummary(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(s))
	}
}

func RegisterReportRoutes(r gin.IRouter, svc *reporting.Service, cfg *config.Config) {
	r.GET("/reports/revenue", ApiRevenueReport(svc))
	r.GET("/reports/expiring", ApiExpiringReport(svc, cfg))
	r.GET("/reports/occupancy", ApiOccupancyReport(svc))
	r.GET("/reports/churn", ApiChurnReport(svc))
	r.GET("/reports/summary", ApiDashboardSummary(svc))
}
