package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/keurgym/membership/internal/app/service/checkin"
	"github.com/keurgym/membership/pkg/response"
)

type CheckInRequest struct {
	MembershipID string `json:"membership_id" binding:"required"`
	GymID        string `json:"gym_id" binding:"required"`
}

// @Summary      Record Check-in
// @Description  Records a gym visit. The membership must evaluate to active at check-in time.
// @Tags         CheckIn
// @Accept       json
// @Produce      json
// @Param        request body handlers.CheckInRequest true "Check-in request"
// @Success      200  {object}  handlers.RespCheckIn
// @Router       /api/v1/checkins [post]
func ApiRecordCheckIn(tracker *checkin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		visit, err := tracker.Record(c.Request.Context(), req.MembershipID, req.GymID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(visit))
	}
}

type VisitStatsResponse struct {
	Visits    int64      `json:"visits"`
	LastVisit *time.Time `json:"last_visit"`
}

// @Summary      Visit Stats
// @Description  Returns visit count since an optional RFC3339 instant plus the last visit time.
// @Tags         CheckIn
// @Produce      json
// @Param        id path string true "Membership ID"
// @Param        since query string false "RFC3339 lower bound"
// @Success      200  {object}  handlers.RespVisitStats
// @Router       /api/v1/memberships/{id}/visit_stats [get]
func ApiVisitStats(tracker *checkin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var since *time.Time
		if raw := c.Query("since"); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "since must be RFC3339"))
				return
			}
			since = &t
		}

		id := c.Param("id")
		count, err := tracker.CountVisits(c.Request.Context(), id, since)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		last, err := tracker.LastVisit(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(&VisitStatsResponse{Visits: count, LastVisit: last}))
	}
}

func RegisterCheckInRoutes(r gin.IRouter, tracker *checkin.Service) {
	r.POST("/checkins", ApiRecordCheckIn(tracker))
	r.GET("/memberships/:id/visit_stats", ApiVisitStats(tracker))
}
