package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func registeredRoutes(r *gin.Engine) map[string]bool {
	out := make(map[string]bool)
	for _, rt := range r.Routes() {
		out[rt.Method+" "+rt.Path] = true
	}
	return out
}

func TestRegisterMembershipRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterMembershipRoutes(r.Group("/api/v1"), nil, nil, nil)

	routes := registeredRoutes(r)
	require.True(t, routes["POST /api/v1/memberships/purchase"])
	require.True(t, routes["GET /api/v1/memberships/:id"])
	require.True(t, routes["GET /api/v1/memberships/:id/status"])
	require.True(t, routes["GET /api/v1/memberships/:id/payments"])
	require.True(t, routes["GET /api/v1/memberships/:id/visits"])
}

func TestRegisterAdminRoutes_RegistersEndpoints(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1/admin")
	RegisterAdminPlanRoutes(g, nil)
	RegisterAdminMembershipRoutes(g, nil, nil)
	RegisterReportRoutes(g, nil, nil)

	routes := registeredRoutes(r)
	require.True(t, routes["POST /api/v1/admin/plans"])
	require.True(t, routes["POST /api/v1/admin/plans/:id/deactivate"])
	require.True(t, routes["POST /api/v1/admin/memberships/:id/suspend"])
	require.True(t, routes["POST /api/v1/admin/memberships/:id/reinstate"])
	require.True(t, routes["POST /api/v1/admin/memberships/:id/cancel"])
	require.True(t, routes["POST /api/v1/admin/memberships/:id/activate"])
	require.True(t, routes["POST /api/v1/admin/payments/scan"])
	require.True(t, routes["GET /api/v1/admin/reports/summary"])
}

func TestMapGatewayStatus(t *testing.T) {
	for raw, want := range map[string]string{
		"SUCCESS":             "succeeded",
		"succeeded":           "succeeded",
		"TRANSACTION_SUCCESS": "succeeded",
		"FAILED":              "failed",
		"PENDING":             "pending",
		"REFUNDED":            "refunded",
	} {
		got, ok := mapGatewayStatus(raw)
		require.True(t, ok, raw)
		require.Equal(t, want, string(got), raw)
	}

	_, ok := mapGatewayStatus("EXPLODED")
	require.False(t, ok)
}
