package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/keurgym/membership/pkg/config"
	"github.com/keurgym/membership/pkg/response"
)

func webhookEngine(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Ledger and event log are never reached on the rejection paths under test.
	r.POST("/gateway/webhook", ApiGatewayWebhook(nil, nil, cfg, zap.NewNop().Sugar()))
	return r
}

func postWebhook(t *testing.T, r *gin.Engine, body []byte, signature string) *response.APIResponse[json.RawMessage] {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/gateway/webhook", bytes.NewReader(body))
	if signature != "" {
		req.Header.Set("X-Signature", signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp response.APIResponse[json.RawMessage]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return &resp
}

func TestGatewayWebhook_RejectsBadSignature(t *testing.T) {
	cfg := &config.Config{Gateway: config.GatewayConfig{WebhookSecret: "s3cret"}}
	r := webhookEngine(cfg)

	body := []byte(`{"external_ref":"ref-1","status":"SUCCESS"}`)
	resp := postWebhook(t, r, body, "deadbeef")
	require.Equal(t, response.APIResponseCodeUnauthorized, resp.Code)

	resp = postWebhook(t, r, body, "")
	require.Equal(t, response.APIResponseCodeUnauthorized, resp.Code)
}

func TestGatewayWebhook_RejectsMalformedBody(t *testing.T) {
	cfg := &config.Config{Gateway: config.GatewayConfig{WebhookSecret: "s3cret"}}
	r := webhookEngine(cfg)

	body := []byte(`not json`)
	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write(body)

	resp := postWebhook(t, r, body, hex.EncodeToString(mac.Sum(nil)))
	require.Equal(t, response.APIResponseCodeBadRequest, resp.Code)
}
