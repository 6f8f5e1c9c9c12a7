package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifyWebhookSignature_Valid(t *testing.T) {
	body := []byte(`{"external_ref":"ref-1","status":"succeeded"}`)
	require.True(t, VerifyWebhookSignature("s3cret", body, sign("s3cret", body)))
}

func TestVerifyWebhookSignature_WrongSecret(t *testing.T) {
	body := []byte(`{"external_ref":"ref-1","status":"succeeded"}`)
	require.False(t, VerifyWebhookSignature("s3cret", body, sign("other", body)))
}

func TestVerifyWebhookSignature_TamperedBody(t *testing.T) {
	body := []byte(`{"external_ref":"ref-1","status":"succeeded"}`)
	sig := sign("s3cret", body)
	require.False(t, VerifyWebhookSignature("s3cret", []byte(`{"external_ref":"ref-1","status":"failed"}`), sig))
}

func TestVerifyWebhookSignature_EmptySecretDisables(t *testing.T) {
	require.True(t, VerifyWebhookSignature("", []byte("anything"), ""))
	require.True(t, VerifyWebhookSignature("", []byte("anything"), "garbage"))
}
