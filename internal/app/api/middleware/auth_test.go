package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func operatorToken(t *testing.T, secret, role string) string {
	t.Helper()
	claims := OperatorClaims{
		OperatorID: "op-1",
		Role:       role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func authEngine(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(OperatorAuthMiddleware(secret))
	r.GET("/protected", func(c *gin.Context) {
		c.String(http.StatusOK, OperatorID(c))
	})
	return r
}

func getProtected(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOperatorAuth_ValidToken(t *testing.T) {
	r := authEngine("secret")
	w := getProtected(r, "Bearer "+operatorToken(t, "secret", "operator"))
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "op-1", w.Body.String())
}

func TestOperatorAuth_MissingHeader(t *testing.T) {
	r := authEngine("secret")
	w := getProtected(r, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOperatorAuth_WrongSecret(t *testing.T) {
	r := authEngine("secret")
	w := getProtected(r, "Bearer "+operatorToken(t, "other", "operator"))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOperatorAuth_ExpiredToken(t *testing.T) {
	claims := OperatorClaims{
		OperatorID: "op-1",
		Role:       "operator",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	r := authEngine("secret")
	w := getProtected(r, "Bearer "+token)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOperatorAuth_WrongRole(t *testing.T) {
	r := authEngine("secret")
	w := getProtected(r, "Bearer "+operatorToken(t, "secret", "member"))
	require.Equal(t, http.StatusForbidden, w.Code)
}
