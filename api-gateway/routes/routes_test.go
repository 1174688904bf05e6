package routes

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/shopswift/commerce-backend/api-gateway/proxy"
	"github.com/shopswift/commerce-backend/services/common/auth"
	apperrors "github.com/shopswift/commerce-backend/services/common/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAllRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var authHits, cartHits int
	var cartUser string
	authSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHits++
		w.WriteHeader(http.StatusOK)
	}))
	defer authSrv.Close()
	cartSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cartHits++
		cartUser = r.Header.Get("X-User-ID")
		w.WriteHeader(http.StatusOK)
	}))
	defer cartSrv.Close()

	r := gin.New()
	r.Use(apperrors.ErrorMiddleware(nil))
	RegisterAllRoutes(r, proxy.NewForwarder(2*time.Second), Upstreams{Auth: authSrv.URL, Cart: cartSrv.URL}, auth.NewTokenParser("s3cret"))

	do := func(method, path, bearer string) int {
		req, _ := http.NewRequest(method, path, bytes.NewBufferString(`{}`))
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/auth/forgot-password", ""))
	assert.Equal(t, http.StatusOK, do(http.MethodPost, "/auth/reset-password", ""))
	assert.Equal(t, 2, authHits)

	assert.Equal(t, http.StatusUnauthorized, do(http.MethodPatch, "/cart/items/p1", ""))
	assert.Zero(t, cartHits)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-7",
		"typ": "access",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte("s3cret"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, do(http.MethodPatch, "/cart/items/p1", token))
	assert.Equal(t, http.StatusOK, do(http.MethodPut, "/cart/items/p1", token))
	assert.Equal(t, 2, cartHits)
	assert.Equal(t, "user-7", cartUser)
}
