package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-cms/helper"
)

const testSecret = "middleware-secret"

func signed(t *testing.T, secret string, userID uint, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID,
		"exp":     exp.Unix(),
	})
	s, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return s
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(testSecret, helper.NewHTTPHelper()), func(c *gin.Context) {
		id, _ := UserID(c)
		c.JSON(http.StatusOK, gin.H{"user_id": id})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	valid := signed(t, testSecret, 42, time.Now().Add(time.Hour))

	tests := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{name: "no credentials", setup: func(r *http.Request) {}, status: http.StatusUnauthorized},
		{name: "bearer", setup: func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid) }, status: http.StatusOK},
		{name: "cookie", setup: func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: valid})
		}, status: http.StatusOK},
		{name: "wrong secret", setup: func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+signed(t, "other", 42, time.Now().Add(time.Hour)))
		}, status: http.StatusUnauthorized},
		{name: "expired", setup: func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+signed(t, testSecret, 42, time.Now().Add(-time.Hour)))
		}, status: http.StatusUnauthorized},
		{name: "not bearer", setup: func(r *http.Request) { r.Header.Set("Authorization", valid) }, status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			newAuthRouter().ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id":42}`, w.Body.String())
			}
		})
	}
}
