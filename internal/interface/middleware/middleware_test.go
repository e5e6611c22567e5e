package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gharbhada/gharbhada-api/pkg/helpers"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestRequestID(t *testing.T) {
	r := newEngine()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("request_id"))
	})

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())
	})

	t.Run("honors inbound header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "req-42")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	})
}

func TestRealIP(t *testing.T) {
	r := newEngine()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("real_ip"))
	})

	cases := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cloudflare header wins", map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"}, "203.0.113.7"},
		{"left-most forwarded-for", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, "198.51.100.1"},
		{"garbage headers are ignored", map[string]string{"CF-Connecting-IP": "not-an-ip"}, "192.0.2.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Body.String())
		})
	}
}

func TestRateLimitWithoutRedisFailsOpen(t *testing.T) {
	r := newEngine()
	r.Use(RateLimit(nil, 1, time.Minute, KeyByIP(), nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestAuthRejectsMissingAndInvalidTokens(t *testing.T) {
	jwt := helpers.NewJWTManager("test-access", "test-refresh", time.Minute, time.Hour)

	r := newEngine()
	r.GET("/", Auth(nil, jwt), func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("missing cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: "garbage"})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		other := helpers.NewJWTManager("other", "other", time.Minute, time.Hour)
		token, _, err := other.GenerateAccessToken("u1", "user", "sid")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: token})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireAdmin(t *testing.T) {
	r := newEngine()
	r.GET("/", func(c *gin.Context) { c.Set("userRole", "user") }, RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/admin", func(c *gin.Context) { c.Set("userRole", "admin") }, RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
