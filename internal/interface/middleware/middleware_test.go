package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/pfa-screening-api/internal/domain/entity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func do(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimit_BlocksAfterMax(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(RealIP())
	r.GET("/login", RateLimit(rdb, 2, time.Minute, KeyByIPAndPath(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	hdr := map[string]string{"X-Forwarded-For": "203.0.113.7"}
	first := do(r, http.MethodGet, "/login", hdr)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", first.Header().Get("X-RateLimit-Reset"))

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/login", hdr).Code)

	blocked := do(r, http.MethodGet, "/login", hdr)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "0", blocked.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, blocked.Header().Get("Retry-After"))

	// other clients keep their own budget
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/login", map[string]string{"X-Forwarded-For": "203.0.113.8"}).Code)

	mr.FastForward(time.Minute)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/login", hdr).Code)
}

func TestRateLimit_AllowFuncAndFailOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.Use(RealIP())
	r.GET("/debug/vars", RateLimit(rdb, 1, time.Minute, KeyByIP(), AllowPrivateIP()), func(c *gin.Context) { c.Status(http.StatusOK) })

	private := map[string]string{"X-Forwarded-For": "10.1.2.3"}
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/debug/vars", private).Code)
	}

	public := map[string]string{"X-Forwarded-For": "198.51.100.1"}
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/debug/vars", public).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodGet, "/debug/vars", public).Code)

	mr.Close()
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/debug/vars", public).Code)
}

func TestRateLimit_NilClientIsNoop(t *testing.T) {
	var rdb *redis.Client
	r := gin.New()
	r.GET("/x", RateLimit(rdb, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/x", nil).Code)
	}
}

type stubAuth map[string]*entity.User

func (s stubAuth) Authenticate(_ context.Context, bearer string) (*entity.User, error) {
	if u, ok := s[bearer]; ok {
		return u, nil
	}
	return nil, errors.New("invalid token")
}

func TestAuth(t *testing.T) {
	auth := stubAuth{"good": {ID: "u1", Name: "Alice", Email: "a@x.com"}}
	r := gin.New()
	r.GET("/me", Auth(auth), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userID")+"|"+c.GetString("userName")+"|"+c.GetString("userEmail"))
	})

	ok := do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer good"})
	require.Equal(t, http.StatusOK, ok.Code)
	assert.Equal(t, "u1|Alice|a@x.com", ok.Body.String())

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/me", map[string]string{"Authorization": "bearer good"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Basic good"}).Code)

	bad := do(r, http.MethodGet, "/me", map[string]string{"Authorization": "Bearer forged"})
	assert.Equal(t, http.StatusUnauthorized, bad.Code)
	assert.Contains(t, bad.Body.String(), `"success":false`)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	fresh := do(r, http.MethodGet, "/", nil)
	assert.NotEmpty(t, fresh.Body.String())
	assert.Equal(t, fresh.Body.String(), fresh.Header().Get(RequestIDHeader))

	given := "5f0c6f0e-8f4c-4b7e-9a43-7d6f0f3c2a11"
	echoed := do(r, http.MethodGet, "/", map[string]string{RequestIDHeader: given})
	assert.Equal(t, given, echoed.Body.String())

	junk := do(r, http.MethodGet, "/", map[string]string{RequestIDHeader: "<script>"})
	assert.NotEqual(t, "<script>", junk.Body.String())
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	assert.Equal(t, "198.51.100.9", do(r, http.MethodGet, "/", map[string]string{
		"CF-Connecting-IP": "198.51.100.9",
		"X-Forwarded-For":  "203.0.113.1",
	}).Body.String())
	assert.Equal(t, "203.0.113.1", do(r, http.MethodGet, "/", map[string]string{
		"X-Forwarded-For": "203.0.113.1, 10.0.0.1",
	}).Body.String())
	assert.Equal(t, "192.0.2.1", do(r, http.MethodGet, "/", nil).Body.String())
}
