package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cinecomments/internal/auth"
	"cinecomments/internal/dataloader"
	"cinecomments/internal/repository/memory"
	"cinecomments/internal/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func newLimitedRouter(t *testing.T, rdb *redis.Client, capacity int) http.Handler {
	t.Helper()
	movies := memory.NewMovieStore()
	users := memory.NewUserStore()
	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	movieSvc := service.NewMovieService(movies, dataloader.NewAuthorResolver(users), nil, nil, nil)
	return NewRouter(RouterDeps{
		Movies:   NewMovieHandler(movieSvc, nil),
		Comments: NewCommentHandler(movieSvc, nil),
		Users:    NewUserHandler(service.NewUserService(users, tokens), nil),
		Tokens:   tokens,
		Authors:  users,
		Redis:    rdb,
		RateLimit: RateLimitOptions{
			Enabled:  true,
			Capacity: capacity,
			Window:   time.Minute,
		},
	})
}

func login(h http.Handler, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/users/login", strings.NewReader(`{"email":"nobody@mail.com","password":"password1"}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
		req.Header.Set("X-Real-IP", forwardedFor)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRateLimit_BlocksAfterCapacity(t *testing.T) {
	mr, rdb := newTestRedis(t)
	h := RateLimit(rdb, RateLimitOptions{Enabled: true, Capacity: 2, Window: time.Minute, Prefix: "ratelimit:test"}, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }),
	)

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.7:5000"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	rr := do()
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "2", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rr.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusNoContent, do().Code)

	rr = do()
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
	assert.Equal(t, msgTooManyRequests, decode[errorResponse](t, rr).Message)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusNoContent, do().Code)
}

func TestRateLimit_FailsOpenWhenRedisIsDown(t *testing.T) {
	mr, rdb := newTestRedis(t)
	h := RateLimit(rdb, RateLimitOptions{Enabled: true, Capacity: 1, Window: time.Minute, Prefix: "ratelimit:test"}, zap.NewNop())(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) }),
	)
	mr.Close()

	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	}
}

func TestLoginRateLimit_IgnoresForwardingHeaders(t *testing.T) {
	_, rdb := newTestRedis(t)
	h := newLimitedRouter(t, rdb, 2)

	assert.Equal(t, http.StatusNotFound, login(h, "203.0.113.9:40000", "1.1.1.1").Code)
	assert.Equal(t, http.StatusNotFound, login(h, "203.0.113.9:40001", "2.2.2.2").Code)
	assert.Equal(t, http.StatusTooManyRequests, login(h, "203.0.113.9:40002", "3.3.3.3").Code)

	// a different peer has its own window
	assert.Equal(t, http.StatusNotFound, login(h, "198.51.100.4:40000", "").Code)
}

func TestRateLimit_LoginAndRegisterCountSeparately(t *testing.T) {
	mr, rdb := newTestRedis(t)
	h := newLimitedRouter(t, rdb, 1)

	assert.Equal(t, http.StatusNotFound, login(h, "203.0.113.9:40000", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, login(h, "203.0.113.9:40000", "").Code)

	req := httptest.NewRequest(http.MethodPost, "/users/register", strings.NewReader(`{}`))
	req.RemoteAddr = "203.0.113.9:40000"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	assert.True(t, mr.Exists("ratelimit:login:203.0.113.9"))
	assert.True(t, mr.Exists("ratelimit:register:203.0.113.9"))
}
