package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cinecomments/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{service.ErrMovieNotFound, http.StatusNotFound, "Movie not found"},
		{service.ErrForbidden, http.StatusForbidden, "Action Forbidden"},
		{service.ErrAuthRequired, http.StatusUnauthorized, "Failed. No Token"},
		{service.ErrConcurrentUpdate, http.StatusConflict, "Movie was modified concurrently, retry"},
		{fmt.Errorf("wrapped: %w", service.ErrCommentNotFound), http.StatusNotFound, "Comment not found"},
		{errors.New("mongo: connection reset"), http.StatusInternalServerError, msgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			rr := httptest.NewRecorder()

			writeError(rr, req, zap.NewNop(), tt.err)

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			var body errorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.Equal(t, tt.msg, body.Message)
		})
	}
}

func TestRateLimit_PassthroughWithoutRedis(t *testing.T) {
	called := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called++
		w.WriteHeader(http.StatusNoContent)
	})

	h := RateLimit(nil, RateLimitOptions{Enabled: true, Capacity: 1, Window: time.Minute}, zap.NewNop())(next)
	for i := 0; i < 3; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/users/login", nil))
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
	}
	assert.Equal(t, 3, called)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	assert.Equal(t, "10.0.0.7", clientIP(req))

	req.RemoteAddr = "10.0.0.8"
	assert.Equal(t, "10.0.0.8", clientIP(req))

	req.RemoteAddr = ""
	assert.Equal(t, "unknown", clientIP(req))
}
