package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRateLimitRejectsOverLimit(t *testing.T) {
	h := RateLimit(newTestRedis(t), "reset", 20, time.Minute, zap.NewNop())(okHandler)

	for i := 1; i <= 21; i++ {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		want := http.StatusOK
		if i == 21 {
			want = http.StatusTooManyRequests
		}
		if rec.Code != want {
			t.Fatalf("request %d: status = %d, want %d", i, rec.Code, want)
		}
		if i == 21 && rec.Header().Get("Retry-After") != "60" {
			t.Fatalf("Retry-After = %q", rec.Header().Get("Retry-After"))
		}
	}
}

func TestRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	// no trusted proxies: X-Forwarded-For must not open a fresh counter
	h := TrustedRealIP(nil)(RateLimit(newTestRedis(t), "login", 2, time.Minute, zap.NewNop())(okHandler))

	codes := make([]int, 0, 3)
	for _, spoofed := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		req.Header.Set("X-Forwarded-For", spoofed)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[2] != http.StatusTooManyRequests {
		t.Fatalf("statuses = %v, want the third request limited", codes)
	}
}

func TestRateLimitScopesAreIndependent(t *testing.T) {
	rdb := newTestRedis(t)
	login := RateLimit(rdb, "login", 1, time.Minute, zap.NewNop())(okHandler)
	verify := RateLimit(rdb, "verify", 1, time.Minute, zap.NewNop())(okHandler)

	for _, h := range []http.Handler{login, verify} {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
	}
}
