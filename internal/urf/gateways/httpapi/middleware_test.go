package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_DisabledWhenRPSZero(t *testing.T) {
	assert.Nil(t, newRateLimiter(0, 10, time.Minute))
	assert.Nil(t, newRateLimiter(-1, 10, time.Minute))
}

func TestRateLimiter_NilPassesThrough(t *testing.T) {
	var rl *rateLimiter
	h := rl.limit(NewMetrics(), okHandler())

	for i := 0; i < 100; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/check?url=x", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimiter_EnforcesBurst(t *testing.T) {
	rl := newRateLimiter(1, 3, time.Minute)
	t.Cleanup(rl.stop)
	h := rl.limit(NewMetrics(), okHandler())

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/v1/check?url=x", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	// Burst of 3, then rejection.
	assert.Equal(t, []int{200, 200, 200, 429, 429}, codes)
}

func TestRateLimiter_PerClientBuckets(t *testing.T) {
	rl := newRateLimiter(1, 1, time.Minute)
	t.Cleanup(rl.stop)
	h := rl.limit(NewMetrics(), okHandler())

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/v1/check?url=x", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send("10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1001"), "same IP, different port shares the bucket")
	assert.Equal(t, http.StatusOK, send("10.0.0.2:1000"), "different IP gets its own bucket")
}

func TestRateLimiter_StopEndsSweep(t *testing.T) {
	// A very short ttl so the sweep goroutine is actively ticking.
	rl := newRateLimiter(1, 1, 10*time.Millisecond)
	rl.stop()

	select {
	case <-rl.done:
	default:
		t.Fatal("stop should close the done channel the sweep exits on")
	}

	// stop is idempotent and nil-safe.
	rl.stop()
	var nilRL *rateLimiter
	nilRL.stop()
}

func TestServer_StopWithoutStart(t *testing.T) {
	s := NewServer(Options{
		Addr:           ":0",
		Engine:         &fakeValidator{},
		RateLimitRPS:   1,
		RateLimitBurst: 1,
	})
	// Stop must shut the limiter down and not panic even when the
	// listener never ran.
	assert.NoError(t, s.Stop())
	select {
	case <-s.limiter.done:
	default:
		t.Fatal("server stop should stop the rate limiter")
	}
}

func TestRateLimiter_DefaultsBurstToRPS(t *testing.T) {
	rl := newRateLimiter(5, 0, time.Minute)
	t.Cleanup(rl.stop)
	assert.Equal(t, 5, rl.burst)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remoteAddr string
		want       string
	}{
		{"10.0.0.1:1234", "10.0.0.1"},
		{"[2001:db8::1]:443", "2001:db8::1"},
		{"10.0.0.1", "10.0.0.1"}, // no port
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tt.remoteAddr
		assert.Equal(t, tt.want, clientIP(req))
	}
}
