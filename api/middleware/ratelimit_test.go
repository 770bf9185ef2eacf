package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := NewRateLimiter(1, 3)
	defer rl.Stop()

	// Burst of 3 is allowed immediately
	assert.True(t, rl.Allow("127.0.0.1"))
	assert.True(t, rl.Allow("127.0.0.1"))
	assert.True(t, rl.Allow("127.0.0.1"))

	assert.False(t, rl.Allow("127.0.0.1"))

	// Different IP has its own bucket
	assert.True(t, rl.Allow("192.168.1.1"))

	// One token refills after a second
	time.Sleep(1100 * time.Millisecond)
	assert.True(t, rl.Allow("127.0.0.1"))
}

func TestRateLimiter_EvictIdle(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	defer rl.Stop()

	rl.Allow("10.0.0.1")
	rl.evictIdle(time.Now())
	assert.Len(t, rl.visitors, 1)

	rl.evictIdle(time.Now().Add(idleVisitorTTL + time.Second))
	assert.Empty(t, rl.visitors)
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	assert.NotPanics(t, func() {
		rl.Stop()
		rl.Stop()
	})
}

func TestRateLimitMiddleware_AllowsRequestsUnderLimit(t *testing.T) {
	limiter := NewRateLimiter(1, 5)
	defer limiter.Stop()

	handler := RateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}))

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "127.0.0.1:1234"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
		assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Burst"))
	}
}

func TestRateLimitMiddleware_Returns429ForExceededLimit(t *testing.T) {
	limiter := NewRateLimiter(0.5, 2)
	defer limiter.Stop()

	handler := RateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		req.RemoteAddr = "127.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest("GET", "/test", nil)
	req.RemoteAddr = "127.0.0.1:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"message":"Rate limit exceeded. Please try again later.","error":"Too many requests"}`, rec.Body.String())
	assert.Equal(t, "2", rec.Header().Get("Retry-After"))
}

func TestRateLimitMiddleware_IgnoresSourcePort(t *testing.T) {
	limiter := NewRateLimiter(0.1, 1)
	defer limiter.Stop()

	handler := RateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	// Same host, different source ports share one bucket
	for i, addr := range []string{"10.0.0.5:1000", "10.0.0.5:2000"} {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if i == 0 {
			assert.Equal(t, http.StatusOK, rec.Code)
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		}
	}
}

func TestRateLimitMiddleware_IgnoresSpoofedForwardedFor(t *testing.T) {
	limiter := NewRateLimiter(1, 1)
	defer limiter.Stop()

	handler := RateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	allowed := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.0.1.%d", i))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			allowed++
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		}
	}

	assert.Equal(t, 1, allowed, "rotating forwarding headers must not open new buckets")
}

func TestRateLimitMiddleware_TrustedProxyForwardsClients(t *testing.T) {
	limiter := NewRateLimiter(0.1, 1)
	defer limiter.Stop()
	require.NoError(t, limiter.TrustProxies("10.0.0.0/8"))

	handler := RateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	serve := func(xff string) int {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.1.2.3:443"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Two clients behind the same proxy get separate buckets
	assert.Equal(t, http.StatusOK, serve("198.51.100.1"))
	assert.Equal(t, http.StatusOK, serve("198.51.100.2"))

	// A client prepending fake hops is still keyed on the hop the proxy saw
	assert.Equal(t, http.StatusTooManyRequests, serve("1.2.3.4, 198.51.100.1"))
}

func TestParseTrustedProxies(t *testing.T) {
	nets, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.168.1.10 ", "", "::1"})
	require.NoError(t, err)
	require.Len(t, nets, 3)
	assert.Equal(t, "10.0.0.0/8", nets[0].String())
	assert.Equal(t, "192.168.1.10/32", nets[1].String())
	assert.Equal(t, "::1/128", nets[2].String())

	_, err = ParseTrustedProxies([]string{"proxy.internal"})
	assert.Error(t, err)

	_, err = ParseTrustedProxies([]string{"10.0.0.0/33"})
	assert.Error(t, err)
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		trusted    []string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{name: "remote addr with port", remoteAddr: "192.168.1.1:1234", expected: "192.168.1.1"},
		{name: "remote addr without port", remoteAddr: "192.168.1.1", expected: "192.168.1.1"},
		{name: "ipv6 remote addr", remoteAddr: "[::1]:8080", expected: "::1"},
		{name: "untrusted peer ignores x-forwarded-for", headers: map[string]string{"X-Forwarded-For": "10.0.0.1"}, remoteAddr: "1.1.1.1:1", expected: "1.1.1.1"},
		{name: "untrusted peer ignores x-real-ip", headers: map[string]string{"X-Real-IP": "10.0.0.3"}, remoteAddr: "1.1.1.1:1", expected: "1.1.1.1"},
		{name: "trusted peer single hop", trusted: []string{"1.1.1.1"}, headers: map[string]string{"X-Forwarded-For": "10.0.0.1"}, remoteAddr: "1.1.1.1:1", expected: "10.0.0.1"},
		{name: "trusted peer takes right-most untrusted hop", trusted: []string{"1.1.1.1"}, headers: map[string]string{"X-Forwarded-For": "6.6.6.6, 10.0.0.1"}, remoteAddr: "1.1.1.1:1", expected: "10.0.0.1"},
		{name: "trusted hops are skipped", trusted: []string{"1.1.1.0/24", "172.16.0.0/12"}, headers: map[string]string{"X-Forwarded-For": "10.0.0.1, 172.16.5.5"}, remoteAddr: "1.1.1.9:1", expected: "10.0.0.1"},
		{name: "all hops trusted uses left-most", trusted: []string{"172.16.0.0/12"}, headers: map[string]string{"X-Forwarded-For": "172.16.0.2, 172.16.0.3"}, remoteAddr: "172.16.0.4:1", expected: "172.16.0.2"},
		{name: "trusted peer x-real-ip", trusted: []string{"1.1.1.1"}, headers: map[string]string{"X-Real-IP": "10.0.0.3"}, remoteAddr: "1.1.1.1:1", expected: "10.0.0.3"},
		{name: "trusted peer without headers", trusted: []string{"1.1.1.1"}, remoteAddr: "1.1.1.1:1", expected: "1.1.1.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rl := NewRateLimiter(1, 1)
			defer rl.Stop()
			require.NoError(t, rl.TrustProxies(tt.trusted...))

			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, rl.clientIP(req))
		})
	}
}
