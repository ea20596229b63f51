package server

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiter_PerClientBuckets(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(1, 1, false, func() time.Time { return now })

	require.True(t, rl.allow("10.0.0.1"))
	require.False(t, rl.allow("10.0.0.1"))
	require.True(t, rl.allow("10.0.0.2"))

	now = now.Add(time.Second)
	require.True(t, rl.allow("10.0.0.1"))
}

func TestRateLimiter_SweepsIdleBuckets(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(1, 1, false, func() time.Time { return now })

	rl.allow("10.0.0.1")
	rl.allow("10.0.0.2")
	require.Equal(t, 2, rl.size())

	now = now.Add(bucketTTL + sweepInterval + time.Second)
	rl.allow("10.0.0.3")
	require.Equal(t, 1, rl.size())
}

func TestRateLimiter_Key(t *testing.T) {
	now := time.Now()
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "192.0.2.7:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")

	testCases := []struct {
		name     string
		trustXFF bool
		expected string
	}{
		{"socket address by default", false, "192.0.2.7"},
		{"first forwarded entry behind a trusted proxy", true, "203.0.113.9"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rl := newRateLimiter(1, 1, tc.trustXFF, func() time.Time { return now })
			require.Equal(t, tc.expected, rl.key(r))
		})
	}

	t.Run("trusted proxy without header falls back to socket", func(t *testing.T) {
		rl := newRateLimiter(1, 1, true, func() time.Time { return now })
		bare := httptest.NewRequest("GET", "/", nil)
		bare.RemoteAddr = "192.0.2.8:4444"
		require.Equal(t, "192.0.2.8", rl.key(bare))
	})
}
