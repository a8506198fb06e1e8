package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAllowBurstWithinWindow(t *testing.T) {
	rl := NewRateLimiter(100*time.Millisecond, 2)
	now := time.Now()

	require.True(t, rl.allow("a", now))
	require.True(t, rl.allow("a", now.Add(time.Millisecond)))
	require.False(t, rl.allow("a", now.Add(2*time.Millisecond)))

	// a fresh window resets the allowance
	require.True(t, rl.allow("a", now.Add(150*time.Millisecond)))

	// other clients are counted independently
	require.True(t, rl.allow("b", now))
}

func TestBurstDefaultsToOne(t *testing.T) {
	rl := NewRateLimiter(time.Second, 0)
	now := time.Now()
	require.True(t, rl.allow("a", now))
	require.False(t, rl.allow("a", now.Add(time.Millisecond)))
}

func TestStaleClientsEvicted(t *testing.T) {
	rl := NewRateLimiter(time.Second, 1)
	now := time.Now()

	require.True(t, rl.allow("idle", now))
	require.True(t, rl.allow("busy", now.Add(staleAfter)))

	// next request lands past the sweep interval and prunes the idle client
	require.True(t, rl.allow("busy", now.Add(staleAfter+sweepEvery+2*time.Second)))
	require.NotContains(t, rl.clients, "idle")
	require.Contains(t, rl.clients, "busy")
}
