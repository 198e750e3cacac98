package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Minute,
		Endpoints: []EndpointConfig{
			{Path: "/polish", Method: "POST", Limit: 60, Window: time.Minute, Burst: 2},
			{Path: "/health", Method: "GET", Limit: 0},
		},
	}
}

func TestAllow_BurstExhaustion(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	allowed, info := l.Allow("1.2.3.4", "/polish", "POST")
	require.True(t, allowed)
	assert.Equal(t, 60, info.Limit)

	allowed, _ = l.Allow("1.2.3.4", "/polish", "POST")
	require.True(t, allowed)

	allowed, info = l.Allow("1.2.3.4", "/polish", "POST")
	assert.False(t, allowed)
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestAllow_ClientsIsolated(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 2; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/polish", "POST")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("1.2.3.4", "/polish", "POST")
	require.False(t, allowed)

	allowed, _ = l.Allow("5.6.7.8", "/polish", "POST")
	assert.True(t, allowed, "a fresh client gets its own bucket")
}

func TestAllow_UnmeteredEndpoint(t *testing.T) {
	l := NewLimiter(testConfig())
	defer l.Stop()

	for i := 0; i < 50; i++ {
		allowed, info := l.Allow("1.2.3.4", "/health", "GET")
		require.True(t, allowed)
		assert.Equal(t, 0, info.Limit)
	}
}

func TestAllow_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("1.2.3.4", "/polish", "POST")
		require.True(t, allowed)
	}
}

func TestAllow_DefaultBudget(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLimit = 1
	l := NewLimiter(cfg)
	defer l.Stop()

	allowed, info := l.Allow("1.2.3.4", "/unlisted", "GET")
	require.True(t, allowed)
	assert.Equal(t, 1, info.Limit)

	allowed, _ = l.Allow("1.2.3.4", "/unlisted", "GET")
	assert.False(t, allowed)
}

func TestTokenBucket_Refill(t *testing.T) {
	tb := newTokenBucket(1, 100) // refills fast enough to observe

	require.True(t, tb.allow())
	require.False(t, tb.allow())

	time.Sleep(20 * time.Millisecond)
	assert.True(t, tb.allow())
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/polish", Method: "POST", Limit: 60},
		{Path: "/assets/", Method: "GET", Limit: 500},
	}

	ec := matchEndpoint("/polish", "POST", configs)
	require.NotNil(t, ec)
	assert.Equal(t, 60, ec.Limit)

	assert.Nil(t, matchEndpoint("/polish", "GET", configs))

	ec = matchEndpoint("/assets/site.css", "GET", configs)
	require.NotNil(t, ec)
	assert.Equal(t, 500, ec.Limit)

	assert.Nil(t, matchEndpoint("/other", "GET", configs))
}
