package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ludo-board-api/internal/auth"
	"github.com/iliyamo/ludo-board-api/internal/config"
	"github.com/iliyamo/ludo-board-api/internal/middleware"
)

func testRateConfig(strategy string, capacity int) config.RateLimitConfig {
	return config.RateLimitConfig{
		Enabled:        true,
		Capacity:       capacity,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    strategy,
		Prefix:         "rl",
	}
}

// newLimitedEcho mirrors the server wiring: the limiter sits on the global
// chain via e.Use, the access-token guard only on the route group.
func newLimitedEcho(t *testing.T, cfg config.RateLimitConfig, issuer *auth.TokenIssuer) (*echo.Echo, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	e := echo.New()
	e.Use(middleware.NewTokenBucket(cfg, rdb, issuer))
	e.GET("/open", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	})
	if issuer != nil {
		g := e.Group("/guarded", middleware.RequireToken(issuer, auth.TokenTypeAccess))
		g.GET("", func(c echo.Context) error {
			return c.JSON(http.StatusOK, echo.Map{"ok": true})
		})
	}
	return e, mini
}

func hit(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTokenBucketExhaustionReturns429(t *testing.T) {
	e, _ := newLimitedEcho(t, testRateConfig("ip", 2), nil)

	first := hit(e, "/open", "")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	second := hit(e, "/open", "")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	third := hit(e, "/open", "")
	require.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.NotEmpty(t, third.Header().Get("Retry-After"))
	assert.Contains(t, third.Body.String(), "rate limit exceeded")
}

// The limiter runs before RequireToken, so the player key component must
// come from the bearer header itself: two authenticated players get two
// buckets even though the guard has not executed yet.
func TestTokenBucketKeysByPlayerBeforeGuardRuns(t *testing.T) {
	issuer := auth.NewTokenIssuer("limit-secret", time.Hour, time.Hour)
	e, _ := newLimitedEcho(t, testRateConfig("player", 1), issuer)

	alice, err := issuer.IssueAccess(1)
	require.NoError(t, err)
	bob, err := issuer.IssueAccess(2)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, hit(e, "/guarded", alice).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(e, "/guarded", alice).Code)

	// Bob's budget is untouched by Alice's exhaustion.
	assert.Equal(t, http.StatusOK, hit(e, "/guarded", bob).Code)

	// Anonymous traffic draws from its own shared bucket.
	assert.Equal(t, http.StatusOK, hit(e, "/open", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(e, "/open", "").Code)
}

func TestTokenBucketInvalidTokenCountsAsAnonymous(t *testing.T) {
	issuer := auth.NewTokenIssuer("limit-secret", time.Hour, time.Hour)
	e, _ := newLimitedEcho(t, testRateConfig("player", 1), issuer)

	forged, err := auth.NewTokenIssuer("other-secret", time.Hour, time.Hour).IssueAccess(1)
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, hit(e, "/open", forged).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(e, "/open", "").Code)
}

func TestTokenBucketRefillsOverTime(t *testing.T) {
	cfg := testRateConfig("ip", 1)
	cfg.RefillInterval = time.Second

	issuerless, mini := newLimitedEcho(t, cfg, nil)
	require.Equal(t, http.StatusOK, hit(issuerless, "/open", "").Code)
	require.Equal(t, http.StatusTooManyRequests, hit(issuerless, "/open", "").Code)

	// The script computes elapsed time from the clock argument, so advancing
	// miniredis is not enough; wait out one refill interval.
	mini.FastForward(time.Second)
	time.Sleep(1100 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hit(issuerless, "/open", "").Code)
}

func TestTokenBucketPassesThroughOnRedisError(t *testing.T) {
	e, mini := newLimitedEcho(t, testRateConfig("ip", 1), nil)
	mini.Close()

	// Redis being gone must never reject traffic.
	require.Equal(t, http.StatusOK, hit(e, "/open", "").Code)
	assert.Equal(t, http.StatusOK, hit(e, "/open", "").Code)
}

func TestTokenBucketDisabledIsPassThrough(t *testing.T) {
	cfg := testRateConfig("ip", 1)
	cfg.Enabled = false
	e, _ := newLimitedEcho(t, cfg, nil)

	for i := 0; i < 5; i++ {
		rec := hit(e, "/open", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}
