package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/filmes-api/internal/config"
	"github.com/iliyamo/filmes-api/internal/utils"
)

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func serve(e *echo.Echo, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func bearer(tok string) http.Header {
	return http.Header{echo.HeaderAuthorization: []string{"Bearer " + tok}}
}

func TestJWTAuthAndRole(t *testing.T) {
	e := echo.New()
	e.GET("/x", okHandler, JWTAuth("secret"), RequireRole(utils.RoleAdmin))

	rec := serve(e, http.MethodGet, "/x", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))

	rec = serve(e, http.MethodGet, "/x", bearer("garbage"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	other, err := utils.NewAccessToken("other-secret", "ops", utils.RoleAdmin, time.Hour)
	require.NoError(t, err)
	rec = serve(e, http.MethodGet, "/x", bearer(other.Token))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	viewer, err := utils.NewAccessToken("secret", "ops", "VIEWER", time.Hour)
	require.NoError(t, err)
	rec = serve(e, http.MethodGet, "/x", bearer(viewer.Token))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin, err := utils.NewAccessToken("secret", "ops", utils.RoleAdmin, time.Hour)
	require.NoError(t, err)
	rec = serve(e, http.MethodGet, "/x", bearer(admin.Token))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTAuth_RejectsExpiredAndUnsigned(t *testing.T) {
	e := echo.New()
	e.GET("/x", okHandler, JWTAuth("secret"))

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ops", "role": utils.RoleAdmin, "exp": time.Now().Add(-time.Minute).Unix(),
	})
	s, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/x", bearer(s)).Code)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "ops", "role": utils.RoleAdmin, "exp": time.Now().Add(time.Hour).Unix(),
	})
	s, err = none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodGet, "/x", bearer(s)).Code)
}

func TestWritesOnly(t *testing.T) {
	e := echo.New()
	g := e.Group("/v1", WritesOnly(JWTAuth("secret")))
	g.GET("/movies", okHandler)
	g.POST("/movies", okHandler)

	assert.Equal(t, http.StatusOK, serve(e, http.MethodGet, "/v1/movies", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, serve(e, http.MethodPost, "/v1/movies", nil).Code)
}

func TestCacheKeyFrom(t *testing.T) {
	e := echo.New()
	ctx := func(target string) echo.Context {
		return e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
	}
	cfg := config.CacheConfig{Prefix: "cache", KeyStrategy: "route_query"}

	a := cacheKeyFrom(cfg, ctx("/v1/movies?take=5"), 0)
	b := cacheKeyFrom(cfg, ctx("/v1/movies?take=6"), 0)
	assert.True(t, strings.HasPrefix(a, "cache:g0:"))
	assert.Len(t, a, len("cache:g0:")+40)
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, cacheKeyFrom(cfg, ctx("/v1/movies?take=5"), 0))
	assert.NotEqual(t, a, cacheKeyFrom(cfg, ctx("/v1/movies?take=5"), 1))

	cfg.KeyStrategy = "route"
	assert.Equal(t, cacheKeyFrom(cfg, ctx("/v1/movies?take=5"), 0), cacheKeyFrom(cfg, ctx("/v1/movies?take=6"), 0))
	assert.NotEqual(t, cacheKeyFrom(cfg, ctx("/v1/movies/1"), 0), cacheKeyFrom(cfg, ctx("/v1/movies/2"), 0))
}

func TestPerRequestHeader(t *testing.T) {
	for _, k := range []string{"X-RateLimit-Limit", "x-ratelimit-remaining", "Retry-After", echo.HeaderXRequestID, echo.HeaderContentLength, "X-Cache"} {
		assert.True(t, perRequestHeader(k), k)
	}
	assert.False(t, perRequestHeader(echo.HeaderContentType))
	assert.False(t, perRequestHeader(echo.HeaderLocation))
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{echo.HeaderContentType: []string{echo.MIMEApplicationJSON}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"items":[]}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, echo.MIMEApplicationJSON, gotHdr.Get(echo.HeaderContentType))
	assert.Equal(t, `{"items":[]}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 1})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 1, 0})
	assert.False(t, ok)
}

func TestRedisMiddlewares_PassThroughWithoutClient(t *testing.T) {
	e := echo.New()
	e.GET("/x", okHandler,
		NewRedisCache(config.CacheConfig{Enabled: true, Methods: []string{"GET"}}, nil, zap.NewNop()),
		NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil, zap.NewNop()),
	)
	for i := 0; i < 3; i++ {
		rec := serve(e, http.MethodGet, "/x", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-Cache"))
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/movies", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/movies")

	cfg := config.RateLimitConfig{Prefix: "rl"}
	assert.Equal(t, "rl:ip:10.0.0.1:user:anon:route:POST /v1/movies", buildRateKey(cfg, c))

	c.Set(ctxSubject, "ops")
	cfg.KeyStrategy = "user"
	assert.Equal(t, "rl:user:ops", buildRateKey(cfg, c))
	cfg.KeyStrategy = "IP"
	assert.Equal(t, "rl:ip:10.0.0.1", buildRateKey(cfg, c))
}

func TestAsInt64(t *testing.T) {
	assert.Equal(t, int64(3), asInt64(int64(3)))
	assert.Equal(t, int64(4), asInt64("4"))
	assert.Equal(t, int64(0), asInt64(nil))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e := echo.New()
	e.Use(RequestLogger(zap.New(core)))
	e.GET("/ok", okHandler)
	e.GET("/boom", func(echo.Context) error { return errors.New("boom") })

	rec := serve(e, http.MethodGet, "/ok", http.Header{echo.HeaderXRequestID: []string{"rid-1"}})
	assert.Equal(t, "rid-1", rec.Header().Get(echo.HeaderXRequestID))

	rec = serve(e, http.MethodGet, "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "rid-1", entries[0].ContextMap()["request_id"])
	assert.Equal(t, int64(http.StatusOK), entries[0].ContextMap()["status"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/v1/movies/:id", okHandler)

	serve(e, http.MethodGet, "/v1/movies/1", nil)
	serve(e, http.MethodGet, "/v1/movies/2", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues(http.MethodGet, "/v1/movies/:id", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.latency))
}
