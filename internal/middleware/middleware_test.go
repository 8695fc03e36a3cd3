package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"io.winapps.clubconsole/internal/identity/identitytest"
	"io.winapps.clubconsole/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupAuthRouter(t *testing.T) (*gin.Engine, redismock.ClientMock, *identitytest.Provider) {
	t.Helper()
	client, rmock := redismock.NewClientMock()
	provider := identitytest.NewProvider()
	provider.AddAccount("admin@club.org", "secret")
	provider.AddAccount("member@club.org", "secret")
	gate := session.NewGate(provider, "admin@club.org", nil)
	t.Cleanup(gate.Close)

	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/protected", AuthMiddleware(session.NewRedisRegistry(client, time.Hour), gate, zap.NewNop().Sugar()), func(c *gin.Context) {
		s, ok := CurrentSession(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"uid": c.GetString(ContextUID), "session": s.ID})
	})
	return r, rmock, provider
}

func get(r *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_Session(t *testing.T) {
	r, rmock, _ := setupAuthRouter(t)
	body, err := json.Marshal(&session.Session{ID: "abc", UID: "uid-1", Email: "admin@club.org"})
	require.NoError(t, err)
	rmock.ExpectGet("session:abc").SetVal(string(body))

	w := get(r, "Bearer abc")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":"uid-1","session":"abc"}`, w.Body.String())
	assert.NoError(t, rmock.ExpectationsWereMet())
}

func TestAuthMiddleware_IDTokenFallback(t *testing.T) {
	r, rmock, provider := setupAuthRouter(t)
	admin, err := provider.SignIn(context.Background(), "admin@club.org", "secret")
	require.NoError(t, err)
	member, err := provider.SignIn(context.Background(), "member@club.org", "secret")
	require.NoError(t, err)

	rmock.ExpectGet("session:" + admin.IDToken).RedisNil()
	w := get(r, "Bearer "+admin.IDToken)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uid":"`+admin.UID+`","session":"uid:`+admin.UID+`"}`, w.Body.String())

	rmock.ExpectGet("session:" + member.IDToken).RedisNil()
	w = get(r, "Bearer "+member.IDToken)
	assert.Equal(t, http.StatusForbidden, w.Code)

	rmock.ExpectGet("session:nope").RedisNil()
	w = get(r, "Bearer nope")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r, _, _ := setupAuthRouter(t)
	assert.Equal(t, http.StatusUnauthorized, get(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "Bearer ").Code)
}

func TestRequestLoggingAndRecovery(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := zap.New(core).Sugar()

	r := gin.New()
	r.Use(RequestIDMiddleware(), RequestLoggingMiddleware(logger), RecoveryMiddleware(logger))
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/missing", func(c *gin.Context) { c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"}) })

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "rid-1", w.Header().Get("X-Request-ID"))
	assert.Equal(t, 1, logs.FilterMessage("panic recovered").Len())
	assert.Equal(t, 1, logs.FilterMessage("request completed with server error").Len())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	entries := logs.FilterMessage("request completed with client error").All()
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].ContextMap()["response"], "Event not found")
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware("https://console.club.org"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://console.club.org", w.Header().Get("Access-Control-Allow-Origin"))
}
