package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"workforce/internal/model"
	"workforce/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() { gin.SetMode(gin.TestMode) }

const cookieName = "wfp_session"

type fakeRevocations struct {
	ids map[string]bool
	err error
}

func (f *fakeRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	return f.ids[id], f.err
}

func newAuthEngine(iss *session.Issuer, rev RevocationChecker, guard ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append([]gin.HandlerFunc{SessionAuth(iss, cookieName, rev)}, guard...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": GetClaims(c).Username})
	})
	r.GET("/p", handlers...)
	return r
}

func signFor(t *testing.T, iss *session.Issuer, u *model.User) (string, *session.Claims) {
	t.Helper()
	tok, claims, err := iss.Sign(u)
	require.NoError(t, err)
	return tok, claims
}

func TestSessionAuth(t *testing.T) {
	iss := session.NewIssuer("middleware_test_secret_value_123", time.Hour)
	tok, claims := signFor(t, iss, &model.User{ID: 1, Username: "ana", Role: model.RoleWorker})
	revs := &fakeRevocations{ids: map[string]bool{}}
	r := newAuthEngine(iss, revs)

	tests := []struct {
		name   string
		setup  func(req *http.Request)
		status int
	}{
		{"no token", func(*http.Request) {}, http.StatusUnauthorized},
		{"bearer", func(req *http.Request) { req.Header.Set("Authorization", "Bearer "+tok) }, http.StatusOK},
		{"cookie", func(req *http.Request) { req.AddCookie(&http.Cookie{Name: cookieName, Value: tok}) }, http.StatusOK},
		{"garbage", func(req *http.Request) { req.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			tc.setup(req)
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code, w.Body.String())
		})
	}

	revs.ids[claims.ID] = true
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "logged out")
}

func TestSessionAuth_RevocationStoreDown(t *testing.T) {
	iss := session.NewIssuer("middleware_test_secret_value_123", time.Hour)
	tok, _ := signFor(t, iss, &model.User{ID: 1, Username: "ana", Role: model.RoleWorker})
	r := newAuthEngine(iss, &fakeRevocations{err: errors.New("connection refused")})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	iss := session.NewIssuer("middleware_test_secret_value_123", time.Hour)
	r := newAuthEngine(iss, nil, RequireRole(model.RoleAdmin, session.EffectiveCEO))

	tests := []struct {
		name   string
		user   *model.User
		status int
	}{
		{"admin", &model.User{ID: 1, Role: model.RoleAdmin}, http.StatusOK},
		{"ceo interface employee", &model.User{ID: 2, Role: model.RoleEmployee, CEOInterface: true}, http.StatusOK},
		{"plain employee", &model.User{ID: 3, Role: model.RoleEmployee}, http.StatusForbidden},
		{"worker", &model.User{ID: 4, Role: model.RoleWorker}, http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tok, _ := signFor(t, iss, tc.user)
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/p", nil)
			req.Header.Set("Authorization", "Bearer "+tok)
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewRateLimiter("test", 2, time.Minute, "slow down")
	l.now = func() time.Time { return now }

	r := gin.New()
	r.GET("/", l.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })
	hit := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, hit().Code)
	assert.Equal(t, http.StatusOK, hit().Code)
	w := hit()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "slow down")

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, l.Purge())
	assert.Equal(t, http.StatusOK, hit().Code)
}

func TestRateLimiter_Disabled(t *testing.T) {
	l := NewRateLimiter("off", 0, time.Minute, "x")
	r := gin.New()
	r.GET("/", l.Handler(), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRequestIDAndRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery(), ErrorHandler())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })
	r.GET("/err", func(c *gin.Context) { _ = c.Error(errors.New("db down")) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set("X-Request-ID", "abc")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/err", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "db down")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://app.test"))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://app.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
