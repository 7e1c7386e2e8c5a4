package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"workforce/internal/config"
	"workforce/internal/model"
	"workforce/internal/repository"
	"workforce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func init() { gin.SetMode(gin.TestMode) }

type envelope[T any] struct {
	Data  T                 `json:"data"`
	Error string            `json:"error"`
	Field map[string]string `json:"fields"`
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body any, token string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, jsonBody(t, body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON[T any](t *testing.T, resp *http.Response) envelope[T] {
	t.Helper()
	defer resp.Body.Close()
	var out envelope[T]
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// expect performs the call, checks the status and decodes the envelope.
func expect[T any](t *testing.T, srv *httptest.Server, method, path string, body any, token string, status int) envelope[T] {
	t.Helper()
	resp := do(t, srv, method, path, body, token)
	out := decodeJSON[T](t, resp)
	require.Equal(t, status, resp.StatusCode, "%s %s: %s", method, path, out.Error)
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		Env:               "test",
		AllowedOrigin:     "http://localhost:3000",
		JWTSecret:         "router-test-secret-0123456789abcdef",
		SessionTTLHours:   24,
		SessionCookieName: "wfp_session",
	}
}

// seedAdmin inserts the bootstrap admin directly, the way wfpctl seed-admin does.
func seedAdmin(t *testing.T, users repository.UserRepository, password string) {
	t.Helper()
	hash, err := service.HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, users.Create(context.Background(), &model.User{
		Username: "admin", PasswordHash: hash, Name: "Administrator", Role: model.RoleAdmin, IDType: "id",
	}))
}

type loginData struct {
	Token   string `json:"token"`
	Session struct {
		UserID    int64   `json:"userId"`
		Role      string  `json:"role"`
		CompanyID *string `json:"companyId"`
	} `json:"session"`
}

func login(t *testing.T, srv *httptest.Server, username, password string) string {
	t.Helper()
	out := expect[loginData](t, srv, http.MethodPost, "/api/auth",
		map[string]string{"username": username, "password": password}, "", http.StatusOK)
	require.NotEmpty(t, out.Data.Token)
	return out.Data.Token
}
