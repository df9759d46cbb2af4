package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/auth"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/config"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/models"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/tokens"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

const testSecret = "router-test-secret-0123456789abcdef"

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Store: config.StoreConfig{Driver: config.StoreMemory},
		JWT:   config.JWTConfig{Secret: testSecret, AccessTokenTTL: time.Hour},
		Admin: config.AdminConfig{Role: "admin", Subjects: []string{"root"}},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config, verifierName string) *gin.Engine {
	t.Helper()
	stores := MemoryStores()
	svc := NewServices(stores, nil)
	resolver := auth.NewTokenResolver(tokens.NewHMACVerifier(cfg.JWT.Secret), nil, auth.AdminPolicy{
		Role:     cfg.Admin.Role,
		Subjects: cfg.Admin.Subjects,
		Users:    svc.Users,
	})
	return NewRouter(Deps{
		Config:       cfg,
		Stores:       stores,
		Resolver:     resolver,
		VerifierName: verifierName,
		Gatherer:     prometheus.NewRegistry(),
	}, svc)
}

func bearer(t *testing.T, sub string) string {
	t.Helper()
	tok, err := tokens.GenerateAccessToken(testSecret, &models.User{ID: sub, Email: sub + "@example.com"}, time.Hour)
	require.NoError(t, err)
	return "Bearer " + tok
}

func call(r http.Handler, method, path, authz string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthAndReadiness(t *testing.T) {
	r := newTestRouter(t, testConfig(), "hmac")

	w := call(r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "healthy", w.Body.String())

	w = call(r, http.MethodGet, "/ready", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Status string                 `json:"status"`
		Deps   map[string]interface{} `json:"deps"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "ready", body.Status)
	require.Equal(t, "memory", body.Deps["store"])
	require.Equal(t, false, body.Deps["objects"])
}

func TestReadiness_NoVerifier(t *testing.T) {
	r := newTestRouter(t, testConfig(), "none")
	w := call(r, http.MethodGet, "/ready", "", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), "not_ready")
}

func TestPreflightAndMetrics(t *testing.T) {
	r := newTestRouter(t, testConfig(), "hmac")

	w := call(r, http.MethodOptions, "/user/wallet", "", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	w = call(r, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitAppliesPerSubject(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1}
	r := newTestRouter(t, cfg, "hmac")

	require.Equal(t, http.StatusOK, call(r, http.MethodGet, "/health", bearer(t, "alice"), nil).Code)
	require.Equal(t, http.StatusTooManyRequests, call(r, http.MethodGet, "/health", bearer(t, "alice"), nil).Code)
	require.Equal(t, http.StatusOK, call(r, http.MethodGet, "/health", bearer(t, "bob"), nil).Code)
}

func TestPlayFlow(t *testing.T) {
	r := newTestRouter(t, testConfig(), "hmac")
	admin, player := bearer(t, "root"), bearer(t, "alice")
	grid := [][]int{
		{5, 3, 0, 0, 7, 0, 0, 0, 0},
		{6, 0, 0, 1, 9, 5, 0, 0, 0},
		{0, 9, 8, 0, 0, 0, 0, 6, 0},
		{8, 0, 0, 0, 6, 0, 0, 0, 3},
		{4, 0, 0, 8, 0, 3, 0, 0, 1},
		{7, 0, 0, 0, 2, 0, 0, 0, 6},
		{0, 6, 0, 0, 0, 0, 2, 8, 0},
		{0, 0, 0, 4, 1, 9, 0, 0, 5},
		{0, 0, 0, 0, 8, 0, 0, 7, 9},
	}

	// players cannot manage the catalog
	w := call(r, http.MethodPost, "/admin/sudoku", player, gin.H{"levelId": "L1", "difficulty": "easy", "puzzle": grid, "coins": 10})
	require.Equal(t, http.StatusForbidden, w.Code)

	w = call(r, http.MethodPost, "/admin/sudoku", admin, gin.H{"levelId": "L1", "difficulty": "easy", "puzzle": grid, "coins": 10})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = call(r, http.MethodGet, "/user/sudoku/levels", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `[]`, w.Body.String())

	w = call(r, http.MethodPut, "/admin/sudoku/L1/assign", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(r, http.MethodGet, "/user/sudoku/levels", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"levelId":"L1"`)

	w = call(r, http.MethodPost, "/auth/signup", "", gin.H{"userId": "alice", "email": "alice@example.com"})
	require.Equal(t, http.StatusOK, w.Code)

	for i := 0; i < 2; i++ {
		w = call(r, http.MethodPost, "/user/sudoku/complete", player, gin.H{"levelId": "L1", "solved": true, "durationSeconds": 90})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	}

	w = call(r, http.MethodGet, "/user/wallet", player, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"coins":10}`, w.Body.String())

	w = call(r, http.MethodGet, "/user/wallet/history", player, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var wallet []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wallet))
	require.Len(t, wallet, 1)
	require.Equal(t, "sudoku_reward", wallet[0]["reason"])

	w = call(r, http.MethodGet, "/user/sudoku/history", player, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var games []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &games))
	require.Len(t, games, 2)

	w = call(r, http.MethodGet, "/user/alice/calendar-status", bearer(t, "mallory"), nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}
