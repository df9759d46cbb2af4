package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/auth"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/imports"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/ledger"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/puzzles"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/users"
	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/middleware"
	"github.com/stretchr/testify/require"
)

// stubResolver maps bearer tokens to identities.
type stubResolver struct {
	ids    map[string]*auth.Identity
	admins map[string]bool
}

func (s *stubResolver) ResolveUser(ctx context.Context, r *http.Request) (*auth.Identity, error) {
	tok, ok := middleware.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, nil
	}
	return s.ids[tok], nil
}

func (s *stubResolver) IsAdmin(ctx context.Context, id *auth.Identity) (bool, error) {
	return s.admins[id.Subject], nil
}

// spyRepo counts every call reaching the puzzle store.
type spyRepo struct {
	mem    *puzzles.MemoryRepo
	calls  int
	writes int
	fail   error
}

func (s *spyRepo) hit(write bool) error {
	s.calls++
	if write {
		s.writes++
	}
	return s.fail
}

func (s *spyRepo) Get(ctx context.Context, id string) (*puzzles.Puzzle, error) {
	if err := s.hit(false); err != nil {
		return nil, err
	}
	return s.mem.Get(ctx, id)
}

func (s *spyRepo) Insert(ctx context.Context, p *puzzles.Puzzle) error {
	if err := s.hit(true); err != nil {
		return err
	}
	return s.mem.Insert(ctx, p)
}

func (s *spyRepo) List(ctx context.Context) ([]*puzzles.Puzzle, error) {
	if err := s.hit(false); err != nil {
		return nil, err
	}
	return s.mem.List(ctx)
}

func (s *spyRepo) ListVisible(ctx context.Context) ([]*puzzles.Puzzle, error) {
	if err := s.hit(false); err != nil {
		return nil, err
	}
	return s.mem.ListVisible(ctx)
}

func (s *spyRepo) FindUnassigned(ctx context.Context, d puzzles.Difficulty, limit int) ([]*puzzles.Puzzle, error) {
	if err := s.hit(false); err != nil {
		return nil, err
	}
	return s.mem.FindUnassigned(ctx, d, limit)
}

func (s *spyRepo) ListByVariation(ctx context.Context, n int) ([]*puzzles.Puzzle, error) {
	if err := s.hit(false); err != nil {
		return nil, err
	}
	return s.mem.ListByVariation(ctx, n)
}

func (s *spyRepo) Assign(ctx context.Context, id string, at time.Time) error {
	if err := s.hit(true); err != nil {
		return err
	}
	return s.mem.Assign(ctx, id, at)
}

func (s *spyRepo) Unpublish(ctx context.Context, id string) error {
	if err := s.hit(true); err != nil {
		return err
	}
	return s.mem.Unpublish(ctx, id)
}

type testEnv struct {
	r        *gin.Engine
	repo     *spyRepo
	userRepo *users.MemoryUserRepository
	users    *users.Service
	ledger   *ledger.Service
	importer *imports.Importer
	resolver *stubResolver
}

const (
	adminToken = "admin-token"
	userToken  = "user-token"
	otherToken = "other-token"
)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := &spyRepo{mem: puzzles.NewMemoryRepo()}
	puzzleSvc := puzzles.NewService(repo)
	userRepo := users.NewMemoryUserRepository()
	userSvc := users.NewService(userRepo)
	ledgerSvc := ledger.NewService(ledger.NewMemoryRepo(), userSvc)
	res := &stubResolver{
		ids: map[string]*auth.Identity{
			adminToken: {Subject: "admin-1"},
			userToken:  {Subject: "user-1", Email: "user-1@example.com"},
			otherToken: {Subject: "user-2"},
		},
		admins: map[string]bool{"admin-1": true},
	}
	importer := imports.NewImporter(puzzleSvc, imports.NewMemoryRunStore(), nil)

	r := gin.New()
	r.Use(auth.Middleware(res))
	root := r.Group("/")
	NewSudokuAdminHandler(puzzleSvc, importer, res).Register(root)
	NewAuthHandler(userSvc, res, auth.NewBlacklist(nil), time.Minute).Register(root)
	NewUserHandler(userSvc, res).Register(root)
	NewPlayHandler(puzzleSvc, ledgerSvc, userSvc, res).Register(root)

	return &testEnv{r: r, repo: repo, userRepo: userRepo, users: userSvc, ledger: ledgerSvc, importer: importer, resolver: res}
}

func (e *testEnv) do(method, path, token, body string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func sampleGrid() puzzles.Grid {
	return puzzles.Grid{
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
}

// seed stores puzzles behind the spy and resets its counters.
func (e *testEnv) seed(t *testing.T, list ...*puzzles.Puzzle) {
	t.Helper()
	for _, p := range list {
		if p.Grid == nil {
			p.Grid = sampleGrid()
		}
		require.NoError(t, e.repo.mem.Insert(context.Background(), p))
	}
	e.repo.calls, e.repo.writes = 0, 0
}

func (e *testEnv) signup(t *testing.T, id string) {
	t.Helper()
	_, err := e.users.CreateIfAbsent(context.Background(), id, id+"@example.com", id)
	require.NoError(t, err)
}

var errStoreDown = errors.New("dial tcp 10.0.0.5:27017: connection refused")
