package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// fakeToken implements middleware.Token
type fakeToken struct {
	data map[string]interface{}
}

func (t *fakeToken) Claims(v interface{}) error {
	if mm, ok := v.(*map[string]interface{}); ok {
		*mm = t.data
		return nil
	}
	return fmt.Errorf("unsupported claims type")
}

// fakeVerifier accepts the tokens it knows
type fakeVerifier struct {
	tokens map[string]map[string]interface{}
}

func (f *fakeVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	if claims, ok := f.tokens[raw]; ok {
		return &fakeToken{data: claims}, nil
	}
	return nil, fmt.Errorf("invalid token")
}

func newFakeVerifier() *fakeVerifier {
	return &fakeVerifier{tokens: map[string]map[string]interface{}{
		"user-token":  {"sub": "user1", "email": "user1@example.com"},
		"admin-token": {"sub": "boss", "roles": []interface{}{"admin"}},
		"flag-token":  {"sub": "flagged", "admin": true},
		"nosub-token": {"email": "ghost@example.com"},
	}}
}

type fakeRoles map[string]bool

func (f fakeRoles) IsAdmin(ctx context.Context, id string) (bool, error) {
	if id == "broken" {
		return false, errors.New("store down")
	}
	return f[id], nil
}

func request(header string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	return r
}

func TestTokenResolver_ResolveUser(t *testing.T) {
	res := NewTokenResolver(newFakeVerifier(), nil, AdminPolicy{Role: "admin"})
	ctx := context.Background()

	id, err := res.ResolveUser(ctx, request("Bearer user-token"))
	require.NoError(t, err)
	require.Equal(t, "user1", id.Subject)
	require.Equal(t, "user-token", id.Token)

	for _, h := range []string{"", "BadHeader", "Bearer unknown", "Bearer nosub-token"} {
		id, err := res.ResolveUser(ctx, request(h))
		require.NoError(t, err, h)
		require.Nil(t, id, h)
	}
}

func TestTokenResolver_RejectsBlacklistedToken(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()
	bl := NewBlacklist(redis.NewClient(&redis.Options{Addr: m.Addr()}))
	require.NoError(t, bl.Add(context.Background(), "user-token", 5*time.Second))

	res := NewTokenResolver(newFakeVerifier(), bl, AdminPolicy{})
	id, err := res.ResolveUser(context.Background(), request("Bearer user-token"))
	require.NoError(t, err)
	require.Nil(t, id)
}

func TestTokenResolver_BlacklistFailureIsAnError(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	bl := NewBlacklist(redis.NewClient(&redis.Options{Addr: m.Addr(), MaxRetries: -1}))
	m.Close()

	res := NewTokenResolver(newFakeVerifier(), bl, AdminPolicy{})
	_, err = res.ResolveUser(context.Background(), request("Bearer user-token"))
	require.Error(t, err)
}

func TestTokenResolver_IsAdmin(t *testing.T) {
	res := NewTokenResolver(newFakeVerifier(), nil, AdminPolicy{
		Role:     "admin",
		Subjects: []string{"ops-1"},
		Users:    fakeRoles{"stored-admin": true},
	})
	ctx := context.Background()

	cases := map[string]bool{
		"role claim":    true,
		"admin flag":    true,
		"subject list":  true,
		"stored role":   true,
		"plain user":    false,
		"unknown store": false,
	}
	ids := map[string]*Identity{
		"role claim":    {Subject: "boss", Roles: []string{"ADMIN"}},
		"admin flag":    {Subject: "flagged", AdminClaim: true},
		"subject list":  {Subject: "ops-1"},
		"stored role":   {Subject: "stored-admin"},
		"plain user":    {Subject: "user1", Roles: []string{"player"}},
		"unknown store": {Subject: "nobody"},
	}
	for name, want := range cases {
		got, err := res.IsAdmin(ctx, ids[name])
		require.NoError(t, err, name)
		require.Equal(t, want, got, name)
	}

	ok, err := res.IsAdmin(ctx, nil)
	require.NoError(t, err)
	require.False(t, ok)

	_, err = res.IsAdmin(ctx, &Identity{Subject: "broken"})
	require.Error(t, err)
}

func TestDenyAllVerifier(t *testing.T) {
	res := NewTokenResolver(DenyAllVerifier{}, nil, AdminPolicy{})
	id, err := res.ResolveUser(context.Background(), request("Bearer anything"))
	require.NoError(t, err)
	require.Nil(t, id)
}
