package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/logger"
	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/middleware"
)

// Resolver turns a request into a verified identity and answers the admin question.
type Resolver interface {
	// ResolveUser returns (nil, nil) when the request carries no valid token. An error means
	// the check itself could not be performed.
	ResolveUser(ctx context.Context, r *http.Request) (*Identity, error)
	IsAdmin(ctx context.Context, id *Identity) (bool, error)
}

// RoleLookup reports whether the stored user record grants admin.
type RoleLookup interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

// AdminPolicy lists every way the admin capability is granted.
type AdminPolicy struct {
	Role     string
	Subjects []string
	Users    RoleLookup
}

// TokenResolver verifies bearer tokens with a middleware.Verifier.
type TokenResolver struct {
	verifier  middleware.Verifier
	blacklist *Blacklist
	policy    AdminPolicy
}

func NewTokenResolver(v middleware.Verifier, bl *Blacklist, policy AdminPolicy) *TokenResolver {
	return &TokenResolver{verifier: v, blacklist: bl, policy: policy}
}

func (t *TokenResolver) ResolveUser(ctx context.Context, r *http.Request) (*Identity, error) {
	raw, ok := middleware.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		return nil, nil
	}
	revoked, err := t.blacklist.Contains(ctx, raw)
	if err != nil {
		return nil, fmt.Errorf("check token blacklist: %w", err)
	}
	if revoked {
		return nil, nil
	}
	tok, err := t.verifier.Verify(ctx, raw)
	if err != nil {
		logger.Debugf("auth: token rejected: %v", err)
		return nil, nil
	}
	var claims map[string]interface{}
	if err := tok.Claims(&claims); err != nil {
		logger.Debugf("auth: unreadable claims: %v", err)
		return nil, nil
	}
	id := IdentityFromClaims(claims)
	if id != nil {
		id.Token = raw
	}
	return id, nil
}

func (t *TokenResolver) IsAdmin(ctx context.Context, id *Identity) (bool, error) {
	if id == nil {
		return false, nil
	}
	if id.AdminClaim || id.HasRole(t.policy.Role) {
		return true, nil
	}
	for _, s := range t.policy.Subjects {
		if s == id.Subject {
			return true, nil
		}
	}
	if t.policy.Users == nil {
		return false, nil
	}
	ok, err := t.policy.Users.IsAdmin(ctx, id.Subject)
	if err != nil {
		return false, fmt.Errorf("lookup admin role: %w", err)
	}
	return ok, nil
}

// DenyAllVerifier rejects every token. It stands in when no verifier is configured so that
// protected routes answer 401 instead of panicking.
type DenyAllVerifier struct{}

var errNoVerifier = errors.New("no token verifier configured")

func (DenyAllVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	return nil, errNoVerifier
}
