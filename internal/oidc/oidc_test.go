package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func unsigned(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	// any key works; the signature is never checked
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("ignored"))
	require.NoError(t, err)
	return s
}

func TestInsecureVerifier(t *testing.T) {
	v := NewInsecureVerifier()
	ctx := context.Background()

	tok, err := v.Verify(ctx, unsigned(t, jwt.MapClaims{
		"sub":          "u-1",
		"email":        "u1@example.com",
		"realm_access": map[string]interface{}{"roles": []string{"admin"}},
		"exp":          time.Now().Add(time.Hour).Unix(),
	}))
	require.NoError(t, err)
	var claims struct {
		Sub         string `json:"sub"`
		Email       string `json:"email"`
		RealmAccess struct {
			Roles []string `json:"roles"`
		} `json:"realm_access"`
	}
	require.NoError(t, tok.Claims(&claims))
	require.Equal(t, "u-1", claims.Sub)
	require.Equal(t, "u1@example.com", claims.Email)
	require.Equal(t, []string{"admin"}, claims.RealmAccess.Roles)
}

func TestInsecureVerifier_Rejects(t *testing.T) {
	v := NewInsecureVerifier()
	ctx := context.Background()

	_, err := v.Verify(ctx, "not-a-jwt")
	require.Error(t, err)

	_, err = v.Verify(ctx, unsigned(t, jwt.MapClaims{"email": "x@example.com"}))
	require.ErrorIs(t, err, errNoSubject)

	_, err = v.Verify(ctx, unsigned(t, jwt.MapClaims{"sub": "u-1", "exp": time.Now().Add(-time.Minute).Unix()}))
	require.ErrorIs(t, err, errExpired)
}

func TestNewVerifier_Discovery(t *testing.T) {
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/realms/joy/.well-known/openid-configuration" {
			http.NotFound(w, r)
			return
		}
		issuer := srv.URL + "/realms/joy"
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"issuer":                                issuer,
			"authorization_endpoint":                issuer + "/protocol/openid-connect/auth",
			"token_endpoint":                        issuer + "/protocol/openid-connect/token",
			"jwks_uri":                              issuer + "/protocol/openid-connect/certs",
			"id_token_signing_alg_values_supported": []string{"RS256"},
		})
	}))
	defer srv.Close()

	v, err := NewVerifier(context.Background(), srv.URL+"/realms/joy", "joy-frontend")
	require.NoError(t, err)
	require.Equal(t, srv.URL+"/realms/joy", v.Issuer())

	// a token signed with a shared secret is never accepted
	_, err = v.Verify(context.Background(), unsigned(t, jwt.MapClaims{"sub": "u-1"}))
	require.Error(t, err)

	_, err = NewVerifier(context.Background(), srv.URL+"/realms/missing", "joy-frontend")
	require.Error(t, err)
}
