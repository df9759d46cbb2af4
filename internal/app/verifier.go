package app

import (
	"context"

	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/auth"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/config"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/oidc"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/tokens"
	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/logger"
	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/middleware"
)

// BuildVerifier picks the token verifier: Keycloak OIDC when configured, else HS256 with
// JWT_SECRET, else the insecure claims decoder when ALLOW_INSECURE_TOKEN is set. Without any
// of them every token is rejected. The returned name is reported by /ready.
func BuildVerifier(ctx context.Context, cfg *config.Config) (middleware.Verifier, string) {
	if cfg.Keycloak.URL != "" && cfg.Keycloak.ClientID != "" {
		ver, err := oidc.NewVerifier(ctx, cfg.Keycloak.Issuer(), cfg.Keycloak.ClientID)
		if err == nil {
			return ver, "keycloak"
		}
		logger.Warnf("failed to initialize OIDC verifier: %v", err)
	}
	if cfg.JWT.Secret != "" {
		return tokens.NewHMACVerifier(cfg.JWT.Secret), "hmac"
	}
	if cfg.JWT.AllowInsecure {
		logger.Warnf("enabling insecure token verifier (integration mode)")
		return oidc.NewInsecureVerifier(), "insecure"
	}
	logger.Warnf("no token verifier configured; protected routes will answer 401")
	return auth.DenyAllVerifier{}, "none"
}
