package oidc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/middleware"
)

var (
	errNoSubject = errors.New("token has no subject")
	errExpired   = errors.New("token is expired")
)

type claimsToken jwt.MapClaims

func (t claimsToken) Claims(v interface{}) error {
	b, err := json.Marshal(map[string]interface{}(t))
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// InsecureVerifier reads JWT claims WITHOUT checking the signature. Expired tokens and tokens
// without a subject are still rejected. Only for local integration runs (ALLOW_INSECURE_TOKEN).
type InsecureVerifier struct {
	now func() time.Time
}

func NewInsecureVerifier() *InsecureVerifier { return &InsecureVerifier{now: time.Now} }

func (v *InsecureVerifier) Verify(ctx context.Context, raw string) (middleware.Token, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if sub, _ := claims.GetSubject(); sub == "" {
		return nil, errNoSubject
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}
	if exp != nil && !exp.After(v.now()) {
		return nil, errExpired
	}
	return claimsToken(claims), nil
}
