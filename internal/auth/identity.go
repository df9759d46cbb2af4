package auth

import (
	"strings"
	"time"
)

// Identity is the verified caller behind a request.
type Identity struct {
	Subject string
	Email   string
	Name    string
	Roles   []string
	// AdminClaim is set when the token itself carries `admin: true`.
	AdminClaim bool
	// ExpiresAt is the token `exp`; zero when absent.
	ExpiresAt time.Time
	// Token is the raw bearer token, kept so it can be blacklisted on logout.
	Token string
}

// HasRole reports whether role is among the token roles (case-insensitive).
func (i *Identity) HasRole(role string) bool {
	if i == nil || role == "" {
		return false
	}
	for _, r := range i.Roles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// IdentityFromClaims maps decoded token claims to an Identity. Roles are collected from
// `role`, `roles` and Keycloak's `realm_access.roles`. A token without `sub` yields nil.
func IdentityFromClaims(claims map[string]interface{}) *Identity {
	sub, _ := claims["sub"].(string)
	sub = strings.TrimSpace(sub)
	if sub == "" {
		return nil
	}
	id := &Identity{Subject: sub}
	id.Email, _ = claims["email"].(string)
	id.Name, _ = claims["name"].(string)
	if id.Name == "" {
		id.Name, _ = claims["preferred_username"].(string)
	}
	if r, ok := claims["role"].(string); ok && r != "" {
		id.Roles = append(id.Roles, r)
	}
	id.Roles = append(id.Roles, stringList(claims["roles"])...)
	if ra, ok := claims["realm_access"].(map[string]interface{}); ok {
		id.Roles = append(id.Roles, stringList(ra["roles"])...)
	}
	id.AdminClaim, _ = claims["admin"].(bool)
	if exp, ok := claims["exp"].(float64); ok && exp > 0 {
		id.ExpiresAt = time.Unix(int64(exp), 0).UTC()
	}
	return id
}

func stringList(v interface{}) []string {
	switch x := v.(type) {
	case []string:
		return x
	case []interface{}:
		out := make([]string, 0, len(x))
		for _, e := range x {
			if s, ok := e.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		if x != "" {
			return []string{x}
		}
	}
	return nil
}
