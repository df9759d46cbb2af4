package auth

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/middleware"
)

// Capability is what an operation requires of its caller.
type Capability int

const (
	// CapUser is any authenticated identity.
	CapUser Capability = iota
	// CapAdmin is an identity holding the admin capability.
	CapAdmin
)

// Status is the outcome of a capability check.
type Status int

const (
	Authorized Status = iota
	Unauthorized
	Forbidden
	Failed
)

func (s Status) String() string {
	switch s {
	case Authorized:
		return "authorized"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	default:
		return "failed"
	}
}

// Decision is the tagged result of Authorize. Identity is set only when Authorized; Err only
// when Failed.
type Decision struct {
	Status   Status
	Identity *Identity
	Err      error
}

func (d Decision) Allowed() bool { return d.Status == Authorized }

const identityKey = "auth.identity"

type resolved struct {
	id  *Identity
	err error
}

// Middleware resolves the caller once per request and caches the result for Authorize. It
// never rejects a request itself; the claims it publishes let the rate limiter key on the
// subject.
func Middleware(res Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := res.ResolveUser(c.Request.Context(), c.Request)
		c.Set(identityKey, resolved{id: id, err: err})
		if id != nil {
			c.Set(middleware.ClaimsKey, map[string]interface{}{"sub": id.Subject, "email": id.Email})
		}
		c.Next()
	}
}

func resolve(c *gin.Context, res Resolver) (*Identity, error) {
	if v, ok := c.Get(identityKey); ok {
		if r, ok := v.(resolved); ok {
			return r.id, r.err
		}
	}
	id, err := res.ResolveUser(c.Request.Context(), c.Request)
	c.Set(identityKey, resolved{id: id, err: err})
	return id, err
}

// Authorize is the single capability check run before a protected operation touches the
// store. Identity failures short-circuit as Unauthorized before the admin question is asked.
func Authorize(c *gin.Context, res Resolver, need Capability) Decision {
	id, err := resolve(c, res)
	return decide(c.Request.Context(), res, id, err, need == CapAdmin)
}

// AuthorizeOwner authorizes callers acting on their own resource (subject == ownerID) and
// admins acting on anyone's.
func AuthorizeOwner(c *gin.Context, res Resolver, ownerID string) Decision {
	id, err := resolve(c, res)
	self := id != nil && id.Subject == ownerID
	return decide(c.Request.Context(), res, id, err, !self)
}

func decide(ctx context.Context, res Resolver, id *Identity, resolveErr error, needAdmin bool) Decision {
	if resolveErr != nil {
		return Decision{Status: Failed, Err: resolveErr}
	}
	if id == nil {
		return Decision{Status: Unauthorized}
	}
	if !needAdmin {
		return Decision{Status: Authorized, Identity: id}
	}
	admin, err := res.IsAdmin(ctx, id)
	if err != nil {
		return Decision{Status: Failed, Err: err}
	}
	if !admin {
		return Decision{Status: Forbidden}
	}
	return Decision{Status: Authorized, Identity: id}
}
