package handlers

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/auth"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/users"
	"github.com/joyjuncture/joyjuncture/backend/go-services/pkg/logger"
)

// SignupRequest is posted by the client right after the identity provider created the account.
type SignupRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	usersSvc  *users.Service
	resolver  auth.Resolver
	blacklist *auth.Blacklist
	// fallbackTTL bounds the blacklist entry of a token without exp.
	fallbackTTL time.Duration
}

func NewAuthHandler(u *users.Service, res auth.Resolver, bl *auth.Blacklist, fallbackTTL time.Duration) *AuthHandler {
	return &AuthHandler{usersSvc: u, resolver: res, blacklist: bl, fallbackTTL: fallbackTTL}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/signup", h.Signup)
	a.POST("/logout", h.Logout)
	a.GET("/me", h.Me)
}

// Signup creates the user record once. Repeating it is a successful no-op.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, err.Error())
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		badRequest(c, "Missing userId")
		return
	}
	created, err := h.usersSvc.CreateIfAbsent(c.Request.Context(), req.UserID, req.Email, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	if !created {
		c.JSON(http.StatusOK, gin.H{"message": "User already exists"})
		return
	}
	logger.Infof("signup: created user %s", req.UserID)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Logout blacklists the presented access token until it would have expired.
func (h *AuthHandler) Logout(c *gin.Context) {
	d := auth.Authorize(c, h.resolver, auth.CapUser)
	if denied(c, d) {
		return
	}
	ttl := h.fallbackTTL
	if !d.Identity.ExpiresAt.IsZero() {
		ttl = time.Until(d.Identity.ExpiresAt)
	}
	if ttl > 0 {
		if err := h.blacklist.Add(c.Request.Context(), d.Identity.Token, ttl); err != nil {
			respondError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the caller's identity and, when signed up, the stored user record.
func (h *AuthHandler) Me(c *gin.Context) {
	d := auth.Authorize(c, h.resolver, auth.CapUser)
	if denied(c, d) {
		return
	}
	ctx := c.Request.Context()
	admin, err := h.resolver.IsAdmin(ctx, d.Identity)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := gin.H{"userId": d.Identity.Subject, "email": d.Identity.Email, "admin": admin, "user": nil}
	u, err := h.usersSvc.Get(ctx, d.Identity.Subject)
	switch {
	case err == nil:
		resp["user"] = u
	case !errors.Is(err, users.ErrNotFound):
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
