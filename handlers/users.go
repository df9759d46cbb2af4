package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/auth"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/users"
)

// UserHandler serves per-user calendar integration state. Callers may act on their own
// record; admins on anyone's.
type UserHandler struct {
	usersSvc *users.Service
	resolver auth.Resolver
}

func NewUserHandler(u *users.Service, res auth.Resolver) *UserHandler {
	return &UserHandler{usersSvc: u, resolver: res}
}

// Register routes under /user/:userId
func (h *UserHandler) Register(rg *gin.RouterGroup) {
	u := rg.Group("/user/:userId")
	u.GET("/calendar-status", h.CalendarStatus)
	u.POST("/connect-calendar", h.ConnectCalendar)
	u.POST("/disconnect-calendar", h.DisconnectCalendar)
}

func (h *UserHandler) owner(c *gin.Context) bool {
	return !denied(c, auth.AuthorizeOwner(c, h.resolver, c.Param("userId")))
}

func (h *UserHandler) CalendarStatus(c *gin.Context) {
	if !h.owner(c) {
		return
	}
	st, err := h.usersSvc.CalendarStatus(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

type connectCalendarRequest struct {
	AccessToken  string `json:"accessToken" binding:"required"`
	RefreshToken string `json:"refreshToken"`
	Email        string `json:"email"`
}

// ConnectCalendar stores the tokens obtained by the client-side OAuth exchange.
func (h *UserHandler) ConnectCalendar(c *gin.Context) {
	if !h.owner(c) {
		return
	}
	var req connectCalendarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	err := h.usersSvc.ConnectCalendar(c.Request.Context(), c.Param("userId"), req.AccessToken, req.RefreshToken, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DisconnectCalendar removes the calendar record; it succeeds when none is stored.
func (h *UserHandler) DisconnectCalendar(c *gin.Context) {
	if !h.owner(c) {
		return
	}
	if err := h.usersSvc.DisconnectCalendar(c.Request.Context(), c.Param("userId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
