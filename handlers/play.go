package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/auth"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/ledger"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/puzzles"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/users"
)

// PlayHandler serves the player side: visible levels, play history and the wallet.
type PlayHandler struct {
	puzzles  *puzzles.Service
	ledger   *ledger.Service
	usersSvc *users.Service
	resolver auth.Resolver
}

func NewPlayHandler(p *puzzles.Service, l *ledger.Service, u *users.Service, res auth.Resolver) *PlayHandler {
	return &PlayHandler{puzzles: p, ledger: l, usersSvc: u, resolver: res}
}

// Register routes under /user
func (h *PlayHandler) Register(rg *gin.RouterGroup) {
	u := rg.Group("/user")
	u.GET("/sudoku/levels", h.Levels)
	u.GET("/sudoku/history", h.History)
	u.POST("/sudoku/complete", h.Complete)
	u.GET("/wallet", h.Wallet)
	u.GET("/wallet/history", h.WalletHistory)
}

func (h *PlayHandler) user(c *gin.Context) (*auth.Identity, bool) {
	d := auth.Authorize(c, h.resolver, auth.CapUser)
	if denied(c, d) {
		return nil, false
	}
	return d.Identity, true
}

// Levels lists every visible puzzle. It is public.
func (h *PlayHandler) Levels(c *gin.Context) {
	list, err := h.puzzles.ListVisible(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PlayHandler) History(c *gin.Context) {
	id, ok := h.user(c)
	if !ok {
		return
	}
	list, err := h.ledger.PlayHistory(c.Request.Context(), id.Subject)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

type completeRequest struct {
	LevelID         string     `json:"levelId" binding:"required"`
	StartedAt       time.Time  `json:"startedAt"`
	FinishedAt      *time.Time `json:"finishedAt"`
	Solved          bool       `json:"solved"`
	Mistakes        int        `json:"mistakes"`
	DurationSeconds int        `json:"durationSeconds"`
}

// Complete records a finished game. Only visible levels can be played; the reward comes
// from the stored level, never from the request.
func (h *PlayHandler) Complete(c *gin.Context) {
	id, ok := h.user(c)
	if !ok {
		return
	}
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	// rewards are credited to the user document, so the player must have signed up
	if _, err := h.usersSvc.Get(ctx, id.Subject); err != nil {
		respondError(c, err)
		return
	}
	p, err := h.puzzles.Get(ctx, req.LevelID)
	if err != nil {
		respondError(c, err)
		return
	}
	if !p.IsVisibleToUser {
		respondError(c, puzzles.ErrNotFound)
		return
	}
	res, err := h.ledger.RecordPlay(ctx, id.Subject, ledger.PlayInput{
		LevelID:         p.ID,
		Difficulty:      string(p.Difficulty),
		Coins:           p.Coins,
		StartedAt:       req.StartedAt,
		FinishedAt:      req.FinishedAt,
		Solved:          req.Solved,
		Mistakes:        req.Mistakes,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *PlayHandler) Wallet(c *gin.Context) {
	id, ok := h.user(c)
	if !ok {
		return
	}
	u, err := h.usersSvc.Get(c.Request.Context(), id.Subject)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coins": u.Coins})
}

func (h *PlayHandler) WalletHistory(c *gin.Context) {
	id, ok := h.user(c)
	if !ok {
		return
	}
	list, err := h.ledger.WalletHistory(c.Request.Context(), id.Subject)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
