package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/auth"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/imports"
	"github.com/joyjuncture/joyjuncture/backend/go-services/internal/puzzles"
)

// SudokuAdminHandler serves puzzle curation for admins.
type SudokuAdminHandler struct {
	puzzles  *puzzles.Service
	importer *imports.Importer
	resolver auth.Resolver
}

func NewSudokuAdminHandler(p *puzzles.Service, imp *imports.Importer, res auth.Resolver) *SudokuAdminHandler {
	return &SudokuAdminHandler{puzzles: p, importer: imp, resolver: res}
}

// Register routes under /admin/sudoku
func (h *SudokuAdminHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/admin/sudoku")
	a.POST("", h.Create)
	a.GET("/random", h.Random)
	a.POST("/claim", h.Claim)
	a.POST("/export", h.Export)
	a.GET("/imports", h.ImportRuns)
	a.GET("/imports/:runId", h.ImportRun)
	a.GET("/variation/:variationNo", h.ByVariation)
	a.GET("/:levelId", h.Get)
	a.PUT("/:levelId/assign", h.Assign)
	a.PUT("/:levelId/unpublish", h.Unpublish)
}

func (h *SudokuAdminHandler) admin(c *gin.Context) bool {
	return !denied(c, auth.Authorize(c, h.resolver, auth.CapAdmin))
}

// Unpublish hides a puzzle and clears its assignment.
func (h *SudokuAdminHandler) Unpublish(c *gin.Context) {
	if !h.admin(c) {
		return
	}
	if err := h.puzzles.Unpublish(c.Request.Context(), c.Param("levelId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Assign publishes an unassigned puzzle; a second assign of the same puzzle conflicts.
func (h *SudokuAdminHandler) Assign(c *gin.Context) {
	if !h.admin(c) {
		return
	}
	ctx := c.Request.Context()
	id := c.Param("levelId")
	if err := h.puzzles.Assign(ctx, id); err != nil {
		respondError(c, err)
		return
	}
	p, err := h.puzzles.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "levelId": p.ID, "assignedAt": p.AssignedAt})
}

// Random returns one unassigned puzzle of the requested difficulty without assigning it.
func (h *SudokuAdminHandler) Random(c *gin.Context) {
	if !h.admin(c) {
		return
	}
	p, err := h.puzzles.PickRandomUnassigned(c.Request.Context(), c.Query("difficulty"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Claim picks and assigns a random unassigned puzzle in one step.
func (h *SudokuAdminHandler) Claim(c *gin.Context) {
	if !h.admin(c) {
		return
	}
	p, err := h.puzzles.ClaimRandom(c.Request.Context(), c.Query("difficulty"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *SudokuAdminHandler) ByVariation(c *gin.Context) {
	if !h.admin(c) {
		return
	}
	n, err := strconv.Atoi(c.Param("variationNo"))
	if err != nil {
		badRequest(c, "variationNo must be an integer")
		return
	}
	list, err := h.puzzles.ListByVariation(c.Request.Context(), n)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *SudokuAdminHandler) Get(c *gin.Context) {
	if !h.admin(c) {
		return
	}
	p, err := h.puzzles.Get(c.Request.Context(), c.Param("levelId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type createPuzzleRequest struct {
	LevelID     string       `json:"levelId"`
	Difficulty  string       `json:"difficulty" binding:"required"`
	VariationNo int          `json:"variationNo"`
	Puzzle      puzzles.Grid `json:"puzzle" binding:"required"`
	Coins       int          `json:"coins"`
}

// Create stores a new hidden, unassigned puzzle.
func (h *SudokuAdminHandler) Create(c *gin.Context) {
	if !h.admin(c) {
		return
	}
	var req createPuzzleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	p, err := h.puzzles.Create(c.Request.Context(), &puzzles.Puzzle{
		ID:          req.LevelID,
		Difficulty:  puzzles.Difficulty(req.Difficulty),
		VariationNo: req.VariationNo,
		Grid:        req.Puzzle,
		Coins:       req.Coins,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"levelId": p.ID})
}

// Export writes the catalog to object storage and returns a download link.
func (h *SudokuAdminHandler) Export(c *gin.Context) {
	if !h.admin(c) {
		return
	}
	res, err := h.importer.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ImportRuns lists the most recent pack imports.
func (h *SudokuAdminHandler) ImportRuns(c *gin.Context) {
	if !h.admin(c) {
		return
	}
	runs, err := h.importer.Runs(c.Request.Context(), 20)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, runs)
}

func (h *SudokuAdminHandler) ImportRun(c *gin.Context) {
	if !h.admin(c) {
		return
	}
	run, err := h.importer.Run(c.Request.Context(), c.Param("runId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}
