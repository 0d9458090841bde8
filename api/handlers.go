package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hkato/kanban/internal/board"
	"github.com/hkato/kanban/internal/snapshot"
)

type Handler struct {
	Cards     *board.CardStore
	Comments  *board.CommentStore
	Snapshots *snapshot.Service
}

// Routes registers every endpoint on the given group.
func (h *Handler) Routes(g *gin.RouterGroup) {
	g.GET("/cards", h.ListCards)
	g.GET("/cards/:id", h.GetCard)
	g.POST("/cards", h.CreateCard)
	g.PUT("/cards/:id", h.UpdateCard)
	g.PATCH("/cards/:id/move", h.MoveCard)
	g.DELETE("/cards/:id", h.DeleteCard)

	g.GET("/history", h.History)

	g.GET("/cards/:id/comments", h.ListComments)
	g.POST("/cards/:id/comments", h.CreateComment)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)

	g.GET("/export", h.Export)
	g.POST("/import", h.Import)

	g.GET("/health", h.HealthCheck)
}

type cardRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Column      string   `json:"column"`
	DueDate     *string  `json:"due_date"`
	Tags        []string `json:"tags"`
}

func (r cardRequest) input() board.CardInput {
	return board.CardInput{
		Title:       r.Title,
		Description: r.Description,
		Column:      r.Column,
		DueDate:     r.DueDate,
		Tags:        r.Tags,
	}
}

type moveRequest struct {
	Column string `json:"column"`
}

func (h *Handler) ListCards(c *gin.Context) {
	cards, err := h.Cards.ListActive()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (h *Handler) GetCard(c *gin.Context) {
	card, err := h.Cards.GetByID(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handler) CreateCard(c *gin.Context) {
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	card, err := h.Cards.Create(req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, card)
}

func (h *Handler) UpdateCard(c *gin.Context) {
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	card, err := h.Cards.Update(c.Param("id"), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handler) MoveCard(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	card, err := h.Cards.Move(c.Param("id"), req.Column)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *Handler) DeleteCard(c *gin.Context) {
	deleted, err := h.Cards.Delete(c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

func (h *Handler) History(c *gin.Context) {
	filter := board.HistoryFilter{
		Date:   c.Query("date"),
		From:   c.Query("from"),
		To:     c.Query("to"),
		Search: c.Query("search"),
	}
	cards, err := h.Cards.QueryHistory(filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cards)
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// writeError maps the core error taxonomy onto HTTP statuses: validation
// failures answer 400, missing targets 404, anything else 500.
func writeError(c *gin.Context, err error) {
	var verr *board.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
	case errors.Is(err, board.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	default:
		zap.L().Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
