package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hkato/kanban/internal/models"
)

type importRequest struct {
	Data *models.Snapshot `json:"data"`
	Mode string           `json:"mode"`
}

func (h *Handler) Export(c *gin.Context) {
	doc, err := h.Snapshots.Export()
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *Handler) Import(c *gin.Context) {
	var req importRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON payload"})
		return
	}

	summary, err := h.Snapshots.Import(req.Data, req.Mode)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
