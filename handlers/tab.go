package handlers

import (
	"net/http"

	"tabeza/services/tab"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TabHandler struct {
	Svc    tab.TabService
	Logger *zap.Logger
}

func NewTabHandler(svc tab.TabService) *TabHandler {
	return &TabHandler{Svc: svc, Logger: zap.L().Named("tab_handler")}
}

// OpenTab handles POST /api/tabs.
func (h *TabHandler) OpenTab(c *gin.Context) {
	var req tab.OpenTabRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	t, err := h.Svc.Open(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// GetTab handles GET /api/tabs/:id — the view customer and staff
// clients poll.
func (h *TabHandler) GetTab(c *gin.Context) {
	view, err := h.Svc.View(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// CloseTab handles POST /api/tabs/:id/close.
func (h *TabHandler) CloseTab(c *gin.Context) {
	t, err := h.Svc.Close(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// ListVenueTabs handles GET /api/venues/:id/tabs.
func (h *TabHandler) ListVenueTabs(c *gin.Context) {
	summaries, err := h.Svc.ListByVenue(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tabs": summaries})
}
