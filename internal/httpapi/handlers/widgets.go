package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/botize/botize/internal/widget"
)

type createWidgetRequest struct {
	Name string `json:"name"`
}

func (h *Handler) CreateWidget(c *gin.Context) {
	var req createWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, "invalid json")
		return
	}
	w, err := h.Widgets.Create(c.Request.Context(), req.Name)
	if err != nil {
		h.Log.Errorw("widget create failed", "error", err)
		errJSON(c, http.StatusInternalServerError, "failed to create widget")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": w})
}

func (h *Handler) GetWidget(c *gin.Context) {
	w, err := h.Widgets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errJSON(c, http.StatusNotFound, "widget not found")
			return
		}
		h.Log.Errorw("widget get failed", "id", c.Param("id"), "error", err)
		errJSON(c, http.StatusInternalServerError, "failed to load widget")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": w})
}

func (h *Handler) ListWidgets(c *gin.Context) {
	ws, err := h.Widgets.List(c.Request.Context())
	if err != nil {
		h.Log.Errorw("widget list failed", "error", err)
		errJSON(c, http.StatusInternalServerError, "failed to list widgets")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": ws})
}

func (h *Handler) UpdateWidget(c *gin.Context) {
	var req widget.Widget
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, "invalid json")
		return
	}
	w, err := h.Widgets.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errJSON(c, http.StatusNotFound, "widget not found")
			return
		}
		h.Log.Errorw("widget update failed", "id", c.Param("id"), "error", err)
		errJSON(c, http.StatusInternalServerError, "failed to update widget")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": w})
}

func (h *Handler) DeleteWidget(c *gin.Context) {
	deleted, err := h.Widgets.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.Log.Errorw("widget delete failed", "id", c.Param("id"), "error", err)
		errJSON(c, http.StatusInternalServerError, "failed to delete widget")
		return
	}
	if !deleted {
		errJSON(c, http.StatusNotFound, "widget not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) DuplicateWidget(c *gin.Context) {
	w, err := h.Widgets.Duplicate(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errJSON(c, http.StatusNotFound, "widget not found")
			return
		}
		h.Log.Errorw("widget duplicate failed", "id", c.Param("id"), "error", err)
		errJSON(c, http.StatusInternalServerError, "failed to duplicate widget")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": w})
}

// WidgetEmbed returns the embeddable configuration for a widget. The
// embed script loads it cross-origin and forwards the ai config and
// context sources verbatim on every chat turn, so the payload carries
// the full record rather than a display-only slice.
func (h *Handler) WidgetEmbed(c *gin.Context) {
	w, err := h.Widgets.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errJSON(c, http.StatusNotFound, "widget not found")
			return
		}
		h.Log.Errorw("widget embed load failed", "id", c.Param("id"), "error", err)
		errJSON(c, http.StatusInternalServerError, "failed to load widget")
		return
	}
	if !w.IsActive {
		errJSON(c, http.StatusNotFound, "widget not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":             w.ID,
			"name":           w.Name,
			"ai":             w.AI,
			"contextSources": w.ContextSources,
			"branding":       w.Branding,
			"style":          w.Style,
			"behavior":       w.Behavior,
			"faq":            w.FAQ,
		},
	})
}
