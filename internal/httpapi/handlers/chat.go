package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/botize/botize/internal/ai"
	"github.com/botize/botize/internal/apperr"
	"github.com/botize/botize/internal/chat"
	"github.com/botize/botize/internal/prompt"
)

type chatSourceReq struct {
	Type    string `json:"type"`
	Name    string `json:"name"`
	Content string `json:"content"`
}

type chatConfigReq struct {
	Provider                 string          `json:"provider"`
	Model                    string          `json:"model"`
	SystemPrompt             string          `json:"systemPrompt"`
	BusinessContext          string          `json:"businessContext"`
	RestrictToBusinessTopics bool            `json:"restrictToBusinessTopics"`
	ContextSources           []chatSourceReq `json:"contextSources"`
	BrandingName             string          `json:"brandingName"`
}

type chatRequest struct {
	WidgetID            string        `json:"widgetId"`
	Message             string        `json:"message"`
	SessionID           string        `json:"sessionId"`
	Config              chatConfigReq `json:"config"`
	ConversationHistory []ai.Message  `json:"conversationHistory"`
}

// Chat runs one turn of the pipeline. The visitor never sees raw backend
// errors: declared failure kinds surface their safe message, anything
// else degrades to a generic one while the detail is logged.
func (h *Handler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errJSON(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Message == "" {
		errJSON(c, http.StatusBadRequest, "Message is required")
		return
	}

	sources := make([]prompt.Source, 0, len(req.Config.ContextSources))
	for _, s := range req.Config.ContextSources {
		sources = append(sources, prompt.Source{Type: s.Type, Name: s.Name, Content: s.Content})
	}

	reply, err := h.ChatSvc.Respond(c.Request.Context(), chat.TurnRequest{
		WidgetID:                 req.WidgetID,
		SessionID:                req.SessionID,
		Message:                  req.Message,
		Provider:                 req.Config.Provider,
		Model:                    req.Config.Model,
		SystemPrompt:             req.Config.SystemPrompt,
		BusinessContext:          req.Config.BusinessContext,
		RestrictToBusinessTopics: req.Config.RestrictToBusinessTopics,
		BrandingName:             req.Config.BrandingName,
		Sources:                  sources,
		History:                  req.ConversationHistory,
	})
	if err != nil {
		status := apperr.HTTPStatus(err)
		msg := apperr.MessageOf(err, "Failed to process message")
		if apperr.KindOf(err) == apperr.KindInternal {
			h.Log.Errorw("chat handler failed", "widget_id", req.WidgetID, "error", err)
			msg = "Failed to process message"
		}
		errJSON(c, status, msg)
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": reply})
}
