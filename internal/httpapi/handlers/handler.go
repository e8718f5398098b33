package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/botize/botize/internal/chat"
	"github.com/botize/botize/internal/extract"
	"github.com/botize/botize/internal/store/redisstore"
	"github.com/botize/botize/internal/widget"
)

type Handler struct {
	Log     *zap.SugaredLogger
	ChatSvc *chat.Service
	Widgets *widget.Service
	Fetcher *extract.WebsiteFetcher
	Cache   *redisstore.Cache // nil disables caching
}

func NewHandler(log *zap.SugaredLogger, chatSvc *chat.Service, widgets *widget.Service, fetcher *extract.WebsiteFetcher, cache *redisstore.Cache) *Handler {
	return &Handler{
		Log:     log,
		ChatSvc: chatSvc,
		Widgets: widgets,
		Fetcher: fetcher,
		Cache:   cache,
	}
}

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func errJSON(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}
