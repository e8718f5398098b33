package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/botize/botize/internal/httpapi/handlers"
	"github.com/botize/botize/internal/httpapi/middleware"
)

// NewRouter wires the HTTP surface. CORS is wide open on purpose: the
// widget script runs embedded on arbitrary customer origins.
func NewRouter(log *zap.SugaredLogger, h *handlers.Handler) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true
	r.Use(gin.Logger())
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID())

	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "method not allowed"})
	})

	r.GET("/ping", h.Ping)

	// visitor chat turn
	r.POST("/chat", h.Chat)

	// context ingestion (editor side)
	r.POST("/context/website", h.ContextWebsite)
	r.POST("/context/pdf", h.ContextPDF)

	// widget configuration CRUD
	r.POST("/widgets", h.CreateWidget)
	r.GET("/widgets", h.ListWidgets)
	r.GET("/widgets/:id", h.GetWidget)
	r.PUT("/widgets/:id", h.UpdateWidget)
	r.DELETE("/widgets/:id", h.DeleteWidget)
	r.POST("/widgets/:id/duplicate", h.DuplicateWidget)
	r.GET("/widgets/:id/embed", h.WidgetEmbed)

	return r
}
