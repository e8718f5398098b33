package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/botize/botize/internal/ai"
	"github.com/botize/botize/internal/chat"
	"github.com/botize/botize/internal/config"
	"github.com/botize/botize/internal/extract"
	"github.com/botize/botize/internal/httpapi"
	"github.com/botize/botize/internal/httpapi/handlers"
	"github.com/botize/botize/internal/logger"
	"github.com/botize/botize/internal/store/rabbitmq"
	"github.com/botize/botize/internal/store/redisstore"
	"github.com/botize/botize/internal/widget"
)

func openDB(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "mysql":
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "", "sqlite":
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		return nil, errors.New("unsupported db_driver: " + driver)
	}
}

func main() {
	cfg := config.Load(os.Getenv("CONFIG_FILE"))

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	gin.SetMode(cfg.GinMode)

	gdb, err := openDB(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		zlog.Fatalw("db open failed", "driver", cfg.DBDriver, "error", err)
	}
	if err := gdb.AutoMigrate(&widget.Widget{}, &chat.TurnEvent{}); err != nil {
		zlog.Fatalw("db migrate failed", "error", err)
	}

	var cache *redisstore.Cache
	if cfg.RedisAddr != "" {
		cache = redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := cache.Ping(pingCtx); err != nil {
			zlog.Warnw("redis unreachable, caching disabled", "addr", cfg.RedisAddr, "error", err)
			cache = nil
		}
		cancel()
		if cache != nil {
			defer cache.Close()
		}
	}

	var events chat.EventPublisher
	if cfg.RabbitURL != "" {
		pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
		if err != nil {
			zlog.Warnw("rabbitmq unreachable, turn events disabled", "error", err)
		} else {
			defer pub.Close()
			events = pub
		}
	}

	reg := ai.NewRegistry()
	reg.Register("openai", func(ctx context.Context, model string) (ai.Provider, error) {
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.OpenAIModel
		}
		return ai.NewOpenAIProvider(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, m), nil
	})
	reg.Register("anthropic", func(ctx context.Context, model string) (ai.Provider, error) {
		m := strings.TrimSpace(model)
		if m == "" {
			m = cfg.AnthropicModel
		}
		return ai.NewAnthropicProvider(cfg.AnthropicBaseURL, cfg.AnthropicAPIKey, m), nil
	})

	chatSvc := chat.NewService(reg, events, zlog, cfg.ChatContextWindowSize)
	widgetSvc := widget.NewService(widget.NewRepo(gdb))
	fetcher := extract.NewWebsiteFetcher()

	h := handlers.NewHandler(zlog, chatSvc, widgetSvc, fetcher, cache)
	r := httpapi.NewRouter(zlog, h)

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		zlog.Infow("server listening", "addr", cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	zlog.Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Errorw("shutdown failed", "error", err)
	}
}
