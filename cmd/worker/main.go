package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	amqp "github.com/rabbitmq/amqp091-go"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/botize/botize/internal/chat"
	"github.com/botize/botize/internal/config"
	"github.com/botize/botize/internal/logger"
	"github.com/botize/botize/internal/store/rabbitmq"
)

func workerConcurrency() int {
	v := os.Getenv("WORKER_CONCURRENCY")
	if v == "" {
		return 2
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 2
	}
	if n > 50 {
		return 50
	}
	return n
}

func main() {
	cfg := config.Load(os.Getenv("CONFIG_FILE"))

	zlog, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	var gdb *gorm.DB
	switch cfg.DBDriver {
	case "mysql":
		gdb, err = gorm.Open(mysql.Open(cfg.DBDSN), &gorm.Config{})
	default:
		gdb, err = gorm.Open(sqlite.Open(cfg.DBDSN), &gorm.Config{})
	}
	if err != nil {
		zlog.Fatalw("db open failed", "driver", cfg.DBDriver, "error", err)
	}
	if err := gdb.AutoMigrate(&chat.TurnEvent{}); err != nil {
		zlog.Fatalw("db migrate failed", "error", err)
	}

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		zlog.Fatalw("rabbit dial failed", "error", err)
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		zlog.Fatalw("rabbit channel failed", "error", err)
	}
	defer ch.Close()

	if err := rabbitmq.DeclareQueues(ch, cfg.RabbitQueue); err != nil {
		zlog.Fatalw("queue declare failed", "error", err)
	}

	concurrency := workerConcurrency()
	if err := ch.Qos(concurrency, 0, false); err != nil {
		zlog.Fatalw("qos failed", "error", err)
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		zlog.Fatalw("consume failed", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	zlog.Infow("worker started", "queue", cfg.RabbitQueue, "concurrency", concurrency)

	jobs := make(chan amqp.Delivery, concurrency*2)

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			for d := range jobs {
				var ev chat.TurnEvent
				if err := json.Unmarshal(d.Body, &ev); err != nil || ev.WidgetID == "" {
					zlog.Warnw("bad turn event message", "worker", workerID, "error", err)
					_ = d.Nack(false, false)
					continue
				}
				if ev.CreatedAt.IsZero() {
					ev.CreatedAt = time.Now()
				}
				ev.ID = 0
				if err := gdb.WithContext(ctx).Create(&ev).Error; err != nil {
					zlog.Errorw("turn event insert failed", "worker", workerID, "widget", ev.WidgetID, "error", err)
					_ = d.Nack(false, false)
					continue
				}
				if err := d.Ack(false); err != nil {
					zlog.Warnw("ack failed", "worker", workerID, "error", err)
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			zlog.Infow("worker shutting down")
			close(jobs)
			wg.Wait()
			return

		case d, ok := <-msgs:
			if !ok {
				zlog.Warnw("delivery channel closed")
				time.Sleep(1 * time.Second)
				continue
			}
			jobs <- d
		}
	}
}
