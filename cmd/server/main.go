package main

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"timeline-service/config"
	"timeline-service/internal/cache"
	"timeline-service/internal/db"
	"timeline-service/internal/handler"
	"timeline-service/internal/httpserver"
	"timeline-service/internal/mq"
	"timeline-service/internal/repository"
	"timeline-service/internal/service/timeline"
	"timeline-service/pkg/logger"
	"timeline-service/pkg/redis"
)

func main() {
	// 1. Load environment and config
	_ = godotenv.Load()
	cfg := config.Load()

	zlog := logger.NewLogger()
	defer zlog.Sync()

	// 2. Init DB
	dbConn, err := db.NewConnection(cfg.DB, zlog)
	if err != nil {
		zlog.Fatal("DB initialization failed", zap.Error(err))
	}
	defer dbConn.Close()

	// 3. Init RabbitMQ publisher
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	// 4. Init redis-backed timeline cache
	rdb := redis.NewClient(cfg.Redis)
	cacheTTL := time.Duration(cfg.Redis.CacheTTL) * time.Second
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	timelineCache := cache.NewTimelineCache(rdb, cacheTTL, zlog)

	// 5. Init repository and service
	milestoneRepo := repository.NewMilestoneRepository(dbConn, zlog)
	timelineService := timeline.NewService(milestoneRepo, publisher, timelineCache, zlog)

	// 6. Init handlers and router
	timelineHandler := handler.NewTimelineHandler(timelineService, zlog)
	milestoneHandler := handler.NewMilestoneHandler(timelineService, zlog)
	router := httpserver.NewRouter(timelineHandler, milestoneHandler, cfg.JWT.Secret)

	// 7. Run server
	if err := router.Run(cfg.Server.Port); err != nil {
		zlog.Fatal("server start failed", zap.Error(err))
	}
}
