package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"eventsync/config"
	"eventsync/internal/cache"
	"eventsync/internal/database"
	"eventsync/internal/handler"
	"eventsync/internal/middleware"
	"eventsync/internal/queue"
	"eventsync/internal/realtime"
	"eventsync/internal/repository"
	"eventsync/internal/service"
	"eventsync/internal/worker"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	cfg := config.LoadConfig()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer pool.Close()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}
	defer rdb.Close()

	// repositories
	eventRepo := repository.NewEventRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	capacityManager := cache.NewEventCapacityManager(rdb)

	// 房間廣播器：單一 goroutine 擁有房間表
	hub := realtime.NewHub()
	go hub.Run(ctx)

	// 通知隊列：單實例用 memory，多實例用 redis stream 跨實例扇入
	var notificationQueue queue.NotificationQueue
	switch cfg.Realtime.QueueDriver {
	case "redis":
		notificationQueue, err = queue.NewRedisStreamNotificationQueue(rdb, "", nil)
		if err != nil {
			log.Fatalf("Failed to initialize notification queue: %v", err)
		}
	default:
		notificationQueue = queue.NewNotificationQueue(256)
	}

	// services
	eventService := service.NewEventService(eventRepo, userRepo, capacityManager, notificationQueue)
	userService := service.NewUserService(userRepo, eventRepo)
	authService := service.NewAuthService(userRepo, cfg.Auth)

	// workers
	broadcastWorker := worker.NewBroadcastWorker(hub, notificationQueue)
	if err := broadcastWorker.Start(ctx); err != nil {
		log.Fatalf("Failed to start broadcast worker: %v", err)
	}
	statusSweeper := worker.NewStatusSweeper(eventRepo, userRepo, notificationQueue, cfg.Realtime.StatusSweepPeriod)
	if err := statusSweeper.Start(ctx); err != nil {
		log.Fatalf("Failed to start status sweeper: %v", err)
	}

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.AllowedOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Origin", "Accept"},
		AllowCredentials: true,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Server.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	auth := middleware.Auth(cfg.Auth.JWTSecret)
	handler.NewAuthHandler(authService).RegisterRoutes(router)
	handler.NewEventHandler(eventService).RegisterRoutes(router, auth)
	handler.NewUserHandler(userService, eventService).RegisterRoutes(router, auth)
	handler.NewWSHandler(hub, cfg.Server.AllowedOrigin, cfg.Realtime.SendBufferSize).RegisterRoutes(router)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()
	log.Printf("Server running on port %s", cfg.Server.Port)

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
