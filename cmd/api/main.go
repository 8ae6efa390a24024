package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"roster/internal/auth"
	"roster/internal/config"
	"roster/internal/handler"
	"roster/internal/httpmiddleware"
	"roster/internal/queue"
	"roster/internal/roster"
	"roster/internal/store"
)

func main() {
	cfg := config.Load()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.DebugLogging {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	if err := runHTTP(cfg); err != nil {
		log.Fatalf("http server failed: %v", err)
	}
}

func runHTTP(cfg config.App) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		redisClient *store.Redis
		notifier    roster.Notifier
	)
	switch cfg.EventsBackend {
	case "redis":
		redisClient = store.NewRedis(cfg.RedisAddr)
		defer redisClient.Close()
		notifier = queue.NewFeed(queue.NewRedisQueue(redisClient.Client, cfg.EventsKey), 0)
		log.Printf("change feed: redis %s key=%s", cfg.RedisAddr, cfg.EventsKey)
	case "memory":
		q := queue.NewInMemory(cfg.EventsBuffer)
		msgs, err := q.Consume(ctx)
		if err != nil {
			return err
		}
		go queue.LogChanges(msgs, log.New(os.Stderr, "[changes] ", log.LstdFlags))
		notifier = queue.NewFeed(q, 0)
		log.Println("change feed: in-memory")
	default:
		log.Println("change feed disabled")
	}

	h := handler.New(
		auth.NewAuthenticator(auth.Credentials{Username: cfg.AdminUsername, Password: cfg.AdminPassword}),
		handler.SessionConfig{Issuer: cfg.JWTIssuer, SigningKey: cfg.JWTSigningKey, TTL: cfg.SessionTTL},
		roster.NewStore(),
		notifier,
	)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization"},
		MaxAge:          24 * time.Hour,
	}))
	r.Use(httpmiddleware.SecurityHeaders())
	r.Use(httpmiddleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/healthz", func(c *gin.Context) {
		if redisClient == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}
		redisHealthy := redisClient.Healthy(c.Request.Context())
		status := http.StatusOK
		if !redisHealthy {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy})
	})

	h.Register(r)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Starting server on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced shutdown: %v", err)
	}

	log.Println("Server exited")
	return nil
}
