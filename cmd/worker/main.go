package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"roster/internal/config"
	"roster/internal/queue"
	"roster/internal/store"
)

// Worker tails the Redis change feed and writes an audit line per change.
func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Println("shutdown signal received")
		cancel()
	}()

	if cfg.EventsBackend != "redis" {
		log.Fatalf("worker needs EVENTS_BACKEND=redis, got %q", cfg.EventsBackend)
	}

	redisClient := store.NewRedis(cfg.RedisAddr)
	defer redisClient.Close()

	if !redisClient.Healthy(ctx) {
		log.Printf("WARNING: redis at %s not reachable, will keep retrying", cfg.RedisAddr)
	}

	q := queue.NewRedisQueue(redisClient.Client, cfg.EventsKey)
	messages, err := q.Consume(ctx)
	if err != nil {
		log.Fatalf("queue consume init failed: %v", err)
	}

	log.Printf("worker started, tailing %s", cfg.EventsKey)
	queue.LogChanges(messages, log.New(os.Stdout, "[audit] ", log.LstdFlags|log.LUTC))
	log.Println("worker stopped")
}
