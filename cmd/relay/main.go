package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"stringphone/internal/config"
	"stringphone/internal/log"
	"stringphone/internal/presence"
	"stringphone/internal/relay"
)

func main() {
	cfg := config.ParseRelay()
	defer log.Sync()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("redis ping failed", zap.Error(err))
	}

	r := relay.New(presence.New(rdb))

	server := &http.Server{Addr: cfg.ListenAddr, Handler: r.Router()}
	go func() {
		log.Info("relay listening", zap.String("addr", cfg.ListenAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("relay exited", zap.Error(err))
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)
	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("relay shutdown failed", zap.Error(err))
	}
}
