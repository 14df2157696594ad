package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadp "library-circulation/internal/adapter/http"
	"library-circulation/internal/app"
	"library-circulation/internal/config"
	"library-circulation/internal/infrastructure/cache"
	"library-circulation/internal/infrastructure/db"

	"github.com/redis/go-redis/v9"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DBDSN, cfg.LogSQL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	var (
		rdb  *redis.Client
		opts = app.Options{JWTSecret: cfg.JWTSecret, BackupDir: cfg.BackupDir}
	)
	if cfg.RedisEnabled() {
		rdb, err = cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer rdb.Close()
		opts.Notifier = cache.NewNotifier(rdb)
	}

	a := app.New(gdb, opts)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := a.Init(ctx); err != nil {
		log.Fatalf("settings: %v", err)
	}
	if rdb != nil {
		go func() {
			if err := a.Settings.Listen(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("settings listener stopped: %v", err)
			}
		}()
	}

	e := httpadp.NewEcho()
	httpadp.Register(e, httpadp.HandlersFor(a, rdb), httpadp.RouteConfig{
		Secret:   []byte(cfg.JWTSecret),
		Redis:    rdb,
		IdempTTL: time.Duration(cfg.IdempTTLSecs) * time.Second,
	})

	addr := ":" + cfg.AppPort
	go func() {
		log.Printf("listening on %s", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
