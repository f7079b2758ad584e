// File: main.go
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"shapeCaptcha/internal/challenge"
	"shapeCaptcha/internal/utils"
	"syscall"
	"time"
)

func main() {
	configPath := flag.String("config", "config.json", "server config file")
	flag.Parse()

	cfg, err := LoadServerConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := utils.NewLogger(cfg.LogFile)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Close()

	locales, err := LoadCatalogs(cfg.Locale)
	if err != nil {
		log.Fatalf("locales: %v", err)
	}
	chCfg := challenge.DefaultConfig()
	if err := chCfg.Validate(); err != nil {
		log.Fatalf("challenge config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 定时清理空闲会话
	store := NewStore(chCfg)
	go store.Janitor(ctx, cfg.TTL(), func(n int) {
		logger.Infof("Evicted %d idle challenges", n)
	})

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: NewServer(chCfg, store, logger, locales, cfg.StaticDir).Router(),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("Server listening on %s", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}
