// ABOUTME: Main entry point for the Etsy listing viewer frontend
// ABOUTME: Serves the lookup page and forwards lookups to the backend API

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	stdhttp "etsy-viewer-api/infrastructure/http/standard"
	logruslogger "etsy-viewer-api/infrastructure/logger/logrus"
	"etsy-viewer-api/pkg/config"
	"etsy-viewer-api/web"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.ValidateWeb(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logruslogger.New(logruslogger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})

	// One attempt and no client timeout: a lookup is bounded only by the
	// browser request that triggered it.
	backend := web.NewClient(stdhttp.NewStandardHTTPClient(0, stdhttp.WithMaxAttempts(1)), cfg.Web.APIURL)
	handler := web.NewHandler(backend, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Web.Port,
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("Viewer starting", map[string]interface{}{
			"address": srv.Addr,
			"api_url": cfg.Web.APIURL,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Viewer failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Viewer forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Viewer stopped", nil)
}
