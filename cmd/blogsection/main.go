package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog_section/internal/config"
	"blog_section/internal/db"
	"blog_section/internal/fetcher"
	"blog_section/internal/logger"
	"blog_section/internal/render"
	"blog_section/internal/section"
	"blog_section/internal/server"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	dotenv := config.LoadDotEnv()

	cfg, err := config.LoadConfig(flagConfig)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Init(cfg.LogLevel)
	defer logger.Log.Info("Application stopped")
	if !dotenv {
		logger.Log.Debug("No .env file loaded")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The API endpoint is only served when a database is configured.
	var store server.ArticleStore
	if cfg.DatabaseURL != "" {
		database, err := db.NewDB(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.Migrate(ctx); err != nil {
			return err
		}
		store = database
	}

	renderer, err := render.New()
	if err != nil {
		return err
	}

	client := fetcher.NewClient(cfg.BlogAPIURL, cfg.FetchTimeoutDuration())
	srv := server.NewServer(store, client, renderer, server.Options{
		Section: section.Options{
			PreviewWords: cfg.PreviewWords,
		},
		RenderTimeout:  cfg.RenderTimeout(),
		RefreshSeconds: cfg.RefreshSeconds,
	})

	httpServer := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      srv.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: cfg.FetchTimeoutDuration() + 10*time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Log.WithFields(logger.Fields{
			"addr":     cfg.ListenAddr,
			"blog_api": client.Endpoint(),
			"store":    store != nil,
		}).Info("Starting HTTP server")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Log.WithError(err).Error("Server error")
		return err
	case <-quit:
	}

	logger.Log.Info("Shutting down...")
	ctxShutdown, cancelShutdown := context.WithTimeout(ctx, 5*time.Second)
	defer cancelShutdown()

	return httpServer.Shutdown(ctxShutdown)
}
