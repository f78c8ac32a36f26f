package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/teerapat-l/presswire/app/ai"
	"github.com/teerapat-l/presswire/app/api"
	"github.com/teerapat-l/presswire/app/cfg"
	"github.com/teerapat-l/presswire/app/database"
	"github.com/teerapat-l/presswire/app/ingest"
	"github.com/teerapat-l/presswire/app/news"
	"github.com/teerapat-l/presswire/app/storage"
	"github.com/teerapat-l/presswire/app/tasks"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was requested
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Presswire server", "version", appCfg.Version)

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	if dirty {
		slog.Error("Database schema is in a dirty state", "version", version)
		os.Exit(1)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "schema_version", version)

	sourceCache := news.NewSourceCache(appCfg.SourcesDir)
	if err := sourceCache.Run(); err != nil {
		slog.Error("Failed to load source configurations", "dir", appCfg.SourcesDir, "error", err)
		os.Exit(1)
	}
	slog.Info("Source configurations loaded", "count", sourceCache.GetSourceCount())

	postRepo := database.NewPostRepository(db)

	var blobStore storage.BlobStore
	if appCfg.BlobBaseURL != "" {
		blobStore = storage.NewHTTPBlobStore(appCfg.BlobBaseURL, appCfg.BlobContainer, appCfg.BlobAccessKey, appCfg.UserAgent)
		if appCfg.RedisAddr != "" {
			cached, err := storage.NewCachedBlobStore(blobStore, appCfg.RedisAddr, time.Duration(appCfg.CacheTTL)*time.Second)
			if err != nil {
				slog.Warn("Blob cache unavailable, using direct blob access", "addr", appCfg.RedisAddr, "error", err)
			} else {
				blobStore = cached
			}
		}
		slog.Info("Blob storage enabled", "base_url", appCfg.BlobBaseURL, "container", appCfg.BlobContainer)
	} else {
		slog.Info("Blob storage disabled, all content stored inline")
	}

	hybrid := storage.NewHybrid(blobStore)
	rehydrator := ingest.NewRehydrator(blobStore)

	var tagger ingest.Tagger
	if appCfg.OpenAIAPIKey != "" {
		tagger = ai.NewTagger(appCfg.OpenAIAPIKey, appCfg.OpenAIBaseURL, appCfg.OpenAIModel)
		slog.Info("AI tagging enabled", "model", appCfg.OpenAIModel)
	} else {
		slog.Info("AI tagging disabled (OPENAI_API_KEY not set)")
	}

	httpClient := &http.Client{Timeout: 60 * time.Second}
	pageExtractor := news.NewPageExtractor(httpClient, appCfg.UserAgent)

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "interval", appCfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(sourceCache, postRepo, hybrid, tagger, pageExtractor, httpClient)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(postRepo, sourceCache, rehydrator,
		httpClient, hybrid, tagger, pageExtractor, appCfg.UserAgent, appCfg.MaxTags)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}
