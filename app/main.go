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

	"github.com/nokorpost/portal/app/ai"
	"github.com/nokorpost/portal/app/api"
	"github.com/nokorpost/portal/app/cfg"
	"github.com/nokorpost/portal/app/content"
	"github.com/nokorpost/portal/app/database"
	"github.com/nokorpost/portal/app/feed"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Nokor Post server", "version", appCfg.Version)

	articles, feedSeeds, err := content.LoadSeed()
	if err != nil {
		slog.Error("Failed to load seed content", "error", err)
		os.Exit(1)
	}
	store := content.NewStore(articles)
	slog.Info("Seeded article store", "articles", len(articles))

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open feed registry", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Feed registry ready", "schema_version", version, "dirty", dirty)

	feedRepo := database.NewFeedRepository(db)
	seeded, err := feedRepo.SeedFeeds(registrySeeds(feedSeeds))
	if err != nil {
		slog.Error("Failed to seed feed registry", "error", err)
		os.Exit(1)
	}
	slog.Info("Seeded feed registry", "inserted", seeded)

	refresher := feed.NewRefresher(feedRepo, store, nil, appCfg.UserAgent,
		time.Duration(appCfg.RefreshInterval)*time.Second)
	refresher.Start()
	defer refresher.Stop()

	carousel := content.NewCarousel(featuredCount(store.Snapshot()), content.DefaultRotation)
	carousel.Start()
	defer carousel.Stop()

	// Keep the carousel in step with the featured subset as articles are
	// created, published, archived or deleted.
	updates := store.Subscribe()
	go func() {
		for range updates {
			carousel.Sync(featuredCount(store.Snapshot()))
		}
	}()

	assist := ai.NewClient(appCfg.OllamaURL, appCfg.OllamaModel, 0)
	if assist.CheckConnection(context.Background()) {
		slog.Info("AI assist available", "model", appCfg.OllamaModel)
	} else {
		slog.Info("AI assist offline, deterministic fallbacks in use", "url", appCfg.OllamaURL)
	}

	handler := api.NewHandler(store, carousel, feedRepo, refresher, assist)
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
		slog.Info("Received shutdown signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// featuredCount reports the size of the hero subset: featured articles
// that are published.
func featuredCount(articles []content.Article) int {
	count := 0
	for _, a := range articles {
		if a.Featured && a.Status == content.StatusPublished {
			count++
		}
	}
	return count
}

func registrySeeds(seeds []content.FeedSeed) []database.Feed {
	feeds := make([]database.Feed, len(seeds))
	for i, s := range seeds {
		feeds[i] = database.Feed{Title: s.Title, URL: s.URL, Category: s.Category, Active: s.Active}
	}
	return feeds
}
