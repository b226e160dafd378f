package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/sectionize/internal/api"
	"github.com/dgallion1/sectionize/internal/chunkstore"
	"github.com/dgallion1/sectionize/internal/config"
	"github.com/dgallion1/sectionize/internal/pipeline"
	"github.com/dgallion1/sectionize/internal/roles"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	store := chunkstore.NewClient(cfg.ChunkstoreURL, cfg.ChunkstoreAPIKey)

	var annotator *roles.Client
	var catalog []roles.Role
	if cfg.AnnotateRoles {
		var err error
		catalog, err = roles.LoadCatalog(cfg.RolesFile)
		if err != nil {
			log.Error("failed to load role catalog", "path", cfg.RolesFile, "error", err)
			os.Exit(1)
		}
		annotator = roles.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		log.Info("role annotation enabled", "roles", len(catalog), "model", cfg.AnthropicModel)
	}

	// Initialize pipeline. A nil interface annotator means annotation
	// is skipped even when a job asks for it.
	var ann roles.Annotator
	if annotator != nil {
		ann = annotator
	}
	orch := pipeline.NewOrchestrator(cfg, ann, catalog, store, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, ann, catalog, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if annotator != nil {
			annotator.Close()
		}
		store.Close()
	}()

	log.Info("starting sectionize", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
