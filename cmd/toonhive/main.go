package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/toonhive/toonhive/internal/api"
	"github.com/toonhive/toonhive/internal/cache"
	"github.com/toonhive/toonhive/internal/config"
	"github.com/toonhive/toonhive/internal/controllers"
	"github.com/toonhive/toonhive/internal/logging"
	"github.com/toonhive/toonhive/internal/models"
	"github.com/toonhive/toonhive/internal/search"
	"github.com/toonhive/toonhive/internal/services/blobstore"
	"github.com/toonhive/toonhive/internal/services/session"
	"github.com/toonhive/toonhive/internal/telemetry"
)

func main() {
	root := &cobra.Command{
		Use:          "toonhive",
		Short:        "Webtoon catalog server with engagement signals",
		SilenceUsage: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the catalog HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "reindex",
		Short: "Rebuild the search index from the record store",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReindex(cmd.Context())
		},
	})

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// 2. Setup logger and tracing
	logger := logging.NewLogger(cfg.LogLevel)
	logger.Info().Msg("starting toonhive")

	shutdownTelemetry, err := telemetry.Setup("toonhive")
	if err != nil {
		return fmt.Errorf("failed to setup telemetry: %w", err)
	}
	defer func() { _ = shutdownTelemetry(context.Background()) }()

	// 3. Initialize record store
	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	logger.Info().Msg("record store initialized")

	// 4. Initialize cache and search index
	cacheStore := cache.NewStore(cfg.CacheTTL)
	synchronizer, err := search.NewSynchronizer(cfg.SearchIndexDir, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize search index: %w", err)
	}
	defer synchronizer.Close()
	logger.Info().Msg("search index initialized")

	// 5. Initialize collaborators
	blobs, err := blobstore.NewDiskStore(cfg.BlobDir)
	if err != nil {
		return fmt.Errorf("failed to initialize blob store: %w", err)
	}
	oracle := session.NewDatabaseOracle(db)

	// 6. Initialize controllers
	ctrls := api.Controllers{
		Catalog:   controllers.NewCatalogController(db, cacheStore, synchronizer, blobs, logger),
		Episodes:  controllers.NewEpisodeController(db, cacheStore, blobs, logger),
		Ratings:   controllers.NewRatingController(db, cacheStore, logger),
		Comments:  controllers.NewCommentController(db, cacheStore, logger),
		Favorites: controllers.NewFavoriteController(db, cacheStore, logger),
		Views:     controllers.NewViewController(db, cacheStore, logger),
		Users:     controllers.NewUserController(db, logger),
	}
	logger.Info().Msg("controllers initialized")

	// 7. Start HTTP server
	server := api.NewServer(cfg, ctrls, oracle, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverErrChan := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil {
			serverErrChan <- err
		}
	}()

	// 8. Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	logger.Info().Msg("toonhive is running")

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("error during server shutdown")
		}
	}

	logger.Info().Msg("toonhive stopped")
	return nil
}

func runReindex(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger := logging.NewLogger(cfg.LogLevel)

	db, err := models.NewDatabase(cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	synchronizer, err := search.NewSynchronizer(cfg.SearchIndexDir, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize search index: %w", err)
	}
	defer synchronizer.Close()

	catalog := controllers.NewCatalogController(db, cache.NewStore(cfg.CacheTTL), synchronizer, nil, logger)
	if err := catalog.Reindex(ctx); err != nil {
		return fmt.Errorf("failed to rebuild search index: %w", err)
	}

	logger.Info().Msg("search index rebuilt")
	return nil
}
