package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-fuzzy-search/api"
	"github.com/gcbaptista/go-fuzzy-search/config"
	"github.com/gcbaptista/go-fuzzy-search/internal/engine"
	"github.com/gcbaptista/go-fuzzy-search/internal/matcher"
)

var (
	configPath string
	port       string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Starts the HTTP API. Collections listed in the config file are created
empty at startup; candidates are uploaded with PUT /collections/:name/candidates.`,
	Example: `  fuzzy_search serve
  fuzzy_search serve --port 9000
  fuzzy_search serve --config fuzzy.yaml -v`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to a YAML config file")
	serveCmd.Flags().StringVarP(&port, "port", "p", "", "Port to run the server on (overrides the config file)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadServerConfig(configPath)
	if err != nil {
		return err
	}
	if port != "" {
		cfg.Port = port
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if !verbose {
		level, err := zap.ParseAtomicLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log level: %w", err)
		}
		logLevel.SetLevel(level.Level())
	}

	if err := matcher.InitScheme(cfg.Scheme); err != nil {
		return err
	}

	eng := engine.NewEngine(engine.WithWorkers(cfg.Workers), engine.WithLogger(logger))
	for _, settings := range cfg.Collections {
		if err := eng.CreateCollection(settings); err != nil {
			return fmt.Errorf("failed to create collection %q: %w", settings.Name, err)
		}
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		gin.Recovery(),
		api.RequestIDMiddleware(),
		api.LoggerMiddleware(logger),
		api.CORSMiddleware(),
		api.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)
	api.SetupRoutes(router, eng, logger)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting server",
			zap.String("port", cfg.Port),
			zap.Int("workers", eng.Workers()),
			zap.String("scheme", cfg.Scheme),
			zap.Int("collections", len(cfg.Collections)))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Received shutdown signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
