package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/SulimanHakimi/volvera-sub000/config"
	"github.com/SulimanHakimi/volvera-sub000/internal/handlers"
	"github.com/SulimanHakimi/volvera-sub000/internal/metrics"
	"github.com/SulimanHakimi/volvera-sub000/internal/pdf"
	"github.com/SulimanHakimi/volvera-sub000/internal/ratelimit"
	"github.com/SulimanHakimi/volvera-sub000/internal/routes"
	"github.com/SulimanHakimi/volvera-sub000/internal/translation"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

// fontSource: локальный файл имеет приоритет над URL.
func fontSource(cfg *config.AppConfig) pdf.FontSource {
	switch {
	case cfg.RTLFontPath != "":
		return pdf.FileFontSource{Path: cfg.RTLFontPath}
	case cfg.RTLFontURL != "":
		return pdf.HTTPFontSource{URL: cfg.RTLFontURL}
	default:
		return nil
	}
}

func newRenderer(cfg *config.AppConfig, logger *slog.Logger) *pdf.Renderer {
	opts := []pdf.Option{pdf.WithLogger(logger.With("component", "pdf"))}
	if src := fontSource(cfg); src != nil {
		opts = append(opts, pdf.WithFontSource(src))
	}
	return pdf.New(opts...)
}

func serveRun(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.ConnectDB(cfg); err != nil {
		return err
	}
	config.ConnectRedis(cfg)

	handlers.Renderer = newRenderer(cfg, logger)
	handlers.UploadLimiter = ratelimit.New(config.RDB, cfg.UploadLimit, cfg.UploadWindow)
	handlers.Metrics = metrics.Default

	if cfg.GeminiAPIKey != "" {
		provider, err := translation.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return err
		}
		defer provider.Close()
		handlers.Translator = provider
		logger.Info("Machine translation enabled", "model", cfg.GeminiModel)
	} else {
		logger.Warn("VOLVERA_GEMINI_API_KEY is not set, contracts will wait for manual translation")
	}

	if !globalFlags.debug {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go handlers.GlobalHub.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           routes.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if config.RDB != nil {
		_ = config.RDB.Close()
	}
	return nil
}

func serveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Run: func(cmd *cobra.Command, args []string) {
			if err := serveRun(cmd.Context(), config.Cfg, slog.Default()); err != nil {
				slog.Error(err.Error())
				os.Exit(1)
			}
		},
	}
	return cmd
}
