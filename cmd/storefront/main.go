package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/emberline/storefront/internal/commerce"
	"github.com/emberline/storefront/internal/handlers"
	"github.com/emberline/storefront/internal/page"
	"github.com/emberline/storefront/internal/platform/config"
	"github.com/emberline/storefront/internal/platform/observability"
	"github.com/emberline/storefront/internal/sections"
)

const shutdownGrace = 15 * time.Second

func main() {
	baseLogger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("storefront")

	cfg, err := config.Load()
	if err != nil {
		var validation *config.ValidationError
		if errors.As(err, &validation) {
			logger.Fatal("configuration invalid", zap.Strings("fields", validation.Fields()))
		}
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	client, err := commerce.NewClient(commerce.ClientOptions{
		Endpoint:    cfg.Commerce.Endpoint,
		AccessToken: cfg.Commerce.AccessToken,
		APIVersion:  cfg.Commerce.APIVersion,
		Timeout:     cfg.Commerce.Timeout,
	})
	if err != nil {
		logger.Fatal("failed to initialise commerce client", zap.Error(err))
	}

	fallback, err := sections.LoadFallback(cfg.Content.FallbackFile)
	if err != nil {
		logger.Fatal("failed to load fallback content", zap.Error(err))
	}

	// Placeholders stay on outside production so misconfigured content is
	// visible; production pages omit absent sections instead.
	showPlaceholders := cfg.Features.ShowPlaceholders && cfg.Content.Environment != "production"

	assembler, err := page.NewAssembler(page.AssemblerDeps{
		Client: client,
		Content: page.ContentRefs{
			HeroType:       cfg.Content.HeroType,
			HeroHandle:     cfg.Content.HeroHandle,
			ShowcaseType:   cfg.Content.ShowcaseType,
			ShowcaseHandle: cfg.Content.ShowcaseHandle,
			ReviewsType:    cfg.Content.ReviewsType,
			ReviewsHandle:  cfg.Content.ReviewsHandle,
		},
		Defaults: sections.Defaults{
			ShopName:      cfg.Defaults.ShopName,
			AvatarBaseURL: cfg.Defaults.AvatarBaseURL,
			MaxProducts:   cfg.Defaults.MaxProducts,
			MaxReviews:    cfg.Defaults.MaxReviews,
		},
		Fallback:         fallback,
		ShowPlaceholders: showPlaceholders,
		EnableReviews:    cfg.Features.EnableReviews,
	})
	if err != nil {
		logger.Fatal("failed to initialise page assembler", zap.Error(err))
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Logger: logger,
		Home:   handlers.NewHomeHandlers(assembler),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening",
			zap.String("addr", srv.Addr),
			zap.String("environment", cfg.Content.Environment),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown incomplete", zap.Error(err))
	}
	logger.Info("storefront stopped")
}
