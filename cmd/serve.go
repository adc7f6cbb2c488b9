package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Vovarama1992/commerce-ai-bridge/internal/ai"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/httpapi"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/observability"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/shopify"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/whatsapp"
	"github.com/Vovarama1992/commerce-ai-bridge/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook and API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			log.Info("config loaded",
				zap.String("env", cfg.Env),
				zap.String("ai_provider", cfg.AI.Provider),
				zap.String("ai_model", cfg.AI.Model),
			)
			for _, w := range cfg.Warnings() {
				log.Warn(w)
			}

			metrics := observability.NewMetrics()
			httpClient := &http.Client{Timeout: cfg.HTTPClientTimeout}

			// --- AI ---
			aiClient := newAIClient(cfg, log)
			pool := worker.NewPool(cfg.AI.Workers)
			generator := ai.NewGenerator(aiClient, pool, cfg.AI, log, metrics)
			selector := ai.NewSelector(aiClient, cfg.AI, log, metrics)
			askService := ai.NewService(selector, generator, cfg.AI, log)

			// --- integrations ---
			catalog := shopify.NewClient(cfg.Shopify, httpClient, log, metrics)
			outbound := whatsapp.NewCloudOutbound(cfg.WhatsApp, httpClient, log, metrics)

			// --- router ---
			r := httpapi.NewRouter(log)

			waService := whatsapp.NewService(catalog, selector, generator, outbound, log, metrics)
			whatsapp.RegisterRoutes(r, whatsapp.NewHandler(waService, cfg.WhatsApp.VerifyToken, log, metrics))

			api := httpapi.NewHandler(cfg.Env, askService, aiClient, catalog, log)
			httpapi.RegisterRoutes(r, api, metrics.Handler())

			srv := &http.Server{
				Addr:              cfg.Addr(),
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				log.Info("listening", zap.String("addr", srv.Addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
