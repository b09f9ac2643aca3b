package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"miseai/internal/adapter/api"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(envFiles *[]string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *envFiles)
			if err != nil {
				return err
			}
			defer a.Close()

			// Initialize API Layer (Delivery Layer)
			srv := fiber.New(fiber.Config{
				AppName:      "MiseAI Backend",
				BodyLimit:    a.cfg.Server.UploadLimitMB * 1024 * 1024,
				ReadTimeout:  a.cfg.Server.ReadTimeout,
				WriteTimeout: a.cfg.Server.WriteTimeout,
			})
			handler := api.NewRecipeHandler(a.generator, a.extractor, a.structurer, a.logger.Named("api"))
			api.SetupRouter(srv, handler, api.ServiceInfo{
				Version:        a.cfg.Server.Version,
				Env:            a.cfg.Server.Env,
				AllowedOrigins: a.cfg.Server.AllowedOrigins,
			})

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("MiseAI backend running",
					zap.String("port", a.cfg.Server.Port),
					zap.String("llm_provider", a.cfg.LLM.Provider),
					zap.String("model", a.cfg.LLM.Model))
				errCh <- srv.Listen(":" + a.cfg.Server.Port)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				a.logger.Info("shutdown signal received")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
				a.logger.Error("http server shutdown error", zap.Error(err))
			}
			a.logger.Info("service stopped")
			return nil
		},
	}
}
