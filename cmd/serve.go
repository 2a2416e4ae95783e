package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"portfolio/internal/app"
	"portfolio/internal/logger"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"
)

const shutdownTimeout = 20 * time.Second

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Запустить HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if port != "" {
				cfg.Port = port
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := app.InitApp(ctx, cfg)
			if err != nil {
				logger.Log.Error("Ошибка инициализации приложения", zap.Error(err))
				return err
			}

			a.Router.PathPrefix("/swagger/").Handler(httpSwagger.WrapHandler)

			corsMiddleware := cors.New(cors.Options{
				AllowedOrigins:   cfg.CORSOrigins,
				AllowCredentials: true,
				AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
				ExposedHeaders:   []string{"X-Request-ID"},
			})

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           corsMiddleware.Handler(a.Router),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Log.Info("Сервер запущен", zap.String("port", cfg.Port), zap.String("store", cfg.StoreDriver))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					logger.Log.Error("Ошибка запуска сервера", zap.Error(err))
					a.Shutdown(context.Background())
					return err
				}
			case <-ctx.Done():
				logger.Log.Info("Остановка сервера")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Log.Warn("Сервер остановлен не чисто", zap.Error(err))
			}
			a.Shutdown(shutdownCtx)
			return nil
		},
	}
	cmd.Flags().StringVar(&port, "port", "", "порт HTTP (по умолчанию PORT)")
	return cmd
}
