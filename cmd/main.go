package main

import (
	"fmt"
	"os"

	_ "portfolio/docs"
	"portfolio/internal/config"
	"portfolio/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title          Portfolio API
// @version        1.0
// @description    Контент сайта-портфолио: коллекции, живые подписки, иконки технологий, автосохранение.

// @BasePath  /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var cfg *config.Config

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "portfolio",
		Short:         "Сервис контента сайта-портфолио",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cfg, err = config.LoadConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logger.InitLogger(cfg)

			warnings, err := cfg.Validate()
			for _, w := range warnings {
				logger.Log.Warn("Конфигурация", zap.String("warning", w))
			}
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Log.Sync()
		},
	}

	root.AddCommand(newServeCmd(), newBootstrapCmd(), newResolveIconCmd())
	return root
}
