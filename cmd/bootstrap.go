package main

import (
	"context"

	"portfolio/internal/app"
	"portfolio/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newBootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Создать категории иконок по умолчанию, если их ещё нет",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := app.InitStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer a.Shutdown(context.Background())

			if err := a.Registry.EnsureDefaultCategories(ctx); err != nil {
				return err
			}
			cats, err := a.Registry.ListCategories(ctx)
			if err != nil {
				return err
			}
			for _, c := range cats {
				cmd.Printf("%s\t%s\t%s\n", c.ID, c.Color, c.Name)
			}
			logger.Log.Info("Категории иконок готовы", zap.Int("count", len(cats)))
			return nil
		},
	}
}
