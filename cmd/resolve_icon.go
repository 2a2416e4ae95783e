package main

import (
	"encoding/json"

	"portfolio/internal/icons"

	"github.com/spf13/cobra"
)

func newResolveIconCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve-icon <name>...",
		Short: "Показать, в какую иконку разрешается название технологии",
		Args:  cobra.MinimumNArgs(1),
		// Конфиг и логгер не нужны.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(icons.NewResolver(icons.SimpleIcons()).ResolveAll(args))
		},
	}
}
