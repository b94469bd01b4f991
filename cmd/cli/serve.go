package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/GabrielGomez33/mirror-server-sub002/cmd/app"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the signaling server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			if err := app.GetApp().LetsGo(ctx, cfg); err != nil {
				log.Error().Str("module", "cli").Err(err).Msg("server stopped with error")
				return err
			}
			log.Info().Str("module", "cli").Msg("server exited gracefully")
			return nil
		},
	}
}
