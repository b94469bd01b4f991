package cli

import (
	"github.com/GabrielGomez33/mirror-server-sub002/configs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/logging"
	"github.com/spf13/cobra"
)

// Version is overridden at build time with -ldflags "-X".
var Version = "dev"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "signal-server",
		Short:         "Group signaling and event relay server",
		Long:          "signal-server relays WebRTC negotiation, drawing actions, vote and insight events between the connected members of a group.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (default: ./config.yaml or ./configs/config.yaml)")

	load := func() (*configs.Config, error) {
		cfg, err := configs.Load(configPath)
		if err != nil {
			return nil, err
		}
		logging.Setup(cfg.Log.Level, cfg.Log.Format)
		return cfg, nil
	}

	serveCmd := newServeCmd(load)
	rootCmd.RunE = serveCmd.RunE

	rootCmd.AddCommand(
		serveCmd,
		newVersionCmd(),
		newSecretCmd(),
		newTokenCmd(load),
		newMemberCmd(load),
		newSessionCmd(load),
		newInsightCmd(load),
		newPublishCmd(load),
	)

	return rootCmd
}

type configLoader func() (*configs.Config, error)
