package cli

import (
	"fmt"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/utils"
	"github.com/spf13/cobra"
)

func newSecretCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "secret",
		Short: "Generate a random value for jwt.secret",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), utils.GenerateSecretKey())
			return err
		},
	}
}
