package cli

import (
	"errors"
	"fmt"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/services"
	"github.com/spf13/cobra"
)

func newTokenCmd(load configLoader) *cobra.Command {
	var userId, username string
	var service bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a handshake token for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Jwt.Secret == "" {
				return errors.New("jwt.secret is not configured")
			}

			authService := services.NewAuthenticationService(cfg)
			issue := authService.IssueToken
			if service {
				issue = authService.IssueServiceToken
			}
			token, err := issue(userId, username)
			if err != nil {
				return fmt.Errorf("failed to issue token: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&userId, "user", "", "user id carried by the token")
	cmd.Flags().StringVar(&username, "name", "", "display name carried by the token")
	cmd.Flags().BoolVar(&service, "service", false, "allow the token to call the REST injection API")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
