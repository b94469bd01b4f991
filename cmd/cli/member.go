package cli

import (
	"fmt"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/repositories"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/servers/database"
	"github.com/spf13/cobra"
)

func newMemberCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "member",
		Short: "Manage group memberships",
	}

	var groupId, userId, role string
	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add or reactivate a group member",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := openGroupRepository(load)
			if err != nil {
				return err
			}
			if err := repo.AddMember(cmd.Context(), groupId, userId, role); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "added %s to %s as %s\n", userId, groupId, role)
			return err
		},
	}
	addCmd.Flags().StringVar(&groupId, "group", "", "group id")
	addCmd.Flags().StringVar(&userId, "user", "", "user id")
	addCmd.Flags().StringVar(&role, "role", "member", "member role")
	_ = addCmd.MarkFlagRequired("group")
	_ = addCmd.MarkFlagRequired("user")

	removeCmd := &cobra.Command{
		Use:   "remove",
		Short: "Deactivate a group member",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := openGroupRepository(load)
			if err != nil {
				return err
			}
			if err := repo.DeactivateMember(cmd.Context(), groupId, userId); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "deactivated %s in %s\n", userId, groupId)
			return err
		},
	}
	removeCmd.Flags().StringVar(&groupId, "group", "", "group id")
	removeCmd.Flags().StringVar(&userId, "user", "", "user id")
	_ = removeCmd.MarkFlagRequired("group")
	_ = removeCmd.MarkFlagRequired("user")

	cmd.AddCommand(addCmd, removeCmd)
	return cmd
}

func openGroupRepository(load configLoader) (*repositories.GroupRepository, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	db, err := database.GetDB(cfg)
	if err != nil {
		return nil, err
	}
	return repositories.NewGroupRepository(db), nil
}
