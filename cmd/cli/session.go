package cli

import (
	"fmt"
	"io"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/models"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/repositories"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/servers/database"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/utils"
	"github.com/spf13/cobra"
)

func newSessionCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect recorded session participants",
	}

	var sessionId, userId string
	participantsCmd := &cobra.Command{
		Use:   "participants",
		Short: "List the active participants of a session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := openParticipantRepository(load)
			if err != nil {
				return err
			}
			participants, err := repo.ActiveParticipants(cmd.Context(), sessionId)
			if err != nil {
				return err
			}
			for i := range participants {
				if err := printParticipant(cmd.OutOrStdout(), &participants[i]); err != nil {
					return err
				}
			}
			return nil
		},
	}
	participantsCmd.Flags().StringVar(&sessionId, "session", "", "session id, e.g. group:video")
	_ = participantsCmd.MarkFlagRequired("session")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show one participant record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := openParticipantRepository(load)
			if err != nil {
				return err
			}
			participant, err := repo.GetParticipant(cmd.Context(), sessionId, userId)
			if err != nil {
				return fmt.Errorf("participant %s in %s: %w", userId, sessionId, err)
			}
			return printParticipant(cmd.OutOrStdout(), participant)
		},
	}
	showCmd.Flags().StringVar(&sessionId, "session", "", "session id, e.g. group:video")
	showCmd.Flags().StringVar(&userId, "user", "", "user id")
	_ = showCmd.MarkFlagRequired("session")
	_ = showCmd.MarkFlagRequired("user")

	cmd.AddCommand(participantsCmd, showCmd)
	return cmd
}

func printParticipant(w io.Writer, p *models.SessionParticipant) error {
	left := "-"
	if p.LeftAt != nil {
		left = utils.FormatTimestamp(*p.LeftAt)
	}
	_, err := fmt.Fprintf(w, "%s\t%s\tactive=%t\tjoined=%s\tleft=%s\n",
		p.UserID, p.SessionType, p.IsActive, utils.FormatTimestamp(p.JoinedAt), left)
	return err
}

func openParticipantRepository(load configLoader) (*repositories.ParticipantRepository, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}
	db, err := database.GetDB(cfg)
	if err != nil {
		return nil, err
	}
	return repositories.NewParticipantRepository(db), nil
}
