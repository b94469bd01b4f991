package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/models/socket"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/pubsub"
	redisServer "github.com/GabrielGomez33/mirror-server-sub002/internal/servers/redis"
	"github.com/spf13/cobra"
)

func newPublishCmd(load configLoader) *cobra.Command {
	var groupId, eventType, payload string

	cmd := &cobra.Command{
		Use:       "publish vote|insight",
		Short:     "Publish a vote or insight event for every server instance to relay",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"vote", "insight"},
		RunE: func(cmd *cobra.Command, args []string) error {
			domain := args[0]
			if domain != "vote" && domain != "insight" {
				return fmt.Errorf("unknown domain %q, expected vote or insight", domain)
			}
			if !json.Valid([]byte(payload)) {
				return errors.New("--payload must be valid JSON")
			}
			event := socket.Event{Type: eventType, Payload: json.RawMessage(payload)}

			cfg, err := load()
			if err != nil {
				return err
			}
			client, err := redisServer.NewClient(cmd.Context(), cfg.Redis)
			if err != nil {
				return err
			}
			defer func() {
				_ = client.Close()
			}()

			publisher := pubsub.NewPublisher(client, cfg.Redis)
			if domain == "vote" {
				err = publisher.PublishVoteEvent(cmd.Context(), groupId, event)
			} else {
				err = publisher.PublishInsightEvent(cmd.Context(), groupId, event)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "published %s to group %s\n", eventType, groupId)
			return err
		},
	}
	cmd.Flags().StringVar(&groupId, "group", "", "target group id")
	cmd.Flags().StringVar(&eventType, "type", "", "event type, e.g. vote:proposed or conversation:insight")
	cmd.Flags().StringVar(&payload, "payload", "{}", "event payload as JSON")
	_ = cmd.MarkFlagRequired("group")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}
