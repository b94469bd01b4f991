package cli

import (
	"encoding/json"
	"fmt"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/enums"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models/socket"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/pubsub"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/repositories"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/servers/database"
	redisServer "github.com/GabrielGomez33/mirror-server-sub002/internal/servers/redis"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type insightEventPayload struct {
	InsightId string `json:"insightId"`
	GroupId   string `json:"groupId"`
	SessionId string `json:"sessionId,omitempty"`
	Kind      string `json:"kind"`
	Content   string `json:"content,omitempty"`
}

func newInsightCmd(load configLoader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insight",
		Short: "Manage conversation insights",
	}

	var insightId, groupId, sessionId, kind, content string
	var publish bool
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Record an insight so that members can acknowledge it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if insightId == "" {
				insightId = uuid.NewString()
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			db, err := database.GetDB(cfg)
			if err != nil {
				return err
			}

			insight := &models.ConversationInsight{
				ID:        insightId,
				GroupID:   groupId,
				SessionID: sessionId,
				Kind:      kind,
				Content:   content,
			}
			if err := repositories.NewInsightRepository(db).CreateInsight(cmd.Context(), insight); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "created insight %s for group %s\n", insightId, groupId); err != nil {
				return err
			}
			if !publish {
				return nil
			}

			payload, err := json.Marshal(insightEventPayload{
				InsightId: insight.ID,
				GroupId:   insight.GroupID,
				SessionId: insight.SessionID,
				Kind:      insight.Kind,
				Content:   insight.Content,
			})
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
			event := socket.Event{Type: enums.SOCKET_EVENT_CONVERSATION_INSIGHT, Payload: payload}
			if err := pubsub.NewPublisher(client, cfg.Redis).PublishInsightEvent(cmd.Context(), groupId, event); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "published %s to group %s\n", event.Type, groupId)
			return err
		},
	}
	createCmd.Flags().StringVar(&insightId, "id", "", "insight id (default: random uuid)")
	createCmd.Flags().StringVar(&groupId, "group", "", "group id")
	createCmd.Flags().StringVar(&sessionId, "session", "", "session id the insight belongs to")
	createCmd.Flags().StringVar(&kind, "kind", "", "insight kind")
	createCmd.Flags().StringVar(&content, "content", "", "insight text")
	createCmd.Flags().BoolVar(&publish, "publish", false, "also relay the insight to subscribers over redis")
	_ = createCmd.MarkFlagRequired("group")
	_ = createCmd.MarkFlagRequired("kind")

	cmd.AddCommand(createCmd)
	return cmd
}
