package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GabrielGomez33/mirror-server-sub002/configs"
	redisModels "github.com/GabrielGomez33/mirror-server-sub002/internal/models/redis"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models/socket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Broadcaster is the fan-out side of the signaling manager.
type Broadcaster interface {
	BroadcastVoteEvent(groupId string, event socket.Event) (int, error)
	BroadcastInsightEvent(groupId string, event socket.Event) (int, error)
}

// EventRelay injects events published on the vote and insight channels into
// the local broadcaster.
type EventRelay struct {
	redis          *redis.Client
	broadcaster    Broadcaster
	voteChannel    string
	insightChannel string
}

func NewEventRelay(client *redis.Client, broadcaster Broadcaster, cfg configs.RedisConfig) *EventRelay {
	return &EventRelay{
		redis:          client,
		broadcaster:    broadcaster,
		voteChannel:    cfg.VoteChannel,
		insightChannel: cfg.InsightChannel,
	}
}

// Run subscribes to both channels and relays messages until ctx is cancelled.
func (er *EventRelay) Run(ctx context.Context) error {
	ps := er.redis.Subscribe(ctx, er.voteChannel, er.insightChannel)
	defer func() {
		_ = ps.Close()
	}()

	if _, err := ps.Receive(ctx); err != nil {
		return fmt.Errorf("could not subscribe to event channels: %w", err)
	}
	log.Info().
		Str("module", "pubsub").
		Str("vote_channel", er.voteChannel).
		Str("insight_channel", er.insightChannel).
		Msg("event relay subscribed")

	ch := ps.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			er.handleMessage(msg.Channel, msg.Payload)
		case <-ctx.Done():
			return nil
		}
	}
}

func (er *EventRelay) handleMessage(channel string, payload string) {
	var published redisModels.RedisPublishedEvent
	if err := json.Unmarshal([]byte(payload), &published); err != nil {
		log.Warn().Str("module", "pubsub").Str("channel", channel).Err(err).Msg("malformed published event")
		return
	}

	var (
		delivered int
		err       error
	)
	switch channel {
	case er.voteChannel:
		delivered, err = er.broadcaster.BroadcastVoteEvent(published.GroupId, published.Event)
	case er.insightChannel:
		delivered, err = er.broadcaster.BroadcastInsightEvent(published.GroupId, published.Event)
	default:
		log.Warn().Str("module", "pubsub").Str("channel", channel).Msg("message on unexpected channel")
		return
	}
	if err != nil {
		log.Warn().
			Str("module", "pubsub").
			Str("channel", channel).
			Str("group_id", published.GroupId).
			Str("type", published.Event.Type).
			Err(err).
			Msg("published event rejected")
		return
	}

	log.Debug().
		Str("module", "pubsub").
		Str("group_id", published.GroupId).
		Str("type", published.Event.Type).
		Int("delivered", delivered).
		Msg("published event relayed")
}
