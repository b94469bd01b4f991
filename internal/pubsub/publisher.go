package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/GabrielGomez33/mirror-server-sub002/configs"
	redisModels "github.com/GabrielGomez33/mirror-server-sub002/internal/models/redis"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models/socket"
	"github.com/redis/go-redis/v9"
)

// Publisher puts events on the channels every EventRelay listens to.
type Publisher struct {
	redis          *redis.Client
	voteChannel    string
	insightChannel string
}

func NewPublisher(client *redis.Client, cfg configs.RedisConfig) *Publisher {
	return &Publisher{
		redis:          client,
		voteChannel:    cfg.VoteChannel,
		insightChannel: cfg.InsightChannel,
	}
}

func (p *Publisher) PublishVoteEvent(ctx context.Context, groupId string, event socket.Event) error {
	return p.publish(ctx, p.voteChannel, groupId, event)
}

func (p *Publisher) PublishInsightEvent(ctx context.Context, groupId string, event socket.Event) error {
	return p.publish(ctx, p.insightChannel, groupId, event)
}

func (p *Publisher) publish(ctx context.Context, channel string, groupId string, event socket.Event) error {
	if err := socket.ValidateEvent(event); err != nil {
		return err
	}
	data, err := json.Marshal(redisModels.RedisPublishedEvent{GroupId: groupId, Event: event})
	if err != nil {
		return fmt.Errorf("failed to encode published event: %w", err)
	}
	if err := p.redis.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}
	return nil
}
