package repository

import (
	"context"
	"encoding/json"

	"community_chat_service/internal/chat/domain"
	"community_chat_service/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const communityChannelPrefix = "chat:community:"

// MessagePubSub fan-out channel for approved messages. Every chat node
// publishes here and delivers whatever arrives for the communities its own
// connections have joined, so multi-process deployments behave like a
// single event loop.
type MessagePubSub interface {
	Publish(ctx context.Context, communityID string, msg domain.EnrichedMessage) error
	Subscribe(ctx context.Context, communityID string, handler func(msg domain.EnrichedMessage)) error
}

// RedisPubSub definition redis pub/sub
type RedisPubSub struct {
	client *redis.Client
}

// NewRedisPubSub create RedisPubSub
func NewRedisPubSub(client *redis.Client) *RedisPubSub {
	return &RedisPubSub{client: client}
}

// Publish serializes the enriched message and publishes it on the
// community channel.
func (r *RedisPubSub) Publish(ctx context.Context, communityID string, msg domain.EnrichedMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return r.client.Publish(ctx, communityChannelPrefix+communityID, data).Err()
}

// Subscribe listens on the community channel until ctx is cancelled,
// calling handler for every message. It returns only after the server has
// confirmed the subscription, so a message published right after a
// successful return is guaranteed to be routed here.
func (r *RedisPubSub) Subscribe(ctx context.Context, communityID string, handler func(msg domain.EnrichedMessage)) error {
	channel := communityChannelPrefix + communityID
	sub := r.client.Subscribe(ctx, channel)

	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return err
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case m, ok := <-ch:
				if !ok {
					return
				}

				var msg domain.EnrichedMessage
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					logger.Log.Error("pubsub payload unmarshal err :", zap.String("channel", channel), zap.Error(err))
					continue
				}
				handler(msg)
			case <-ctx.Done():
				logger.Log.Info("pubsub subscription closed", zap.String("channel", channel))
				sub.Close()
				return
			}
		}
	}()

	return nil
}
