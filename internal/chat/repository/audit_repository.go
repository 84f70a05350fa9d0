package repository

import (
	"context"
	"encoding/json"

	"community_chat_service/internal/chat/domain"

	"github.com/segmentio/kafka-go"
)

// AuditPublisher records every moderation verdict on an event stream for
// offline analysis. Best effort only: a publish failure must never affect
// message dispatch.
type AuditPublisher interface {
	Record(ctx context.Context, event domain.ModerationEvent) error
}

type kafkaAuditPublisher struct {
	writer *kafka.Writer
}

// NewKafkaAuditPublisher create an AuditPublisher over a kafka topic
func NewKafkaAuditPublisher(writer *kafka.Writer) AuditPublisher {
	return &kafkaAuditPublisher{writer: writer}
}

func (p *kafkaAuditPublisher) Record(ctx context.Context, event domain.ModerationEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.CommunityID),
		Value: data,
	})
}
