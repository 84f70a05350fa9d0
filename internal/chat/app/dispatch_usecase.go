package app

import (
	"context"
	"errors"
	"time"

	"community_chat_service/internal/chat/domain"
	"community_chat_service/internal/chat/repository"
	"community_chat_service/pkg/logger"

	"go.uber.org/zap"
)

// ErrInvalidMessage the inbound message is missing required fields
var ErrInvalidMessage = errors.New("community_id and content are required")

// DispatchUseCase moderates, enriches and publishes one inbound chat
// message. Per message: Received -> Validated -> Moderated -> Broadcast or
// Blocked. Every failure is terminal for that one message and surfaces to
// the sender only; there is no server-side retry.
type DispatchUseCase struct {
	profiles   repository.ProfileRepository
	classifier repository.ModerationClassifier
	pubsub     repository.MessagePubSub
	audit      repository.AuditPublisher
}

// NewDispatchUseCase init create dispatch use case
func NewDispatchUseCase(
	profiles repository.ProfileRepository,
	classifier repository.ModerationClassifier,
	pubsub repository.MessagePubSub,
	audit repository.AuditPublisher,
) *DispatchUseCase {
	return &DispatchUseCase{
		profiles:   profiles,
		classifier: classifier,
		pubsub:     pubsub,
		audit:      audit,
	}
}

// Execute runs the dispatch pipeline for one message. On approval the
// enriched message is published on the community channel, which fans it out
// to every member of the room including the sender. On rejection the
// returned verdict carries the category; nothing reaches the room.
func (uc *DispatchUseCase) Execute(ctx context.Context, userID string, msg domain.WSRequest) (domain.Verdict, error) {
	if msg.CommunityID == "" || msg.Content == "" {
		return domain.Verdict{}, ErrInvalidMessage
	}

	// The moderation call is awaited before any broadcast decision.
	// A classifier failure drops the message: fail closed.
	verdict, err := uc.classifier.Classify(ctx, msg.Content)
	if err != nil {
		return domain.Verdict{}, err
	}

	uc.recordVerdict(ctx, userID, msg.CommunityID, verdict)

	if !verdict.Allowed {
		return verdict, nil
	}

	profile, err := uc.profiles.FindProfileByUserID(ctx, userID)
	if err != nil {
		return verdict, err
	}

	createdAt := msg.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().UTC().Format(time.RFC3339)
	}

	enriched := domain.EnrichedMessage{
		CommunityID: msg.CommunityID,
		Content:     msg.Content,
		CreatedAt:   createdAt,
		Username:    profile.Username,
		UserImage:   profile.ProfileImageURL,
		Banner:      profile.Banner,
	}

	if err := uc.pubsub.Publish(ctx, msg.CommunityID, enriched); err != nil {
		return verdict, err
	}

	return verdict, nil
}

// recordVerdict writes the verdict to the audit stream. Best effort: a
// failure is logged and dispatch continues.
func (uc *DispatchUseCase) recordVerdict(ctx context.Context, userID, communityID string, verdict domain.Verdict) {
	if uc.audit == nil {
		return
	}

	event := domain.ModerationEvent{
		CommunityID: communityID,
		UserID:      userID,
		Category:    verdict.Category,
		Allowed:     verdict.Allowed,
		Timestamp:   time.Now().Unix(),
	}
	if err := uc.audit.Record(ctx, event); err != nil {
		logger.Log.Error("moderation audit record err :", zap.String("community_id", communityID), zap.Error(err))
	}
}
