package domain

// Moderation taxonomy. The classifier is instructed to pick exactly one
// label and to default to the least restrictive one when uncertain.
const (
	CategorySafe       = "safe"
	CategoryHarassment = "harassment"
	CategoryHateSpeech = "hate_speech"
	CategorySexual     = "sexual"
	CategoryViolence   = "violence"
	CategorySpam       = "spam"
	CategorySelfHarm   = "self_harm"
)

// Categories lists every label the moderation service may return.
var Categories = []string{
	CategorySafe,
	CategoryHarassment,
	CategoryHateSpeech,
	CategorySexual,
	CategoryViolence,
	CategorySpam,
	CategorySelfHarm,
}

// Verdict moderation decision for a single piece of text. Never stored.
type Verdict struct {
	Category string `json:"category"`
	Allowed  bool   `json:"allowed"`
}

// EnrichedMessage is the broadcast form of a chat message. It exists only
// transiently during dispatch; messages are not persisted.
type EnrichedMessage struct {
	CommunityID string `json:"community_id"`
	Content     string `json:"content"`
	CreatedAt   string `json:"created_at"`
	Username    string `json:"username"`
	UserImage   string `json:"user_image,omitempty"`
	Banner      string `json:"banner"`
}

// SenderProfile read-only display profile used for message enrichment
type SenderProfile struct {
	UserID          string
	Username        string
	Banner          string
	ProfileImageURL string
}

// ModerationEvent audit record published to kafka for every verdict
type ModerationEvent struct {
	CommunityID string `json:"community_id"`
	UserID      string `json:"user_id"`
	Category    string `json:"category"`
	Allowed     bool   `json:"allowed"`
	Timestamp   int64  `json:"timestamp"`
}
