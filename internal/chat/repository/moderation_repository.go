package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"community_chat_service/internal/chat/domain"
	"community_chat_service/pkg/config"
)

// ModerationClassifier sends message text to the external classification
// service and returns an allow/block verdict. One call per message: no
// retry, no verdict caching, no circuit breaker. A failure here means the
// message is not delivered; the client must resend.
type ModerationClassifier interface {
	Classify(ctx context.Context, text string) (domain.Verdict, error)
}

type moderationClassifier struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewModerationClassifier create a ModerationClassifier backed by a
// chat-completions style endpoint.
func NewModerationClassifier(cfg config.ModerationConfig) ModerationClassifier {
	return &moderationClassifier{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: http.DefaultClient,
	}
}

const classifyInstruction = "You are a content moderation classifier for a community chat. " +
	"Classify the user message into exactly one of these categories: " +
	"safe, harassment, hate_speech, sexual, violence, spam, self_harm. " +
	"If you are uncertain between two categories, always pick the least restrictive one. " +
	"Respond with the category name only."

type completionRequest struct {
	Model       string              `json:"model"`
	Messages    []completionMessage `json:"messages"`
	Temperature float64             `json:"temperature"`
}

type completionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type completionResponse struct {
	Choices []struct {
		Message completionMessage `json:"message"`
	} `json:"choices"`
}

func (c *moderationClassifier) Classify(ctx context.Context, text string) (domain.Verdict, error) {
	body, err := json.Marshal(completionRequest{
		Model: c.model,
		Messages: []completionMessage{
			{Role: "system", Content: classifyInstruction},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		return domain.Verdict{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return domain.Verdict{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Verdict{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.Verdict{}, fmt.Errorf("moderation service returned status %d", resp.StatusCode)
	}

	var completion completionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return domain.Verdict{}, fmt.Errorf("malformed moderation response: %w", err)
	}
	if len(completion.Choices) == 0 {
		return domain.Verdict{}, fmt.Errorf("empty moderation response")
	}

	category := normalizeCategory(completion.Choices[0].Message.Content)
	if category == "" {
		return domain.Verdict{}, fmt.Errorf("moderation response outside taxonomy: %q", completion.Choices[0].Message.Content)
	}

	return domain.Verdict{
		Category: category,
		Allowed:  category == domain.CategorySafe,
	}, nil
}

func normalizeCategory(raw string) string {
	cleaned := strings.ToLower(strings.TrimSpace(raw))
	cleaned = strings.Trim(cleaned, `"'.`)
	for _, c := range domain.Categories {
		if cleaned == c {
			return c
		}
	}
	return ""
}
