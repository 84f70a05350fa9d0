package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"community_chat_service/internal/chat/domain"
	"community_chat_service/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classifierServer(t *testing.T, status int, reply string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req completionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		w.WriteHeader(status)
		if reply != "" {
			_, _ = w.Write([]byte(reply))
		}
	}))
}

func completionReply(category string) string {
	b, _ := json.Marshal(completionResponse{
		Choices: []struct {
			Message completionMessage `json:"message"`
		}{
			{Message: completionMessage{Role: "assistant", Content: category}},
		},
	})
	return string(b)
}

func newTestClassifier(endpoint string) ModerationClassifier {
	return NewModerationClassifier(config.ModerationConfig{
		Endpoint: endpoint,
		APIKey:   "test-key",
		Model:    "moderation-small",
	})
}

func TestClassify_SafeIsAllowed(t *testing.T) {
	server := classifierServer(t, http.StatusOK, completionReply("safe"))
	defer server.Close()

	verdict, err := newTestClassifier(server.URL).Classify(context.Background(), "hello there")
	require.NoError(t, err)
	assert.True(t, verdict.Allowed)
	assert.Equal(t, domain.CategorySafe, verdict.Category)
}

func TestClassify_HarmfulCategoriesBlock(t *testing.T) {
	for _, category := range domain.Categories {
		if category == domain.CategorySafe {
			continue
		}

		server := classifierServer(t, http.StatusOK, completionReply(category))
		verdict, err := newTestClassifier(server.URL).Classify(context.Background(), "some text")
		server.Close()

		require.NoError(t, err, category)
		assert.False(t, verdict.Allowed, category)
		assert.Equal(t, category, verdict.Category)
	}
}

func TestClassify_NormalizesDecoratedReplies(t *testing.T) {
	cases := []string{"Safe", " safe ", `"safe"`, "safe."}
	for _, raw := range cases {
		server := classifierServer(t, http.StatusOK, completionReply(raw))
		verdict, err := newTestClassifier(server.URL).Classify(context.Background(), "hello")
		server.Close()

		require.NoError(t, err, raw)
		assert.True(t, verdict.Allowed, raw)
	}
}

func TestClassify_ServerErrorFails(t *testing.T) {
	server := classifierServer(t, http.StatusBadGateway, "")
	defer server.Close()

	_, err := newTestClassifier(server.URL).Classify(context.Background(), "hello")
	assert.ErrorContains(t, err, "status 502")
}

func TestClassify_MalformedBodyFails(t *testing.T) {
	server := classifierServer(t, http.StatusOK, "{not json")
	defer server.Close()

	_, err := newTestClassifier(server.URL).Classify(context.Background(), "hello")
	assert.ErrorContains(t, err, "malformed")
}

func TestClassify_EmptyChoicesFails(t *testing.T) {
	server := classifierServer(t, http.StatusOK, `{"choices":[]}`)
	defer server.Close()

	_, err := newTestClassifier(server.URL).Classify(context.Background(), "hello")
	assert.ErrorContains(t, err, "empty moderation response")
}

func TestClassify_OutOfTaxonomyFails(t *testing.T) {
	server := classifierServer(t, http.StatusOK, completionReply("profanity"))
	defer server.Close()

	_, err := newTestClassifier(server.URL).Classify(context.Background(), "hello")
	assert.ErrorContains(t, err, "outside taxonomy")
}

func TestClassify_Unreachable(t *testing.T) {
	server := classifierServer(t, http.StatusOK, completionReply("safe"))
	server.Close()

	_, err := newTestClassifier(server.URL).Classify(context.Background(), "hello")
	assert.Error(t, err)
}
