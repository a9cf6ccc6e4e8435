package deepanalysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// FallbackAssessment is returned whenever the chat collaborator cannot
// produce an answer. Deterministic on purpose: a flaky external call must
// never stall the pipeline or leave an item unanalyzed.
const FallbackAssessment = "automated assessment unavailable; keyword heuristics applied"

// PostSample is one scored post handed to the collaborator.
type PostSample struct {
	Content string
	Score   int
}

// AuthorAssessor is the external deep-analysis collaborator: given an
// author and a sample of their scored posts, it returns a short
// natural-language assessment. Best effort; implementations never error.
type AuthorAssessor interface {
	AssessAuthor(ctx context.Context, authorName string, posts []PostSample) string
}

// ChatAssessor talks OpenAI-style chat completions to whatever endpoint is
// configured.
type ChatAssessor struct {
	URL    string
	Model  string
	APIKey string

	httpClient *http.Client
	logger     *slog.Logger
}

func NewChatAssessor(url, model, apiKey string, logger *slog.Logger) *ChatAssessor {
	if logger == nil {
		logger = slog.Default()
	}
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil
	client := retryClient.StandardClient()
	client.Timeout = 30 * time.Second

	return &ChatAssessor{
		URL:        url,
		Model:      model,
		APIKey:     apiKey,
		httpClient: client,
		logger:     logger.With("component", "chat-assessor"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

const assessorSystemPrompt = "You are a network analyst reviewing social media posts for conspiracy-adjacent content. Be concise and direct."

// AssessAuthor builds a compact prompt from the highest-risk samples and
// asks the chat model for an assessment. Any transport or decode failure
// degrades to FallbackAssessment.
func (a *ChatAssessor) AssessAuthor(ctx context.Context, authorName string, posts []PostSample) string {
	if len(posts) == 0 {
		return "no recorded posts for this author"
	}
	if a.APIKey == "" || a.URL == "" {
		return FallbackAssessment
	}

	samples := pickSamples(posts)
	var sb bytes.Buffer
	fmt.Fprintf(&sb, "Author: %s\nPosts:\n", authorName)
	for _, s := range samples {
		fmt.Fprintf(&sb, "[risk %d] %s\n", s.Score, clip(s.Content, 100))
	}
	sb.WriteString("\nIn under 100 words: main themes, whether conspiracy vocabulary is present, and a short risk assessment.")

	payload, err := json.Marshal(chatRequest{
		Model: a.Model,
		Messages: []chatMessage{
			{Role: "system", Content: assessorSystemPrompt},
			{Role: "user", Content: sb.String()},
		},
		MaxTokens:   150,
		Temperature: 0.3,
	})
	if err != nil {
		return FallbackAssessment
	}

	req, err := http.NewRequestWithContext(ctx, "POST", a.URL, bytes.NewReader(payload))
	if err != nil {
		return FallbackAssessment
	}
	req.Header.Set("Authorization", "Bearer "+a.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		a.logger.Warn("chat collaborator unreachable", "err", err)
		assessorFailures.Inc()
		return FallbackAssessment
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Warn("chat collaborator returned error", "status", resp.StatusCode)
		assessorFailures.Inc()
		return FallbackAssessment
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		assessorFailures.Inc()
		return FallbackAssessment
	}
	var decoded chatResponse
	if err := json.Unmarshal(body, &decoded); err != nil || len(decoded.Choices) == 0 {
		assessorFailures.Inc()
		return FallbackAssessment
	}
	content := decoded.Choices[0].Message.Content
	if content == "" {
		return FallbackAssessment
	}
	return clip(content, 150)
}

// pickSamples prefers high-risk posts (score >= 3), falling back to the
// first few, capped at 3 either way.
func pickSamples(posts []PostSample) []PostSample {
	var risky []PostSample
	for _, p := range posts {
		if p.Score >= 3 {
			risky = append(risky, p)
		}
	}
	if len(risky) == 0 {
		risky = posts
		if len(risky) > 5 {
			risky = risky[:5]
		}
	}
	if len(risky) > 3 {
		risky = risky[:3]
	}
	return risky
}

func clip(s string, n int) string {
	runes := []rune(s)
	if len(runes) > n {
		return string(runes[:n])
	}
	return s
}
