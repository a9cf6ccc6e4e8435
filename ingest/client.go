// Package ingest polls the external feed, normalizes its duck-typed
// response shapes into one strict post form at the boundary, and drives the
// scoring-and-commit pipeline. It also owns the idempotent mention edge
// backfill pass.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// FeedPost is the single normalized post shape the core consumes; nothing
// past the client ever branches on response shape.
type FeedPost struct {
	ID         string
	AuthorID   string
	AuthorName string
	Content    string
	ParentID   string
	Channel    string
	Title      string
	URL        string
	CreatedAt  int64 // unix seconds
}

// Client pulls pages of posts from the feed API.
type Client struct {
	Host   string
	APIKey string

	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

func NewClient(host, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		Host:       host,
		APIKey:     apiKey,
		httpClient: robustHTTPClient(logger),
		limiter:    rate.NewLimiter(rate.Limit(2), 1),
		logger:     logger.With("component", "feed"),
	}
}

// robustHTTPClient wraps retryablehttp behind the stdlib client interface:
// retries on connection errors, 5xx, and 429 (respecting Retry-After), with
// intermediate failures logged at warn.
func robustHTTPClient(logger *slog.Logger) *http.Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.RetryWaitMin = 1 * time.Second
	retryClient.RetryWaitMax = 10 * time.Second
	retryClient.Logger = retryablehttp.LeveledLogger(leveledSlog{logger})
	client := retryClient.StandardClient()
	client.Timeout = 30 * time.Second
	return client
}

// re-writes HTTP client ERROR to WARN level (because of retries)
type leveledSlog struct {
	inner *slog.Logger
}

func (l leveledSlog) Error(msg string, keysAndValues ...interface{}) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Warn(msg string, keysAndValues ...interface{}) {
	l.inner.Warn(msg, keysAndValues...)
}

func (l leveledSlog) Info(msg string, keysAndValues ...interface{}) {
	l.inner.Info(msg, keysAndValues...)
}

func (l leveledSlog) Debug(msg string, keysAndValues ...interface{}) {
	l.inner.Debug(msg, keysAndValues...)
}

// GetPosts fetches one page of posts, newest first. Rate limiting upstream
// returns an empty page rather than an error; the loop just tries again on
// its next tick.
func (c *Client) GetPosts(ctx context.Context, sort string, limit int) ([]FeedPost, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/posts?sort=%s&limit=%d", c.Host, sort, limit)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		feedFetchErrors.Inc()
		return nil, fmt.Errorf("fetching posts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.logger.Warn("rate limited by feed API")
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		feedFetchErrors.Inc()
		return nil, fmt.Errorf("feed API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	posts, err := NormalizeResponse(body, c.logger)
	if err != nil {
		return nil, err
	}
	feedPostsFetched.Add(float64(len(posts)))
	return posts, nil
}

type rawAuthor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type rawChannel struct {
	Name string `json:"name"`
}

type rawPost struct {
	ID        string          `json:"id"`
	Author    json.RawMessage `json:"author"`
	Content   string          `json:"content"`
	ParentID  string          `json:"parent_id"`
	Submolt   json.RawMessage `json:"submolt"`
	Title     string          `json:"title"`
	URL       string          `json:"url"`
	CreatedAt string          `json:"created_at"`
}

// NormalizeResponse accepts the feed's historical response shapes (a bare
// list, or an object wrapping the list under "posts" or "data") and
// normalizes each record: author as object or bare string, channel as
// object or string, tolerant timestamps. Malformed fields degrade to
// defaults and are logged at debug, never rejected.
func NormalizeResponse(body []byte, logger *slog.Logger) ([]FeedPost, error) {
	var raws []rawPost

	if err := json.Unmarshal(body, &raws); err != nil {
		var wrapper struct {
			Posts []rawPost `json:"posts"`
			Data  []rawPost `json:"data"`
		}
		if err := json.Unmarshal(body, &wrapper); err != nil {
			return nil, fmt.Errorf("unrecognized feed response shape: %w", err)
		}
		raws = wrapper.Posts
		if len(raws) == 0 {
			raws = wrapper.Data
		}
	}

	out := make([]FeedPost, 0, len(raws))
	for _, raw := range raws {
		if raw.ID == "" {
			logger.Debug("skipping feed record with no id")
			continue
		}
		out = append(out, normalizePost(raw, logger))
	}
	return out, nil
}

func normalizePost(raw rawPost, logger *slog.Logger) FeedPost {
	post := FeedPost{
		ID:       raw.ID,
		Content:  raw.Content,
		ParentID: raw.ParentID,
		Title:    raw.Title,
		URL:      raw.URL,
		Channel:  "general",
	}

	post.AuthorID, post.AuthorName = normalizeAuthor(raw.Author)
	if post.AuthorID == "" {
		logger.Debug("feed record missing author, defaulting", "post", raw.ID)
		post.AuthorID = "unknown"
		post.AuthorName = "unknown"
	}

	if len(raw.Submolt) > 0 {
		var channel rawChannel
		if err := json.Unmarshal(raw.Submolt, &channel); err == nil && channel.Name != "" {
			post.Channel = channel.Name
		} else {
			var name string
			if err := json.Unmarshal(raw.Submolt, &name); err == nil && name != "" {
				post.Channel = name
			}
		}
	}

	post.CreatedAt = ParseTimestamp(raw.CreatedAt, logger)
	return post
}

func normalizeAuthor(raw json.RawMessage) (string, string) {
	if len(raw) == 0 {
		return "", ""
	}
	var author rawAuthor
	if err := json.Unmarshal(raw, &author); err == nil {
		id := author.ID
		if id == "" {
			id = author.Name
		}
		name := author.Name
		if name == "" {
			name = id
		}
		return id, name
	}
	// older API shapes return a bare string id
	var id string
	if err := json.Unmarshal(raw, &id); err == nil {
		return id, id
	}
	return "", ""
}

// ParseTimestamp parses an ISO-8601-ish timestamp string, tolerating the
// several formats the feed has emitted over time. Unparseable values fall
// back to now.
func ParseTimestamp(s string, logger *slog.Logger) int64 {
	if s == "" {
		return time.Now().Unix()
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Unix()
	}
	// epoch seconds show up in some older records
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return secs
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return t.Unix()
	}
	logger.Debug("unparseable feed timestamp, defaulting to now", "value", s)
	return time.Now().Unix()
}
