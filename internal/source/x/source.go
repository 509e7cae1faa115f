// Package x pulls recent posts from the X API v2 for a set of handles.
// The API requires a paid bearer token; the token is passed through
// opaquely and never logged.
package x

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"marketbrief/internal/domain"
)

const defaultBaseURL = "https://api.x.com"

// Config holds X API source configuration.
type Config struct {
	BearerToken  string
	Handles      []string
	MaxPerHandle int
	Category     string
	Window       time.Duration
	Timeout      time.Duration
	BaseURL      string // overridable for tests
}

// Source is the active social fetcher.
type Source struct {
	httpClient   *http.Client
	baseURL      string
	token        string
	handles      []string
	maxPerHandle int
	category     string
	window       time.Duration
	logger       *slog.Logger
}

// New creates an X API source.
func New(cfg Config, logger *slog.Logger) *Source {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:      baseURL,
		token:        cfg.BearerToken,
		handles:      cfg.Handles,
		maxPerHandle: cfg.MaxPerHandle,
		category:     cfg.Category,
		window:       cfg.Window,
		logger:       logger.With("source", "x-api"),
	}
}

// Name identifies the source in logs.
func (s *Source) Name() string {
	return "x-api"
}

// Fetch retrieves recent posts for every configured handle. Handles the
// API rejects individually are skipped; an auth rejection aborts the
// whole source since every later call would fail the same way.
func (s *Source) Fetch(ctx context.Context) ([]domain.RawEntry, error) {
	if s.token == "" {
		return nil, fmt.Errorf("x-api: %w: no bearer token configured", domain.ErrAuth)
	}

	start := time.Now().Add(-s.window)

	var entries []domain.RawEntry
	for _, handle := range s.handles {
		posts, err := s.fetchHandle(ctx, handle, start)
		if err != nil {
			if domain.ErrKind(err) == "auth" {
				return entries, err
			}
			s.logger.Warn("handle skipped", "handle", handle, "error", err)
			continue
		}
		entries = append(entries, posts...)
	}

	return entries, nil
}

func (s *Source) fetchHandle(ctx context.Context, handle string, start time.Time) ([]domain.RawEntry, error) {
	uid, err := s.resolveUser(ctx, handle)
	if err != nil {
		return nil, err
	}

	tweets, err := s.userTweets(ctx, uid, start)
	if err != nil {
		return nil, err
	}

	if len(tweets) > s.maxPerHandle {
		tweets = tweets[:s.maxPerHandle]
	}

	entries := make([]domain.RawEntry, 0, len(tweets))
	for _, t := range tweets {
		var published *time.Time
		if created, perr := time.Parse(time.RFC3339, t.CreatedAt); perr == nil {
			published = &created
		}

		entries = append(entries, domain.RawEntry{
			Title:       "@" + handle,
			Link:        fmt.Sprintf("https://x.com/%s/status/%s", handle, t.ID),
			Summary:     t.Text,
			PublishedAt: published,
			Category:    s.category,
			SourceURL:   "x:" + handle,
		})
	}

	return entries, nil
}

func (s *Source) resolveUser(ctx context.Context, handle string) (string, error) {
	endpoint := fmt.Sprintf("%s/2/users/by/username/%s", s.baseURL, url.PathEscape(handle))

	var resp userResponse
	if err := s.doRequest(ctx, endpoint, &resp); err != nil {
		return "", fmt.Errorf("resolve %s: %w", handle, err)
	}
	if resp.Data.ID == "" {
		return "", fmt.Errorf("resolve %s: %w: no user id in response", handle, domain.ErrFetch)
	}

	return resp.Data.ID, nil
}

func (s *Source) userTweets(ctx context.Context, uid string, start time.Time) ([]tweet, error) {
	maxResults := s.maxPerHandle * 2
	if maxResults > 100 {
		maxResults = 100
	}
	if maxResults < 5 {
		maxResults = 5 // API minimum
	}

	q := url.Values{}
	q.Set("max_results", fmt.Sprintf("%d", maxResults))
	q.Set("tweet.fields", "created_at,public_metrics")
	q.Set("start_time", start.UTC().Format(time.RFC3339))

	endpoint := fmt.Sprintf("%s/2/users/%s/tweets?%s", s.baseURL, url.PathEscape(uid), q.Encode())

	var resp tweetsResponse
	if err := s.doRequest(ctx, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("timeline %s: %w", uid, err)
	}

	return resp.Data, nil
}

func (s *Source) doRequest(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrFetch, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", domain.ErrAuth, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: status %d", domain.ErrFetch, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %w", domain.ErrFetch, err)
	}

	return nil
}

// Noop is the disabled variant. The pipeline holds it when the social
// block is off, so social support is a capability queried once at
// startup rather than a branch inside the run.
type Noop struct{}

func (Noop) Name() string { return "x-api" }

func (Noop) Fetch(ctx context.Context) ([]domain.RawEntry, error) { return nil, nil }
