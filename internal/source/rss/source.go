// Package rss fetches and parses one RSS/Atom feed.
package rss

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"marketbrief/internal/domain"
)

// Config holds per-feed fetch configuration.
type Config struct {
	URL            string
	Category       string
	Timeout        time.Duration
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Source fetches a single configured feed.
type Source struct {
	httpClient     *http.Client
	parser         *gofeed.Parser
	url            string
	category       string
	maxAttempts    int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	logger         *slog.Logger
}

// New creates a fetcher for one feed URL.
func New(cfg Config, logger *slog.Logger) *Source {
	return &Source{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		parser:         gofeed.NewParser(),
		url:            cfg.URL,
		category:       cfg.Category,
		maxAttempts:    cfg.MaxAttempts,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		logger:         logger.With("source", cfg.URL),
	}
}

// Name returns the feed URL, which identifies the source in logs.
func (s *Source) Name() string {
	return s.url
}

// Fetch retrieves the feed body and parses it into raw entries.
func (s *Source) Fetch(ctx context.Context) ([]domain.RawEntry, error) {
	body, err := s.fetchBody(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w: %w", s.url, domain.ErrFetch, err)
	}

	feed, err := s.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w: %w", s.url, domain.ErrParse, err)
	}

	return s.transform(feed), nil
}

func (s *Source) fetchBody(ctx context.Context) ([]byte, error) {
	var body []byte
	var err error

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		body, err = s.doRequest(ctx)
		if err == nil {
			return body, nil
		}

		if attempt == s.maxAttempts {
			break
		}

		backoff := s.calculateBackoff(attempt)
		s.logger.Warn("request failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"error", err,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	return nil, fmt.Errorf("after %d attempts: %w", s.maxAttempts, err)
}

func (s *Source) doRequest(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")
	req.Header.Set("User-Agent", "marketbrief/1.0")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return body, nil
}

func (s *Source) calculateBackoff(attempt int) time.Duration {
	backoff := s.initialBackoff
	for i := 1; i < attempt; i++ {
		backoff *= 2
	}
	if backoff > s.maxBackoff {
		backoff = s.maxBackoff
	}
	return backoff
}

func (s *Source) transform(feed *gofeed.Feed) []domain.RawEntry {
	entries := make([]domain.RawEntry, 0, len(feed.Items))

	for _, item := range feed.Items {
		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		published := item.PublishedParsed
		if published == nil {
			published = item.UpdatedParsed
		}

		entries = append(entries, domain.RawEntry{
			Title:       item.Title,
			Link:        item.Link,
			Summary:     summary,
			PublishedAt: published,
			Category:    s.category,
			SourceURL:   s.url,
		})
	}

	return entries
}
