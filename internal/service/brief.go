package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"marketbrief/internal/config"
	"marketbrief/internal/digest"
	"marketbrief/internal/domain"
)

// Brief runs the whole pipeline once: fan out fetches, digest the
// merged entries, render, write, and optionally email the result.
type Brief struct {
	sources  []Source
	digest   *digest.Digest
	renderer Renderer
	writer   Writer
	mailer   Mailer // nil when email is disabled
	logger   *slog.Logger

	title   string
	workers int
	loc     *time.Location

	clock  func() time.Time
	stdout io.Writer // fallback echo target on write failure
}

func NewBrief(
	sources []Source,
	dig *digest.Digest,
	renderer Renderer,
	writer Writer,
	mailer Mailer,
	cfg *config.Config,
	loc *time.Location,
	logger *slog.Logger,
) *Brief {
	return &Brief{
		sources:  sources,
		digest:   dig,
		renderer: renderer,
		writer:   writer,
		mailer:   mailer,
		logger:   logger,
		title:    cfg.Title,
		workers:  cfg.Fetch.Workers,
		loc:      loc,
		clock:    time.Now,
		stdout:   os.Stdout,
	}
}

// Run executes one build. Per-source failures are logged and contribute
// zero entries; only rendering and writing failures are returned.
func (b *Brief) Run(ctx context.Context) (*domain.BriefStats, error) {
	start := b.clock()
	stats := &domain.BriefStats{}

	b.logger.Info("building brief", "sources", len(b.sources), "workers", b.workers)

	entries := b.fetchAll(ctx, stats)
	stats.Fetched = len(entries)

	res := b.digest.Build(entries, start)
	stats.Kept = res.Kept
	stats.Duplicates = res.Duplicates
	stats.Stale = res.Stale

	newsletter := domain.Newsletter{
		Title:       b.title,
		GeneratedAt: start.In(b.loc),
		TopMovers:   res.TopMovers,
		Sections:    res.Sections,
	}

	doc, err := b.renderer.Render(newsletter)
	if err != nil {
		return stats, fmt.Errorf("render: %w", err)
	}
	stats.Rendered = len(doc)

	if err := b.writer.Write(doc); err != nil {
		// The document exists; surface it before failing the run.
		fmt.Fprintln(b.stdout, doc)
		return stats, err
	}

	if b.mailer != nil {
		subject := fmt.Sprintf("%s — %s", b.title, newsletter.GeneratedAt.Format("02 Jan 2006"))
		if err := b.mailer.Send(ctx, subject, doc); err != nil {
			b.logger.Warn("email delivery failed", "error", err)
		}
	}

	stats.Duration = b.clock().Sub(start)

	b.logger.Info("brief built",
		"sources_ok", stats.SourcesOK,
		"sources_failed", stats.SourcesFailed,
		"fetched", stats.Fetched,
		"kept", stats.Kept,
		"duplicates", stats.Duplicates,
		"stale", stats.Stale,
		"bytes", stats.Rendered,
		"duration", stats.Duration,
	)

	return stats, nil
}

// fetchAll fans fetches out over a bounded worker pool and fans back in
// before any normalization starts. Results are keyed by source index so
// the merged order always equals the configured source order, which the
// dedup tie-break depends on.
func (b *Brief) fetchAll(ctx context.Context, stats *domain.BriefStats) []domain.RawEntry {
	results := make([][]domain.RawEntry, len(b.sources))

	workers := b.workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(b.sources) {
		workers = len(b.sources)
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				src := b.sources[i]
				entries, err := src.Fetch(ctx)
				if err != nil {
					b.logger.Warn("source failed",
						"source", src.Name(),
						"kind", domain.ErrKind(err),
						"error", err,
					)
					mu.Lock()
					stats.SourcesFailed++
					mu.Unlock()
				} else {
					mu.Lock()
					stats.SourcesOK++
					mu.Unlock()
				}
				// A source may return partial entries alongside its error.
				results[i] = entries
			}
		}()
	}

	for i := range b.sources {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var merged []domain.RawEntry
	for _, entries := range results {
		merged = append(merged, entries...)
	}
	return merged
}
