// Package digest turns the merged raw entries from all sources into
// the assembled newsletter model: clean text, drop stale entries,
// dedupe by canonical link, score, and group into ordered sections.
package digest

import (
	"log/slog"
	"sort"
	"time"

	"marketbrief/internal/config"
	"marketbrief/internal/domain"
)

const (
	maxBullets   = 3
	maxTopMovers = 12
)

type Digest struct {
	window        time.Duration
	maxSummaryLen int
	maxPerSection int
	minTopScore   float64
	order         []string
	weights       config.WeightsConfig
	logger        *slog.Logger
}

func New(cfg *config.Config, logger *slog.Logger) *Digest {
	return &Digest{
		window:        cfg.FreshnessWindow,
		maxSummaryLen: cfg.Digest.MaxSummaryLen,
		maxPerSection: cfg.Digest.MaxItemsPerSection,
		minTopScore:   cfg.Digest.MinTopScore,
		order:         cfg.CategoryOrder,
		weights:       cfg.Weights,
		logger:        logger,
	}
}

// Result is the digest output for one run.
type Result struct {
	Sections   []domain.Section
	TopMovers  []domain.Item
	Kept       int
	Duplicates int
	Stale      int
}

// Build normalizes entries against the run reference time now. The
// entry order must follow the configured source order: on duplicate
// links the first occurrence wins, which makes the earlier-listed
// source the tie-break owner of a shared link.
func (d *Digest) Build(entries []domain.RawEntry, now time.Time) Result {
	cutoff := now.Add(-d.window)
	seen := make(map[string]struct{}, len(entries))

	var res Result
	var items []domain.Item

	for _, e := range entries {
		published := now
		inferred := true
		if e.PublishedAt != nil {
			published = *e.PublishedAt
			inferred = false
		}

		// Inclusive boundary: an entry exactly at the cutoff stays.
		// Entries with no timestamp are always kept.
		if !inferred && published.Before(cutoff) {
			res.Stale++
			continue
		}

		key := canonicalLink(e.Link)
		if key == "" {
			key = CleanText(e.Title) + "\x00" + CleanText(e.Summary)
		}
		if _, dup := seen[key]; dup {
			res.Duplicates++
			continue
		}
		seen[key] = struct{}{}

		title := CleanText(e.Title)
		summary := Truncate(CleanText(e.Summary), d.maxSummaryLen)

		category := e.Category
		if category == "" {
			category = d.bucket(title + " " + summary)
		}

		source := summary
		if source == "" {
			source = title
		}

		items = append(items, domain.Item{
			Title:        title,
			Link:         e.Link,
			Summary:      summary,
			PublishedAt:  published,
			TimeInferred: inferred,
			Category:     category,
			Score:        d.score(title, summary, e.Link),
			Bullets:      Bullets(source, maxBullets),
		})
	}

	res.Kept = len(items)
	res.TopMovers = d.topMovers(items)
	res.Sections = d.group(items)

	return res
}

func (d *Digest) topMovers(items []domain.Item) []domain.Item {
	var top []domain.Item
	for _, it := range items {
		if it.Score >= d.minTopScore {
			top = append(top, it)
		}
	}
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].Score > top[j].Score
	})
	if len(top) > maxTopMovers {
		top = top[:maxTopMovers]
	}
	return top
}

func (d *Digest) group(items []domain.Item) []domain.Section {
	byCategory := make(map[string][]domain.Item)
	for _, it := range items {
		byCategory[it.Category] = append(byCategory[it.Category], it)
	}

	var sections []domain.Section
	for _, category := range d.categoryOrder(byCategory) {
		section := byCategory[category]
		sort.SliceStable(section, func(i, j int) bool {
			a, b := section[i], section[j]
			if a.TimeInferred != b.TimeInferred {
				return a.TimeInferred
			}
			return a.PublishedAt.After(b.PublishedAt)
		})
		if len(section) > d.maxPerSection {
			section = section[:d.maxPerSection]
		}
		sections = append(sections, domain.Section{Category: category, Items: section})
	}

	return sections
}

// categoryOrder yields the configured order first, then any remaining
// categories alphabetically.
func (d *Digest) categoryOrder(byCategory map[string][]domain.Item) []string {
	ordered := make([]string, 0, len(byCategory))
	listed := make(map[string]bool, len(d.order))

	for _, category := range d.order {
		listed[category] = true
		if _, ok := byCategory[category]; ok {
			ordered = append(ordered, category)
		}
	}

	var rest []string
	for category := range byCategory {
		if !listed[category] {
			rest = append(rest, category)
		}
	}
	sort.Strings(rest)

	return append(ordered, rest...)
}
