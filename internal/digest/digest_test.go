package digest

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketbrief/internal/config"
	"marketbrief/internal/domain"
)

var now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testConfig() *config.Config {
	return &config.Config{
		FreshnessWindow: 24 * time.Hour,
		Digest: config.DigestConfig{
			MaxSummaryLen:      280,
			MaxItemsPerSection: 12,
			MinTopScore:        2.0,
		},
	}
}

func newDigest(cfg *config.Config) *Digest {
	return New(cfg, testLogger())
}

func entry(link, title, category string, published time.Time) domain.RawEntry {
	return domain.RawEntry{
		Title:       title,
		Link:        link,
		Summary:     "summary of " + title,
		PublishedAt: &published,
		Category:    category,
	}
}

func allItems(res Result) []domain.Item {
	var items []domain.Item
	for _, s := range res.Sections {
		items = append(items, s.Items...)
	}
	return items
}

func TestBuild_DedupIdenticalLink(t *testing.T) {
	e := entry("https://example.com/story", "Story", "News", now.Add(-time.Hour))

	res := newDigest(testConfig()).Build([]domain.RawEntry{e, e}, now)

	assert.Equal(t, 1, res.Kept)
	assert.Equal(t, 1, res.Duplicates)
	require.Len(t, allItems(res), 1)
}

func TestBuild_DedupCaseAndSlashInsensitive(t *testing.T) {
	a := entry("https://Example.com/Story/", "First", "News", now.Add(-time.Hour))
	b := entry("https://example.com/story", "Second", "News", now.Add(-time.Hour))

	res := newDigest(testConfig()).Build([]domain.RawEntry{a, b}, now)

	items := allItems(res)
	require.Len(t, items, 1)
	// first-seen entry wins, so the earlier-listed source owns the link
	assert.Equal(t, "First", items[0].Title)
}

func TestBuild_FreshnessBoundaryInclusive(t *testing.T) {
	onBoundary := entry("https://example.com/a", "On Boundary", "News", now.Add(-24*time.Hour))
	justStale := entry("https://example.com/b", "Just Stale", "News", now.Add(-24*time.Hour-time.Second))

	res := newDigest(testConfig()).Build([]domain.RawEntry{onBoundary, justStale}, now)

	items := allItems(res)
	require.Len(t, items, 1)
	assert.Equal(t, "On Boundary", items[0].Title)
	assert.Equal(t, 1, res.Stale)
}

func TestBuild_MissingTimestampKeptAndSortedFirst(t *testing.T) {
	noTime := domain.RawEntry{
		Title:    "No Timestamp",
		Link:     "https://example.com/untimed",
		Category: "News",
	}
	fresh := entry("https://example.com/fresh", "Fresh", "News", now.Add(-time.Minute))

	res := newDigest(testConfig()).Build([]domain.RawEntry{fresh, noTime}, now)

	items := allItems(res)
	require.Len(t, items, 2)
	assert.Equal(t, "No Timestamp", items[0].Title)
	assert.True(t, items[0].TimeInferred)
	assert.Equal(t, now, items[0].PublishedAt)
	assert.False(t, items[1].TimeInferred)
}

func TestBuild_SortDescendingWithinCategory(t *testing.T) {
	entries := []domain.RawEntry{
		entry("https://example.com/old", "Oldest", "News", now.Add(-3*time.Hour)),
		entry("https://example.com/new", "Newest", "News", now.Add(-time.Hour)),
		entry("https://example.com/mid", "Middle", "News", now.Add(-2*time.Hour)),
	}

	res := newDigest(testConfig()).Build(entries, now)

	items := allItems(res)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"Newest", "Middle", "Oldest"},
		[]string{items[0].Title, items[1].Title, items[2].Title})
}

func TestBuild_CategoryOrdering(t *testing.T) {
	cfg := testConfig()
	cfg.CategoryOrder = []string{"Crypto", "Macro"}

	entries := []domain.RawEntry{
		entry("https://example.com/1", "A", "Banking", now),
		entry("https://example.com/2", "B", "Macro", now),
		entry("https://example.com/3", "C", "Airlines", now),
		entry("https://example.com/4", "D", "Crypto", now),
	}

	res := newDigest(cfg).Build(entries, now)

	var categories []string
	for _, s := range res.Sections {
		categories = append(categories, s.Category)
	}
	// configured order first, unlisted appended alphabetically
	assert.Equal(t, []string{"Crypto", "Macro", "Airlines", "Banking"}, categories)
}

func TestBuild_SectionCapped(t *testing.T) {
	cfg := testConfig()
	cfg.Digest.MaxItemsPerSection = 2

	entries := []domain.RawEntry{
		entry("https://example.com/1", "A", "News", now.Add(-time.Hour)),
		entry("https://example.com/2", "B", "News", now.Add(-2*time.Hour)),
		entry("https://example.com/3", "C", "News", now.Add(-3*time.Hour)),
	}

	res := newDigest(cfg).Build(entries, now)

	require.Len(t, res.Sections, 1)
	assert.Len(t, res.Sections[0].Items, 2)
}

func TestBuild_SummaryCleanedAndTruncated(t *testing.T) {
	long := strings.Repeat("word ", 100)
	e := domain.RawEntry{
		Title:       "Story",
		Link:        "https://example.com/story",
		Summary:     "<p>" + long + "</p>",
		PublishedAt: &now,
		Category:    "News",
	}

	res := newDigest(testConfig()).Build([]domain.RawEntry{e}, now)

	items := allItems(res)
	require.Len(t, items, 1)
	assert.NotContains(t, items[0].Summary, "<p>")
	assert.Equal(t, 280, len([]rune(items[0].Summary)))
	assert.True(t, strings.HasSuffix(items[0].Summary, "…"))
}

func TestBuild_BucketsUncategorizedByKeywords(t *testing.T) {
	cfg := testConfig()
	cfg.Weights = config.WeightsConfig{
		Keywords: map[string][]string{
			"crypto": {"bitcoin"},
			"macro":  {"inflation"},
		},
	}

	entries := []domain.RawEntry{
		{Title: "Bitcoin rallies", Link: "https://example.com/btc", PublishedAt: &now},
		{Title: "Inflation cools", Link: "https://example.com/cpi", PublishedAt: &now},
		{Title: "Nothing matches", Link: "https://example.com/misc", PublishedAt: &now},
	}

	res := newDigest(cfg).Build(entries, now)

	byCategory := map[string]string{}
	for _, it := range allItems(res) {
		byCategory[it.Title] = it.Category
	}
	assert.Equal(t, "Crypto", byCategory["Bitcoin rallies"])
	assert.Equal(t, "Macro / Policy", byCategory["Inflation cools"])
	assert.Equal(t, "Other", byCategory["Nothing matches"])
}

func TestBuild_TopMovers(t *testing.T) {
	cfg := testConfig()
	cfg.Weights = config.WeightsConfig{
		Sources:  map[string]float64{"wire": 2.0, "blog": 1.0},
		Keywords: map[string][]string{"macro": {"fed", "rates"}},
	}

	hot := domain.RawEntry{
		Title:       "Fed cuts rates",
		Link:        "https://reuters.com/fed-cuts",
		PublishedAt: &now,
		Category:    "Macro",
	}
	cold := domain.RawEntry{
		Title:       "Quiet day",
		Link:        "https://someblog.com/quiet",
		PublishedAt: &now,
		Category:    "Macro",
	}

	res := newDigest(cfg).Build([]domain.RawEntry{cold, hot}, now)

	require.Len(t, res.TopMovers, 1)
	assert.Equal(t, "Fed cuts rates", res.TopMovers[0].Title)
	assert.GreaterOrEqual(t, res.TopMovers[0].Score, 2.0)
}

// Two sources: A with 3 fresh items, B with 1 stale item, 24h window:
// the output has exactly A's 3 items sorted descending.
func TestBuild_TwoSourceScenario(t *testing.T) {
	var entries []domain.RawEntry
	for i := 1; i <= 3; i++ {
		entries = append(entries, entry(
			fmt.Sprintf("https://a.example.com/%d", i),
			fmt.Sprintf("A%d", i),
			"News",
			now.Add(-time.Duration(i)*time.Hour),
		))
	}
	entries = append(entries, entry("https://b.example.com/1", "B1", "News", now.Add(-48*time.Hour)))

	res := newDigest(testConfig()).Build(entries, now)

	items := allItems(res)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"A1", "A2", "A3"},
		[]string{items[0].Title, items[1].Title, items[2].Title})
	assert.Equal(t, 1, res.Stale)
}

func TestBuild_EmptyLinkDedupsByContent(t *testing.T) {
	a := domain.RawEntry{Title: "Same", Summary: "body", PublishedAt: &now}
	b := domain.RawEntry{Title: "Same", Summary: "body", PublishedAt: &now}
	c := domain.RawEntry{Title: "Different", Summary: "body", PublishedAt: &now}

	res := newDigest(testConfig()).Build([]domain.RawEntry{a, b, c}, now)

	assert.Equal(t, 2, res.Kept)
	assert.Equal(t, 1, res.Duplicates)
}
