package domain

import "time"

// RawEntry is an item as returned by a fetcher, before normalization.
// Summary may still contain HTML markup; PublishedAt is nil when the
// source omits the date or publishes one nothing can parse.
type RawEntry struct {
	Title       string
	Link        string
	Summary     string
	PublishedAt *time.Time
	Category    string
	SourceURL   string
}

// Item is the canonical newsletter item produced by the digest.
type Item struct {
	Title       string
	Link        string
	Summary     string // plain text, truncated
	PublishedAt time.Time
	// TimeInferred marks items whose source gave no usable timestamp;
	// they carry the run reference time and sort first in their section.
	TimeInferred bool
	Category     string
	Score        float64
	Bullets      []string
}

// Section groups items under one category heading.
type Section struct {
	Category string
	Items    []Item
}

// Newsletter is the assembled document model, immutable once rendered.
type Newsletter struct {
	Title       string
	GeneratedAt time.Time
	TopMovers   []Item
	Sections    []Section
}

// BriefStats holds statistics about one run.
type BriefStats struct {
	SourcesOK     int
	SourcesFailed int
	Fetched       int
	Kept          int
	Duplicates    int
	Stale         int
	Rendered      int // bytes of the final document
	Duration      time.Duration
}
