package digest

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var spaceRE = regexp.MustCompile(`\s+`)

// CleanText strips HTML markup from s and collapses runs of whitespace
// into single spaces. Plain text passes through unchanged apart from
// whitespace normalization.
func CleanText(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	skip := 0

	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			text := spaceRE.ReplaceAllLiteralString(b.String(), " ")
			return strings.TrimSpace(text)
		case html.StartTagToken:
			name, _ := z.TagName()
			if n := string(name); n == "script" || n == "style" {
				skip++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if n := string(name); (n == "script" || n == "style") && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				b.Write(z.Text())
				b.WriteByte(' ')
			}
		}
	}
}

// Truncate shortens s to at most max runes, replacing the tail with an
// ellipsis when it cuts anything off.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// canonicalLink normalizes a link for dedup: case- and
// trailing-slash-insensitive.
func canonicalLink(link string) string {
	return strings.TrimRight(strings.ToLower(strings.TrimSpace(link)), "/")
}
