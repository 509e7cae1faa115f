package digest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain text", "hello world", "hello world"},
		{"tags stripped", "<p>Rates <b>rise</b> again</p>", "Rates rise again"},
		{"entities decoded", "Q1 earnings &amp; guidance", "Q1 earnings & guidance"},
		{"whitespace collapsed", "a\n\n  b\t c", "a b c"},
		{"script dropped", `<p>news</p><script>alert("x")</script><p>more</p>`, "news more"},
		{"style dropped", "<style>p{color:red}</style>text", "text"},
		{"nested markup", `<div><a href="https://x.com">link <em>text</em></a></div>`, "link text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.in))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exact", Truncate("exact", 5))

	long := strings.Repeat("a", 300)
	got := Truncate(long, 280)
	assert.Equal(t, 280, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))

	// rune-aware, not byte-aware
	got = Truncate("ééééé", 3)
	assert.Equal(t, "éé…", got)
}

func TestCanonicalLink(t *testing.T) {
	a := canonicalLink("https://Example.com/Story/")
	b := canonicalLink("https://example.com/story")
	assert.Equal(t, a, b)

	assert.Equal(t, "", canonicalLink("  "))
}
