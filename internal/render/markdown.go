// Package render produces the newsletter document. Renderers are pure
// functions of the Newsletter model and do no I/O.
package render

import (
	"fmt"
	"strings"

	"marketbrief/internal/domain"
)

const (
	headerTimeFormat = "Monday, 02 January 2006 15:04 MST"
	itemTimeFormat   = "2006-01-02 15:04"
)

// mdEscaper neutralizes characters that would break link or emphasis
// syntax in titles and summaries. The backslash must come first.
var mdEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`(`, `\(`,
	`)`, `\)`,
	`#`, `\#`,
)

var mdUnescaper = strings.NewReplacer(
	`\\`, `\`,
	"\\`", "`",
	`\*`, `*`,
	`\_`, `_`,
	`\[`, `[`,
	`\]`, `]`,
	`\(`, `(`,
	`\)`, `)`,
	`\#`, `#`,
)

// urlEscaper keeps link destinations inside the () of inline links.
var urlEscaper = strings.NewReplacer(
	`(`, `%28`,
	`)`, `%29`,
	` `, `%20`,
)

func escape(s string) string { return mdEscaper.Replace(s) }

// unescape reverses escape; rendering then unescaping a summary yields
// the original text byte-for-byte.
func unescape(s string) string { return mdUnescaper.Replace(s) }

// Markdown renders the newsletter as a Markdown document.
type Markdown struct{}

func (Markdown) Render(n domain.Newsletter) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", escape(n.Title))
	fmt.Fprintf(&b, "_Generated %s_\n", n.GeneratedAt.Format(headerTimeFormat))

	if len(n.TopMovers) > 0 {
		b.WriteString("\n## Top movers\n")
		for _, it := range n.TopMovers {
			fmt.Fprintf(&b, "\n**%s**\n", escape(it.Title))
			for _, bullet := range it.Bullets {
				fmt.Fprintf(&b, "- %s\n", escape(bullet))
			}
			fmt.Fprintf(&b, "[Read](%s) — _score %.1f_\n", urlEscaper.Replace(it.Link), it.Score)
		}
	}

	for _, section := range n.Sections {
		fmt.Fprintf(&b, "\n## %s\n\n", escape(section.Category))
		for _, it := range section.Items {
			b.WriteString(formatItem(it))
		}
	}

	return b.String(), nil
}

func formatItem(it domain.Item) string {
	line := fmt.Sprintf("- [%s](%s)", escape(it.Title), urlEscaper.Replace(it.Link))
	if it.Summary != "" {
		line += " — " + escape(it.Summary)
	}
	return fmt.Sprintf("%s (%s)\n", line, it.PublishedAt.Format(itemTimeFormat))
}
