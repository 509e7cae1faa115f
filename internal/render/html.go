package render

import (
	"bytes"
	"fmt"
	stdhtml "html"

	"github.com/yuin/goldmark"

	"marketbrief/internal/domain"
)

// pageShell wraps the converted body in a minimal styled page so the
// document reads well in a browser or an email client.
const pageShell = `<!DOCTYPE html>
<html><head><meta charset="utf-8">
<title>%s</title>
<style>
  body { font-family: -apple-system, Segoe UI, Roboto, Helvetica, Arial, sans-serif; max-width: 800px; margin: 2rem auto; padding: 0 1rem; }
  h1, h2 { margin-top: 1.6rem; }
  a { text-decoration: none; }
  code { background: #f3f3f3; padding: 2px 4px; border-radius: 4px; }
  .meta { color: #666; font-size: 0.9rem; }
</style></head><body>
%s</body></html>
`

// HTML renders the newsletter as a standalone HTML page by converting
// the Markdown rendition.
type HTML struct {
	md       Markdown
	markdown goldmark.Markdown
}

func NewHTML() *HTML {
	return &HTML{markdown: goldmark.New()}
}

func (h *HTML) Render(n domain.Newsletter) (string, error) {
	doc, err := h.md.Render(n)
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	if err := h.markdown.Convert([]byte(doc), &body); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}

	return fmt.Sprintf(pageShell, stdhtml.EscapeString(n.Title), body.String()), nil
}
