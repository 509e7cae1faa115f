package digest

import "strings"

// newsMarkers are vocabulary that makes a sentence worth quoting in a
// bullet summary.
var newsMarkers = []string{
	"%", "billion", "million", "guidance", "beats", "misses", "raises",
	"cuts", "sec", "ecb", "boe", "fed", "cpi", "nfp", "merger",
	"acquisition", "downgrade", "upgrade",
}

const summarizeWindow = 1200 // runes of input considered

// Bullets extracts up to max sentences that look market-moving from
// text, falling back to the leading sentences when nothing matches.
func Bullets(text string, max int) []string {
	if runes := []rune(text); len(runes) > summarizeWindow {
		text = string(runes[:summarizeWindow])
	}

	sentences := splitSentences(text)

	var picks []string
	for _, s := range sentences {
		if len(picks) >= max {
			break
		}
		low := strings.ToLower(s)
		for _, m := range newsMarkers {
			if strings.Contains(low, m) {
				picks = append(picks, s)
				break
			}
		}
	}

	if len(picks) == 0 {
		if len(sentences) > max {
			sentences = sentences[:max]
		}
		picks = sentences
	}

	return picks
}

// splitSentences splits after [.!?] followed by whitespace, so decimals
// like "1.5%" stay intact.
func splitSentences(text string) []string {
	var out []string
	start := 0

	for i := 0; i < len(text); i++ {
		if text[i] != '.' && text[i] != '!' && text[i] != '?' {
			continue
		}
		j := i + 1
		for j < len(text) && (text[j] == ' ' || text[j] == '\t' || text[j] == '\n' || text[j] == '\r') {
			j++
		}
		if j == i+1 && j < len(text) {
			continue // no whitespace after the terminator
		}
		if s := strings.TrimSpace(text[start:j]); s != "" {
			out = append(out, s)
		}
		start = j
		i = j - 1
	}

	if start < len(text) {
		if s := strings.TrimSpace(text[start:]); s != "" {
			out = append(out, s)
		}
	}

	return out
}
