package digest

import (
	"regexp"
	"strings"
)

var wireDomains = []string{"reuters.com", "apnews.com", "bloomberg.com", "wsj.com", "ft.com"}

var mainstreamDomains = []string{"cnbc.com", "bbc.co.uk", "marketwatch.com", "investing.com", "yahoo.com"}

var percentRE = regexp.MustCompile(`\b\d{1,2}\.?\d?%`)

// SourceClass buckets a link into a rough reliability tier used for
// source weighting: "wire", "mainstream" or "blog".
func SourceClass(link string) string {
	for _, d := range wireDomains {
		if strings.Contains(link, d) {
			return "wire"
		}
	}
	for _, d := range mainstreamDomains {
		if strings.Contains(link, d) {
			return "mainstream"
		}
	}
	return "blog"
}

// score rates an item: source-class weight, plus one point per keyword
// hit, plus a small boost when a percent figure appears in the text.
func (d *Digest) score(title, summary, link string) float64 {
	text := strings.ToLower(title + " " + summary)

	s := 1.0
	if w, ok := d.weights.Sources[SourceClass(link)]; ok {
		s = w
	}

	for _, kws := range d.weights.Keywords {
		for _, kw := range kws {
			if kw != "" && strings.Contains(text, strings.ToLower(kw)) {
				s += 1.0
			}
		}
	}

	if percentRE.MatchString(text) {
		s += 0.5
	}

	return s
}

// bucketOrder fixes the keyword buckets checked when an item has no
// configured category, and the display name each maps to.
var bucketOrder = []struct {
	key     string
	display string
}{
	{"macro", "Macro / Policy"},
	{"policy", "Macro / Policy"},
	{"earnings", "Earnings & Guidance"},
	{"analyst", "Analysts & Ratings"},
	{"mna", "M&A / Activism"},
	{"energy", "Energy / Commodities"},
	{"crypto", "Crypto"},
}

const defaultCategory = "Other"

// bucket assigns a category from the keyword buckets.
func (d *Digest) bucket(text string) string {
	low := strings.ToLower(text)
	for _, b := range bucketOrder {
		for _, kw := range d.weights.Keywords[b.key] {
			if kw != "" && strings.Contains(low, strings.ToLower(kw)) {
				return b.display
			}
		}
	}
	return defaultCategory
}
