// Package extract turns operator-supplied documents (web pages, PDFs)
// into bounded plaintext suitable for prompt grounding. Both paths are
// best-effort heuristics: they degrade on malformed input instead of
// failing, and fail only when the yield is too sparse to be useful.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/botize/botize/internal/apperr"
)

const (
	// WebsiteContentCap bounds extracted page text.
	WebsiteContentCap = 15000

	minWebsiteContent = 50

	// Truncation marker appended whenever a cap is applied.
	ellipsis = "..."
)

var (
	scriptRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagRe    = regexp.MustCompile(`<[^>]+>`)
	spaceRe  = regexp.MustCompile(`\s+`)
	titleRe  = regexp.MustCompile(`(?i)<title[^>]*>([^<]+)</title>`)
)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// HTML extracts readable text from markup: script/style blocks and tags
// are stripped, the six common named entities decoded, whitespace runs
// collapsed, and the result capped at WebsiteContentCap characters.
func HTML(raw string) (string, error) {
	text := scriptRe.ReplaceAllString(raw, "")
	text = styleRe.ReplaceAllString(text, "")
	text = tagRe.ReplaceAllString(text, " ")
	text = entityReplacer.Replace(text)
	text = strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))

	text = truncate(text, WebsiteContentCap)

	if len(text) < minWebsiteContent {
		return "", apperr.New(apperr.KindExtraction, "could not extract meaningful content from the website")
	}
	return text, nil
}

// truncate caps s at limit characters plus the marker. Counting runes
// rather than bytes keeps the cut on a character boundary, so multi-byte
// content stays valid UTF-8.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + ellipsis
}

// Title returns the page's <title> text, or "" when there is none.
func Title(raw string) string {
	m := titleRe.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
