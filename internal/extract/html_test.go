package extract

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/botize/botize/internal/apperr"
)

func TestHTML_StripsScriptStyleAndTags(t *testing.T) {
	raw := `<html><head>
		<title>Acme Bakery</title>
		<style>body { color: red; }</style>
		<script type="text/javascript">var tracking = "do not leak this";</script>
	</head><body>
		<h1>Fresh bread daily</h1>
		<p>We bake sourdough &amp; rye every morning, open 7am &#39;til late.</p>
	</body></html>`

	text, err := HTML(raw)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if strings.Contains(text, "tracking") || strings.Contains(text, "color: red") {
		t.Fatalf("script/style leaked into output: %q", text)
	}
	if strings.Contains(text, "<") || strings.Contains(text, ">") {
		t.Fatalf("tags leaked into output: %q", text)
	}
	if !strings.Contains(text, "sourdough & rye") {
		t.Fatalf("entity not decoded: %q", text)
	}
	if !strings.Contains(text, "7am 'til late") {
		t.Fatalf("numeric entity not decoded: %q", text)
	}
}

func TestHTML_CollapsesWhitespace(t *testing.T) {
	text, err := HTML("<p>one</p>\n\n\t  <p>two</p>   <p>three four five six seven eight nine ten eleven twelve</p>")
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if strings.Contains(text, "  ") {
		t.Fatalf("whitespace not collapsed: %q", text)
	}
	if !strings.HasPrefix(text, "one two three") {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestHTML_CapsLongContent(t *testing.T) {
	raw := "<title>Docs</title><p>" + strings.Repeat("a", 20000) + "</p>"

	text, err := HTML(raw)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(text) != WebsiteContentCap+len("...") {
		t.Fatalf("expected capped length %d, got %d", WebsiteContentCap+3, len(text))
	}
	if !strings.HasSuffix(text, "...") {
		t.Fatalf("missing truncation marker")
	}
}

func TestHTML_CapKeepsMultiByteRunesIntact(t *testing.T) {
	raw := "<p>" + strings.Repeat("ü", WebsiteContentCap+500) + "</p>"

	text, err := HTML(raw)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if !utf8.ValidString(text) {
		t.Fatalf("truncation split a multi-byte rune")
	}
	if got := utf8.RuneCountInString(text); got != WebsiteContentCap+len("...") {
		t.Fatalf("expected %d characters, got %d", WebsiteContentCap+3, got)
	}
	if !strings.HasSuffix(text, "...") {
		t.Fatalf("missing truncation marker")
	}
}

func TestHTML_SparseContentFails(t *testing.T) {
	_, err := HTML("<html><body><script>everything lives in js</script></body></html>")
	if err == nil {
		t.Fatalf("expected error for sparse content")
	}
	if apperr.KindOf(err) != apperr.KindExtraction {
		t.Fatalf("expected extraction kind, got %v", apperr.KindOf(err))
	}
}

func TestTitle(t *testing.T) {
	if got := Title(`<TITLE class="x">  Acme Bakery </TITLE>`); got != "Acme Bakery" {
		t.Fatalf("unexpected title: %q", got)
	}
	if got := Title("<body>no title here</body>"); got != "" {
		t.Fatalf("expected empty title, got %q", got)
	}
}
