package extract

import (
	"regexp"
	"strings"

	"github.com/botize/botize/internal/apperr"
)

const (
	// PDFContentCap bounds extracted PDF text.
	PDFContentCap = 30000

	// MaxPDFBytes is the hard input cap checked before any extraction work.
	MaxPDFBytes = 10 * 1024 * 1024

	minPDFContent = 20

	// Below this combined yield the stream/text-operator pass is considered
	// a failure and the raw byte scan kicks in.
	fallbackThreshold = 100

	minRunLength = 10
)

var (
	streamRe  = regexp.MustCompile(`(?s)stream\r?\n(.*?)\r?\nendstream`)
	textOpRe  = regexp.MustCompile(`\(([^)]+)\)\s*Tj`)
	pdfNoise  = regexp.MustCompile(`(?i)^(obj|endobj|stream|endstream|xref|trailer|startxref|\d+\s+\d+\s+R|/\w+)$`)
	onlyDigit = regexp.MustCompile(`^[\d\s.]+$`)
)

// PDF extracts text from raw PDF bytes without a real parser. It decodes
// the buffer one byte per character, harvests stream bodies and
// parenthesized text-show operator arguments, and when both yield too
// little falls back to scanning for printable ASCII runs. Returns an
// extraction error for image-only or encrypted documents.
func PDF(data []byte) (string, error) {
	if len(data) > MaxPDFBytes {
		return "", apperr.New(apperr.KindValidation, "PDF file must be less than 10MB")
	}

	pdfString := latin1(data)

	var b strings.Builder
	for _, m := range streamRe.FindAllStringSubmatch(pdfString, -1) {
		readable := strings.TrimSpace(printableOnly(m[1]))
		if len(readable) > minRunLength {
			b.WriteString(readable)
			b.WriteByte(' ')
		}
	}
	for _, m := range textOpRe.FindAllStringSubmatch(pdfString, -1) {
		b.WriteString(m[1])
		b.WriteByte(' ')
	}

	text := strings.TrimSpace(spaceRe.ReplaceAllString(b.String(), " "))

	if len(text) < fallbackThreshold {
		text = scanPrintableRuns(data)
	}

	text = truncate(text, PDFContentCap)

	if len(text) < minPDFContent {
		return "", apperr.New(apperr.KindExtraction,
			"could not extract text from PDF: the document might be scanned/image-based or encrypted")
	}
	return text, nil
}

// latin1 decodes bytes one-to-one so stream markers survive regardless of
// the surrounding binary content.
func latin1(data []byte) string {
	runes := make([]rune, len(data))
	for i, c := range data {
		runes[i] = rune(c)
	}
	return string(runes)
}

// printableOnly blanks everything outside printable ASCII, keeping line
// breaks so run boundaries survive.
func printableOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 0x20 && r <= 0x7e || r == '\r' || r == '\n' {
			return r
		}
		return ' '
	}, s)
}

// scanPrintableRuns is the last-resort heuristic: collect maximal runs of
// printable ASCII longer than minRunLength bytes, drop runs that are PDF
// structure rather than content, and join the survivors. Pure function
// over the byte buffer, no shared state.
func scanPrintableRuns(data []byte) string {
	var runs []string
	var current strings.Builder

	flush := func() {
		if current.Len() > minRunLength {
			runs = append(runs, current.String())
		}
		current.Reset()
	}

	for _, c := range data {
		if c >= 0x20 && c <= 0x7e {
			current.WriteByte(c)
			continue
		}
		flush()
	}
	flush()

	kept := runs[:0]
	for _, r := range runs {
		trimmed := strings.TrimSpace(r)
		if pdfNoise.MatchString(trimmed) || onlyDigit.MatchString(r) {
			continue
		}
		kept = append(kept, r)
	}

	return strings.TrimSpace(spaceRe.ReplaceAllString(strings.Join(kept, " "), " "))
}
