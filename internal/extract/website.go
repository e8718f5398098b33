package extract

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/botize/botize/internal/apperr"
)

const (
	fetchTimeout = 10 * time.Second
	userAgent    = "Mozilla/5.0 (compatible; BotizBot/1.0)"

	// maxFetchBytes guards against pathological responses; well above the
	// content cap so truncation still happens on extracted text.
	maxFetchBytes = 5 * 1024 * 1024
)

// WebsiteContent is the result of fetching and extracting one page.
type WebsiteContent struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// WebsiteFetcher pulls a page over HTTP and extracts its text.
type WebsiteFetcher struct {
	client *http.Client
}

func NewWebsiteFetcher() *WebsiteFetcher {
	return &WebsiteFetcher{client: &http.Client{Timeout: fetchTimeout}}
}

// NewWebsiteFetcherWithClient is used by tests to point at a fake backend.
func NewWebsiteFetcherWithClient(client *http.Client) *WebsiteFetcher {
	return &WebsiteFetcher{client: client}
}

// Fetch validates rawURL, retrieves the page and runs HTML extraction.
// The source name is the page title, falling back to the host.
func (f *WebsiteFetcher) Fetch(ctx context.Context, rawURL string) (*WebsiteContent, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, apperr.New(apperr.KindValidation, "invalid URL format")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, "invalid URL format", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNetwork, "failed to fetch website content", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperr.New(apperr.KindNetwork,
			fmt.Sprintf("failed to fetch website: HTTP %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return nil, apperr.Wrap(apperr.KindNetwork, "failed to fetch website content", err)
	}

	html := string(body)
	content, err := HTML(html)
	if err != nil {
		return nil, err
	}

	name := Title(html)
	if name == "" {
		name = parsed.Host
	}

	return &WebsiteContent{Name: name, URL: rawURL, Content: content}, nil
}
