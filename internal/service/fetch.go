package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/net/html"
)

const fetchUserAgent = "PlatefileBot/1.0 (+https://platefile.app)"

// PageFetcher retrieves recipe pages over HTTP. Fetches are time-bounded;
// callers treat any error as the cue to fall back, never as fatal.
type PageFetcher struct {
	client *resty.Client
}

// NewPageFetcher creates a fetcher with the given per-request timeout.
func NewPageFetcher(timeout time.Duration) *PageFetcher {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", fetchUserAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5))

	return &PageFetcher{client: client}
}

// Fetch performs a GET against url and returns the body with markup
// stripped. Non-2xx statuses are errors.
func (f *PageFetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("fetch %s returned status %d", url, resp.StatusCode())
	}

	return StripMarkup(resp.String()), nil
}

// StripMarkup removes HTML tags from a fetched body, keeping the text of
// visible nodes. Non-HTML input passes through mostly unchanged since the
// parser treats it as one text node.
func StripMarkup(body string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return body
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(b.String()), " ")
}
