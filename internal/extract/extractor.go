package extract

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/docbrain/docbrain/internal/pkg/apperr"
)

const fetchTimeout = 10 * time.Second

// Selector heuristics tried in order when locating the primary content
// container of a documentation page. Semantic tags first, then the class/id
// conventions common across documentation generators.
var contentSelectors = []string{
	"main",
	"article",
	"div.content",
	"div.documentation",
	"div#docs-content",
	"div.markdown-body",
	"div.api-content",
}

// Extractor fetches a documentation URL and reduces the response to plain
// text suitable for chunking.
type Extractor struct {
	client *http.Client
}

func NewExtractor(client *http.Client) *Extractor {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Extractor{client: client}
}

func (e *Extractor) Extract(ctx context.Context, rawURL string) (string, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return "", apperr.Wrap(apperr.ErrInvalidInput, "invalid URL format, must start with http:// or https://")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrInvalidInput, "invalid URL: %v", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Connection", "keep-alive")

	resp, err := e.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", apperr.Wrap(apperr.ErrFetch, "request timed out, the server might be slow or down")
		}
		return "", apperr.Wrap(apperr.ErrFetch, "error accessing documentation: %v", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return "", apperr.Wrap(apperr.ErrFetch, "access denied by the website, try visiting the documentation directly: %s", rawURL)
	case resp.StatusCode == http.StatusNotFound:
		return "", apperr.Wrap(apperr.ErrFetch, "documentation page not found: %s", rawURL)
	case resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices:
		return "", apperr.Wrap(apperr.ErrFetch, "error accessing documentation: unexpected status %s", resp.Status)
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	logutil.GetLogger(ctx).Debug("fetched documentation",
		zap.String("url", rawURL),
		zap.String("content_type", contentType),
	)

	switch {
	case strings.Contains(contentType, "application/json"):
		// API docs delivered as structured payloads pass through unparsed.
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", apperr.Wrap(apperr.ErrFetch, "error reading response body: %v", err)
		}
		return string(body), nil
	case strings.Contains(contentType, "text/html"):
		text, err := e.extractHTML(resp.Body, contentType)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(text) == "" {
			return "", apperr.Wrap(apperr.ErrExtraction, "no content could be extracted from the URL")
		}
		return text, nil
	case strings.Contains(contentType, "text/markdown") || strings.Contains(contentType, "text/plain"):
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return "", apperr.Wrap(apperr.ErrFetch, "error reading response body: %v", err)
		}
		text := flattenMarkdown(body)
		if strings.TrimSpace(text) == "" {
			return "", apperr.Wrap(apperr.ErrExtraction, "no content could be extracted from the URL")
		}
		return text, nil
	default:
		return "", apperr.Wrap(apperr.ErrUnsupportedContent, "unsupported content type: %s", contentType)
	}
}

func (e *Extractor) extractHTML(r io.Reader, contentType string) (string, error) {
	decoded, err := charset.NewReader(r, contentType)
	if err != nil {
		decoded = r
	}
	doc, err := goquery.NewDocumentFromReader(decoded)
	if err != nil {
		return "", apperr.Wrap(apperr.ErrExtraction, "error parsing HTML: %v", err)
	}

	content := doc.Selection
	found := false
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			content = sel
			found = true
			break
		}
	}
	if !found {
		if body := doc.Find("body").First(); body.Length() > 0 {
			content = body
		}
	}

	content.Find("script, style, nav, footer").Remove()
	return visibleText(content), nil
}

// visibleText renders the selection's text nodes in document order, one
// trimmed fragment per line, blank fragments dropped.
func visibleText(sel *goquery.Selection) string {
	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				lines = append(lines, text)
			}
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	for _, node := range sel.Nodes {
		walk(node)
	}
	return strings.Join(lines, "\n")
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded)
}
