package crawler

import (
	"context"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/arturoeanton/go-chaindocs/internal/domain"
	"github.com/arturoeanton/go-chaindocs/internal/port"
)

// Crawler fetches documentation pages breadth-first from the start URLs,
// following only links under those URL prefixes, and stores them as
// title/url/body records.
type Crawler struct {
	store      port.DocumentStore
	httpClient *http.Client
	startURLs  []string
	maxPages   int
}

// New creates a crawler bounded to maxPages fetched pages.
func New(store port.DocumentStore, startURLs []string, maxPages int) *Crawler {
	if maxPages <= 0 {
		maxPages = 200
	}
	return &Crawler{
		store:      store,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		startURLs:  startURLs,
		maxPages:   maxPages,
	}
}

// Run crawls until the queue is empty or the page cap is reached. A failed
// page is logged and skipped; the crawl continues. Returns the number of
// pages stored.
func (c *Crawler) Run(ctx context.Context) (int, error) {
	queue := append([]string(nil), c.startURLs...)
	visited := make(map[string]bool, len(queue))
	stored := 0

	for len(queue) > 0 && len(visited) < c.maxPages {
		if err := ctx.Err(); err != nil {
			return stored, err
		}

		pageURL := queue[0]
		queue = queue[1:]
		if visited[pageURL] {
			continue
		}
		visited[pageURL] = true

		page, links, err := c.fetch(ctx, pageURL)
		if err != nil {
			slog.Warn("crawl page failed", "url", pageURL, "error", err)
			continue
		}
		if page == nil {
			continue // not an HTML page
		}

		if err := c.store.SavePage(ctx, page); err != nil {
			slog.Error("store page failed", "url", pageURL, "error", err)
			continue
		}
		stored++
		slog.Info("crawled page", "url", page.URL, "title", page.Title, "links", len(links))

		for _, link := range links {
			if !visited[link] && c.allowed(link) {
				queue = append(queue, link)
			}
		}
	}

	slog.Info("crawl finished", "visited", len(visited), "stored", stored)
	return stored, nil
}

// fetch downloads one page and extracts its title, text body and outgoing
// links. Non-HTML responses return a nil page.
func (c *Crawler) fetch(ctx context.Context, pageURL string) (*domain.Document, []string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("status %s", resp.Status)
	}
	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "application/xhtml+xml") {
		return nil, nil, nil
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, nil, err
	}
	content := string(raw)

	doc := &domain.Document{
		Title: extractTitle(content),
		URL:   canonicalURL(content, pageURL),
		Body:  stripHTML(content),
	}
	return doc, extractLinks(content, pageURL), nil
}

// allowed reports whether a link stays under one of the start URL prefixes.
func (c *Crawler) allowed(link string) bool {
	for _, prefix := range c.startURLs {
		if strings.HasPrefix(link, prefix) {
			return true
		}
	}
	return false
}

// Pre-compiled regular expressions for HTML extraction.
var (
	titleTag     = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	canonicalTag = regexp.MustCompile(`(?is)<link[^>]+rel=["']canonical["'][^>]*href=["']([^"']+)["']`)
	hrefAttr     = regexp.MustCompile(`(?is)<a[^>]+href=["']([^"'#]+)["']`)
	scriptTag    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag  = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	navTag       = regexp.MustCompile(`(?is)<nav[^>]*>.*?</nav>`)
	headTag      = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlComments = regexp.MustCompile(`(?s)<!--.*?-->`)
	blockClose   = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article)>|<(br|hr)\s*/?>`)
	allTags      = regexp.MustCompile(`<[^>]+>`)
	multiSpaces  = regexp.MustCompile(`[ \t]+`)
	multiLines   = regexp.MustCompile(`\n{3,}`)
)

// extractTitle pulls the <title> text, decoded and trimmed.
func extractTitle(content string) string {
	matches := titleTag.FindStringSubmatch(content)
	if len(matches) > 1 {
		return strings.TrimSpace(html.UnescapeString(matches[1]))
	}
	return ""
}

// canonicalURL prefers the page's canonical link over the fetched URL.
func canonicalURL(content, fetched string) string {
	matches := canonicalTag.FindStringSubmatch(content)
	if len(matches) > 1 {
		if canonical := strings.TrimSpace(matches[1]); canonical != "" {
			return canonical
		}
	}
	return fetched
}

// stripHTML removes navigation, scripts and markup and collapses whitespace,
// leaving the readable page text.
func stripHTML(content string) string {
	content = headTag.ReplaceAllString(content, "")
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = navTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")
	content = blockClose.ReplaceAllString(content, "\n")
	content = allTags.ReplaceAllString(content, " ")
	content = html.UnescapeString(content)
	content = multiSpaces.ReplaceAllString(content, " ")

	lines := strings.Split(content, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	content = strings.Join(lines, "\n")
	content = multiLines.ReplaceAllString(content, "\n\n")
	return strings.TrimSpace(content)
}

// extractLinks resolves every anchor href against the page URL, dropping
// mailto links and fragments.
func extractLinks(content, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	var links []string
	for _, m := range hrefAttr.FindAllStringSubmatch(content, -1) {
		href := strings.TrimSpace(m[1])
		if href == "" || strings.HasPrefix(href, "mailto:") {
			continue
		}
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		resolved := base.ResolveReference(ref)
		resolved.Fragment = ""
		links = append(links, resolved.String())
	}
	return links
}
