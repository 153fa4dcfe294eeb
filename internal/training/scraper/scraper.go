// Package scraper fetches a web page and extracts its readable text.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	// minContentLength rejects pages that are effectively empty after
	// boilerplate removal.
	minContentLength = 100
)

// strippedSelectors are removed before text extraction: scripts, styles and
// the navigation chrome that would pollute the knowledge base.
const strippedSelectors = "script, style, nav, footer, header"

// Page is the cleaned content of one scraped URL.
type Page struct {
	URL   string
	Title string
	Text  string
}

// Scraper fetches and cleans web pages.
type Scraper struct {
	client *http.Client
}

// New creates a scraper with a 30 second request timeout.
func New() *Scraper {
	return &Scraper{client: &http.Client{Timeout: 30 * time.Second}}
}

// Scrape fetches the URL and returns its cleaned text content. Pages with
// less than minContentLength characters of content are rejected.
func (s *Scraper) Scrape(ctx context.Context, url string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch url: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	doc.Find(strippedSelectors).Remove()

	text := cleanText(doc.Find("body").Text())
	if len(text) < minContentLength {
		return nil, fmt.Errorf("not enough content extracted from url")
	}

	return &Page{URL: url, Title: title, Text: text}, nil
}

// cleanText collapses the extracted text to one trimmed, non-blank line per
// source line.
func cleanText(raw string) string {
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
