package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/deusflow/digest/internal/ratelimit"
	"github.com/deusflow/digest/internal/textutil"
)

// ErrNoContent is returned when a page has no extractable article text.
var ErrNoContent = errors.New("scraper: no article content")

const userAgent = "Mozilla/5.0 (compatible; digest-bot/1.0)"

// Extraction is the parsed article and its extractive summary.
type Extraction struct {
	URL     string
	Title   string
	Content string
	Summary string
}

// Client fetches article pages and extracts their text.
type Client struct {
	http      *http.Client
	timeout   time.Duration
	pacer     *ratelimit.HostPacer
	splitter  textutil.Splitter
	sentences int
}

// New returns a Client. Every Extract call is bounded by timeout.
func New(timeout time.Duration, pacer *ratelimit.HostPacer, splitter textutil.Splitter) *Client {
	if splitter == nil {
		splitter = textutil.NewSplitter()
	}
	return &Client{
		http:      &http.Client{},
		timeout:   timeout,
		pacer:     pacer,
		splitter:  splitter,
		sentences: DefaultSummarySentences,
	}
}

// Extract downloads url, extracts the article body and summarizes it.
func (c *Client) Extract(ctx context.Context, url string) (*Extraction, error) {
	if err := c.pacer.Wait(ctx, url); err != nil {
		return nil, fmt.Errorf("pacing %s: %w", url, err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error loading page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}

	content := extractContentBySource(doc, url)
	if content == "" {
		return nil, ErrNoContent
	}

	title := extractTitle(doc)
	return &Extraction{
		URL:     url,
		Title:   title,
		Content: content,
		Summary: Summarize(content, title, c.splitter, c.sentences),
	}, nil
}

// siteSelectors are tried before the generic chain for known hosts.
var siteSelectors = map[string][]string{
	"techcrunch.com": {".article-content p", ".wp-block-post-content p"},
	"wired.com":      {".body__inner-container p", "article p"},
	"bbc.co.uk":      {"[data-component='text-block'] p", "article p"},
	"bbc.com":        {"[data-component='text-block'] p", "article p"},
	"variety.com":    {".vy-cx-page-content p", ".c-content p"},
	"nytimes.com":    {"section[name='articleBody'] p", "article p"},
}

var genericSelectors = []string{
	"article p",
	".article p",
	".content p",
	".post-content p",
	".entry-content p",
	"main p",
	"#content p",
	".text p",
	"p",
}

// extractContentBySource picks selectors by site and falls back to the generic chain.
func extractContentBySource(doc *goquery.Document, url string) string {
	for host, selectors := range siteSelectors {
		if strings.Contains(url, host) {
			if content := collectParagraphs(doc, selectors, 10, 1); content != "" {
				return cleanContent(content)
			}
			break
		}
	}
	return cleanContent(collectParagraphs(doc, genericSelectors, 20, 3))
}

// collectParagraphs walks selectors in order and stops at the first one that
// yields at least enough paragraphs longer than minLen.
func collectParagraphs(doc *goquery.Document, selectors []string, minLen, enough int) string {
	var paragraphs []string
	for _, selector := range selectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			text := strings.TrimSpace(s.Text())
			if len(text) > minLen {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) >= enough {
			break
		}
	}
	return strings.Join(paragraphs, "\n\n")
}

// extractTitle gets article title
func extractTitle(doc *goquery.Document) string {
	selectors := []string{
		"h1",
		"meta[property='og:title']",
		"title",
		".article-title",
		".headline",
	}

	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		title := strings.TrimSpace(sel.Text())
		if title == "" {
			title = strings.TrimSpace(sel.AttrOr("content", ""))
		}
		if title != "" {
			return title
		}
	}
	return ""
}

var junkIndicators = []string{
	"cookie", "gdpr", "advertisement", "subscribe", "sign up for",
	"newsletter", "read more", "click here", "follow us", "share this",
	"all rights reserved",
}

// cleanContent drops boilerplate lines and normalizes paragraph spacing.
func cleanContent(content string) string {
	if content == "" {
		return ""
	}

	var kept []string
	for _, paragraph := range strings.Split(content, "\n\n") {
		paragraph = textutil.CollapseWhitespace(paragraph)
		if len(paragraph) < 30 {
			continue
		}
		lower := strings.ToLower(paragraph)
		junk := false
		for _, indicator := range junkIndicators {
			if strings.Contains(lower, indicator) {
				junk = true
				break
			}
		}
		if !junk {
			kept = append(kept, paragraph)
		}
	}
	return strings.Join(kept, "\n\n")
}
