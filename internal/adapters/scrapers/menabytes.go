package scrapers

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/finsent/newsradar/pkg/models"
)

const menabytesSourceName = "menabytes.com"

// feedCacheTTL keeps one run of the scrape stage on a single feed
// snapshot: ListURLs and the subsequent Fetch calls see the same items.
const feedCacheTTL = 10 * time.Minute

// MenabytesScraper reads the MENAbytes RSS feed. Discovery and content
// both come from the feed itself, so Fetch never hits article pages.
type MenabytesScraper struct {
	parser  *gofeed.Parser
	feedURL string

	mu        sync.Mutex
	cached    *gofeed.Feed
	fetchedAt time.Time
}

// NewMenabytesScraper creates the RSS scraper for the given feed URL.
func NewMenabytesScraper(feedURL string) *MenabytesScraper {
	return &MenabytesScraper{
		parser:  gofeed.NewParser(),
		feedURL: feedURL,
	}
}

// Name identifies the source on persisted links.
func (m *MenabytesScraper) Name() string {
	return menabytesSourceName
}

// ListURLs returns the links of all items currently in the feed.
func (m *MenabytesScraper) ListURLs(ctx context.Context) ([]string, error) {
	feed, err := m.feed(ctx)
	if err != nil {
		return nil, fmt.Errorf("menabytes feed: %w", err)
	}

	urls := make([]string, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link != "" {
			urls = append(urls, item.Link)
		}
	}
	return urls, nil
}

// Fetch resolves one URL back to its feed item and normalizes its content.
// URLs that have dropped out of the feed yield nil, nil.
func (m *MenabytesScraper) Fetch(ctx context.Context, articleURL string) (*models.ArticleData, error) {
	feed, err := m.feed(ctx)
	if err != nil {
		return nil, fmt.Errorf("menabytes feed: %w", err)
	}

	for _, item := range feed.Items {
		if item.Link != articleURL {
			continue
		}

		body := item.Content
		if body == "" {
			body = item.Description
		}
		rawText := stripHTML(body)
		if rawText == "" {
			return nil, nil
		}

		author := ""
		if item.Author != nil {
			author = item.Author.Name
		}

		return &models.ArticleData{
			URL:             articleURL,
			Title:           strings.TrimSpace(item.Title),
			Author:          author,
			PublicationDate: item.Published,
			RawText:         rawText,
			CleanedText:     CleanText(rawText),
		}, nil
	}

	return nil, nil
}

func (m *MenabytesScraper) feed(ctx context.Context) (*gofeed.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cached != nil && time.Since(m.fetchedAt) < feedCacheTTL {
		return m.cached, nil
	}

	feed, err := m.parser.ParseURLWithContext(m.feedURL, ctx)
	if err != nil {
		return nil, err
	}

	m.cached = feed
	m.fetchedAt = time.Now()
	return feed, nil
}

// stripHTML flattens feed item markup to plain text, one line per
// paragraph. Joining block elements without a separator would glue the
// last word of one paragraph to the first word of the next.
func stripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}

	var paragraphs []string
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) > 0 {
		return strings.Join(paragraphs, "\n")
	}

	return strings.TrimSpace(doc.Text())
}
