package scrapers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/finsent/newsradar/pkg/logger"
	"github.com/finsent/newsradar/pkg/models"
)

const zawyaSourceName = "zawya.com"

// browser-like UA; the site serves a stripped page to unknown agents
const scraperUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

// ZawyaScraper crawls the Zawya business section: the landing page for
// teaser links, then individual article pages for content.
type ZawyaScraper struct {
	client  *http.Client
	baseURL string
}

// NewZawyaScraper wires an HTTP client; baseURL points at the business
// section landing page.
func NewZawyaScraper(client *http.Client, baseURL string) *ZawyaScraper {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &ZawyaScraper{client: client, baseURL: baseURL}
}

// Name identifies the source on persisted links.
func (z *ZawyaScraper) Name() string {
	return zawyaSourceName
}

// ListURLs scrapes the landing page for teaser article links.
func (z *ZawyaScraper) ListURLs(ctx context.Context) ([]string, error) {
	doc, err := z.fetchDocument(ctx, z.baseURL)
	if err != nil {
		return nil, fmt.Errorf("zawya landing page: %w", err)
	}

	base, err := url.Parse(z.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	seen := map[string]struct{}{}
	urls := make([]string, 0)

	doc.Find("div.teaser a[href]").Each(func(i int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		absolute := base.ResolveReference(ref).String()

		if _, ok := seen[absolute]; ok {
			return
		}
		seen[absolute] = struct{}{}
		urls = append(urls, absolute)
	})

	logger.Debug("zawya teaser links collected",
		zap.Int("count", len(urls)),
	)

	return urls, nil
}

// Fetch downloads one article page and extracts title, author, date and
// body text. A page without an article body yields nil, nil.
func (z *ZawyaScraper) Fetch(ctx context.Context, articleURL string) (*models.ArticleData, error) {
	doc, err := z.fetchDocument(ctx, articleURL)
	if err != nil {
		return nil, fmt.Errorf("zawya article %s: %w", articleURL, err)
	}

	paragraphs := make([]string, 0)
	doc.Find("div.article-body p").Each(func(i int, p *goquery.Selection) {
		if text := strings.TrimSpace(p.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	if len(paragraphs) == 0 {
		// not an article page (video, gallery, redirect)
		return nil, nil
	}
	rawText := strings.Join(paragraphs, "\n")

	title := strings.TrimSpace(doc.Find("h1.article-title").First().Text())
	author := strings.TrimSpace(doc.Find("span.author-name-text").First().Text())
	date := strings.TrimSpace(doc.Find("div.article-date span").First().Text())

	return &models.ArticleData{
		URL:             articleURL,
		Title:           title,
		Author:          author,
		PublicationDate: date,
		RawText:         rawText,
		CleanedText:     CleanText(rawText),
	}, nil
}

func (z *ZawyaScraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", scraperUserAgent)

	resp, err := z.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}
