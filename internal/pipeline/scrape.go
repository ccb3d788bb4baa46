package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/finsent/newsradar/pkg/logger"
)

// scrapeStats aggregates the scrape stage outcome. Counts are partial
// when the stage was cancelled mid-way.
type scrapeStats struct {
	NewLinksFound   int
	ArticlesScraped int
}

// runScrapeStage discovers article URLs across all scrapers, then fetches
// content for links that have no article yet. Each URL is independent:
// duplicate inserts are no-ops, fetch failures skip the item, and a link
// whose source has no registered scraper is left untouched for a later
// schedule. The context is checked before every fetch so cancellation
// latency is bounded by one in-flight request.
func runScrapeStage(ctx context.Context, repo Repository, scrapers []Scraper, tracker *Tracker) (scrapeStats, error) {
	stats := scrapeStats{}

	// Phase 1: collect candidate URLs.
	tracker.SetPhase(statusScrapingLinks, len(scrapers))
	tracker.SetTask("Fetching article lists from sources.")

	for i, scraper := range scrapers {
		if ctx.Err() != nil {
			return stats, nil
		}

		urls, err := scraper.ListURLs(ctx)
		if err != nil {
			logger.Warn("scraper failed to list urls",
				zap.String("source", scraper.Name()),
				zap.Error(err),
			)
			tracker.SetProgress(i + 1)
			continue
		}
		if len(urls) == 0 {
			logger.Info("no links found", zap.String("source", scraper.Name()))
			tracker.SetProgress(i + 1)
			continue
		}

		for _, u := range urls {
			link, err := repo.AddLink(ctx, u, scraper.Name())
			if err != nil {
				return stats, fmt.Errorf("add link %s: %w", u, err)
			}
			if link != nil {
				stats.NewLinksFound++
			}
		}
		tracker.SetProgress(i + 1)
	}

	logger.Info("finished scraping links",
		zap.Int("new_links", stats.NewLinksFound),
	)

	// Phase 2: fetch article content for unscraped links.
	links, err := repo.UnscrapedLinks(ctx)
	if err != nil {
		return stats, fmt.Errorf("load unscraped links: %w", err)
	}

	tracker.SetPhase(statusScrapingArticles, len(links))
	if len(links) == 0 {
		tracker.SetTask("No new articles to scrape.")
		return stats, nil
	}

	byName := make(map[string]Scraper, len(scrapers))
	for _, s := range scrapers {
		byName[s.Name()] = s
	}

	for i, link := range links {
		if ctx.Err() != nil {
			return stats, nil
		}

		scraper, ok := byName[link.Source]
		if !ok {
			// source not in this run's selection; a later run may cover it
			tracker.SetProgress(i + 1)
			continue
		}

		data, err := scraper.Fetch(ctx, link.URL)
		if err != nil {
			logger.Warn("article fetch failed",
				zap.String("url", link.URL),
				zap.Error(err),
			)
			tracker.SetProgress(i + 1)
			continue
		}
		if data == nil {
			tracker.SetProgress(i + 1)
			continue
		}

		article, err := repo.AddArticle(ctx, link.ID, data)
		if err != nil {
			return stats, fmt.Errorf("add article %s: %w", link.URL, err)
		}
		if article != nil {
			stats.ArticlesScraped++
			tracker.SetTask(fmt.Sprintf("Scraped: %s", data.Title))
		}
		tracker.SetProgress(i + 1)
	}

	logger.Info("finished scraping articles",
		zap.Int("articles_scraped", stats.ArticlesScraped),
	)

	return stats, nil
}
