package scrapers

import (
	"context"

	"github.com/finsent/newsradar/pkg/models"
)

// Scraper discovers article URLs on a news source and fetches their
// content. Implementations never panic past this boundary: ListURLs may
// return an empty slice on failure, Fetch returns nil, nil when a page
// cannot be parsed into an article.
type Scraper interface {
	// Name identifies the source; it is persisted on every Link so a later
	// run can route the link back to the scraper that found it.
	Name() string

	// ListURLs returns candidate article URLs from the source landing page
	// or feed.
	ListURLs(ctx context.Context) ([]string, error)

	// Fetch downloads and normalizes one article. A nil result with nil
	// error means the page did not yield an article and is skipped.
	Fetch(ctx context.Context, url string) (*models.ArticleData, error)
}

// Registry holds the configured scrapers by name.
type Registry struct {
	scrapers []Scraper
	byName   map[string]Scraper
}

// NewRegistry creates a registry over the given scrapers.
func NewRegistry(scrapers ...Scraper) *Registry {
	byName := make(map[string]Scraper, len(scrapers))
	for _, s := range scrapers {
		byName[s.Name()] = s
	}
	return &Registry{scrapers: scrapers, byName: byName}
}

// All returns every registered scraper.
func (r *Registry) All() []Scraper {
	return r.scrapers
}

// Names returns the registered scraper names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.scrapers))
	for _, s := range r.scrapers {
		names = append(names, s.Name())
	}
	return names
}

// Select returns the scrapers matching the requested names; an empty
// selection means all. Unknown names are ignored.
func (r *Registry) Select(names []string) []Scraper {
	if len(names) == 0 {
		return r.All()
	}

	selected := make([]Scraper, 0, len(names))
	for _, name := range names {
		if s, ok := r.byName[name]; ok {
			selected = append(selected, s)
		}
	}
	return selected
}
