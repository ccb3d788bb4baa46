package scrapers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const menabytesFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/" xmlns:dc="http://purl.org/dc/elements/1.1/">
<channel>
<title>MENAbytes</title>
<item>
<title>Tabby raises $200 million</title>
<link>https://www.menabytes.com/tabby-series-d/</link>
<dc:creator>Feed Author</dc:creator>
<pubDate>Mon, 05 Jan 2026 09:00:00 +0000</pubDate>
<content:encoded><![CDATA[<p>Tabby, the Riyadh-based BNPL startup, has raised $200 million.</p><p>The round values it at $3.3 billion.</p>]]></content:encoded>
</item>
<item>
<title>Empty item</title>
<link>https://www.menabytes.com/empty/</link>
<content:encoded><![CDATA[]]></content:encoded>
</item>
</channel>
</rss>`

func newFeedServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(menabytesFeedXML))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestMenabytesListURLs(t *testing.T) {
	srv := newFeedServer(t)
	scraper := NewMenabytesScraper(srv.URL)

	urls, err := scraper.ListURLs(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(urls) != 2 {
		t.Fatalf("expected 2 urls, got %d: %v", len(urls), urls)
	}
	if urls[0] != "https://www.menabytes.com/tabby-series-d/" {
		t.Errorf("url[0] = %q", urls[0])
	}
}

func TestMenabytesFetch(t *testing.T) {
	srv := newFeedServer(t)
	scraper := NewMenabytesScraper(srv.URL)

	data, err := scraper.Fetch(context.Background(), "https://www.menabytes.com/tabby-series-d/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data == nil {
		t.Fatal("expected article data, got nil")
	}

	if data.Title != "Tabby raises $200 million" {
		t.Errorf("title = %q", data.Title)
	}
	if data.RawText == "" || data.CleanedText == "" {
		t.Errorf("feed content not extracted: raw=%q cleaned=%q", data.RawText, data.CleanedText)
	}
	if data.CleanedText != "tabby the riyadhbased bnpl startup has raised million the round values it at billion" {
		t.Errorf("cleaned text = %q", data.CleanedText)
	}
}

func TestMenabytesFetchMisses(t *testing.T) {
	srv := newFeedServer(t)
	scraper := NewMenabytesScraper(srv.URL)

	// URL no longer in the feed
	data, err := scraper.Fetch(context.Background(), "https://www.menabytes.com/gone/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil for a url outside the feed, got %+v", data)
	}

	// item with no usable body
	data, err = scraper.Fetch(context.Background(), "https://www.menabytes.com/empty/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if data != nil {
		t.Fatalf("expected nil for an empty item, got %+v", data)
	}
}
