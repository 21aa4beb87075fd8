package trends

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultFeedURL  = "https://trends.google.com/trending/rss?geo=TR"
	DefaultDailyURL = "https://trends.google.com/trends/api/dailytrends?hl=tr&tz=-180&geo=TR&ns=15"

	userAgent    = "trendcast/1.0"
	maxBodyBytes = 4 << 20
)

// ErrSkipped is returned by a strategy that does not apply to the request.
var ErrSkipped = errors.New("strategy skipped")

// Strategy is one upstream source in the cascade.
type Strategy interface {
	// Name identifies the strategy in logs and cycle summaries.
	Name() string

	// Source is the provenance label recorded when this strategy wins.
	Source(req Request) Source

	// Fetch retrieves items. An empty slice with a nil error means the
	// source had nothing to offer.
	Fetch(ctx context.Context, req Request) ([]Item, error)
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Timeout: 30 * time.Second,
	}
}

// getBody performs a GET and returns the body of a 2xx response.
func getBody(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}

// FeedStrategy fetches the regional trends RSS feed.
type FeedStrategy struct {
	httpClient *http.Client
	url        string
	parser     FeedParser
}

// FeedConfig holds configuration for the feed strategy.
type FeedConfig struct {
	URL    string
	Parser FeedParser
}

// NewFeedStrategy creates a new FeedStrategy.
func NewFeedStrategy(cfg FeedConfig) *FeedStrategy {
	url := cfg.URL
	if url == "" {
		url = DefaultFeedURL
	}
	parser := cfg.Parser
	if parser == nil {
		parser = RegexFeedParser{}
	}

	return &FeedStrategy{
		httpClient: newHTTPClient(),
		url:        url,
		parser:     parser,
	}
}

// Name returns the strategy name.
func (f *FeedStrategy) Name() string {
	return "feed"
}

// Source returns the RSS label.
func (f *FeedStrategy) Source(Request) Source {
	return FeedSource
}

// Fetch retrieves and parses the RSS feed.
func (f *FeedStrategy) Fetch(ctx context.Context, _ Request) ([]Item, error) {
	body, err := getBody(ctx, f.httpClient, f.url)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	return f.parser.Parse(body), nil
}

// DailyStrategy fetches the daily-trends JSON endpoint.
type DailyStrategy struct {
	httpClient *http.Client
	url        string
}

// NewDailyStrategy creates a new DailyStrategy. An empty url selects the default.
func NewDailyStrategy(url string) *DailyStrategy {
	if url == "" {
		url = DefaultDailyURL
	}
	return &DailyStrategy{
		httpClient: newHTTPClient(),
		url:        url,
	}
}

// Name returns the strategy name.
func (d *DailyStrategy) Name() string {
	return "daily"
}

// Source returns the daily API label.
func (d *DailyStrategy) Source(Request) Source {
	return DailySource
}

// Fetch retrieves and parses the daily trends.
func (d *DailyStrategy) Fetch(ctx context.Context, _ Request) ([]Item, error) {
	body, err := getBody(ctx, d.httpClient, d.url)
	if err != nil {
		return nil, fmt.Errorf("fetch daily trends: %w", err)
	}

	items, err := parseDaily(body)
	if err != nil {
		return nil, err
	}
	return items, nil
}
