package trends

import (
	"log/slog"
	"regexp"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"
)

// FeedParser extracts items from a trends RSS body. Implementations never fail:
// a body they cannot read yields no items.
type FeedParser interface {
	Parse(body string) []Item
}

// NewFeedParser returns the parser registered under name ("regex" or "gofeed").
// Unknown names fall back to the regex parser.
func NewFeedParser(name string) FeedParser {
	if name == "gofeed" {
		return NewGofeedParser()
	}
	return RegexFeedParser{}
}

var (
	itemPattern     = regexp.MustCompile(`<item>([\s\S]*?)</item>`)
	newsItemPattern = regexp.MustCompile(`<ht:news_item_title>([\s\S]*?)</ht:news_item_title>`)

	tagPatterns = map[string]*regexp.Regexp{
		"title":             tagPattern("title"),
		"ht:approx_traffic": tagPattern("ht:approx_traffic"),
		"ht:picture_source": tagPattern("ht:picture_source"),
	}
)

func tagPattern(tag string) *regexp.Regexp {
	q := regexp.QuoteMeta(tag)
	return regexp.MustCompile(`<` + q + `[^>]*>([\s\S]*?)</` + q + `>`)
}

// RegexFeedParser pulls the handful of tags it needs with targeted patterns.
type RegexFeedParser struct{}

// Parse implements FeedParser.
func (RegexFeedParser) Parse(body string) []Item {
	var items []Item

	for _, m := range itemPattern.FindAllStringSubmatch(body, -1) {
		block := m[1]

		title := cleanText(extractTag(block, "title"))
		if title == "" {
			continue
		}

		volume := cleanText(extractTag(block, "ht:approx_traffic"))
		if volume == "" {
			volume = cleanText(extractTag(block, "ht:picture_source"))
		}
		if volume == "" {
			volume = defaultVolume
		}

		var related []string
		for _, n := range newsItemPattern.FindAllStringSubmatch(block, maxRelated) {
			related = append(related, cleanText(n[1]))
		}

		items = append(items, Item{
			Title:          title,
			SearchVolume:   volume,
			IsActive:       true,
			RelatedQueries: related,
			Category:       CategoryTrending,
		})
	}

	return items
}

func extractTag(block, tag string) string {
	m := tagPatterns[tag].FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	return m[1]
}

// GofeedParser reads the feed with a real XML parser and the "ht" namespace
// extensions. It yields the same items as RegexFeedParser for well-formed feeds.
type GofeedParser struct {
	parser *gofeed.Parser
}

// NewGofeedParser creates a GofeedParser.
func NewGofeedParser() *GofeedParser {
	return &GofeedParser{parser: gofeed.NewParser()}
}

// Parse implements FeedParser.
func (g *GofeedParser) Parse(body string) []Item {
	feed, err := g.parser.ParseString(body)
	if err != nil {
		slog.Debug("gofeed parse failed", "error", err)
		return nil
	}

	var items []Item
	for _, fi := range feed.Items {
		title := cleanText(fi.Title)
		if title == "" {
			continue
		}

		ht := fi.Extensions["ht"]

		volume := cleanText(extensionValue(ht, "approx_traffic"))
		if volume == "" {
			volume = cleanText(extensionValue(ht, "picture_source"))
		}
		if volume == "" {
			volume = defaultVolume
		}

		var related []string
		for _, news := range ht["news_item"] {
			if len(related) == maxRelated {
				break
			}
			for _, t := range news.Children["news_item_title"] {
				if len(related) == maxRelated {
					break
				}
				related = append(related, cleanText(t.Value))
			}
		}

		items = append(items, Item{
			Title:          title,
			SearchVolume:   volume,
			IsActive:       true,
			RelatedQueries: related,
			Category:       CategoryTrending,
		})
	}

	return items
}

func extensionValue(exts map[string][]ext.Extension, name string) string {
	if vals := exts[name]; len(vals) > 0 {
		return vals[0].Value
	}
	return ""
}
