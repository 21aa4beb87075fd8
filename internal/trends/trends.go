// Package trends acquires trending topics from a cascade of upstream sources,
// caches the latest snapshot, and renders it for prompt injection.
package trends

import (
	"fmt"
	"strings"
	"time"

	"github.com/abdulachik/trendcast/internal/llm"
)

// Item categories.
const (
	CategoryTrending    = "trending"
	CategoryDailyTrend  = "daily_trend"
	CategoryAIGenerated = "ai_generated"
	CategorySystem      = "system"
)

const (
	// MaxTrends caps every snapshot.
	MaxTrends = 15

	// maxRelated caps related queries per item.
	maxRelated = 3

	defaultVolume = "10K+"
)

// Item is one trending topic.
type Item struct {
	Title          string   `json:"title"`
	SearchVolume   string   `json:"searchVolume"`
	IsActive       bool     `json:"isActive"`
	RelatedQueries []string `json:"relatedQueries,omitempty"`
	Category       string   `json:"category,omitempty"`
}

// Data is one fetch-cycle snapshot. It is read-only once returned.
type Data struct {
	Trends    []Item    `json:"trends"`
	Region    string    `json:"region"`
	FetchedAt time.Time `json:"fetchedAt"`
	Source    Source    `json:"source"`
}

// IsOffline reports whether d is the offline sentinel.
func (d Data) IsOffline() bool {
	return d.Source.Kind == SourceOffline
}

// ActiveItems returns the items usable downstream.
func (d Data) ActiveItems() []Item {
	var out []Item
	for _, it := range d.Trends {
		if it.IsActive {
			out = append(out, it)
		}
	}
	return out
}

// SourceKind discriminates where a snapshot came from.
type SourceKind int

const (
	SourceOffline SourceKind = iota
	SourceFeed
	SourceDaily
	SourceModel
)

const (
	labelFeed    = "Google Trends RSS"
	labelDaily   = "Google Trends API"
	labelOffline = "OFFLINE_CACHE"
	modelSuffix  = " AI"
)

// Source is the provenance of a snapshot. Provider is set only for SourceModel.
type Source struct {
	Kind     SourceKind
	Provider llm.Provider
}

// Convenience values for the provider-less kinds.
var (
	FeedSource    = Source{Kind: SourceFeed}
	DailySource   = Source{Kind: SourceDaily}
	OfflineSource = Source{Kind: SourceOffline}
)

// ModelSource returns the source label for a model-generated snapshot.
func ModelSource(p llm.Provider) Source {
	return Source{Kind: SourceModel, Provider: p}
}

// String returns the display label.
func (s Source) String() string {
	switch s.Kind {
	case SourceFeed:
		return labelFeed
	case SourceDaily:
		return labelDaily
	case SourceModel:
		return string(s.Provider) + modelSuffix
	default:
		return labelOffline
	}
}

// MarshalText encodes the source as its label.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a label produced by MarshalText.
func (s *Source) UnmarshalText(b []byte) error {
	parsed, err := ParseSource(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSource maps a label back to a Source.
func ParseSource(label string) (Source, error) {
	switch label {
	case labelFeed:
		return FeedSource, nil
	case labelDaily:
		return DailySource, nil
	case labelOffline:
		return OfflineSource, nil
	}

	if name, ok := strings.CutSuffix(label, modelSuffix); ok {
		p, err := llm.ParseProvider(name)
		if err != nil {
			return Source{}, fmt.Errorf("parse source %q: %w", label, err)
		}
		return ModelSource(p), nil
	}

	return Source{}, fmt.Errorf("unknown source label %q", label)
}

// Language selects the prompt language.
type Language string

const (
	LanguageTR Language = "TR"
	LanguageEN Language = "EN"
)

// ParseLanguage returns LanguageTR for "tr" in any case, LanguageEN otherwise.
func ParseLanguage(s string) Language {
	if strings.EqualFold(strings.TrimSpace(s), string(LanguageTR)) {
		return LanguageTR
	}
	return LanguageEN
}

// Request carries the caller's language and optional model credential.
type Request struct {
	Language Language
	APIKey   string
	Provider llm.Provider
}

// Credential returns the model credential carried by the request.
func (r Request) Credential() llm.Credential {
	return llm.Credential{Provider: r.Provider, APIKey: r.APIKey}
}

// cleanText strips CDATA markers, decodes the basic XML entities and trims.
func cleanText(s string) string {
	s = strings.ReplaceAll(s, "<![CDATA[", "")
	s = strings.ReplaceAll(s, "]]>", "")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", "\"")
	return strings.TrimSpace(s)
}

func capRelated(qs []string) []string {
	if len(qs) > maxRelated {
		return qs[:maxRelated]
	}
	return qs
}
