package trends

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// dailyPrefix guards the daily-trends payload against JSON hijacking.
const dailyPrefix = ")]}',"

const (
	maxDailyDays     = 2
	maxDailySearches = 10
	unknownTitle     = "Unknown"
)

type dailyPayload struct {
	Default *struct {
		TrendingSearchesDays []dailyDay `json:"trendingSearchesDays"`
	} `json:"default"`
}

type dailyDay struct {
	TrendingSearches []dailySearch `json:"trendingSearches"`
}

type dailySearch struct {
	Title *struct {
		Query string `json:"query"`
	} `json:"title"`
	FormattedTraffic string `json:"formattedTraffic"`
	RelatedQueries   []struct {
		Query string `json:"query"`
	} `json:"relatedQueries"`
}

// ParseDaily extracts items from a daily-trends body. Malformed input yields no items.
func ParseDaily(body string) []Item {
	items, err := parseDaily(body)
	if err != nil {
		slog.Debug("daily trends parse failed", "error", err)
		return nil
	}
	return items
}

func parseDaily(body string) ([]Item, error) {
	body = strings.TrimPrefix(body, dailyPrefix)

	var payload dailyPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		return nil, fmt.Errorf("decode daily trends: %w", err)
	}
	if payload.Default == nil {
		return nil, fmt.Errorf("daily trends: missing default object")
	}

	days := payload.Default.TrendingSearchesDays
	if len(days) > maxDailyDays {
		days = days[:maxDailyDays]
	}

	var items []Item
	for _, day := range days {
		searches := day.TrendingSearches
		if len(searches) > maxDailySearches {
			searches = searches[:maxDailySearches]
		}

		for _, s := range searches {
			title := unknownTitle
			if s.Title != nil && s.Title.Query != "" {
				title = s.Title.Query
			}

			volume := s.FormattedTraffic
			if volume == "" {
				volume = defaultVolume
			}

			var related []string
			for _, q := range s.RelatedQueries {
				if len(related) == maxRelated {
					break
				}
				if q.Query != "" {
					related = append(related, q.Query)
				}
			}

			items = append(items, Item{
				Title:          title,
				SearchVolume:   volume,
				IsActive:       true,
				RelatedQueries: related,
				Category:       CategoryDailyTrend,
			})
		}
	}

	return items, nil
}
