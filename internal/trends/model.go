package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/abdulachik/trendcast/internal/llm"
)

const (
	modelPromptTR = `Türkiye'de şu an X (Twitter) ve Google'da gündemde olan 10 trending topic'i JSON array olarak ver. Her biri {"title": "...", "searchVolume": "...", "category": "..."} formatında olsun. Sadece JSON döndür, başka bir şey yazma.`

	modelPromptEN = `Give me 10 currently trending topics in Turkey on X (Twitter) and Google as a JSON array. Each item: {"title": "...", "searchVolume": "...", "category": "..."}. Return only JSON, nothing else.`

	unknownVolume = "N/A"
)

// ModelStrategy asks a hosted model for current trends. It only runs when the
// request carries a complete credential.
type ModelStrategy struct {
	completer llm.Completer
}

// NewModelStrategy creates a ModelStrategy backed by completer.
func NewModelStrategy(completer llm.Completer) *ModelStrategy {
	return &ModelStrategy{completer: completer}
}

// Name returns the strategy name.
func (m *ModelStrategy) Name() string {
	return "model"
}

// Source returns "<PROVIDER> AI" for the request's provider.
func (m *ModelStrategy) Source(req Request) Source {
	return ModelSource(req.Provider)
}

// Fetch sends the localized prompt and normalizes the reply.
func (m *ModelStrategy) Fetch(ctx context.Context, req Request) ([]Item, error) {
	cred := req.Credential()
	if m.completer == nil || !cred.Valid() {
		return nil, ErrSkipped
	}

	reply, err := m.completer.Complete(ctx, modelPrompt(req.Language), cred)
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	items, err := parseModelReply(reply)
	if err != nil {
		return nil, fmt.Errorf("parse model reply: %w", err)
	}
	return items, nil
}

func modelPrompt(lang Language) string {
	if lang == LanguageTR {
		return modelPromptTR
	}
	return modelPromptEN
}

// parseModelReply accepts a bare array, or an object holding a "trends" or
// "topics" array, in that order.
func parseModelReply(reply string) ([]Item, error) {
	reply = stripCodeFence(reply)

	var parsed any
	if err := json.Unmarshal([]byte(reply), &parsed); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}

	var raw []any
	switch v := parsed.(type) {
	case []any:
		raw = v
	case map[string]any:
		list, ok := v["trends"]
		if !ok || list == nil {
			list = v["topics"]
		}
		if list == nil {
			return nil, nil
		}
		arr, ok := list.([]any)
		if !ok {
			return nil, fmt.Errorf("trend list is %T, not an array", list)
		}
		raw = arr
	default:
		return nil, fmt.Errorf("unexpected reply type %T", parsed)
	}

	items := make([]Item, 0, len(raw))
	for _, r := range raw {
		if it, ok := normalizeModelItem(r); ok {
			items = append(items, it)
		}
	}
	return items, nil
}

func normalizeModelItem(r any) (Item, bool) {
	switch v := r.(type) {
	case string:
		// Some models answer with a plain list of topic names.
		title := strings.TrimSpace(v)
		if title == "" {
			title = unknownTitle
		}
		return Item{
			Title:          title,
			SearchVolume:   unknownVolume,
			IsActive:       true,
			RelatedQueries: []string{},
			Category:       CategoryAIGenerated,
		}, true
	case map[string]any:
		related := []string{}
		if list, ok := v["relatedQueries"].([]any); ok {
			for _, q := range list {
				if s := scalarString(q); s != "" {
					related = append(related, s)
				}
			}
		}

		return Item{
			Title:          firstNonEmpty(v, unknownTitle, "title", "topic", "name"),
			SearchVolume:   firstNonEmpty(v, unknownVolume, "searchVolume", "volume"),
			IsActive:       true,
			RelatedQueries: capRelated(related),
			Category:       firstNonEmpty(v, CategoryAIGenerated, "category"),
		}, true
	default:
		return Item{}, false
	}
}

func firstNonEmpty(m map[string]any, fallback string, keys ...string) string {
	for _, k := range keys {
		if s := scalarString(m[k]); s != "" {
			return s
		}
	}
	return fallback
}

func scalarString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

// stripCodeFence removes a surrounding ``` or ```json fence if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
