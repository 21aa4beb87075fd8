package trends

import (
	"fmt"
	"strings"
)

// maxPromptTrends caps how many items are spliced into a prompt.
const maxPromptTrends = 10

const promptTemplateTR = `
**🔴 CANLI GÜNDEM VERİSİ (%s — %s):**
Kaynak: %s
%s

TALIMAT: Eğer kullanıcının tweet konusu yukarıdaki trendlerden biriyle ilişkiliyse, tweet'i o trendle bağlantılı hale getir. Uygun hashtag veya referans ekle. Eğer ilişkili değilse, trend verisini görmezden gel.
`

const promptTemplateEN = `
**🔴 LIVE TREND DATA (%s — %s):**
Source: %s
%s

INSTRUCTION: If the user's tweet topic relates to any trend above, connect the tweet to that trend. Add relevant hashtag or reference. If unrelated, ignore the trend data.
`

// FormatForPrompt renders d as a context block for a generation prompt.
// It returns "" for the offline sentinel and for snapshots with no active items.
func FormatForPrompt(d Data, lang Language) string {
	if d.IsOffline() {
		return ""
	}

	active := d.ActiveItems()
	if len(active) == 0 {
		return ""
	}
	if len(active) > maxPromptTrends {
		active = active[:maxPromptTrends]
	}

	lines := make([]string, len(active))
	for i, t := range active {
		line := fmt.Sprintf("%d. \"%s\" (%s searches)", i+1, t.Title, t.SearchVolume)
		if len(t.RelatedQueries) > 0 {
			line += " — Related: " + strings.Join(t.RelatedQueries, ", ")
		}
		lines[i] = line
	}
	list := strings.Join(lines, "\n")

	if lang == LanguageTR {
		return fmt.Sprintf(promptTemplateTR, d.Region, d.FetchedAt.Format("15:04:05"), d.Source, list)
	}
	return fmt.Sprintf(promptTemplateEN, d.Region, d.FetchedAt.Format("3:04:05 PM"), d.Source, list)
}
