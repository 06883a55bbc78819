package suggestions

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// MaxTextRunes is the Discord embed description limit.
const MaxTextRunes = 4096

var textPolicy = bluemonday.StrictPolicy()

// SanitizeText strips markup, trims and truncates suggestion text.
func SanitizeText(text string) string {
	clean := html.UnescapeString(textPolicy.Sanitize(text))
	clean = strings.TrimSpace(clean)
	runes := []rune(clean)
	if len(runes) > MaxTextRunes {
		clean = string(runes[:MaxTextRunes-1]) + "…"
	}
	return clean
}
