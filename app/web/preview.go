package web

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// previewBudget is the character budget for listing card previews. The
// full HTML body is never truncated on the detail page.
const previewBudget = 200

// previewText strips tags from a pre-rendered HTML body and truncates
// the remaining text for card previews.
func previewText(body string, budget int) string {
	text := body
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(body)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")

	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	return strings.TrimRight(string(runes[:budget]), " ") + "…"
}
