package web

import (
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/Crklemz/content-automation-platform/app/content"
)

// headingLevel clamps a structured heading level into the h1..h6 range.
// Generation payloads that omit the level get an h2.
func headingLevel(level int) int {
	if level < 1 {
		return 2
	}
	if level > 6 {
		return 6
	}
	return level
}

// SectionsToHTML converts a structured article's sections into the HTML
// string stored as the article body. The admin preview template renders
// the same sections independently; both renderings must stay
// semantically equivalent (same heading levels, same list style, same
// metadata spans).
func SectionsToHTML(sections []content.Section) string {
	var b strings.Builder

	for _, section := range sections {
		switch section.Type {
		case content.SectionHeading:
			level := headingLevel(section.Level)
			fmt.Fprintf(&b, "<h%d>%s</h%d>\n", level, html.EscapeString(section.Content), level)
		case content.SectionParagraph:
			fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(section.Content))
		case content.SectionList:
			tag := "ul"
			if section.Ordered {
				tag = "ol"
			}
			fmt.Fprintf(&b, "<%s>\n", tag)
			for _, item := range section.Items {
				fmt.Fprintf(&b, "<li>%s</li>\n", html.EscapeString(item))
			}
			fmt.Fprintf(&b, "</%s>\n", tag)
		case content.SectionMetadata:
			fmt.Fprintf(&b, "<div class=\"article-meta\"><span class=\"category\">%s</span> <span class=\"source\">%s</span></div>\n",
				html.EscapeString(section.Category), html.EscapeString(section.Source))
		default:
			slog.Debug("Skipping section of unknown type", "type", section.Type)
		}
	}

	return strings.TrimRight(b.String(), "\n")
}
