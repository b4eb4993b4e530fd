package content

import (
	"regexp"
	"strings"
)

const (
	// DefaultWordLimit is the preview length for callers with no layout of
	// their own.
	DefaultWordLimit = 20
	// CardWordLimit is the preview length used on landing cards.
	CardWordLimit = 18

	Ellipsis = "..."
)

var (
	tagPattern        = regexp.MustCompile(`<[^>]*>`)
	whitespacePattern = regexp.MustCompile(`[\s\v\p{Z}\x{FEFF}]+`)
	structuralChars   = strings.NewReplacer("{", " ", "}", " ", "[", " ", "]", " ", `"`, " ")
)

// PlainText returns the text source of the body before word limiting.
func (c Content) PlainText() string {
	switch c.kind {
	case PlainText:
		stripped := tagPattern.ReplaceAllString(c.text, " ")
		return strings.TrimSpace(whitespacePattern.ReplaceAllString(stripped, " "))
	case StructuredText:
		return c.text
	case StructuredBlocks:
		parts := make([]string, 0, len(c.blocks))
		for _, b := range c.blocks {
			if b.Type != "paragraph" && b.Type != "text" {
				continue
			}
			if b.Data == nil {
				parts = append(parts, "")
				continue
			}
			parts = append(parts, b.Data.Text)
		}
		return strings.Join(parts, " ")
	case Unknown:
		return structuralChars.Replace(string(c.raw))
	default:
		return ""
	}
}

// Preview returns at most limit words of the body, followed by Ellipsis when
// words were cut. A negative limit counts as zero, so a body with any words
// previews as a bare Ellipsis.
func Preview(c Content, limit int) string {
	limit = max(limit, 0)

	var words []string
	for _, w := range strings.Split(c.PlainText(), " ") {
		if w != "" {
			words = append(words, w)
		}
	}

	if len(words) <= limit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:limit], " ") + Ellipsis
}
