// Package markup separates the visible text of an HTML fragment from its tag
// skeleton so new copy can be poured back into the same structure.
//
// The transformation is textual, not a parser: unbalanced or malformed
// markup is not validated and may yield a template that does not round-trip.
package markup

import (
	"regexp"
	"strings"
)

// Placeholder marks where text stood in a Template.
const Placeholder = "{CONTENT}"

var (
	tagRe = regexp.MustCompile(`<[^>]+>`)
	// (?s) so a text run may span lines.
	textRunRe = regexp.MustCompile(`(?s)>([^<]*)<`)
)

type Template struct {
	Text     string
	Template string
}

// Extract strips tags to produce Text and replaces every non-blank run
// between '>' and the next '<' with Placeholder to produce Template.
func Extract(html string) Template {
	return Template{
		Text:     strings.TrimSpace(tagRe.ReplaceAllString(html, "")),
		Template: textRunRe.ReplaceAllStringFunc(html, placeholderFor),
	}
}

func placeholderFor(run string) string {
	inner := run[1 : len(run)-1]
	if strings.TrimSpace(inner) == "" {
		return run
	}
	return ">" + Placeholder + "<"
}

// Fill substitutes text into every placeholder of template.
func Fill(template, text string) string {
	return strings.ReplaceAll(template, Placeholder, text)
}

// Tags returns the tags of html in document order.
func Tags(html string) []string {
	return tagRe.FindAllString(html, -1)
}

// SameTags reports whether a and b carry an identical tag sequence.
func SameTags(a, b string) bool {
	ta, tb := Tags(a), Tags(b)
	if len(ta) != len(tb) {
		return false
	}
	for i := range ta {
		if ta[i] != tb[i] {
			return false
		}
	}
	return true
}

// Placeholders counts the text slots in template.
func Placeholders(template string) int {
	return strings.Count(template, Placeholder)
}
