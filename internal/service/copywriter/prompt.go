package copywriter

import (
	"fmt"
	"strings"

	"github.com/ChaseRain/lpgen/internal/service/markup"
)

const systemPrompt = "You are an expert e-commerce copywriter."

// Strategy selects how the prompt presents the original copy and how the
// reply is read back.
type Strategy string

const (
	// StrategyTemplate sends plain text plus a placeholder template and
	// pours the model's plain-text answer back into the template.
	StrategyTemplate Strategy = "template"
	// StrategyHTML sends raw HTML and expects complete HTML back as JSON.
	StrategyHTML Strategy = "html"
)

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyTemplate, "":
		return StrategyTemplate, nil
	case StrategyHTML:
		return StrategyHTML, nil
	default:
		return "", fmt.Errorf("unknown strategy %q", s)
	}
}

type templatePrompt struct {
	text        string
	headline    markup.Template
	subheadline markup.Template
}

func composeTemplatePrompt(req Request) templatePrompt {
	h := markup.Extract(req.OriginalHeadline)
	s := markup.Extract(req.OriginalSubheadline)

	var sb strings.Builder
	fmt.Fprintf(&sb, "IMAGE ANALYSIS:\n%s\n\n", req.ImageDescription)
	fmt.Fprintf(&sb, "ORIGINAL HEADLINE (text): %s\n", h.Text)
	fmt.Fprintf(&sb, "HEADLINE TEMPLATE: %s\n\n", h.Template)
	fmt.Fprintf(&sb, "ORIGINAL SUBHEADLINE (text): %s\n", s.Text)
	fmt.Fprintf(&sb, "SUBHEADLINE TEMPLATE: %s\n\n", s.Template)
	fmt.Fprintf(&sb, "MARKETING INSIGHTS:\n%s\n\n", req.MarketingInsights)
	sb.WriteString(`Requirements:
1. Match length & tone
2. Include image themes
3. Highlight product benefits
4. Reuse HTML structure
5. Conversion-focused

Respond:
HEADLINE: [your text]
SUBHEADLINE: [your text]`)

	return templatePrompt{text: sb.String(), headline: h, subheadline: s}
}

func composeHTMLPrompt(req Request) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "IMAGE ANALYSIS:\n%s\n\n", req.ImageDescription)
	fmt.Fprintf(&sb, "ORIGINAL HEADLINE (HTML):\n%s\n\n", req.OriginalHeadline)
	fmt.Fprintf(&sb, "ORIGINAL SUBHEADLINE (HTML):\n%s\n\n", req.OriginalSubheadline)
	fmt.Fprintf(&sb, "MARKETING INSIGHTS:\n%s\n\n", req.MarketingInsights)
	sb.WriteString(`Rewrite the headline and subheadline for this audience.

Requirements:
1. Keep every HTML tag, attribute and class exactly as given; change only the visible text
2. Match the original length & tone
3. Include image themes
4. Highlight product benefits
5. Conversion-focused

Output JSON only, no other text:
{
  "headline": "complete headline HTML",
  "subheadline": "complete subheadline HTML"
}`)

	return sb.String()
}
