package copywriter

import (
	"encoding/json"
	"strings"

	"github.com/ChaseRain/lpgen/pkg/errors"
)

const (
	headlinePrefix    = "HEADLINE:"
	subheadlinePrefix = "SUBHEADLINE:"
)

// ParseTagged reads "HEADLINE: ..." and "SUBHEADLINE: ..." lines. Prefixes
// are exact and case-sensitive; other lines are ignored and a missing
// prefix leaves its field empty.
func ParseTagged(reply string) Result {
	res, _ := parseTagged(reply)
	return res
}

// parseTagged also reports whether any tagged line was found.
func parseTagged(reply string) (Result, bool) {
	var res Result
	matched := false

	for _, line := range strings.Split(strings.TrimSpace(reply), "\n") {
		switch {
		case strings.HasPrefix(line, headlinePrefix):
			res.Headline = trimValue(strings.TrimPrefix(line, headlinePrefix))
			matched = true
		case strings.HasPrefix(line, subheadlinePrefix):
			res.Subheadline = trimValue(strings.TrimPrefix(line, subheadlinePrefix))
			matched = true
		}
	}

	return res, matched
}

var quotePairs = [][2]string{{`"`, `"`}, {`'`, `'`}, {"“", "”"}}

// trimValue strips whitespace and one pair of surrounding quotes.
func trimValue(v string) string {
	v = strings.TrimSpace(v)
	for _, q := range quotePairs {
		if len(v) >= len(q[0])+len(q[1]) && strings.HasPrefix(v, q[0]) && strings.HasSuffix(v, q[1]) {
			return strings.TrimSpace(v[len(q[0]) : len(v)-len(q[1])])
		}
	}
	return v
}

// ParseJSON reads a {"headline": ..., "subheadline": ...} reply, tolerating
// code fences and prose around the object. Absent keys become "".
func ParseJSON(reply string) (Result, error) {
	content := cleanJSONResponse(reply)

	var parsed *struct {
		Headline    string `json:"headline"`
		Subheadline string `json:"subheadline"`
	}
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return Result{}, errors.Wrap(err, errors.ErrCodeParse, "model reply is not valid JSON")
	}
	if parsed == nil {
		return Result{}, errors.New(errors.ErrCodeParse, "model reply is not a JSON object")
	}

	return Result{
		Headline:    strings.TrimSpace(parsed.Headline),
		Subheadline: strings.TrimSpace(parsed.Subheadline),
	}, nil
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
