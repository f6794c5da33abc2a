package markup

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name         string
		html         string
		wantText     string
		wantTemplate string
	}{
		{
			name:         "single heading",
			html:         "<h1>Hello</h1>",
			wantText:     "Hello",
			wantTemplate: "<h1>{CONTENT}</h1>",
		},
		{
			name:         "attributes kept",
			html:         `<p class="lead text-xl">Go now</p>`,
			wantText:     "Go now",
			wantTemplate: `<p class="lead text-xl">{CONTENT}</p>`,
		},
		{
			name:         "nested wrapper keeps empty runs",
			html:         "<div><span>Hi</span></div>",
			wantText:     "Hi",
			wantTemplate: "<div><span>{CONTENT}</span></div>",
		},
		{
			name:         "whitespace between tags untouched",
			html:         "<h1>\n  <span>Run</span>\n</h1>",
			wantText:     "Run",
			wantTemplate: "<h1>\n  <span>{CONTENT}</span>\n</h1>",
		},
		{
			name:         "multi-line run",
			html:         "<p>Line one\nline two</p>",
			wantText:     "Line one\nline two",
			wantTemplate: "<p>{CONTENT}</p>",
		},
		{
			name:         "two runs",
			html:         "<h1><span>Fast</span> <em>shoes</em></h1>",
			wantText:     "Fast shoes",
			wantTemplate: "<h1><span>{CONTENT}</span> <em>{CONTENT}</em></h1>",
		},
		{
			name:         "plain text",
			html:         "  No markup  ",
			wantText:     "No markup",
			wantTemplate: "  No markup  ",
		},
		{
			name:         "empty",
			html:         "",
			wantText:     "",
			wantTemplate: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.html)
			assert.Equal(t, tt.wantText, got.Text)
			assert.Equal(t, tt.wantTemplate, got.Template)
		})
	}
}

// Unbalanced markup is not repaired; the run after the stray '>' is still
// treated as text.
func TestExtractMalformedIsTextual(t *testing.T) {
	got := Extract("<h1>Sale<h1>")
	assert.Equal(t, "Sale", got.Text)
	assert.Equal(t, "<h1>{CONTENT}<h1>", got.Template)
}

func TestFillPreservesTagSequence(t *testing.T) {
	fragments := []string{
		"<h1>Run Fast</h1>",
		"<p>Go now</p>",
		`<a href="/buy" class="btn">Buy today</a>`,
		`<h1 class="font-extrabold"><span class="relative">Crush Your Personal Best</span></h1>`,
		"<div>\n  <p>Lightweight</p>\n</div>",
	}

	for _, html := range fragments {
		t.Run(html, func(t *testing.T) {
			tpl := Extract(html)
			filled := Fill(tpl.Template, tpl.Text)

			assert.Equal(t, html, filled)
			assert.Equal(t, true, SameTags(html, Fill(tpl.Template, "New copy")))
		})
	}
}

func TestFillEveryPlaceholder(t *testing.T) {
	got := Fill("<h1><span>{CONTENT}</span><em>{CONTENT}</em></h1>", "Speed")
	assert.Equal(t, "<h1><span>Speed</span><em>Speed</em></h1>", got)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, 0, Placeholders("plain"))
	assert.Equal(t, 1, Placeholders(Extract("<h1>Hello</h1>").Template))
	assert.Equal(t, 2, Placeholders(Extract("<p><b>A</b><i>B</i></p>").Template))
}

func TestSameTags(t *testing.T) {
	assert.Equal(t, true, SameTags("<h1>Run Fast</h1>", "<h1>Fly higher</h1>"))
	assert.Equal(t, false, SameTags("<h1>Run Fast</h1>", "<h2>Run Fast</h2>"))
	assert.Equal(t, false, SameTags(`<p class="a">x</p>`, "<p>x</p>"))
	assert.Equal(t, false, SameTags("<p>x</p>", "<p>x</p><br>"))
	assert.Equal(t, []string{"<h1>", "<span>", "</span>", "</h1>"}, Tags("<h1><span>A</span></h1>"))
}
