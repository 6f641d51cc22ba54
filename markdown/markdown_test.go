package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain text passes through",
			input: "hello world",
			want:  "hello world",
		},
		{
			name:  "newline becomes break",
			input: "one\ntwo",
			want:  "one<br>two",
		},
		{
			name:  "bold",
			input: "**important**",
			want:  "<strong>important</strong>",
		},
		{
			name:  "italic",
			input: "*subtle*",
			want:  "<em>subtle</em>",
		},
		{
			name:  "bold resolved before italic",
			input: "**a** *b*",
			want:  "<strong>a</strong> <em>b</em>",
		},
		{
			name:  "link opens in new context",
			input: "[x](http://y)",
			want:  `<a href="http://y" target="_blank">x</a>`,
		},
		{
			name:  "level-2 heading becomes h3",
			input: "## Title",
			want:  "<h3>Title</h3>",
		},
		{
			name:  "heading with leading whitespace",
			input: "  ## Indented",
			want:  "<h3>Indented</h3>",
		},
		{
			name:  "two list items in one wrapper",
			input: "* one\n* two",
			want:  "<ul><li>one</li><br><li>two</li></ul>",
		},
		{
			name:  "unpaired bold marker left literal",
			input: "a ** b",
			want:  "a ** b",
		},
		{
			name:  "bold inside list item",
			input: "* **loud** item",
			want:  "<ul><li><strong>loud</strong> item</li></ul>",
		},
		{
			name:  "heading and body",
			input: "## Intro\nsome *text* here",
			want:  "<h3>Intro</h3><br>some <em>text</em> here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.input))
		})
	}
}

func TestRenderMergesSeparateListBlocks(t *testing.T) {
	// Known limitation, reproduced on purpose: any list item anywhere wraps
	// the entire output, so separate blocks and interleaved prose all end up
	// inside one <ul>.
	got := Render("* a\nprose\n* b")
	assert.Equal(t, "<ul><li>a</li><br>prose<br><li>b</li></ul>", got)
}

func TestRenderIdempotent(t *testing.T) {
	inputs := []string{
		"**a** *b*",
		"[x](http://y)",
		"## Title",
		"* one\n* two",
		"plain",
	}

	for _, in := range inputs {
		once := Render(in)
		twice := Render(once)
		assert.Equal(t, once, twice, "re-rendering %q changed the output", in)
	}
}

func TestRenderListMarkerNotItalicized(t *testing.T) {
	// The italic rule must not consume the asterisks of list markers across
	// line boundaries.
	got := Render("* one\n* two")
	assert.NotContains(t, got, "<em>")
}

func TestRenderTotal(t *testing.T) {
	// Render never fails, whatever the input looks like.
	inputs := []string{
		"",
		"*",
		"**",
		"***",
		"[dangling](",
		"## ",
		"* ",
		"\n\n\n",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { _ = Render(in) })
	}
}
