// Package markdown converts a small fixed subset of Markdown (bold, italic,
// links, level-2 headings, unordered list items, newlines) into HTML
// fragments for display.
//
// The renderer is deliberately not a parser. It is an ordered list of
// substitution rules, each applied globally over the output of the previous
// rule, so rule order is part of the contract: bold must run before italic
// so that double asterisks are consumed before single ones are interpreted,
// and list items must be detected before the list wrapper is applied.
// Unmatched markers are left as literal text.
package markdown

import (
	"regexp"
	"strings"
)

var (
	boldRe = regexp.MustCompile(`\*\*(.+?)\*\*`)
	// Italic content must start with a non-space so that "* " list markers
	// survive until the list rule runs.
	italicRe  = regexp.MustCompile(`\*(\S.*?)\*`)
	linkRe    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	headingRe = regexp.MustCompile(`^\s*## (.*)$`)
	listRe    = regexp.MustCompile(`^\* (.*)$`)
)

// rule is one step of the pipeline. Each rule sees the full output of the
// previous rule.
type rule struct {
	name  string
	apply func(string) string
}

var rules = []rule{
	{"newline", func(s string) string {
		return strings.ReplaceAll(s, "\n", "<br>")
	}},
	{"bold", func(s string) string {
		return boldRe.ReplaceAllString(s, "<strong>$1</strong>")
	}},
	{"italic", func(s string) string {
		return italicRe.ReplaceAllString(s, "<em>$1</em>")
	}},
	{"link", func(s string) string {
		return linkRe.ReplaceAllString(s, `<a href="$2" target="_blank">$1</a>`)
	}},
	{"heading", perLine(func(line string) string {
		return headingRe.ReplaceAllString(line, "<h3>$1</h3>")
	})},
	{"list-item", perLine(func(line string) string {
		return listRe.ReplaceAllString(line, "<li>$1</li>")
	})},
	{"list-wrap", wrapList},
}

// Render converts text to an HTML fragment. It is a pure function and never
// fails; input that matches no rule passes through unchanged.
func Render(text string) string {
	out := text
	for _, r := range rules {
		out = r.apply(out)
	}
	return out
}

// perLine lifts a line transformation over the whole string. By the time
// line-scoped rules run, the newline rule has already turned every "\n"
// into "<br>", so the break tag is the line delimiter.
func perLine(f func(string) string) func(string) string {
	return func(s string) string {
		lines := strings.Split(s, "<br>")
		for i, line := range lines {
			lines[i] = f(line)
		}
		return strings.Join(lines, "<br>")
	}
}

// wrapList wraps the entire string in a single <ul> when any list item is
// present anywhere. Multiple separate list blocks therefore merge into one
// wrapper, and non-list content lands inside it too; that is a known
// limitation of this minimal renderer, kept as observable behavior. Already
// wrapped output is left alone so re-rendering is a no-op.
func wrapList(s string) string {
	if strings.Contains(s, "<li>") && !strings.HasPrefix(s, "<ul>") {
		return "<ul>" + s + "</ul>"
	}
	return s
}
