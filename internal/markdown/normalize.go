// Package markdown rewrites assembled Markdown documents into a canonical,
// lint-compliant form.
package markdown

import (
	"regexp"
	"strings"
)

// DefaultTitle is prepended when a document has no leading H1.
const DefaultTitle = "# Source Code Export"

const (
	tabWidth     = 4
	maxLineWidth = 120
	wrapWidth    = 118
)

//nolint:gochecknoglobals // Compiled once.
var (
	blankRunRegex      = regexp.MustCompile(`\n{3,}`)
	headingMarkerRegex = regexp.MustCompile(`^(#{1,6})([^#\s].*)$`)
	topHeadingRegex    = regexp.MustCompile(`^#\s`)
)

// Normalize rewrites content through an ordered sequence of idempotent
// passes. Each pass is individually fail-open: a failure in one pass keeps
// the output of the passes before it.
func Normalize(content string) string {
	passes := []func(string) string{
		cleanWhitespace,
		spaceHeadings,
		collapseBlankRuns,
		fixHeadingMarkers,
		ensureTopHeading,
		wrapFencedLines,
		ensureTrailingNewline,
	}

	for _, pass := range passes {
		content = runPass(content, pass)
	}

	return content
}

// runPass applies one pass, returning the input untouched if the pass
// panics.
func runPass(content string, pass func(string) string) (out string) {
	defer func() {
		if recover() != nil {
			out = content
		}
	}()

	return pass(content)
}

// cleanWhitespace expands tabs to four spaces and trims trailing whitespace
// on every line.
func cleanWhitespace(content string) string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		line = strings.ReplaceAll(line, "\t", strings.Repeat(" ", tabWidth))
		lines[i] = strings.TrimRight(line, " \t\r")
	}

	return strings.Join(lines, "\n")
}

// isFenceMarker reports whether a line opens or closes a code fence.
func isFenceMarker(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "```")
}

// isHeadingLine matches ATX headings, including ones still missing the
// space after the markers so that marker normalization stays idempotent
// with respect to this pass. A line of only marker characters is not a
// heading.
func isHeadingLine(line string) bool {
	if !strings.HasPrefix(line, "#") {
		return false
	}

	level := 0
	for level < len(line) && line[level] == '#' {
		level++
	}

	return level <= 6 && level < len(line)
}

// spaceHeadings ensures every heading outside a code fence has a blank line
// directly before and after it.
func spaceHeadings(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	inFence := false

	for i, line := range lines {
		if isFenceMarker(line) {
			inFence = !inFence
			out = append(out, line)
			continue
		}

		if inFence || !isHeadingLine(line) {
			out = append(out, line)
			continue
		}

		if len(out) > 0 && out[len(out)-1] != "" {
			out = append(out, "")
		}

		out = append(out, line)

		if i+1 < len(lines) && lines[i+1] != "" && !isHeadingLine(lines[i+1]) {
			out = append(out, "")
		}
	}

	return strings.Join(out, "\n")
}

// collapseBlankRuns reduces any run of blank lines to a single blank line.
func collapseBlankRuns(content string) string {
	return blankRunRegex.ReplaceAllString(content, "\n\n")
}

// fixHeadingMarkers inserts the missing space after heading markers
// (##Text -> ## Text) outside code fences.
func fixHeadingMarkers(content string) string {
	lines := strings.Split(content, "\n")
	inFence := false

	for i, line := range lines {
		if isFenceMarker(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		lines[i] = headingMarkerRegex.ReplaceAllString(line, "$1 $2")
	}

	return strings.Join(lines, "\n")
}

// ensureTopHeading prepends a synthetic H1 when the document does not start
// with one.
func ensureTopHeading(content string) string {
	for line := range strings.SplitSeq(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if topHeadingRegex.MatchString(line) {
			return content
		}
		break
	}

	return DefaultTitle + "\n\n" + content
}

// wrapFencedLines soft-wraps overlong lines inside code fences at word
// boundaries. Lines outside fences and the fence markers themselves are
// left untouched.
func wrapFencedLines(content string) string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	inFence := false

	for _, line := range lines {
		if isFenceMarker(line) {
			inFence = !inFence
			out = append(out, line)
			continue
		}

		if !inFence || len(line) <= maxLineWidth {
			out = append(out, line)
			continue
		}

		out = append(out, wrapLine(line, wrapWidth)...)
	}

	return strings.Join(out, "\n")
}

// wrapLine splits a line into segments of at most width characters without
// breaking words. A single word longer than width stays on its own line.
func wrapLine(line string, width int) []string {
	indent := line[:len(line)-len(strings.TrimLeft(line, " "))]
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{line}
	}

	var segments []string
	current := indent + words[0]

	for _, word := range words[1:] {
		if len(current)+1+len(word) > width {
			segments = append(segments, current)
			current = word
			continue
		}
		current += " " + word
	}

	return append(segments, current)
}

// ensureTrailingNewline trims trailing whitespace from the document and
// appends exactly one newline.
func ensureTrailingNewline(content string) string {
	return strings.TrimRight(content, " \t\r\n") + "\n"
}
