package markdown

import (
	"bytes"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

// Heading is one entry of a document outline.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Line  int    `json:"line"`
}

// ExtractOutline parses a Markdown document and returns its headings in
// document order with source line numbers.
func ExtractOutline(content []byte) []Heading {
	doc := parser.NewWithExtensions(parser.CommonExtensions).Parse(content)

	var headings []Heading
	ast.WalkFunc(doc, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}

		if heading, ok := node.(*ast.Heading); ok {
			text := extractText(heading)
			if text != "" {
				headings = append(headings, Heading{
					Level: heading.Level,
					Text:  text,
				})
			}
		}

		return ast.GoToNext
	})

	assignHeadingLines(headings, content)
	return headings
}

func extractText(node ast.Node) string {
	var buf strings.Builder
	ast.WalkFunc(node, func(n ast.Node, entering bool) ast.WalkStatus {
		if entering {
			if text, ok := n.(*ast.Text); ok {
				buf.Write(text.Literal)
			}
		}
		return ast.GoToNext
	})

	return strings.Join(strings.Fields(buf.String()), " ")
}

// assignHeadingLines scans content for ATX heading markers and assigns the
// source line to each heading in document order. gomarkdown's AST does not
// store positions, so this mirrors the parse with a fence-aware line scan.
func assignHeadingLines(headings []Heading, content []byte) {
	if len(headings) == 0 {
		return
	}

	lines := bytes.Split(content, []byte("\n"))
	next := 0
	inFence := false

	for idx := 0; idx < len(lines) && next < len(headings); idx++ {
		trimmed := bytes.TrimSpace(lines[idx])

		if bytes.HasPrefix(trimmed, []byte("```")) || bytes.HasPrefix(trimmed, []byte("~~~")) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		if atxLevel(lines[idx]) == headings[next].Level {
			headings[next].Line = idx + 1
			next++
		}
	}
}

// atxLevel returns the level of an ATX heading line, or 0.
func atxLevel(line []byte) int {
	spaces := 0
	for spaces < len(line) && spaces < 4 && line[spaces] == ' ' {
		spaces++
	}
	if spaces >= 4 || spaces >= len(line) || line[spaces] != '#' {
		return 0
	}

	level := 0
	for spaces+level < len(line) && level < 7 && line[spaces+level] == '#' {
		level++
	}
	if level >= 1 && level <= 6 && spaces+level < len(line) && line[spaces+level] == ' ' {
		return level
	}

	return 0
}
