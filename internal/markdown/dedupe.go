package markdown

import (
	"fmt"
	"regexp"
	"strings"
)

//nolint:gochecknoglobals // Compiled once.
var headingTextRegex = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)

// DisambiguateHeadings appends numeric suffixes to repeated heading texts so
// anchors stay unique. Collisions are detected by text alone: an H1 and an
// H2 with the same text count as duplicates of each other. Headings inside
// code fences are ignored. Fail-open like Normalize.
func DisambiguateHeadings(content string) (out string) {
	defer func() {
		if recover() != nil {
			out = content
		}
	}()

	lines := strings.Split(content, "\n")
	seen := make(map[string]int)
	inFence := false

	for i, line := range lines {
		if isFenceMarker(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}

		match := headingTextRegex.FindStringSubmatch(line)
		if match == nil {
			continue
		}

		markers := match[1]
		text := strings.TrimSpace(match[2])
		if text == "" {
			continue
		}

		count, dup := seen[text]
		if !dup {
			seen[text] = 0
			continue
		}

		count++
		seen[text] = count
		lines[i] = fmt.Sprintf("%s %s (%d)", markers, text, count)
	}

	return strings.Join(lines, "\n")
}
