package grammar

import "strings"

const (
	psBlockOpen  = "<#"
	psBlockClose = "#>"
)

// stripPowerShellLine handles <# ... #> block comments and # line comments.
// A # immediately preceded by [ is type-accelerator syntax, not a comment.
// Double-quoted strings are scanned with a simplified backslash-escape model
// so their contents are never classified as comment syntax.
func stripPowerShellLine(line string, st State) (string, State) {
	if st.InComment {
		idx := strings.Index(line, psBlockClose)
		if idx < 0 {
			return "", st
		}

		st.InComment = false
		return stripPowerShellLine(line[idx+len(psBlockClose):], st)
	}

	var out strings.Builder
	inDouble := false

	for i := 0; i < len(line); i++ {
		ch := line[i]

		if inDouble {
			if ch == '\\' && i+1 < len(line) {
				out.WriteByte(ch)
				i++
				out.WriteByte(line[i])
				continue
			}
			if ch == '"' {
				inDouble = false
			}
			out.WriteByte(ch)
			continue
		}

		switch {
		case ch == '"':
			inDouble = true
			out.WriteByte(ch)

		case strings.HasPrefix(line[i:], psBlockOpen):
			rest := line[i+len(psBlockOpen):]
			if idx := strings.Index(rest, psBlockClose); idx >= 0 {
				i += len(psBlockOpen) + idx + len(psBlockClose) - 1
				continue
			}
			st.InComment = true
			return strings.TrimRight(out.String(), " \t"), st

		case ch == '#' && (i == 0 || line[i-1] != '['):
			return strings.TrimRight(out.String(), " \t"), st

		default:
			out.WriteByte(ch)
		}
	}

	return strings.TrimRight(out.String(), " \t"), st
}
