package grammar

import "strings"

const (
	blockOpen  = "/*"
	blockClose = "*/"
)

// stripCLine handles /* ... */ block comments and // line comments for the
// C family (C#, Java, JS/TS, C/C++, Go, Rust, Swift, Kotlin, Dart, PHP,
// Ruby, CSS and friends). Characters inside single- or double-quoted
// literals are copied verbatim, including escaped quotes.
func stripCLine(line string, st State) (string, State) {
	if st.InComment {
		idx := strings.Index(line, blockClose)
		if idx < 0 {
			return "", st
		}

		st.InComment = false
		return stripCLine(line[idx+len(blockClose):], st)
	}

	var out strings.Builder
	var quote byte

	for i := 0; i < len(line); i++ {
		ch := line[i]

		if quote != 0 {
			if ch == '\\' && i+1 < len(line) {
				out.WriteByte(ch)
				i++
				out.WriteByte(line[i])
				continue
			}
			if ch == quote {
				quote = 0
			}
			out.WriteByte(ch)
			continue
		}

		switch {
		case ch == '\'' || ch == '"':
			quote = ch
			out.WriteByte(ch)

		case strings.HasPrefix(line[i:], blockOpen):
			rest := line[i+len(blockOpen):]
			if idx := strings.Index(rest, blockClose); idx >= 0 {
				i += len(blockOpen) + idx + len(blockClose) - 1
				continue
			}
			st.InComment = true
			return strings.TrimRight(out.String(), " \t"), st

		case strings.HasPrefix(line[i:], "//"):
			return strings.TrimRight(out.String(), " \t"), st

		default:
			out.WriteByte(ch)
		}
	}

	return strings.TrimRight(out.String(), " \t"), st
}
