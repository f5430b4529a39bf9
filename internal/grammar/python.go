package grammar

import "strings"

// stripPythonLine handles # line comments. Single- and double-quoted
// literals use a simplified backslash-escape model; triple-quoted literals
// may span lines, and comment detection is suspended until the matching
// closing delimiter.
func stripPythonLine(line string, st State) (string, State) {
	if st.Triple != "" {
		idx := strings.Index(line, st.Triple)
		if idx < 0 {
			return line, st
		}

		end := idx + len(st.Triple)
		st.Triple = ""
		rest, next := stripPythonLine(line[end:], st)
		return line[:end] + rest, next
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
		case (ch == '"' || ch == '\'') && strings.HasPrefix(line[i:], strings.Repeat(string(ch), 3)):
			delim := line[i : i+3]
			rest := line[i+3:]
			if idx := strings.Index(rest, delim); idx >= 0 {
				out.WriteString(line[i : i+3+idx+3])
				i += 3 + idx + 2
				continue
			}
			st.Triple = delim
			out.WriteString(line[i:])
			return out.String(), st

		case ch == '"' || ch == '\'':
			quote = ch
			out.WriteByte(ch)

		case ch == '#':
			return strings.TrimRight(out.String(), " \t"), st

		default:
			out.WriteByte(ch)
		}
	}

	return strings.TrimRight(out.String(), " \t"), st
}
