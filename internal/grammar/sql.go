package grammar

import "strings"

// stripSQLLine handles /* ... */ block comments like the C grammar and --
// line comments. A dash pair immediately preceded by "://" is kept: that is
// a narrow textual heuristic for URLs such as https://host--name, not a
// string-literal check.
func stripSQLLine(line string, st State) (string, State) {
	if st.InComment {
		idx := strings.Index(line, blockClose)
		if idx < 0 {
			return "", st
		}

		st.InComment = false
		return stripSQLLine(line[idx+len(blockClose):], st)
	}

	var out strings.Builder

	for i := 0; i < len(line); i++ {
		switch {
		case strings.HasPrefix(line[i:], blockOpen):
			rest := line[i+len(blockOpen):]
			if idx := strings.Index(rest, blockClose); idx >= 0 {
				i += len(blockOpen) + idx + len(blockClose) - 1
				continue
			}
			st.InComment = true
			return strings.TrimRight(out.String(), " \t"), st

		case strings.HasPrefix(line[i:], "--") && !strings.HasSuffix(line[:i], "://"):
			return strings.TrimRight(out.String(), " \t"), st

		default:
			out.WriteByte(line[i])
		}
	}

	return strings.TrimRight(out.String(), " \t"), st
}
