package grammar

import "strings"

const (
	htmlOpen  = "<!--"
	htmlClose = "-->"
)

// stripHTMLLine removes <!-- ... --> comment spans. A comment spanning
// several lines is blanked line by line, so the output keeps one line per
// input line like the other grammars.
func stripHTMLLine(line string, st State) (string, State) {
	if st.InComment {
		idx := strings.Index(line, htmlClose)
		if idx < 0 {
			return "", st
		}

		st.InComment = false
		return stripHTMLLine(line[idx+len(htmlClose):], st)
	}

	var out strings.Builder

	for i := 0; i < len(line); i++ {
		if strings.HasPrefix(line[i:], htmlOpen) {
			rest := line[i+len(htmlOpen):]
			if idx := strings.Index(rest, htmlClose); idx >= 0 {
				i += len(htmlOpen) + idx + len(htmlClose) - 1
				continue
			}
			st.InComment = true
			return strings.TrimRight(out.String(), " \t"), st
		}
		out.WriteByte(line[i])
	}

	return strings.TrimRight(out.String(), " \t"), st
}
