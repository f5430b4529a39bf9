// Package grammar strips comments from source code by file extension.
// Each grammar is a line-oriented scanner that never touches the contents
// of string literals and preserves the input's line count.
package grammar

import (
	"strings"
)

// Grammar identifies the comment-syntax ruleset for a family of extensions.
type Grammar int

const (
	// None means the format has no comment syntax to strip.
	None Grammar = iota
	PowerShellStyle
	CStyle
	HTMLStyle
	SQLStyle
	PythonStyle
)

func (g Grammar) String() string {
	switch g {
	case PowerShellStyle:
		return "powershell"
	case CStyle:
		return "c"
	case HTMLStyle:
		return "html"
	case SQLStyle:
		return "sql"
	case PythonStyle:
		return "python"
	default:
		return "none"
	}
}

//nolint:gochecknoglobals // Static extension lookup table.
var grammarByExtension = map[string]Grammar{
	".ps1":  PowerShellStyle,
	".psm1": PowerShellStyle,
	".psd1": PowerShellStyle,

	".cs":    CStyle,
	".java":  CStyle,
	".js":    CStyle,
	".jsx":   CStyle,
	".ts":    CStyle,
	".tsx":   CStyle,
	".c":     CStyle,
	".h":     CStyle,
	".cpp":   CStyle,
	".hpp":   CStyle,
	".cc":    CStyle,
	".go":    CStyle,
	".rs":    CStyle,
	".swift": CStyle,
	".kt":    CStyle,
	".kts":   CStyle,
	".dart":  CStyle,
	".php":   CStyle,
	".rb":    CStyle,
	".css":   CStyle,
	".scss":  CStyle,
	".less":  CStyle,

	".html":  HTMLStyle,
	".htm":   HTMLStyle,
	".xhtml": HTMLStyle,
	".xml":   HTMLStyle,
	".svg":   HTMLStyle,

	".sql": SQLStyle,

	".py":  PythonStyle,
	".pyw": PythonStyle,

	".json": None,
	".yml":  None,
	".yaml": None,
	".md":   None,
	".toml": None,
	".ini":  None,
	".cfg":  None,
	".conf": None,
	".txt":  None,
}

// Detect maps a file extension (with leading dot, case-insensitive) to its
// grammar. Unknown extensions fall back to CStyle: that may mis-strip exotic
// formats, which is an accepted trade-off over leaving comments in place for
// the long tail of C-family languages.
func Detect(extension string) Grammar {
	if g, ok := grammarByExtension[strings.ToLower(extension)]; ok {
		return g
	}
	return CStyle
}

// State carries lexer state across the lines of a single file. A fresh zero
// State must be used per file; sharing one across files leaks open-comment
// flags between them.
type State struct {
	// InComment is true while a block comment is open.
	InComment bool
	// Triple holds the open triple-quote delimiter for Python, or "".
	Triple string
}

type lineLexer func(line string, st State) (string, State)

func (g Grammar) lexer() lineLexer {
	switch g {
	case PowerShellStyle:
		return stripPowerShellLine
	case CStyle:
		return stripCLine
	case HTMLStyle:
		return stripHTMLLine
	case SQLStyle:
		return stripSQLLine
	case PythonStyle:
		return stripPythonLine
	default:
		return nil
	}
}

// Strip removes comments from content according to the grammar selected by
// extension. It is fail-open: any internal lexer failure returns the
// original content unchanged. An unterminated block comment is not an
// error; the remainder of the file becomes blank lines.
func Strip(content string, extension string) (out string) {
	defer func() {
		if recover() != nil {
			out = content
		}
	}()

	lex := Detect(extension).lexer()
	if lex == nil {
		return content
	}

	lines := strings.Split(content, "\n")
	st := State{}
	for i, line := range lines {
		lines[i], st = lex(line, st)
	}

	return strings.Join(lines, "\n")
}
