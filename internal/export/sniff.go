package export

import (
	"bytes"
	"unicode/utf8"
)

// isBinary checks the first 512 bytes for null bytes.
func isBinary(content []byte) bool {
	const maxCheckSize = 512
	size := min(len(content), maxCheckSize)
	return bytes.IndexByte(content[:size], 0) != -1
}

func isValidUTF8(content []byte) bool {
	return utf8.Valid(content)
}

// stripBOM removes a UTF-8 BOM (0xEF, 0xBB, 0xBF) if present.
func stripBOM(content []byte) []byte {
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		return content[3:]
	}
	return content
}
