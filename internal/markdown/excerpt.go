package markdown

import (
	"bytes"
)

// Excerpt returns the first block of a Markdown body, for listing pages
// with `show_excerpts` enabled. The block is returned as Markdown; callers
// render it like any body.
func Excerpt(body []byte) []byte {
	trimmed := bytes.TrimLeft(body, "\n\r")
	if len(trimmed) == 0 {
		return nil
	}

	for _, sep := range [][]byte{[]byte("\r\n\r\n"), []byte("\n\n")} {
		if idx := bytes.Index(trimmed, sep); idx >= 0 {
			return trimmed[:idx]
		}
	}
	return trimmed
}
