// Package frontmatter splits, decodes, and re-serializes the YAML header
// block that precedes a document body.
package frontmatter

import (
	"bytes"
	"errors"

	"gopkg.in/yaml.v3"
)

// ErrMalformedHeader indicates the document opened a header block with the
// `---` sentinel but never closed it. Parsing never partially succeeds in
// this case.
var ErrMalformedHeader = errors.New("frontmatter delimiter opened but never closed")

const sentinel = "---"

// Style captures the newline shape of a document so a rewrite can reproduce
// the original bytes. It does not attempt to preserve YAML formatting.
type Style struct {
	Newline string
}

// Split separates the `---` delimited YAML header from the Markdown body.
//
// A document that does not start with the sentinel has no header: present is
// false and body is the full input. The closing sentinel may sit at EOF
// without a trailing newline; the body is then empty. A header that is
// opened but never closed fails with ErrMalformedHeader.
func Split(content []byte) (header, body []byte, present bool, style Style, err error) {
	style = detectStyle(content)
	nl := style.Newline

	open := []byte(sentinel + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, style, nil
	}

	rest := content[len(open):]

	// Empty header block: the closing sentinel immediately follows.
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, style, nil
	}

	closing := []byte(nl + sentinel + nl)
	idx := bytes.Index(rest, closing)
	if idx < 0 {
		// The document may end right at the closing sentinel.
		if bytes.Equal(rest, []byte(sentinel)) {
			return []byte{}, nil, true, style, nil
		}
		atEOF := []byte(nl + sentinel)
		if bytes.HasSuffix(rest, atEOF) {
			header = rest[:len(rest)-len(atEOF)+len(nl)]
			return header, nil, true, style, nil
		}
		return nil, nil, false, style, ErrMalformedHeader
	}

	header = rest[:idx+len(nl)]
	body = rest[idx+len(closing):]
	return header, body, true, style, nil
}

// Join reassembles a document from raw header and body bytes.
//
// With present false the body is returned as-is; otherwise the header is
// wrapped in sentinels using the captured newline style.
func Join(header, body []byte, present bool, style Style) []byte {
	if !present {
		return body
	}

	nl := style.Newline
	if nl == "" {
		nl = "\n"
	}
	fence := []byte(sentinel + nl)

	out := make([]byte, 0, 2*len(fence)+len(header)+len(body))
	out = append(out, fence...)
	out = append(out, header...)
	out = append(out, fence...)
	out = append(out, body...)
	return out
}

// Decode parses raw YAML header bytes (without sentinels) into a map.
func Decode(header []byte) (map[string]any, error) {
	if len(header) == 0 {
		return map[string]any{}, nil
	}

	var fields map[string]any
	if err := yaml.Unmarshal(header, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

func detectStyle(content []byte) Style {
	newline := "\n"
	for i := 0; i < len(content); i++ {
		if content[i] != '\n' {
			continue
		}
		if i > 0 && content[i-1] == '\r' {
			newline = "\r\n"
		}
		break
	}
	return Style{Newline: newline}
}
