// Package markdown renders document bodies to HTML and offers link
// extraction for analysis.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// renderer is shared: goldmark instances are safe for concurrent use.
// Raw HTML passes through because document bodies are trusted site content.
var renderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

// Render converts a Markdown body (frontmatter already removed) to HTML.
//
// Pure function of the input bytes: rendering the same body twice yields
// byte-identical output.
func Render(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := renderer.Convert(body, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
