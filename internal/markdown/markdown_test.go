package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRender_BasicBlocks(t *testing.T) {
	out, err := Render([]byte("# Heading\n\nSome *text* with a [link](/about/).\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), "<h1>Heading</h1>")
	require.Contains(t, string(out), "<em>text</em>")
	require.Contains(t, string(out), `<a href="/about/">link</a>`)
}

func TestRender_CodeFenceAndBlockquote(t *testing.T) {
	out, err := Render([]byte("> quoted\n\n```\ncode here\n```\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), "<blockquote>")
	require.Contains(t, string(out), "<code>code here\n</code>")
}

func TestRender_Idempotent(t *testing.T) {
	body := []byte("## Title\n\nHello **world**.\n")

	first, err := Render(body)
	require.NoError(t, err)
	second, err := Render(body)
	require.NoError(t, err)
	require.Equal(t, first, second)
}

func TestRender_RawHTMLPassesThrough(t *testing.T) {
	out, err := Render([]byte("<div class=\"x\">kept</div>\n"))
	require.NoError(t, err)
	require.Contains(t, string(out), `<div class="x">kept</div>`)
}

func TestExtractLinks(t *testing.T) {
	body := []byte("[a](/one/) and ![img](/img.png) and <https://example.com/>\n")

	links := ExtractLinks(body)
	require.Len(t, links, 3)

	dests := map[LinkKind]string{}
	for _, l := range links {
		dests[l.Kind] = l.Destination
	}
	require.Equal(t, "/one/", dests[LinkKindInline])
	require.Equal(t, "/img.png", dests[LinkKindImage])
	require.Equal(t, "https://example.com/", dests[LinkKindAuto])
}

func TestExcerpt_FirstBlockOnly(t *testing.T) {
	body := []byte("First paragraph line one.\nLine two.\n\nSecond paragraph.\n")
	require.Equal(t, "First paragraph line one.\nLine two.", string(Excerpt(body)))
}

func TestExcerpt_SingleBlockReturnsAll(t *testing.T) {
	require.Equal(t, "Only block.\n", string(Excerpt([]byte("\n\nOnly block.\n"))))
	require.Nil(t, Excerpt([]byte("")))
}
