package linkcheck

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractLinks_ClassifiesInternalAndExternal(t *testing.T) {
	page := `<html><body>
	<a href="/about/">about</a>
	<a href="https://example.com/post/">same host</a>
	<a href="https://elsewhere.net/">external</a>
	<a href="mailto:me@example.com">mail</a>
	<img src="img/photo.png">
	<link href="/css/site.css" rel="stylesheet">
	</body></html>`

	links, err := ExtractLinks(strings.NewReader(page), "https://example.com")
	require.NoError(t, err)
	require.Len(t, links, 6)

	internal := map[string]bool{}
	for _, l := range links {
		internal[l.URL] = l.IsInternal
	}
	require.True(t, internal["/about/"])
	require.True(t, internal["https://example.com/post/"])
	require.False(t, internal["https://elsewhere.net/"])
	require.False(t, internal["mailto:me@example.com"])
	require.True(t, internal["img/photo.png"])
	require.True(t, internal["/css/site.css"])
}

func TestCheck_ReportsMissingTargets(t *testing.T) {
	out := t.TempDir()
	write := func(rel, body string) {
		path := filepath.Join(out, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	write("about/index.html", `<html><body>ok</body></html>`)
	write("index.html", `<html><body>
	<a href="/about/">good dir link</a>
	<a href="/missing/">bad link</a>
	<a href="about/index.html">good relative file link</a>
	<a href="https://elsewhere.net/">external, not checked</a>
	<a href="#top">anchor, not checked</a>
	</body></html>`)

	checker := New(out, "https://example.com")
	problems, err := checker.Check()
	require.NoError(t, err)
	require.Len(t, problems, 1)
	require.Equal(t, "index.html", problems[0].Page)
	require.Equal(t, "/missing/", problems[0].URL)
	require.Equal(t, "missing", problems[0].Target)
}

func TestCheck_RelativeLinksResolveAgainstPageDir(t *testing.T) {
	out := t.TempDir()
	write := func(rel, body string) {
		path := filepath.Join(out, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}

	write("posts/a/index.html", `<a href="../b/">sibling</a>`)
	write("posts/b/index.html", `ok`)

	problems, err := New(out, "").Check()
	require.NoError(t, err)
	require.Empty(t, problems)
}
