package site

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stanza-ssg/stanza/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		Site: config.SiteConfig{
			Title:       "Test Blog",
			Description: "testing",
		},
		Content: config.ContentConfig{
			Dir:        filepath.Join(root, "content"),
			LayoutsDir: filepath.Join(root, "layouts"),
			PostLayout: "post",
			PageLayout: "page",
		},
		Output: config.OutputConfig{
			Directory: filepath.Join(root, "public"),
		},
	}
	require.NoError(t, os.MkdirAll(cfg.Content.Dir, 0o755))
	return cfg
}

func writeDoc(t *testing.T, cfg *config.Config, name, body string) {
	t.Helper()
	path := filepath.Join(cfg.Content.Dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func readOutput(t *testing.T, cfg *config.Config, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.Output.Directory, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestBuilder_FullSite(t *testing.T) {
	cfg := testConfig(t)
	writeDoc(t, cfg, "2024-01-01-first.md", "---\ntitle: First Post\n---\nHello **world**.\n")
	writeDoc(t, cfg, "2024-03-05-second.md", "---\ntitle: Second Post\n---\nMore words.\n")
	writeDoc(t, cfg, "about.md", "---\ntitle: About\n---\nAbout me.\n")
	writeDoc(t, cfg, "index.md", "---\nlayout: home\n---\nWelcome.\n")

	report, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Empty(t, report.Issues)
	require.Equal(t, 4, report.Documents)
	require.Equal(t, 4, report.Rendered)

	first := readOutput(t, cfg, "2024/01/01/first/index.html")
	require.Contains(t, first, "<h1>First Post</h1>")
	require.Contains(t, first, "<strong>world</strong>")

	about := readOutput(t, cfg, "about/index.html")
	require.Contains(t, about, "<h1>About</h1>")

	home := readOutput(t, cfg, "index.html")
	require.Contains(t, home, `href="/2024/03/05/second/"`)
	require.Contains(t, home, `href="/2024/01/01/first/"`)
	// Reverse-chronological: the newer post is listed before the older one.
	require.Less(t,
		strings.Index(home, "second"),
		strings.Index(home, "first"))
}

func TestBuilder_ListingLimit(t *testing.T) {
	cfg := testConfig(t)
	writeDoc(t, cfg, "2024-01-01-oldest.md", "---\ntitle: Oldest\n---\nA.\n")
	writeDoc(t, cfg, "2024-02-01-middle.md", "---\ntitle: Middle\n---\nB.\n")
	writeDoc(t, cfg, "2024-03-01-newest.md", "---\ntitle: Newest\n---\nC.\n")
	writeDoc(t, cfg, "index.md", "---\nlayout: home\nlimit: 2\n---\n")

	report, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Empty(t, report.Issues)

	home := readOutput(t, cfg, "index.html")
	require.Contains(t, home, "Newest")
	require.Contains(t, home, "Middle")
	require.NotContains(t, home, "Oldest")
}

func TestBuilder_UnpublishedExcluded(t *testing.T) {
	cfg := testConfig(t)
	writeDoc(t, cfg, "2024-01-01-live.md", "---\ntitle: Live\n---\nA.\n")
	writeDoc(t, cfg, "2024-02-01-draft.md", "---\ntitle: Draft\npublished: false\n---\nB.\n")
	writeDoc(t, cfg, "index.md", "---\nlayout: home\n---\n")

	report, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Empty(t, report.Issues)

	_, err = os.Stat(filepath.Join(cfg.Output.Directory, "2024", "02", "01", "draft"))
	require.True(t, os.IsNotExist(err))

	home := readOutput(t, cfg, "index.html")
	require.Contains(t, home, "Live")
	require.NotContains(t, home, "Draft")
}

func TestBuilder_MalformedHeaderDoesNotAbortBatch(t *testing.T) {
	cfg := testConfig(t)
	writeDoc(t, cfg, "broken.md", "---\ntitle: Broken\nNever closed.\n")
	writeDoc(t, cfg, "good.md", "---\ntitle: Good\n---\nFine.\n")

	report, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	require.Equal(t, "broken.md", report.Issues[0].SourceID)
	require.Equal(t, "failed", report.Outcome())

	require.Contains(t, readOutput(t, cfg, "good/index.html"), "Fine.")
}

func TestBuilder_UnknownLayoutCollected(t *testing.T) {
	cfg := testConfig(t)
	writeDoc(t, cfg, "odd.md", "---\nlayout: fancy\n---\nBody.\n")
	writeDoc(t, cfg, "plain.md", "Body.\n")

	report, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	require.Equal(t, "odd.md", report.Issues[0].SourceID)
	require.Contains(t, report.Issues[0].Message, "fancy")

	require.Contains(t, readOutput(t, cfg, "plain/index.html"), "Body.")
}

func TestBuilder_MissingTemplateFieldCollected(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.Content.LayoutsDir, 0o755))
	layout := filepath.Join(cfg.Content.LayoutsDir, "page.html")
	require.NoError(t, os.WriteFile(layout, []byte(`<p>{{ .Params.author }}</p>{{ .Content }}`), 0o644))

	writeDoc(t, cfg, "with.md", "---\nauthor: Ada\n---\nHi.\n")
	writeDoc(t, cfg, "without.md", "Hi.\n")

	report, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Issues, 1)
	require.Equal(t, "without.md", report.Issues[0].SourceID)

	require.Contains(t, readOutput(t, cfg, "with/index.html"), "<p>Ada</p>")
}

func TestBuilder_SiteLayoutOverridesBuiltin(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.MkdirAll(cfg.Content.LayoutsDir, 0o755))
	layout := filepath.Join(cfg.Content.LayoutsDir, "page.html")
	require.NoError(t, os.WriteFile(layout, []byte(`<div class="custom">{{ .Content }}</div>`), 0o644))

	writeDoc(t, cfg, "about.md", "About.\n")

	_, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Contains(t, readOutput(t, cfg, "about/index.html"), `class="custom"`)
}

func TestBuilder_IdempotentOutput(t *testing.T) {
	cfg := testConfig(t)
	writeDoc(t, cfg, "2024-05-05-stable.md", "---\ntitle: Stable\n---\nSame every time.\n")

	_, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	first := readOutput(t, cfg, "2024/05/05/stable/index.html")

	_, err = NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	second := readOutput(t, cfg, "2024/05/05/stable/index.html")

	require.Equal(t, first, second)
}

func TestBuilder_CacheSkipsUnchangedOutputs(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.CachePath = filepath.Join(t.TempDir(), "cache.db")
	writeDoc(t, cfg, "2024-05-05-cached.md", "---\ntitle: Cached\n---\nBody.\n")

	report, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.Rendered)
	require.Equal(t, 0, report.Skipped)

	report, err = NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, report.Rendered)
	require.Equal(t, 1, report.Skipped)
}

func TestBuilder_CleanRemovesStaleOutputs(t *testing.T) {
	cfg := testConfig(t)
	cfg.Output.Clean = true
	writeDoc(t, cfg, "keep.md", "Kept.\n")

	stale := filepath.Join(cfg.Output.Directory, "stale", "index.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))

	_, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)

	_, err = os.Stat(stale)
	require.True(t, os.IsNotExist(err))
	require.Contains(t, readOutput(t, cfg, "keep/index.html"), "Kept.")
}

func TestBuilder_CopiesStaticFiles(t *testing.T) {
	cfg := testConfig(t)
	cfg.Content.StaticDir = filepath.Join(t.TempDir(), "static")
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.Content.StaticDir, "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfg.Content.StaticDir, "css", "main.css"), []byte("body{}"), 0o644))

	writeDoc(t, cfg, "index.md", "---\nlayout: home\n---\n")

	_, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)
	require.Equal(t, "body{}", readOutput(t, cfg, "css/main.css"))
}

func TestBuilder_ShowExcerpts(t *testing.T) {
	cfg := testConfig(t)
	writeDoc(t, cfg, "2024-06-06-long.md", "---\ntitle: Long\n---\nLead paragraph.\n\nRest of the post.\n")
	writeDoc(t, cfg, "index.md", "---\nlayout: home\nshow_excerpts: true\n---\n")

	_, err := NewBuilder(cfg).Build(context.Background())
	require.NoError(t, err)

	home := readOutput(t, cfg, "index.html")
	require.Contains(t, home, "Lead paragraph.")
	require.NotContains(t, home, "Rest of the post.")
}

func TestBuilder_Check(t *testing.T) {
	cfg := testConfig(t)
	writeDoc(t, cfg, "broken.md", "---\nnever closed\n")
	writeDoc(t, cfg, "odd.md", "---\nlayout: fancy\n---\nBody.\n")
	writeDoc(t, cfg, "fine.md", "Body.\n")

	issues, err := NewBuilder(cfg).Check()
	require.NoError(t, err)
	require.Len(t, issues, 2)

	sources := []string{issues[0].SourceID, issues[1].SourceID}
	require.Contains(t, sources, "broken.md")
	require.Contains(t, sources, "odd.md")
}
