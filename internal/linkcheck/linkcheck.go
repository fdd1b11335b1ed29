package linkcheck

import (
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/stanza-ssg/stanza/internal/logfields"
)

// Problem is one unresolvable internal link.
type Problem struct {
	Page   string // output-relative page the link appears on
	URL    string // the link as written
	Target string // output-relative path that was expected to exist
}

// Checker verifies a rendered output tree.
type Checker struct {
	outputDir string
	baseURL   string
}

// New creates a checker over a rendered output directory.
func New(outputDir, baseURL string) *Checker {
	return &Checker{outputDir: outputDir, baseURL: baseURL}
}

// Check walks every rendered HTML page, extracts its links, and reports
// internal links whose targets do not exist in the output tree. External
// links are not fetched.
func (c *Checker) Check() ([]Problem, error) {
	var problems []Problem

	err := filepath.WalkDir(c.outputDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".html") {
			return nil
		}

		rel, err := filepath.Rel(c.outputDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		file, err := os.Open(p)
		if err != nil {
			return err
		}
		links, lerr := ExtractLinks(file, c.baseURL)
		_ = file.Close()
		if lerr != nil {
			return lerr
		}

		for _, link := range links {
			if !link.IsInternal || strings.HasPrefix(link.URL, "#") {
				continue
			}
			target, ok := c.resolve(rel, link.URL)
			if !ok {
				continue
			}
			if !c.targetExists(target) {
				problems = append(problems, Problem{Page: rel, URL: link.URL, Target: target})
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Debug("Link check finished",
		logfields.Output(c.outputDir),
		slog.Int("problems", len(problems)))
	return problems, nil
}

// resolve maps a link on a page to an output-relative target path. ok is
// false for links that cannot be checked against the tree (external hosts
// already filtered, odd parses).
func (c *Checker) resolve(page, ref string) (string, bool) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", false
	}

	p := u.Path
	if p == "" { // pure query/fragment link targets the page itself
		return "", false
	}
	if !strings.HasPrefix(p, "/") {
		p = path.Join(path.Dir(page), p)
	}
	return strings.TrimPrefix(path.Clean(p), "/"), true
}

// targetExists accepts an exact file, or a directory containing index.html
// for trailing-slash style permalinks.
func (c *Checker) targetExists(target string) bool {
	full := filepath.Join(c.outputDir, filepath.FromSlash(target))

	info, err := os.Stat(full)
	if err == nil {
		if !info.IsDir() {
			return true
		}
		_, err = os.Stat(filepath.Join(full, "index.html"))
		return err == nil
	}
	return false
}
