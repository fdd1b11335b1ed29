// Package templates maps layout names to HTML templates and renders
// documents through them.
package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	texttemplate "text/template"
	"time"
)

//go:embed builtin/*.html
var builtinFS embed.FS

// ErrUnknownLayout indicates a document named a layout with no registered
// template. Fatal for that document only.
var ErrUnknownLayout = errors.New("no template registered for layout")

// ErrMissingTemplateField indicates a template referenced a header field the
// document does not define. Policy decision: substitution failure is an
// error for that document, never a silent empty string.
var ErrMissingTemplateField = errors.New("template references a header field the document does not define")

// SiteData is the site-wide context every template receives.
type SiteData struct {
	Title       string
	Description string
	BaseURL     string
}

// Entry is one collection member as exposed to listing templates.
type Entry struct {
	Title   string
	URL     string
	Date    time.Time
	Excerpt template.HTML
}

// PageData is the per-document context handed to a layout template.
type PageData struct {
	Site    SiteData
	Title   string
	Date    time.Time
	LastMod time.Time
	URL     string
	Content template.HTML

	// Params carries unrecognized header fields; lookups of absent keys
	// fail rendering (missingkey=error).
	Params map[string]any

	// Entries and the listing options are populated for listing pages only.
	Entries       []Entry
	EntriesLayout string
	ShowExcerpts  bool
}

// Set maps layout names to parsed templates.
type Set struct {
	tpls map[string]*template.Template
}

// Load builds a template set from the embedded builtin layouts, then lets
// templates in layoutsDir (optional) override or extend them. The layout
// name is the file name without the .html extension.
func Load(layoutsDir string) (*Set, error) {
	set := &Set{tpls: make(map[string]*template.Template)}

	if err := set.loadFS(builtinFS, "builtin"); err != nil {
		return nil, fmt.Errorf("builtin layouts: %w", err)
	}

	if layoutsDir != "" {
		if _, err := os.Stat(layoutsDir); err == nil {
			if err := set.loadFS(os.DirFS(layoutsDir), "."); err != nil {
				return nil, fmt.Errorf("site layouts %s: %w", layoutsDir, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	return set, nil
}

func (s *Set) loadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		raw, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(dir, entry.Name())))
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(entry.Name(), ".html")
		tpl, err := template.New(name).Option("missingkey=error").Parse(string(raw))
		if err != nil {
			return fmt.Errorf("parse layout %s: %w", name, err)
		}
		s.tpls[name] = tpl
	}
	return nil
}

// Has reports whether a layout is registered.
func (s *Set) Has(layout string) bool {
	_, ok := s.tpls[layout]
	return ok
}

// Layouts returns the registered layout names, sorted.
func (s *Set) Layouts() []string {
	names := make([]string, 0, len(s.tpls))
	for name := range s.tpls {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render produces output text for a document. Pure function of data and the
// template set: rendering twice yields byte-identical output.
func (s *Set) Render(layout string, data PageData) ([]byte, error) {
	tpl, ok := s.tpls[layout]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLayout, layout)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		if isMissingKey(err) {
			return nil, fmt.Errorf("%w: layout %q: %v", ErrMissingTemplateField, layout, err)
		}
		return nil, fmt.Errorf("execute layout %q: %w", layout, err)
	}
	return buf.Bytes(), nil
}

// isMissingKey detects text/template's missingkey=error failure. The stdlib
// exposes no typed error for the missing-key case, so an ExecError still has
// to be told apart from other execution failures by its message; the bare
// substring match is the fallback for wrapped errors.
func isMissingKey(err error) bool {
	if err == nil {
		return false
	}
	var execErr texttemplate.ExecError
	if errors.As(err, &execErr) {
		return strings.Contains(execErr.Error(), "map has no entry for key")
	}
	return strings.Contains(err.Error(), "map has no entry for key")
}
