package content

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/stanza-ssg/stanza/internal/logfields"
)

// Issue records a per-document failure. The batch keeps going so authors
// see every problem in one pass; nothing is silently swallowed.
type Issue struct {
	SourceID string
	Err      error
}

// ScanResult is the outcome of reading the document store once.
//
// Documents appear in deterministic lexical walk order; that order is the
// tie-break when collection sorting meets equal dates.
type ScanResult struct {
	Documents []Document
	Issues    []Issue
}

// Store reads documents from a content directory.
type Store struct {
	root     string
	defaults Defaults
}

// NewStore creates a store over the given content root.
func NewStore(root string, defaults Defaults) *Store {
	return &Store{root: root, defaults: defaults}
}

// Scan walks the store once and parses every markdown document found.
//
// Hidden files and non-markdown files are skipped. Per-document parse
// failures land in Issues; only filesystem-level failures abort the scan.
func (s *Store) Scan() (*ScanResult, error) {
	result := &ScanResult{}

	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !isMarkdownFile(d.Name()) {
			return nil
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		sourceID := filepath.ToSlash(rel)

		raw, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		doc, perr := Parse(sourceID, raw, s.defaults)
		if perr != nil {
			slog.Warn("Document failed to parse", logfields.Document(sourceID), logfields.Error(perr))
			result.Issues = append(result.Issues, Issue{SourceID: sourceID, Err: perr})
			return nil
		}

		slog.Debug("Document loaded",
			logfields.Document(sourceID),
			logfields.Layout(doc.Fields.Layout))
		result.Documents = append(result.Documents, doc)
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Store scanned",
		logfields.Path(s.root),
		slog.Int("documents", len(result.Documents)),
		slog.Int("issues", len(result.Issues)))
	return result, nil
}

func isMarkdownFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown", ".mdown", ".mkd":
		return true
	}
	return false
}
