// Package content models documents (posts and pages) and the store that
// holds them for a single render pass.
package content

import (
	"regexp"
	"strings"
	"time"

	"github.com/stanza-ssg/stanza/internal/errors"
	"github.com/stanza-ssg/stanza/internal/frontmatter"
	"github.com/stanza-ssg/stanza/internal/slug"
)

// datedName matches post filenames of the form YYYY-MM-DD-some-slug.
var datedName = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)$`)

// Document is one content file, immutable once the store has produced it.
type Document struct {
	// SourceID is the store-relative path, used as the identifier in
	// reports and error messages.
	SourceID string

	// Slug is the URL segment derived from the filename.
	Slug string

	// Date is the creation date from the filename date token; an explicit
	// `date` header field overrides it. Zero for undated pages.
	Date time.Time

	// LastMod is the last modification time, filled from git history when
	// configured. Zero when unknown.
	LastMod time.Time

	Fields frontmatter.Fields
	Body   []byte
	Style  frontmatter.Style
}

// IsPost reports whether the document carries a date, i.e. belongs to the
// reverse-chronological posts collection.
func (d Document) IsPost() bool {
	return !d.Date.IsZero()
}

// Title returns the title header field, falling back to the slug.
func (d Document) Title() string {
	if d.Fields.Title != "" {
		return d.Fields.Title
	}
	return d.Slug
}

// Defaults carries layout names applied when a header does not name one.
type Defaults struct {
	PostLayout string
	PageLayout string
}

// Parse turns raw document bytes into a Document.
//
// A missing header block is valid: the document gets an empty header and the
// default layout. A header that is opened but never closed fails the
// document (and only the document) with a parse-category error wrapping
// frontmatter.ErrMalformedHeader.
func Parse(sourceID string, raw []byte, defaults Defaults) (Document, error) {
	header, body, present, style, err := frontmatter.Split(raw)
	if err != nil {
		return Document{}, errors.WrapError(err, errors.CategoryParse, "malformed header").
			WithContext("document", sourceID)
	}

	fields := frontmatter.Fields{Extra: map[string]any{}}
	if present {
		decoded, err := frontmatter.Decode(header)
		if err != nil {
			return Document{}, errors.WrapError(err, errors.CategoryParse, "invalid header YAML").
				WithContext("document", sourceID)
		}
		fields, err = frontmatter.DecodeFields(decoded)
		if err != nil {
			return Document{}, errors.WrapError(err, errors.CategoryParse, "invalid header field").
				WithContext("document", sourceID)
		}
	}

	date, name := splitSourceName(baseName(sourceID))

	doc := Document{
		SourceID: sourceID,
		Slug:     slug.Make(name),
		Date:     date,
		Fields:   fields,
		Body:     body,
		Style:    style,
	}
	if !fields.Date.IsZero() {
		doc.Date = fields.Date
	}
	if doc.Fields.Layout == "" {
		if doc.IsPost() {
			doc.Fields.Layout = defaults.PostLayout
		} else {
			doc.Fields.Layout = defaults.PageLayout
		}
	}
	return doc, nil
}

// splitSourceName extracts the date token and slug portion of a filename
// (extension already removed). Undated names return a zero time.
func splitSourceName(name string) (time.Time, string) {
	m := datedName.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, name
	}
	date, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return time.Time{}, name
	}
	return date, m[2]
}

func baseName(sourceID string) string {
	name := sourceID
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name
}
