package site

import (
	"fmt"
	"path"

	"github.com/stanza-ssg/stanza/internal/content"
)

// indexSlug is the slug of the document that becomes the site root page.
const indexSlug = "index"

// OutputPath maps a document to its output-relative file.
//
// Posts mirror their creation date: 2019/04/08/hello-world/index.html.
// Pages land at slug/index.html; the index document becomes index.html at
// the root.
func OutputPath(doc content.Document) string {
	if doc.IsPost() {
		return path.Join(datePath(doc), doc.Slug, "index.html")
	}
	if doc.Slug == indexSlug {
		return "index.html"
	}
	return path.Join(doc.Slug, "index.html")
}

// PageURL returns the site-absolute URL for a document, with a trailing
// slash for directory-style permalinks.
func PageURL(doc content.Document) string {
	if doc.IsPost() {
		return "/" + datePath(doc) + "/" + doc.Slug + "/"
	}
	if doc.Slug == indexSlug {
		return "/"
	}
	return "/" + doc.Slug + "/"
}

func datePath(doc content.Document) string {
	return fmt.Sprintf("%04d/%02d/%02d", doc.Date.Year(), doc.Date.Month(), doc.Date.Day())
}
