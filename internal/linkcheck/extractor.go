// Package linkcheck verifies that internal links in rendered pages resolve
// to files in the output tree.
package linkcheck

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Link is one reference extracted from rendered HTML.
type Link struct {
	URL        string
	Tag        string
	IsInternal bool
}

// linkAttrs maps tags to the attribute that carries their reference.
var linkAttrs = map[string]string{
	"a":      "href",
	"img":    "src",
	"link":   "href",
	"script": "src",
	"source": "src",
	"video":  "src",
	"audio":  "src",
}

// ExtractLinks parses rendered HTML and collects every reference.
func ExtractLinks(r io.Reader, baseURL string) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		base = nil
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttrs[n.Data]; ok {
				if ref := getAttr(n, attr); ref != "" {
					links = append(links, Link{
						URL:        ref,
						Tag:        n.Data,
						IsInternal: isInternal(ref, base),
					})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

// isInternal reports whether a reference targets this site: relative paths,
// same-page anchors, and absolute URLs on the site host.
func isInternal(ref string, base *url.URL) bool {
	if strings.HasPrefix(ref, "#") {
		return true
	}
	for _, scheme := range []string{"mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(ref, scheme) {
			return false
		}
	}

	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		return true
	}
	return base != nil && u.Host == base.Host
}
