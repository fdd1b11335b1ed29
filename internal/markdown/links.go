package markdown

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// LinkKind classifies an extracted link construct.
type LinkKind string

const (
	LinkKindInline LinkKind = "inline"
	LinkKindAuto   LinkKind = "auto"
	LinkKindImage  LinkKind = "image"
)

// Link is one link-like construct found in a Markdown body.
type Link struct {
	Kind        LinkKind
	Destination string
}

// ExtractLinks parses a Markdown body and collects its link destinations.
//
// This is an analysis API for the check command; it does not re-render.
func ExtractLinks(body []byte) []Link {
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var links []Link
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *gmast.AutoLink:
			links = append(links, Link{Kind: LinkKindAuto, Destination: string(node.URL(body))})
		case *gmast.Image:
			links = append(links, Link{Kind: LinkKindImage, Destination: string(node.Destination)})
		case *gmast.Link:
			links = append(links, Link{Kind: LinkKindInline, Destination: string(node.Destination)})
		}
		return gmast.WalkContinue, nil
	})
	return links
}
