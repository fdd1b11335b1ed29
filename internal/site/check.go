package site

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/stanza-ssg/stanza/internal/content"
	"github.com/stanza-ssg/stanza/internal/linkcheck"
	"github.com/stanza-ssg/stanza/internal/logfields"
	"github.com/stanza-ssg/stanza/internal/templates"
)

// Check validates the store without writing anything: header parsing,
// layout resolution, and (when a rendered output tree exists) internal
// link verification. All problems come back together so authors fix
// everything in one pass.
func (b *Builder) Check() ([]Issue, error) {
	var issues []Issue

	set, err := templates.Load(b.cfg.Content.LayoutsDir)
	if err != nil {
		return nil, err
	}

	store := content.NewStore(b.cfg.Content.Dir, b.defaults())
	scan, err := store.Scan()
	if err != nil {
		return nil, err
	}
	for _, issue := range scan.Issues {
		issues = append(issues, Issue{SourceID: issue.SourceID, Message: issue.Err.Error()})
	}

	for _, doc := range scan.Documents {
		if !set.Has(doc.Fields.Layout) {
			issues = append(issues, Issue{
				SourceID: doc.SourceID,
				Message:  fmt.Sprintf("%v: %q", templates.ErrUnknownLayout, doc.Fields.Layout),
			})
		}
	}

	if _, err := os.Stat(b.cfg.Output.Directory); err == nil {
		checker := linkcheck.New(b.cfg.Output.Directory, b.cfg.Site.BaseURL)
		problems, err := checker.Check()
		if err != nil {
			return nil, err
		}
		for _, p := range problems {
			issues = append(issues, Issue{
				SourceID: p.Page,
				Message:  fmt.Sprintf("broken internal link %s (expected %s)", p.URL, p.Target),
			})
		}
	} else {
		slog.Debug("No output tree, skipping link check", logfields.Output(b.cfg.Output.Directory))
	}

	return issues, nil
}
