// Package site assembles collections from the document store and renders
// the full output tree in one batch pass.
package site

import (
	"context"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/stanza-ssg/stanza/internal/cache"
	"github.com/stanza-ssg/stanza/internal/config"
	"github.com/stanza-ssg/stanza/internal/content"
	siteerrors "github.com/stanza-ssg/stanza/internal/errors"
	"github.com/stanza-ssg/stanza/internal/gitinfo"
	"github.com/stanza-ssg/stanza/internal/logfields"
	"github.com/stanza-ssg/stanza/internal/markdown"
	"github.com/stanza-ssg/stanza/internal/metrics"
	"github.com/stanza-ssg/stanza/internal/notify"
	"github.com/stanza-ssg/stanza/internal/templates"
)

// Builder runs full site builds. Safe to reuse across passes (serve mode
// rebuilds through the same Builder).
type Builder struct {
	cfg       *config.Config
	recorder  metrics.Recorder
	publisher *notify.Publisher
}

// Option configures a Builder.
type Option func(*Builder)

// WithRecorder wires a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(b *Builder) { b.recorder = r }
}

// WithPublisher wires a build-event publisher.
func WithPublisher(p *notify.Publisher) Option {
	return func(b *Builder) { b.publisher = p }
}

// NewBuilder creates a builder for the given configuration.
func NewBuilder(cfg *config.Config, opts ...Option) *Builder {
	b := &Builder{cfg: cfg, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build reads the store once, assembles collections, renders every
// published document, and writes the output tree.
//
// Per-document failures (malformed header, unknown layout, missing template
// field) are collected into the report and do not abort the batch; the
// returned error is reserved for build-level failures (unreadable store,
// broken layouts directory, output filesystem errors).
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	report := newReport()
	slog.Info("Starting site build",
		logfields.BuildID(report.ID),
		logfields.Output(b.cfg.Output.Directory))

	set, err := templates.Load(b.cfg.Content.LayoutsDir)
	if err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.CategoryLayout, siteerrors.SeverityFatal, "loading layouts")
	}

	store := content.NewStore(b.cfg.Content.Dir, b.defaults())
	scan, err := store.Scan()
	if err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.CategoryFileSystem, siteerrors.SeverityFatal, "scanning content store")
	}
	for _, issue := range scan.Issues {
		report.addIssue(issue.SourceID, issue.Err)
	}
	report.Documents = len(scan.Documents)

	docs := b.applyGitDates(scan.Documents)
	collections := content.Partition(docs)
	posts := collections[b.cfg.Content.PostLayout]
	slog.Debug("Collections assembled",
		logfields.Collection(b.cfg.Content.PostLayout),
		slog.Int("posts", posts.Len()))

	if b.cfg.Output.Clean {
		if err := os.RemoveAll(b.cfg.Output.Directory); err != nil {
			return nil, siteerrors.Wrap(err, siteerrors.CategoryFileSystem, siteerrors.SeverityFatal, "cleaning output directory")
		}
	}

	outCache, err := b.openCache(ctx)
	if err != nil {
		return nil, err
	}
	if outCache != nil {
		defer outCache.Close()
	}

	for _, doc := range docs {
		if !doc.Fields.IsPublished() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, siteerrors.Wrap(err, siteerrors.CategoryInternal, siteerrors.SeverityFatal, "build canceled")
		}

		rendered, err := b.renderDocument(set, doc, posts)
		if err != nil {
			if siteerrors.IsFatal(err) {
				return nil, err
			}
			slog.Warn("Document failed to render",
				logfields.Document(doc.SourceID),
				logfields.Error(err))
			report.addIssue(doc.SourceID, err)
			continue
		}

		wrote, err := b.writeOutput(ctx, outCache, OutputPath(doc), rendered)
		if err != nil {
			return nil, err
		}
		if wrote {
			report.Rendered++
		} else {
			report.Skipped++
		}
	}

	if err := b.copyStatic(); err != nil {
		return nil, err
	}

	report.Duration = time.Since(report.StartedAt)
	b.recordAndPublish(report)
	return report, nil
}

func (b *Builder) defaults() content.Defaults {
	return content.Defaults{
		PostLayout: b.cfg.Content.PostLayout,
		PageLayout: b.cfg.Content.PageLayout,
	}
}

// renderDocument produces the final page bytes for one document. Pure with
// respect to the document and template set, so re-rendering is idempotent.
func (b *Builder) renderDocument(set *templates.Set, doc content.Document, posts content.Collection) ([]byte, error) {
	body, err := markdown.Render(doc.Body)
	if err != nil {
		return nil, siteerrors.WrapError(err, siteerrors.CategoryRender, "rendering markdown body").
			WithContext("document", doc.SourceID)
	}

	data := templates.PageData{
		Site: templates.SiteData{
			Title:       b.cfg.Site.Title,
			Description: b.cfg.Site.Description,
			BaseURL:     b.cfg.Site.BaseURL,
		},
		Title:         doc.Title(),
		Date:          doc.Date,
		LastMod:       doc.LastMod,
		URL:           PageURL(doc),
		Content:       template.HTML(body),
		Params:        doc.Fields.Extra,
		EntriesLayout: doc.Fields.EntriesLayout,
		ShowExcerpts:  doc.Fields.ShowExcerpts,
	}
	if data.Params == nil {
		data.Params = map[string]any{}
	}

	entries, err := b.listingEntries(doc, posts)
	if err != nil {
		return nil, err
	}
	data.Entries = entries

	out, err := set.Render(doc.Fields.Layout, data)
	if err != nil {
		return nil, siteerrors.WrapError(err, siteerrors.CategoryLayout, "rendering layout").
			WithContext("document", doc.SourceID).
			WithContext("layout", doc.Fields.Layout)
	}
	return out, nil
}

// listingEntries resolves the cross-document references of a listing page:
// the posts collection trimmed to the page's limit, with excerpts when
// requested. Non-listing documents get the same view; templates that do not
// range over entries simply ignore it.
func (b *Builder) listingEntries(doc content.Document, posts content.Collection) ([]templates.Entry, error) {
	members := posts.First(doc.Fields.Limit)
	entries := make([]templates.Entry, 0, len(members))
	for _, post := range members {
		entry := templates.Entry{
			Title: post.Title(),
			URL:   PageURL(post),
			Date:  post.Date,
		}
		if doc.Fields.ShowExcerpts {
			excerpt, err := markdown.Render(markdown.Excerpt(post.Body))
			if err != nil {
				return nil, siteerrors.WrapError(err, siteerrors.CategoryRender, "rendering excerpt").
					WithContext("document", post.SourceID)
			}
			entry.Excerpt = template.HTML(excerpt)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (b *Builder) openCache(ctx context.Context) (*cache.Store, error) {
	if b.cfg.Output.CachePath == "" {
		return nil, nil
	}
	store, err := cache.Open(b.cfg.Output.CachePath)
	if err != nil {
		return nil, siteerrors.Wrap(err, siteerrors.CategoryCache, siteerrors.SeverityFatal, "opening build cache")
	}
	// A cleaned output directory invalidates every cached hash.
	if b.cfg.Output.Clean {
		if err := store.Forget(ctx); err != nil {
			_ = store.Close()
			return nil, siteerrors.Wrap(err, siteerrors.CategoryCache, siteerrors.SeverityFatal, "clearing build cache")
		}
	}
	return store, nil
}

// writeOutput writes rendered bytes unless the cache proves the file is
// already current. Returns whether a write happened.
func (b *Builder) writeOutput(ctx context.Context, store *cache.Store, outRel string, rendered []byte) (bool, error) {
	full := filepath.Join(b.cfg.Output.Directory, filepath.FromSlash(outRel))
	hash := cache.HashBytes(rendered)

	if store != nil {
		prior, err := store.Hash(ctx, outRel)
		if err != nil {
			return false, siteerrors.Wrap(err, siteerrors.CategoryCache, siteerrors.SeverityFatal, "reading build cache")
		}
		if prior == hash {
			if _, statErr := os.Stat(full); statErr == nil {
				slog.Debug("Output unchanged, skipping write", logfields.Output(outRel))
				return false, nil
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return false, siteerrors.Wrap(err, siteerrors.CategoryFileSystem, siteerrors.SeverityFatal, "creating output directory")
	}
	if err := os.WriteFile(full, rendered, 0o644); err != nil {
		return false, siteerrors.Wrap(err, siteerrors.CategoryFileSystem, siteerrors.SeverityFatal, "writing output file").
			WithContext("output", outRel)
	}

	if store != nil {
		if err := store.Remember(ctx, outRel, hash); err != nil {
			return false, siteerrors.Wrap(err, siteerrors.CategoryCache, siteerrors.SeverityFatal, "updating build cache")
		}
	}
	return true, nil
}

// applyGitDates fills LastMod from git history when configured. Failure to
// find a repository downgrades to a warning; the site simply builds without
// modification times.
func (b *Builder) applyGitDates(docs []content.Document) []content.Document {
	if !b.cfg.Content.UseGitDates {
		return docs
	}

	resolver, err := gitinfo.Open(b.cfg.Content.Dir)
	if err != nil {
		slog.Warn("Git dates requested but no repository found",
			logfields.Path(b.cfg.Content.Dir),
			logfields.Error(err))
		return docs
	}

	out := make([]content.Document, len(docs))
	copy(out, docs)
	for i := range out {
		path := filepath.Join(b.cfg.Content.Dir, filepath.FromSlash(out[i].SourceID))
		if when, ok := resolver.LastMod(path); ok {
			out[i].LastMod = when
		}
	}
	return out
}

// copyStatic mirrors the static directory into the output tree untouched.
func (b *Builder) copyStatic() error {
	staticDir := b.cfg.Content.StaticDir
	if staticDir == "" {
		return nil
	}
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		return nil
	}

	err := filepath.WalkDir(staticDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel, err := filepath.Rel(staticDir, path)
		if err != nil {
			return err
		}
		dst := filepath.Join(b.cfg.Output.Directory, rel)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		return copyFile(path, dst)
	})
	if err != nil {
		return siteerrors.Wrap(err, siteerrors.CategoryFileSystem, siteerrors.SeverityFatal, "copying static files")
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func (b *Builder) recordAndPublish(report *Report) {
	b.recorder.ObserveBuildDuration(report.Duration)
	b.recorder.IncBuildOutcome(report.Outcome())
	b.recorder.AddDocumentsRendered(report.Rendered)
	b.recorder.AddDocumentsSkipped(report.Skipped)
	b.recorder.AddIssues(len(report.Issues))

	slog.Info("Build finished",
		logfields.BuildID(report.ID),
		slog.String("outcome", report.Outcome()),
		slog.Int("documents", report.Documents),
		slog.Int("rendered", report.Rendered),
		slog.Int("skipped", report.Skipped),
		slog.Int("issues", len(report.Issues)),
		logfields.DurationMS(float64(report.Duration.Milliseconds())))

	if err := b.publisher.Publish(report); err != nil {
		slog.Warn("Failed to publish build report", logfields.Error(err))
	}
}
