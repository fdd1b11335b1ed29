// Package gitinfo resolves document modification times from git history,
// for sites whose content store lives in a repository.
package gitinfo

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"

	"github.com/stanza-ssg/stanza/internal/logfields"
)

// Resolver answers last-modified queries against one repository.
type Resolver struct {
	repo *git.Repository
	root string
}

// Open locates the repository enclosing dir (walking up to find .git).
// Content outside any repository is not an error for the build; callers
// treat a failed Open as "no git dates available".
func Open(dir string) (*Resolver, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository for %s: %w", dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("repository worktree: %w", err)
	}

	return &Resolver{repo: repo, root: wt.Filesystem.Root()}, nil
}

// LastMod returns the committer time of the most recent commit touching the
// given file. ok is false for untracked or never-committed files.
func (r *Resolver) LastMod(path string) (time.Time, bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, false
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return time.Time{}, false
	}
	rel = filepath.ToSlash(rel)

	iter, err := r.repo.Log(&git.LogOptions{
		FileName: &rel,
		Order:    git.LogOrderCommitterTime,
	})
	if err != nil {
		slog.Debug("git log failed", logfields.Path(rel), logfields.Error(err))
		return time.Time{}, false
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		return time.Time{}, false
	}
	return commit.Committer.When, true
}
