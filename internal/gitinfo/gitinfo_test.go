package gitinfo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

func commitFile(t *testing.T, wt *git.Worktree, dir, name, body string, when time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	_, err := wt.Add(name)
	require.NoError(t, err)
	_, err = wt.Commit("update "+name, &git.CommitOptions{
		Author:    &object.Signature{Name: "t", Email: "t@example.com", When: when},
		Committer: &object.Signature{Name: "t", Email: "t@example.com", When: when},
	})
	require.NoError(t, err)
}

func TestResolver_LastModFromCommitHistory(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	first := time.Date(2019, 4, 8, 10, 0, 0, 0, time.UTC)
	second := time.Date(2020, 1, 2, 12, 0, 0, 0, time.UTC)
	commitFile(t, wt, dir, "content/about.md", "v1", first)
	commitFile(t, wt, dir, "content/about.md", "v2", second)
	commitFile(t, wt, dir, "content/other.md", "x", second.Add(time.Hour))

	// Opening a subdirectory finds the enclosing repository.
	resolver, err := Open(filepath.Join(dir, "content"))
	require.NoError(t, err)

	when, ok := resolver.LastMod(filepath.Join(dir, "content/about.md"))
	require.True(t, ok)
	require.True(t, second.Equal(when.UTC()))
}

func TestResolver_UntrackedFileNotFound(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	commitFile(t, wt, dir, "tracked.md", "x", time.Now())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "untracked.md"), []byte("y"), 0o644))

	resolver, err := Open(dir)
	require.NoError(t, err)

	_, ok := resolver.LastMod(filepath.Join(dir, "untracked.md"))
	require.False(t, ok)
}

func TestOpen_OutsideRepositoryFails(t *testing.T) {
	_, err := Open(t.TempDir())
	require.Error(t, err)
}
