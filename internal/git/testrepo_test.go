package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// testRepo builds throwaway repositories with deterministic timestamps
type testRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
	// clock advances one minute per commit so committer-time ordering
	// is stable
	clock time.Time
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	return &testRepo{
		t:     t,
		dir:   dir,
		repo:  repo,
		clock: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *testRepo) open() *Repo {
	r.t.Helper()
	repo, err := Open(r.dir)
	require.NoError(r.t, err)
	return repo
}

// commit writes files and commits them, returning the commit sha
func (r *testRepo) commit(msg string, files map[string]string) string {
	r.t.Helper()

	w, err := r.repo.Worktree()
	require.NoError(r.t, err)

	for path, content := range files {
		full := filepath.Join(r.dir, filepath.FromSlash(path))
		require.NoError(r.t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(r.t, os.WriteFile(full, []byte(content), 0644))
		_, err := w.Add(path)
		require.NoError(r.t, err)
	}

	r.clock = r.clock.Add(time.Minute)
	hash, err := w.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
			When:  r.clock,
		},
		AllowEmptyCommits: true,
	})
	require.NoError(r.t, err)
	return hash.String()
}

// merge creates a two-parent commit over the current index
func (r *testRepo) merge(msg string, parents ...string) string {
	r.t.Helper()

	w, err := r.repo.Worktree()
	require.NoError(r.t, err)

	hashes := make([]plumbing.Hash, len(parents))
	for i, p := range parents {
		hashes[i] = plumbing.NewHash(p)
	}

	r.clock = r.clock.Add(time.Minute)
	hash, err := w.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
			When:  r.clock,
		},
		Parents:           hashes,
		AllowEmptyCommits: true,
	})
	require.NoError(r.t, err)
	return hash.String()
}

// tag creates a lightweight tag pointing at sha
func (r *testRepo) tag(name, sha string) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, plumbing.NewHash(sha), nil)
	require.NoError(r.t, err)
}

// annotatedTag creates an annotated tag with an explicit creation time
func (r *testRepo) annotatedTag(name, sha string, created time.Time) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, plumbing.NewHash(sha), &gogit.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
			When:  created,
		},
		Message: name,
	})
	require.NoError(r.t, err)
}
