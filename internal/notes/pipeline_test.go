package notes

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wahlandcase/attuned.relnotes/internal/config"
	"github.com/wahlandcase/attuned.relnotes/internal/git"
	"github.com/wahlandcase/attuned.relnotes/internal/schema"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pipelineRepo is an end-to-end fixture: a real repository with a
// schema and note artifacts committed alongside the code they annotate
type pipelineRepo struct {
	t     *testing.T
	dir   string
	repo  *gogit.Repository
	clock time.Time
}

func newPipelineRepo(t *testing.T) *pipelineRepo {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	p := &pipelineRepo{
		t:     t,
		dir:   dir,
		repo:  repo,
		clock: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	p.commit("schema", map[string]string{".relnotes/schema.yaml": testSchema})
	return p
}

func (p *pipelineRepo) commit(msg string, files map[string]string) string {
	p.t.Helper()

	w, err := p.repo.Worktree()
	require.NoError(p.t, err)

	for path, content := range files {
		full := filepath.Join(p.dir, filepath.FromSlash(path))
		require.NoError(p.t, os.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(p.t, os.WriteFile(full, []byte(content), 0644))
		_, err := w.Add(path)
		require.NoError(p.t, err)
	}

	p.clock = p.clock.Add(time.Minute)
	hash, err := w.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
			When:  p.clock,
		},
		AllowEmptyCommits: true,
	})
	require.NoError(p.t, err)
	return hash.String()
}

func (p *pipelineRepo) tag(name, sha string, created time.Time) {
	p.t.Helper()
	_, err := p.repo.CreateTag(name, plumbing.NewHash(sha), &gogit.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  "Ada Lovelace",
			Email: "ada@example.com",
			When:  created,
		},
		Message: name,
	})
	require.NoError(p.t, err)
}

func (p *pipelineRepo) pipeline() *Pipeline {
	p.t.Helper()

	repo, err := git.Open(p.dir)
	require.NoError(p.t, err)

	cfg, err := config.Load(repo.Root())
	require.NoError(p.t, err)

	sch, err := schema.Load(cfg.SchemaPath(repo.Root()))
	require.NoError(p.t, err)

	return &Pipeline{Repo: repo, Config: cfg, Schema: sch}
}

func TestPipeline_LintFailsNamingNoteLessCommit(t *testing.T) {
	p := newPipelineRepo(t)
	base := p.commit("base", map[string]string{"src/base.txt": "base"})
	p.commit("feature", map[string]string{
		"src/a.txt":                              "a",
		".relnotes/notes/2024-03-01-aaaaaa.yaml": "type: feature\nsummary: Added A\n",
	})
	p.commit("bugfix", map[string]string{
		"src/b.txt":                              "b",
		".relnotes/notes/2024-03-01-bbbbbb.yaml": "type: bug\nsummary: Fixed B\n",
	})
	bare := p.commit("undocumented", map[string]string{"src/c.txt": "c"})

	col, err := p.pipeline().Collect(context.Background(), base+"..HEAD", CollectOptions{})
	require.NoError(t, err)

	require.Len(t, col.Commits, 3)
	assert.Equal(t, 2, col.Notes.Len())

	res := Lint(col.Commits, col.Notes)
	assert.False(t, res.Passed)
	require.Len(t, res.Missing, 1)
	assert.Equal(t, bare, res.Missing[0].SHA)
	assert.Empty(t, res.Invalid)
}

func TestPipeline_IdenticalEndpointsLintPass(t *testing.T) {
	p := newPipelineRepo(t)
	p.commit("work", map[string]string{"src/a.txt": "a"})

	col, err := p.pipeline().Collect(context.Background(), "master..master", CollectOptions{})
	require.NoError(t, err)
	assert.Empty(t, col.Commits)

	res := Lint(col.Commits, col.Notes)
	assert.True(t, res.Passed)
	assert.Equal(t, "no commits in range", res.Reason)
}

func TestPipeline_AttributesEarliestTag(t *testing.T) {
	p := newPipelineRepo(t)
	c1 := p.commit("feature", map[string]string{
		".relnotes/notes/2024-03-01-aaaaaa.yaml": "type: feature\nsummary: Added A\n",
	})
	c2 := p.commit("later", map[string]string{"src/z.txt": "z"})

	p.tag("v1.0", c1, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	p.tag("v1.1", c2, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))

	col, err := p.pipeline().Collect(context.Background(), "", CollectOptions{})
	require.NoError(t, err)

	require.Equal(t, 1, col.Notes.Len())
	note := col.Notes.At(0)
	require.NotNil(t, note.Tag)
	assert.Equal(t, "v1.0", note.Tag.Name)
}

func TestPipeline_InvalidNoteSurvivesToLint(t *testing.T) {
	p := newPipelineRepo(t)
	base := p.commit("base", map[string]string{"src/base.txt": "base"})
	p.commit("feature", map[string]string{
		".relnotes/notes/2024-03-01-cccccc.yaml": "type: feature\n",
	})

	col, err := p.pipeline().Collect(context.Background(), base+"..HEAD", CollectOptions{})
	require.NoError(t, err)

	res := Lint(col.Commits, col.Notes)
	assert.False(t, res.Passed)
	require.Len(t, res.Invalid, 1)
	assert.Contains(t, res.Invalid[0].Errors[0], "summary")
}

func TestPipeline_DeletedNoteCountsAsMissing(t *testing.T) {
	p := newPipelineRepo(t)
	base := p.commit("base", map[string]string{"src/base.txt": "base"})
	p.commit("feature", map[string]string{
		".relnotes/notes/2024-03-01-dddddd.yaml": "type: feature\nsummary: ok\n",
	})

	// Remove the artifact from the worktree after it was committed
	require.NoError(t, os.Remove(filepath.Join(p.dir, ".relnotes", "notes", "2024-03-01-dddddd.yaml")))

	col, err := p.pipeline().Collect(context.Background(), base+"..HEAD", CollectOptions{})
	require.NoError(t, err)
	assert.True(t, col.Notes.Empty())
}
