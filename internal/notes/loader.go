package notes

import (
	"context"
	"os"
	"path/filepath"

	"github.com/wahlandcase/attuned.relnotes/internal/models"
	"github.com/wahlandcase/attuned.relnotes/internal/schema"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// DefaultWorkers bounds the note-loading pool
const DefaultWorkers = 8

// Loader reads note artifacts from the worktree and validates them
// against the schema. Loads are independent reads with no shared state,
// so they run over a bounded worker pool; results are reassembled in
// original commit order.
type Loader struct {
	root    string
	schema  *schema.Schema
	workers int
}

// NewLoader creates a Loader rooted at the repository root
func NewLoader(root string, s *schema.Schema) *Loader {
	return &Loader{root: root, schema: s, workers: DefaultWorkers}
}

// WithWorkers overrides the worker pool size
func (l *Loader) WithWorkers(n int) *Loader {
	if n > 0 {
		l.workers = n
	}
	return l
}

// Load produces the note records for a resolved commit range. commits
// gives the canonical order; added maps each sha to the note files that
// commit added. Commits with no associated artifact yield no record. A
// file that no longer exists in the worktree also yields no record - the
// note was deleted after it shipped.
func (l *Loader) Load(ctx context.Context, commits []models.Commit, added map[string][]string) (*Range, error) {
	type task struct {
		commit models.Commit
		path   string
	}

	var tasks []task
	for _, c := range commits {
		for _, p := range added[c.SHA] {
			tasks = append(tasks, task{commit: c, path: p})
		}
	}

	results := make([]*Record, len(tasks))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(l.workers)
	for i, t := range tasks {
		i, t := i, t
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rec, err := l.loadOne(t.commit, t.path)
			if err != nil {
				return err
			}
			results[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []*Record
	for _, rec := range results {
		if rec != nil {
			records = append(records, rec)
		}
	}
	return NewRange(records), nil
}

// loadOne reads, parses and validates one note artifact. Parse and
// validation failures are recovered into an invalid record; only
// environmental read failures surface as errors.
func (l *Loader) loadOne(commit models.Commit, rel string) (*Record, error) {
	data, err := os.ReadFile(filepath.Join(l.root, filepath.FromSlash(rel)))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rec := &Record{Commit: commit, Path: rel}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		rec.Errors = []string{"malformed note: " + err.Error()}
		return rec, nil
	}
	if len(doc) == 0 {
		// Empty artifact, same as no artifact at all
		return nil, nil
	}

	rec.Data = doc
	rec.Errors = l.schema.Validate(doc)

	for _, label := range l.schema.Labels() {
		if _, ok := doc[label]; ok {
			rec.order = append(rec.order, label)
		}
	}

	return rec, nil
}
