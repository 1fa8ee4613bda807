package git

import (
	"strings"

	"github.com/wahlandcase/attuned.relnotes/internal/models"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// AddedUnder maps each commit to the files it added under dir, a
// slash-separated path relative to the repository root. A note artifact
// belongs to the commit that added it, so this is the association step
// of note loading. Commits that added nothing under dir are absent from
// the result.
func (r *Repo) AddedUnder(commits []models.Commit, dir string) (map[string][]string, error) {
	prefix := strings.TrimSuffix(dir, "/") + "/"

	added := make(map[string][]string)
	for _, c := range commits {
		paths, err := r.addedBy(plumbing.NewHash(c.SHA), prefix)
		if err != nil {
			return nil, err
		}
		if len(paths) > 0 {
			added[c.SHA] = paths
		}
	}
	return added, nil
}

// addedBy lists the files the commit added, relative to the first parent
func (r *Repo) addedBy(hash plumbing.Hash, prefix string) ([]string, error) {
	commit, err := r.repo.CommitObject(hash)
	if err != nil {
		return nil, err
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, err
	}

	// Root commit: every file in the tree is an addition
	if commit.NumParents() == 0 {
		var paths []string
		err := tree.Files().ForEach(func(f *object.File) error {
			if strings.HasPrefix(f.Name, prefix) {
				paths = append(paths, f.Name)
			}
			return nil
		})
		return paths, err
	}

	parent, err := commit.Parent(0)
	if err != nil {
		return nil, err
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTree(parentTree, tree)
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, change := range changes {
		action, err := change.Action()
		if err != nil {
			continue
		}
		if action != merkletrie.Insert {
			continue
		}
		if strings.HasPrefix(change.To.Name, prefix) {
			paths = append(paths, change.To.Name)
		}
	}
	return paths, nil
}
