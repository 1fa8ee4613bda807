package git

import (
	"path"
	"sort"
	"time"

	"github.com/wahlandcase/attuned.relnotes/internal/models"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// TagSet is a reachability snapshot built once per resolved range: every
// tag of the repository together with the set of commit shas it contains.
// Immutable after construction and safe for concurrent readers.
type TagSet struct {
	tags  []models.Tag
	reach map[string]map[string]bool
}

// LoadTags builds a TagSet from the repository. match is an optional
// glob(7) pattern; tags whose short name doesn't match are ignored.
func (r *Repo) LoadTags(match string) (*TagSet, error) {
	ts := &TagSet{reach: make(map[string]map[string]bool)}

	refs, err := r.repo.Tags()
	if err != nil {
		return nil, err
	}

	err = refs.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if match != "" {
			ok, err := path.Match(match, name)
			if err != nil || !ok {
				return nil
			}
		}

		target, created, err := r.tagTarget(ref)
		if err != nil {
			// Tag pointing at a non-commit object (tree, blob)
			return nil
		}

		contained, err := r.reachableFrom(target)
		if err != nil {
			return err
		}

		ts.tags = append(ts.tags, models.NewTag(name, created))
		ts.reach[name] = contained
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Creation order, ties broken by name, so attribution is a single
	// in-order scan for the earliest containing tag
	sort.Slice(ts.tags, func(i, j int) bool {
		return ts.tags[i].Before(ts.tags[j])
	})

	return ts, nil
}

// tagTarget resolves a tag ref to its target commit hash and creation
// time: the tagger timestamp for annotated tags, the target commit's
// committer timestamp for lightweight ones.
func (r *Repo) tagTarget(ref *plumbing.Reference) (plumbing.Hash, time.Time, error) {
	if tag, err := r.repo.TagObject(ref.Hash()); err == nil {
		commit, err := tag.Commit()
		if err != nil {
			return plumbing.ZeroHash, time.Time{}, err
		}
		return commit.Hash, tag.Tagger.When, nil
	}

	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return plumbing.ZeroHash, time.Time{}, err
	}
	return commit.Hash, commit.Committer.When, nil
}

// reachableFrom collects the shas of every commit reachable from hash
func (r *Repo) reachableFrom(hash plumbing.Hash) (map[string]bool, error) {
	iter, err := r.repo.Log(&git.LogOptions{From: hash})
	if err != nil {
		return nil, err
	}

	contained := make(map[string]bool)
	err = iter.ForEach(func(c *object.Commit) error {
		contained[c.Hash.String()] = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contained, nil
}

// Tags returns the tags in creation order
func (ts *TagSet) Tags() []models.Tag {
	out := make([]models.Tag, len(ts.tags))
	copy(out, ts.tags)
	return out
}

// Attribute returns the earliest-created tag containing the commit, the
// release under which it first shipped. Nil means unreleased.
func (ts *TagSet) Attribute(sha string) *models.Tag {
	for _, tag := range ts.tags {
		if ts.reach[tag.Name][sha] {
			t := tag
			return &t
		}
	}
	return nil
}
