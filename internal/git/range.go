package git

import (
	"errors"
	"strings"
	"time"

	"github.com/wahlandcase/attuned.relnotes/internal/models"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// RangeOptions tune how a range expression is resolved
type RangeOptions struct {
	// Before keeps only commits committed strictly before this time
	Before *time.Time
	// After keeps only commits committed strictly after this time
	After *time.Time
	// Reverse flips the order to oldest-first
	Reverse bool
}

// ResolveRange resolves a range expression into an ordered list of commits,
// most-recent-first. Supported forms:
//
//	""      all commits reachable from HEAD
//	"ref"   all commits reachable from ref
//	"A..B"  commits reachable from B but not from A (B defaults to HEAD)
//
// Merge commits are skipped. A range containing zero commits is a valid
// result, not an error.
func (r *Repo) ResolveRange(expr string, opts RangeOptions) ([]models.Commit, error) {
	base, head := splitRange(expr)

	headHash, err := r.resolve(head)
	if err != nil {
		// An unborn HEAD has no commits at all; that is an empty range
		if head == "HEAD" && errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, nil
		}
		return nil, &ResolutionError{Range: expr, Reason: "unknown revision " + head, Err: err}
	}

	// Build the set of commits reachable from the base (exclusive side)
	excluded := make(map[plumbing.Hash]bool)
	if base != "" {
		baseHash, err := r.resolve(base)
		if err != nil {
			return nil, &ResolutionError{Range: expr, Reason: "unknown revision " + base, Err: err}
		}
		baseIter, err := r.repo.Log(&git.LogOptions{From: *baseHash})
		if err != nil {
			return nil, &ResolutionError{Range: expr, Reason: "walking base history", Err: err}
		}
		baseIter.ForEach(func(c *object.Commit) error {
			excluded[c.Hash] = true
			return nil
		})
	}

	headIter, err := r.repo.Log(&git.LogOptions{
		From:  *headHash,
		Order: git.LogOrderCommitterTime,
		Since: opts.After,
		Until: opts.Before,
	})
	if err != nil {
		return nil, &ResolutionError{Range: expr, Reason: "walking history", Err: err}
	}

	var commits []models.Commit
	seen := make(map[plumbing.Hash]bool)
	err = headIter.ForEach(func(c *object.Commit) error {
		// Don't stop at excluded commits - merge commits have multiple
		// parents and feature commits may sit behind an excluded path
		if seen[c.Hash] || excluded[c.Hash] {
			return nil
		}
		seen[c.Hash] = true

		if c.NumParents() > 1 {
			return nil
		}

		commits = append(commits, models.NewCommit(
			c.Hash.String(),
			signature(c.Author),
			signature(c.Committer),
		))
		return nil
	})
	if err != nil {
		return nil, &ResolutionError{Range: expr, Reason: "walking history", Err: err}
	}

	if opts.Reverse {
		for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
			commits[i], commits[j] = commits[j], commits[i]
		}
	}

	return commits, nil
}

// splitRange splits "A..B" into base and head, defaulting head to HEAD
func splitRange(expr string) (base, head string) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return "", "HEAD"
	}
	if i := strings.Index(expr, ".."); i >= 0 {
		base = expr[:i]
		head = expr[i+2:]
		if head == "" {
			head = "HEAD"
		}
		return base, head
	}
	return "", expr
}

func (r *Repo) resolve(rev string) (*plumbing.Hash, error) {
	return r.repo.ResolveRevision(plumbing.Revision(rev))
}

func signature(s object.Signature) models.Signature {
	return models.Signature{
		Name:  s.Name,
		Email: s.Email,
		When:  s.When,
	}
}
