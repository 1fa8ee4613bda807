package git

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// Repo is the repository context for one pipeline run. It is constructed
// once and passed explicitly into the resolver, attributor and loader.
type Repo struct {
	repo *git.Repository
	root string
}

// IsGitRepo checks if the path is a git repository
func IsGitRepo(path string) bool {
	_, err := git.PlainOpen(path)
	return err == nil
}

// Open opens the repository containing path, walking up to the root
func Open(path string) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	// Walk up to find the git root
	root := abs
	for {
		if IsGitRepo(root) {
			break
		}
		parent := filepath.Dir(root)
		if parent == root {
			return nil, os.ErrNotExist
		}
		root = parent
	}

	repo, err := git.PlainOpen(root)
	if err != nil {
		return nil, err
	}

	return &Repo{repo: repo, root: root}, nil
}

// OpenCurrent opens the repository containing the working directory
func OpenCurrent() (*Repo, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	return Open(cwd)
}

// Root returns the absolute path of the repository root
func (r *Repo) Root() string {
	return r.root
}

// CurrentBranch returns the short name of the checked-out branch
func (r *Repo) CurrentBranch() (string, error) {
	head, err := r.repo.Head()
	if err != nil {
		return "", err
	}
	if !head.Name().IsBranch() {
		return "", &ResolutionError{Range: "HEAD", Reason: "detached HEAD, not on a branch"}
	}
	return head.Name().Short(), nil
}

// RemoteURL returns the first URL configured for the named remote
func (r *Repo) RemoteURL(name string) (string, error) {
	remote, err := r.repo.Remote(name)
	if err != nil {
		return "", err
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %q has no URL", name)
	}
	return urls[0], nil
}

// ResolutionError indicates a range expression could not be resolved
type ResolutionError struct {
	Range  string
	Reason string
	Err    error
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("cannot resolve range %q: %s", e.Range, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() error { return e.Err }
