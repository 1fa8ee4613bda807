package notes

import (
	"context"
	"log/slog"
	"time"

	"github.com/wahlandcase/attuned.relnotes/internal/config"
	"github.com/wahlandcase/attuned.relnotes/internal/git"
	"github.com/wahlandcase/attuned.relnotes/internal/github"
	"github.com/wahlandcase/attuned.relnotes/internal/models"
	"github.com/wahlandcase/attuned.relnotes/internal/schema"
)

// Pipeline wires one run: resolve range, load notes, attribute tags.
// The repository context is constructed once and passed in; nothing
// here keeps ambient state.
type Pipeline struct {
	Repo   *git.Repo
	Config *config.Config
	Schema *schema.Schema
	Log    *slog.Logger
}

// CollectOptions tune range resolution and tag attribution
type CollectOptions struct {
	// TagMatch is a glob(7) pattern restricting attributable tags; empty
	// falls back to the configured default
	TagMatch string
	Before   *time.Time
	After    *time.Time
	Reverse  bool
	// Workers overrides the note-loading pool size
	Workers int
}

// Collection is the result of one pipeline run
type Collection struct {
	// Notes is the queryable note range
	Notes *Range
	// Commits is every resolved commit, including note-less ones
	Commits []models.Commit
	// Expr is the literal range expression after symbolic resolution
	Expr string
}

// Collect runs the pipeline over a range expression. The reserved
// github.PRToken expression resolves through the hosted API into the
// base..HEAD range of the currently open pull request.
func (p *Pipeline) Collect(ctx context.Context, expr string, opts CollectOptions) (*Collection, error) {
	log := p.Log
	if log == nil {
		log = slog.Default()
	}

	if expr == github.PRToken {
		resolved, err := p.resolvePullRequestRange(ctx)
		if err != nil {
			return nil, err
		}
		log.Debug("resolved pull request range", "range", resolved)
		expr = resolved
	}

	commits, err := p.Repo.ResolveRange(expr, git.RangeOptions{
		Before:  opts.Before,
		After:   opts.After,
		Reverse: opts.Reverse,
	})
	if err != nil {
		return nil, err
	}
	log.Debug("resolved range", "range", expr, "commits", len(commits))

	added, err := p.Repo.AddedUnder(commits, p.Config.Notes.Dir)
	if err != nil {
		return nil, err
	}

	loader := NewLoader(p.Repo.Root(), p.Schema).WithWorkers(opts.Workers)
	rng, err := loader.Load(ctx, commits, added)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded notes", "notes", rng.Len())

	match := opts.TagMatch
	if match == "" {
		match = p.Config.Tags.Match
	}
	tags, err := p.Repo.LoadTags(match)
	if err != nil {
		return nil, err
	}
	for _, rec := range rng.records {
		rec.Tag = tags.Attribute(rec.Commit.SHA)
	}
	log.Debug("attributed tags", "tags", len(tags.Tags()))

	return &Collection{Notes: rng, Commits: commits, Expr: expr}, nil
}

// NewGitHubClient builds the hosted API client for the configured
// remote and the checked-out branch
func (p *Pipeline) NewGitHubClient() (*github.Client, error) {
	remoteURL, err := p.Repo.RemoteURL(p.Config.GitHub.Remote)
	if err != nil {
		return nil, err
	}
	branch, err := p.Repo.CurrentBranch()
	if err != nil {
		return nil, err
	}
	return github.NewClient(p.Config.GitHub.APIURL, remoteURL, branch)
}

func (p *Pipeline) resolvePullRequestRange(ctx context.Context) (string, error) {
	client, err := p.NewGitHubClient()
	if err != nil {
		// Missing token or unparseable remote stays a configuration error
		return "", err
	}
	base, err := client.PullRequestBase(ctx)
	if err != nil {
		return "", &git.ResolutionError{
			Range:  github.PRToken,
			Reason: "looking up the open pull request",
			Err:    err,
		}
	}
	return p.Config.GitHub.Remote + "/" + base + "..HEAD", nil
}
