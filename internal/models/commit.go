package models

import "time"

// Signature identifies the author or committer of a commit
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Commit contains the commit metadata carried into note records
type Commit struct {
	SHA       string
	Author    Signature
	Committer Signature
}

// NewCommit creates a new Commit
func NewCommit(sha string, author, committer Signature) Commit {
	return Commit{
		SHA:       sha,
		Author:    author,
		Committer: committer,
	}
}

// ShortSHA returns the abbreviated 7-character hash
func (c Commit) ShortSHA() string {
	if len(c.SHA) < 7 {
		return c.SHA
	}
	return c.SHA[:7]
}
