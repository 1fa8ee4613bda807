package models

// PullRequest contains the subset of hosted PR info the resolver needs
type PullRequest struct {
	Number     uint64
	URL        string
	Title      string
	State      string
	BaseBranch string
	HeadBranch string
}
