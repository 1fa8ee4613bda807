// Package github resolves the symbolic pull-request range and posts
// changelog comments through the GitHub REST API.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/wahlandcase/attuned.relnotes/internal/models"
)

// PRToken is the reserved range (and output) value that targets the
// pull request opened from the current branch
const PRToken = ":github/pr"

// TokenEnv is the environment variable holding the API bearer token
const TokenEnv = "GITHUB_API_TOKEN"

// DefaultAPIURL is the public GitHub REST endpoint
const DefaultAPIURL = "https://api.github.com"

// requestTimeout bounds every API call; retries are the caller's business
const requestTimeout = 10 * time.Second

// ConfigurationError indicates the environment is not set up for API access
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string { return e.Reason }

// APIError indicates an unexpected response from the API
type APIError struct {
	Status int
	URL    string
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github API returned %d for %s: %s", e.Status, e.URL, e.Body)
}

// NoPullRequestError indicates no open PR exists for the branch
type NoPullRequestError struct {
	Branch string
}

func (e *NoPullRequestError) Error() string {
	return fmt.Sprintf("no open pull request found for branch %q", e.Branch)
}

// MultiplePullRequestsError indicates the branch has more than one open PR
type MultiplePullRequestsError struct {
	Branch string
	Count  int
}

func (e *MultiplePullRequestsError) Error() string {
	return fmt.Sprintf("%d open pull requests found for branch %q, expected one", e.Count, e.Branch)
}

// Client talks to the hosted API for one repository and branch
type Client struct {
	http   *http.Client
	apiURL string
	token  string
	owner  string
	repo   string
	branch string
}

// NewClient builds a client for the repository identified by a remote
// URL and the checked-out branch. The bearer token comes from the
// GITHUB_API_TOKEN environment variable; a missing token is a
// configuration error.
func NewClient(apiURL, remoteURL, branch string) (*Client, error) {
	token := os.Getenv(TokenEnv)
	if token == "" {
		return nil, &ConfigurationError{Reason: TokenEnv + " environment variable must be set"}
	}

	owner, repo, err := ParseRemote(remoteURL)
	if err != nil {
		return nil, err
	}

	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	return &Client{
		http:   &http.Client{Timeout: requestTimeout},
		apiURL: strings.TrimSuffix(apiURL, "/"),
		token:  token,
		owner:  owner,
		repo:   repo,
		branch: branch,
	}, nil
}

// ParseRemote extracts owner and repository name from an ssh or https
// git remote URL
func ParseRemote(url string) (owner, repo string, err error) {
	cleaned := url
	switch {
	case strings.HasPrefix(cleaned, "git@"):
		// git@github.com:owner/repo.git
		if i := strings.Index(cleaned, ":"); i >= 0 {
			cleaned = cleaned[i+1:]
		}
	default:
		// https://github.com/owner/repo.git, ssh://git@github.com/owner/repo
		cleaned = strings.TrimPrefix(cleaned, "ssh://")
		cleaned = strings.TrimPrefix(cleaned, "https://")
		cleaned = strings.TrimPrefix(cleaned, "http://")
		if i := strings.Index(cleaned, "/"); i >= 0 {
			cleaned = cleaned[i+1:]
		}
	}
	cleaned = strings.TrimSuffix(cleaned, ".git")
	cleaned = strings.Trim(cleaned, "/")

	parts := strings.Split(cleaned, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", &ConfigurationError{
			Reason: fmt.Sprintf("cannot parse owner/repo from remote URL %q", url),
		}
	}
	return parts[0], parts[1], nil
}

// wire shapes for the REST responses
type pullResponse struct {
	Number  uint64 `json:"number"`
	HTMLURL string `json:"html_url"`
	Title   string `json:"title"`
	State   string `json:"state"`
	Base    struct {
		Ref string `json:"ref"`
	} `json:"base"`
	Head struct {
		Ref string `json:"ref"`
	} `json:"head"`
}

// PullRequest finds the single open PR whose head is the current branch
func (c *Client) PullRequest(ctx context.Context) (*models.PullRequest, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/pulls?head=%s:%s&state=open",
		c.apiURL, c.owner, c.repo, c.owner, c.branch)

	var pulls []pullResponse
	if err := c.get(ctx, url, &pulls); err != nil {
		return nil, err
	}

	switch len(pulls) {
	case 0:
		return nil, &NoPullRequestError{Branch: c.branch}
	case 1:
	default:
		return nil, &MultiplePullRequestsError{Branch: c.branch, Count: len(pulls)}
	}

	pr := pulls[0]
	return &models.PullRequest{
		Number:     pr.Number,
		URL:        pr.HTMLURL,
		Title:      pr.Title,
		State:      pr.State,
		BaseBranch: pr.Base.Ref,
		HeadBranch: pr.Head.Ref,
	}, nil
}

// PullRequestBase returns the base branch of the current branch's open PR
func (c *Client) PullRequestBase(ctx context.Context) (string, error) {
	pr, err := c.PullRequest(ctx)
	if err != nil {
		return "", err
	}
	return pr.BaseBranch, nil
}

// Comment posts body as a comment on the current branch's open PR
func (c *Client) Comment(ctx context.Context, body string) error {
	pr, err := c.PullRequest(ctx)
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/repos/%s/%s/issues/%d/comments", c.apiURL, c.owner, c.repo, pr.Number)

	payload, err := json.Marshal(map[string]string{"body": body})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return apiError(resp, url)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return apiError(resp, url)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/vnd.github+json")
}

func apiError(resp *http.Response, url string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return &APIError{
		Status: resp.StatusCode,
		URL:    url,
		Body:   strings.TrimSpace(string(body)),
	}
}
