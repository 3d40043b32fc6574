package github

import (
	"context"
	"sync"
	"time"

	"github.com/google/go-github/v60/github"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/oauth2"
	"golang.org/x/sync/semaphore"

	"github.com/gitpress/gitpress/pkg/config"
)

// API is the slice of the GitHub REST surface the client depends on,
// kept narrow so tests can substitute a stub.
type API interface {
	GetRepository(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error)
	GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error)
	ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error)
	ListBranches(ctx context.Context, owner, repo string, opts *github.BranchListOptions) ([]*github.Branch, *github.Response, error)
	SearchRepositories(ctx context.Context, query string, opts *github.SearchOptions) (*github.RepositoriesSearchResult, *github.Response, error)
	RateLimit(ctx context.Context) (*github.RateLimits, *github.Response, error)
}

// apiWrapper adapts *github.Client to the API interface.
type apiWrapper struct {
	client *github.Client
}

func (w *apiWrapper) GetRepository(ctx context.Context, owner, repo string) (*github.Repository, *github.Response, error) {
	return w.client.Repositories.Get(ctx, owner, repo)
}

func (w *apiWrapper) GetContents(ctx context.Context, owner, repo, path string, opts *github.RepositoryContentGetOptions) (*github.RepositoryContent, []*github.RepositoryContent, *github.Response, error) {
	return w.client.Repositories.GetContents(ctx, owner, repo, path, opts)
}

func (w *apiWrapper) ListCommits(ctx context.Context, owner, repo string, opts *github.CommitsListOptions) ([]*github.RepositoryCommit, *github.Response, error) {
	return w.client.Repositories.ListCommits(ctx, owner, repo, opts)
}

func (w *apiWrapper) ListBranches(ctx context.Context, owner, repo string, opts *github.BranchListOptions) ([]*github.Branch, *github.Response, error) {
	return w.client.Repositories.ListBranches(ctx, owner, repo, opts)
}

func (w *apiWrapper) SearchRepositories(ctx context.Context, query string, opts *github.SearchOptions) (*github.RepositoriesSearchResult, *github.Response, error) {
	return w.client.Search.Repositories(ctx, query, opts)
}

func (w *apiWrapper) RateLimit(ctx context.Context) (*github.RateLimits, *github.Response, error) {
	return w.client.RateLimit.Get(ctx)
}

// Client wraps every outbound GitHub call with a bounded concurrency
// gate, a per-call timeout, and uniform error classification. The gate
// admits up to RateLimit calls at once and queues the rest in arrival
// order. It bounds bursts only: it is a concurrency limiter, not a
// token bucket, so fast requests can still exceed a per-minute quota.
type Client struct {
	api     API
	gate    *semaphore.Weighted
	timeout time.Duration
	pattern string

	statsMu      sync.Mutex
	requestCount int
	lastReset    time.Time
}

// New creates a client from the remote configuration. Without a token
// the client still works against public repositories, at the lower
// unauthenticated rate limit.
func New(ctx context.Context, cfg config.Remote) *Client {
	logger := zerolog.Ctx(ctx)

	var gh *github.Client
	if cfg.Token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		gh = github.NewClient(oauth2.NewClient(ctx, ts))
	} else {
		logger.Warn().Msg("GitHub token not provided, API requests will be limited")
		gh = github.NewClient(nil)
	}

	return NewWithAPI(&apiWrapper{client: gh}, cfg)
}

// NewWithAPI creates a client over an explicit API implementation.
func NewWithAPI(api API, cfg config.Remote) *Client {
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = config.DefaultRateLimit
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultTimeout
	}
	pattern := cfg.Pattern
	if pattern == "" {
		pattern = config.DefaultPattern
	}
	return &Client{
		api:       api,
		gate:      semaphore.NewWeighted(int64(limit)),
		timeout:   timeout,
		pattern:   pattern,
		lastReset: time.Now(),
	}
}

// withSlot runs fn behind the concurrency gate with the configured
// timeout applied.
func (c *Client) withSlot(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := c.gate.Acquire(ctx, 1); err != nil {
		return errors.Errorf("acquiring request slot: %w", err)
	}
	defer c.gate.Release(1)

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.trackRequest()
	return fn(ctx)
}

// GetRepository fetches repository metadata.
func (c *Client) GetRepository(ctx context.Context, owner, repo string) (Repository, error) {
	var out Repository
	err := c.withSlot(ctx, func(ctx context.Context) error {
		r, _, err := c.api.GetRepository(ctx, owner, repo)
		if err != nil {
			return classify(err)
		}
		out = repositoryFromAPI(r)
		return nil
	})
	return out, err
}

// GetContent fetches a directory listing, or a single-element list when
// path names a file.
func (c *Client) GetContent(ctx context.Context, owner, repo, path, ref string) ([]Content, error) {
	var out []Content
	err := c.withSlot(ctx, func(ctx context.Context) error {
		var opts *github.RepositoryContentGetOptions
		if ref != "" {
			opts = &github.RepositoryContentGetOptions{Ref: ref}
		}
		file, dir, _, err := c.api.GetContents(ctx, owner, repo, path, opts)
		if err != nil {
			return classify(err)
		}

		entries := dir
		if file != nil {
			entries = []*github.RepositoryContent{file}
		}

		out = make([]Content, 0, len(entries))
		for _, entry := range entries {
			content, err := contentFromAPI(entry)
			if err != nil {
				return err
			}
			out = append(out, content)
		}
		return nil
	})
	return out, err
}

// GetFileContent fetches path and returns its payload as decoded UTF-8
// text. Directories and entries without retrievable content fail.
func (c *Client) GetFileContent(ctx context.Context, owner, repo, path, ref string) (string, error) {
	contents, err := c.GetContent(ctx, owner, repo, path, ref)
	if err != nil {
		return "", err
	}
	if len(contents) == 0 || contents[0].Type != "file" || contents[0].Content == "" {
		return "", &APIError{Kind: KindValidation, Message: "path " + path + " is not a file or content is not available"}
	}
	return contents[0].Decode()
}

// GetLastCommitSHA returns the most recent commit fingerprint for a
// path, or empty when none is known.
func (c *Client) GetLastCommitSHA(ctx context.Context, owner, repo, path string) (string, error) {
	var sha string
	err := c.withSlot(ctx, func(ctx context.Context) error {
		commits, _, err := c.api.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
			Path:        path,
			ListOptions: github.ListOptions{PerPage: 1},
		})
		if err != nil {
			return classify(err)
		}
		if len(commits) > 0 {
			sha = commits[0].GetSHA()
		}
		return nil
	})
	return sha, err
}

// GetBranches lists the repository branches.
func (c *Client) GetBranches(ctx context.Context, owner, repo string) ([]Branch, error) {
	var out []Branch
	err := c.withSlot(ctx, func(ctx context.Context) error {
		branches, _, err := c.api.ListBranches(ctx, owner, repo, nil)
		if err != nil {
			return classify(err)
		}
		out = make([]Branch, 0, len(branches))
		for _, b := range branches {
			out = append(out, branchFromAPI(b))
		}
		return nil
	})
	return out, err
}

// GetCommits lists recent commits, optionally scoped to a path.
func (c *Client) GetCommits(ctx context.Context, owner, repo, path string, perPage int) ([]Commit, error) {
	if perPage <= 0 {
		perPage = 30
	}
	var out []Commit
	err := c.withSlot(ctx, func(ctx context.Context) error {
		commits, _, err := c.api.ListCommits(ctx, owner, repo, &github.CommitsListOptions{
			Path:        path,
			ListOptions: github.ListOptions{PerPage: perPage},
		})
		if err != nil {
			return classify(err)
		}
		out = make([]Commit, 0, len(commits))
		for _, commit := range commits {
			out = append(out, commitFromAPI(commit))
		}
		return nil
	})
	return out, err
}

// SearchRepositories runs a repository search query.
func (c *Client) SearchRepositories(ctx context.Context, query string, perPage int) (SearchResult, error) {
	if perPage <= 0 {
		perPage = 30
	}
	var out SearchResult
	err := c.withSlot(ctx, func(ctx context.Context) error {
		result, _, err := c.api.SearchRepositories(ctx, query, &github.SearchOptions{
			ListOptions: github.ListOptions{PerPage: perPage},
		})
		if err != nil {
			return classify(err)
		}
		out.TotalCount = result.GetTotal()
		out.Repositories = make([]Repository, 0, len(result.Repositories))
		for _, r := range result.Repositories {
			out.Repositories = append(out.Repositories, repositoryFromAPI(r))
		}
		return nil
	})
	return out, err
}

// IsRepositoryPublic reports whether owner/repo exists and is public.
// A missing repository is not an error here.
func (c *Client) IsRepositoryPublic(ctx context.Context, owner, repo string) (bool, error) {
	repository, err := c.GetRepository(ctx, owner, repo)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return !repository.Private, nil
}

// GetRateLimit returns the authenticated caller's current core quota.
func (c *Client) GetRateLimit(ctx context.Context) (remaining, limit int, err error) {
	err = c.withSlot(ctx, func(ctx context.Context) error {
		limits, _, err := c.api.RateLimit(ctx)
		if err != nil {
			return classify(err)
		}
		core := limits.GetCore()
		remaining = core.Remaining
		limit = core.Limit
		return nil
	})
	return remaining, limit, err
}

// trackRequest bumps the request counter, resetting it once a minute.
func (c *Client) trackRequest() {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	if time.Since(c.lastReset) > time.Minute {
		c.requestCount = 0
		c.lastReset = time.Now()
	}
	c.requestCount++
}

// RequestStats returns a snapshot of the request counter.
func (c *Client) RequestStats() RequestStats {
	c.statsMu.Lock()
	defer c.statsMu.Unlock()
	return RequestStats{
		Count:     c.requestCount,
		ResetTime: c.lastReset.Add(time.Minute),
	}
}
