package github

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/go-github/v60/github"
)

// Repository is repository metadata, flattened from the upstream shape.
type Repository struct {
	Owner           string `json:"owner"`
	Repo            string `json:"repo"`
	FullName        string `json:"fullName"`
	Description     string `json:"description"`
	Private         bool   `json:"private"`
	Fork            bool   `json:"fork"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
	PushedAt        string `json:"pushedAt"`
	Size            int    `json:"size"`
	StargazersCount int    `json:"stargazersCount"`
	WatchersCount   int    `json:"watchersCount"`
	Language        string `json:"language"`
	ForksCount      int    `json:"forksCount"`
	DefaultBranch   string `json:"defaultBranch"`
}

// Content is one entry of a repository contents listing. For files the
// Content field carries the payload in the encoding named by Encoding.
type Content struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	SHA         string `json:"sha"`
	Size        int    `json:"size"`
	URL         string `json:"url"`
	HTMLURL     string `json:"htmlUrl"`
	DownloadURL string `json:"downloadUrl"`
	Type        string `json:"type"`
	Content     string `json:"content,omitempty"`
	Encoding    string `json:"encoding,omitempty"`
}

// Decode returns the entry payload as UTF-8 text, decoding base64 when
// the encoding tag says so.
func (c Content) Decode() (string, error) {
	if c.Encoding != "base64" {
		return c.Content, nil
	}
	raw := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' {
			return -1
		}
		return r
	}, c.Content)
	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", &APIError{Kind: KindValidation, Message: "decoding base64 content: " + err.Error(), cause: err}
	}
	return string(data), nil
}

// Branch is a repository branch with its head commit.
type Branch struct {
	Name      string `json:"name"`
	SHA       string `json:"sha"`
	Protected bool   `json:"protected"`
}

// Commit is a single commit summary.
type Commit struct {
	SHA     string `json:"sha"`
	Author  string `json:"author"`
	Date    string `json:"date"`
	Message string `json:"message"`
}

// SearchResult is one page of a repository search.
type SearchResult struct {
	Repositories []Repository `json:"repositories"`
	TotalCount   int          `json:"totalCount"`
}

// RequestStats is a snapshot of the client's request counter.
type RequestStats struct {
	Count     int       `json:"count"`
	ResetTime time.Time `json:"resetTime"`
}

func repositoryFromAPI(r *github.Repository) Repository {
	return Repository{
		Owner:           r.GetOwner().GetLogin(),
		Repo:            r.GetName(),
		FullName:        r.GetFullName(),
		Description:     r.GetDescription(),
		Private:         r.GetPrivate(),
		Fork:            r.GetFork(),
		CreatedAt:       timestamp(r.GetCreatedAt()),
		UpdatedAt:       timestamp(r.GetUpdatedAt()),
		PushedAt:        timestamp(r.GetPushedAt()),
		Size:            r.GetSize(),
		StargazersCount: r.GetStargazersCount(),
		WatchersCount:   r.GetWatchersCount(),
		Language:        r.GetLanguage(),
		ForksCount:      r.GetForksCount(),
		DefaultBranch:   r.GetDefaultBranch(),
	}
}

func contentFromAPI(rc *github.RepositoryContent) (Content, error) {
	c := Content{
		Name:        rc.GetName(),
		Path:        rc.GetPath(),
		SHA:         rc.GetSHA(),
		Size:        rc.GetSize(),
		URL:         rc.GetURL(),
		HTMLURL:     rc.GetHTMLURL(),
		DownloadURL: rc.GetDownloadURL(),
		Type:        rc.GetType(),
		Encoding:    rc.GetEncoding(),
	}
	if rc.Content != nil {
		c.Content = *rc.Content
	}
	// Reject shapes that cannot be one of ours; nothing untyped crosses
	// into the retrieval layer.
	if c.Name == "" || c.Path == "" {
		return Content{}, &APIError{Kind: KindValidation, Message: "content entry missing name or path"}
	}
	if c.Type != "file" && c.Type != "dir" {
		return Content{}, &APIError{Kind: KindValidation, Message: "unexpected content type: " + c.Type}
	}
	return c, nil
}

func branchFromAPI(b *github.Branch) Branch {
	return Branch{
		Name:      b.GetName(),
		SHA:       b.GetCommit().GetSHA(),
		Protected: b.GetProtected(),
	}
}

func commitFromAPI(c *github.RepositoryCommit) Commit {
	return Commit{
		SHA:     c.GetSHA(),
		Author:  c.GetCommit().GetAuthor().GetName(),
		Date:    timestamp(c.GetCommit().GetAuthor().GetDate()),
		Message: c.GetCommit().GetMessage(),
	}
}

func timestamp(t github.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
