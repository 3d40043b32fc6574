package github

import (
	"context"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/gitpress/gitpress/pkg/article"
)

// ListArticles fetches every matching markdown file under folder and
// extracts an Article from each. File fetches run concurrently behind
// the client's gate; results keep the directory-listing order, not
// completion order. A single failing file is skipped and logged rather
// than aborting the batch.
func (c *Client) ListArticles(ctx context.Context, owner, repo, folder string) ([]article.Article, error) {
	logger := zerolog.Ctx(ctx)

	contents, err := c.GetContent(ctx, owner, repo, folder, "")
	if err != nil {
		return nil, errors.Errorf("listing folder %s: %w", folder, err)
	}

	var files []Content
	for _, entry := range contents {
		if entry.Type == "file" && c.matchesPattern(entry.Name) {
			files = append(files, entry)
		}
	}

	results := make([]*article.Article, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			text, err := c.GetFileContent(gctx, owner, repo, file.Path, "")
			if err != nil {
				logger.Warn().Err(err).Str("path", file.Path).Msg("skipping article, fetch failed")
				return nil
			}
			a := article.Extract(file.Name, text)
			results[i] = &a
			return nil
		})
	}
	// Goroutines swallow per-file errors, so Wait only reflects ctx state.
	if err := g.Wait(); err != nil {
		return nil, errors.Errorf("fetching articles: %w", err)
	}

	articles := make([]article.Article, 0, len(files))
	for _, a := range results {
		if a != nil {
			articles = append(articles, *a)
		}
	}
	return articles, nil
}

// GetArticle fetches folder/id.md and extracts a single Article.
func (c *Client) GetArticle(ctx context.Context, owner, repo, folder, id string) (article.Article, error) {
	fileName := id + ".md"
	path := fileName
	if folder != "" {
		path = folder + "/" + fileName
	}

	text, err := c.GetFileContent(ctx, owner, repo, path, "")
	if err != nil {
		return article.Article{}, errors.Errorf("fetching article %s: %w", id, err)
	}
	return article.Extract(fileName, text), nil
}

func (c *Client) matchesPattern(name string) bool {
	ok, err := doublestar.Match(c.pattern, name)
	return err == nil && ok
}
