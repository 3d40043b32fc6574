package store

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/gitpress/gitpress/pkg/article"
	"github.com/gitpress/gitpress/pkg/config"
	"github.com/gitpress/gitpress/pkg/github"
)

// RemoteClient is the slice of the GitHub client the store depends on.
type RemoteClient interface {
	ListArticles(ctx context.Context, owner, repo, folder string) ([]article.Article, error)
	GetArticle(ctx context.Context, owner, repo, folder, id string) (article.Article, error)
	GetLastCommitSHA(ctx context.Context, owner, repo, path string) (string, error)
}

// entry is one cached value with its capture time and, when fingerprint
// checking is enabled, the commit sha of the source path at capture.
type entry[T any] struct {
	value       T
	fetchedAt   time.Time
	fingerprint string
}

// Store is the single source of truth for "list the articles" and "get
// one article". It decides between the remote repository and the
// bundled fallback dataset, and owns cache validity. Entries are
// replaced whole, never mutated in place, so concurrent readers always
// observe either the old or the new entry.
//
// Per key the lifecycle is: empty (fetch on demand), fresh (serve
// cached, no remote call), stale (attempt a refresh; on failure the
// stale value keeps serving), or disabled (remote unconfigured, always
// fallback). Staleness triggers a refresh attempt, not an eviction.
type Store struct {
	cfg       *config.Config
	newClient func(ctx context.Context) RemoteClient
	now       func() time.Time

	mu       sync.Mutex
	client   RemoteClient
	list     *entry[[]article.Article]
	articles map[string]*entry[article.Article]
}

// Option customises a Store.
type Option func(*Store)

// WithClientFactory overrides how the remote client is constructed.
// Used by tests to substitute a fake.
func WithClientFactory(factory func(ctx context.Context) RemoteClient) Option {
	return func(s *Store) {
		s.newClient = factory
	}
}

// WithClock overrides the wall clock used for TTL checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a Store. The remote client is constructed lazily on
// first use so a disabled configuration never builds one.
func New(cfg *config.Config, opts ...Option) *Store {
	s := &Store{
		cfg:      cfg,
		now:      time.Now,
		articles: make(map[string]*entry[article.Article]),
	}
	s.newClient = func(ctx context.Context) RemoteClient {
		return github.New(ctx, cfg.Remote)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetArticles returns the article list. Remote failures never reach
// the caller: any error on the remote path degrades to the bundled
// dataset's list projection.
func (s *Store) GetArticles(ctx context.Context) []article.ListItem {
	logger := zerolog.Ctx(ctx)

	if !s.cfg.Remote.Enabled() {
		return article.ListItems(article.Fallback())
	}

	articles, err := s.remoteArticles(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("serving fallback article list")
		return article.ListItems(article.Fallback())
	}
	return article.ListItems(articles)
}

// GetArticle returns one article by id, or nil when neither the remote
// repository nor the fallback dataset has it. That nil is the only
// user-visible not-found condition; transient remote errors degrade to
// the fallback lookup instead.
func (s *Store) GetArticle(ctx context.Context, id string) *article.Article {
	logger := zerolog.Ctx(ctx)

	if s.cfg.Remote.Enabled() {
		a, err := s.remoteArticle(ctx, id)
		if err == nil {
			return a
		}
		logger.Warn().Err(err).Str("id", id).Msg("remote article unavailable, trying fallback")
	}

	if a, ok := article.FallbackByID(id); ok {
		return &a
	}
	return nil
}

// ClearCache synchronously drops every cache entry and the lazily
// constructed remote client, forcing both to be rebuilt on next use.
func (s *Store) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.list = nil
	s.articles = make(map[string]*entry[article.Article])
	s.client = nil
}

// remote returns the client, constructing it on first use.
func (s *Store) remote(ctx context.Context) RemoteClient {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		s.client = s.newClient(ctx)
	}
	return s.client
}

func (s *Store) remoteArticles(ctx context.Context) ([]article.Article, error) {
	logger := zerolog.Ctx(ctx)
	remote := s.cfg.Remote

	s.mu.Lock()
	cached := s.list
	s.mu.Unlock()

	if cached != nil && s.fresh(ctx, cached.fetchedAt, cached.fingerprint, remote.Folder) {
		return cached.value, nil
	}

	articles, err := s.remote(ctx).ListArticles(ctx, remote.Owner, remote.Repo, remote.Folder)
	if err != nil {
		if cached != nil {
			// Refresh failed; the stale value keeps serving.
			logger.Warn().Err(err).Msg("article list refresh failed, serving cached value")
			return cached.value, nil
		}
		return nil, err
	}

	fresh := &entry[[]article.Article]{
		value:       articles,
		fetchedAt:   s.now(),
		fingerprint: s.fingerprint(ctx, remote.Folder),
	}
	s.mu.Lock()
	s.list = fresh
	s.mu.Unlock()

	return articles, nil
}

func (s *Store) remoteArticle(ctx context.Context, id string) (*article.Article, error) {
	logger := zerolog.Ctx(ctx)
	remote := s.cfg.Remote
	path := remote.Folder + "/" + id + ".md"

	s.mu.Lock()
	cached := s.articles[id]
	s.mu.Unlock()

	if cached != nil && s.fresh(ctx, cached.fetchedAt, cached.fingerprint, path) {
		value := cached.value
		return &value, nil
	}

	a, err := s.remote(ctx).GetArticle(ctx, remote.Owner, remote.Repo, remote.Folder, id)
	if err != nil {
		if cached != nil {
			logger.Warn().Err(err).Str("id", id).Msg("article refresh failed, serving cached value")
			value := cached.value
			return &value, nil
		}
		return nil, err
	}

	fresh := &entry[article.Article]{
		value:       a,
		fetchedAt:   s.now(),
		fingerprint: s.fingerprint(ctx, path),
	}
	s.mu.Lock()
	s.articles[id] = fresh
	s.mu.Unlock()

	return &a, nil
}

// fresh decides whether a cache entry may be served without a remote
// fetch: its age must be under the TTL and, when fingerprint checking
// is enabled, the upstream commit sha must match the stored one. An
// unavailable fingerprint never invalidates an entry on its own.
func (s *Store) fresh(ctx context.Context, fetchedAt time.Time, fingerprint, path string) bool {
	if s.now().Sub(fetchedAt) >= s.cfg.Cache.TTL {
		return false
	}
	if !s.cfg.Cache.Fingerprint || fingerprint == "" {
		return true
	}
	current, err := s.remote(ctx).GetLastCommitSHA(ctx, s.cfg.Remote.Owner, s.cfg.Remote.Repo, path)
	if err != nil || current == "" {
		return true
	}
	return current == fingerprint
}

// fingerprint captures the current commit sha for path when fingerprint
// checking is enabled; failures just leave the entry without one.
func (s *Store) fingerprint(ctx context.Context, path string) string {
	if !s.cfg.Cache.Fingerprint {
		return ""
	}
	sha, err := s.remote(ctx).GetLastCommitSHA(ctx, s.cfg.Remote.Owner, s.cfg.Remote.Repo, path)
	if err != nil {
		return ""
	}
	return sha
}
