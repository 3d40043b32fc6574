package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/gitpress/gitpress/pkg/article"
	"github.com/gitpress/gitpress/pkg/log"
	"github.com/gitpress/gitpress/pkg/markdown"
)

// Successful article responses are cacheable downstream the same way
// the front-end expects: one minute fresh, five minutes stale-while-
// revalidate.
const cacheControl = "public, s-maxage=60, stale-while-revalidate=300"

// ArticleStore is the retrieval layer the server serves from.
type ArticleStore interface {
	GetArticles(ctx context.Context) []article.ListItem
	GetArticle(ctx context.Context, id string) *article.Article
	ClearCache()
}

type listResponse struct {
	Success bool               `json:"success"`
	Data    []article.ListItem `json:"data"`
	Count   int                `json:"count"`
}

type articleDetail struct {
	article.Article
	HTML        string            `json:"html"`
	Frontmatter map[string]string `json:"frontmatter,omitempty"`
	ReadingTime int               `json:"readingTime"`
}

type detailResponse struct {
	Success bool          `json:"success"`
	Data    articleDetail `json:"data"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Server maps HTTP requests onto the retrieval layer.
type Server struct {
	store  ArticleStore
	logger *log.Logger
	zlog   zerolog.Logger
	engine *gin.Engine
}

// New builds the server and its routes.
func New(store ArticleStore, logger *log.Logger, zlog zerolog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		store:  store,
		logger: logger,
		zlog:   zlog,
	}

	engine := gin.New()
	engine.Use(s.requestContext, s.requestLog, gin.CustomRecovery(s.recover))

	engine.GET("/healthz", s.handleHealth)
	api := engine.Group("/api")
	{
		api.GET("/articles", s.handleListArticles)
		api.GET("/articles/:id", s.handleGetArticle)
		api.POST("/cache/clear", s.handleClearCache)
	}

	s.engine = engine
	return s
}

// Handler exposes the router for tests and for the process entrypoint.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return errors.Errorf("serving http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Errorf("shutting down: %w", err)
	}
	return nil
}

// requestContext attaches the zerolog logger to each request context so
// downstream layers can use zerolog.Ctx.
func (s *Server) requestContext(c *gin.Context) {
	c.Request = c.Request.WithContext(s.zlog.WithContext(c.Request.Context()))
	c.Next()
}

func (s *Server) requestLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.logger.LogRequest(log.RequestOperation{
		Method:   c.Request.Method,
		Path:     c.Request.URL.Path,
		Status:   c.Writer.Status(),
		Duration: time.Since(start),
	})
}

func (s *Server) recover(c *gin.Context, recovered any) {
	s.zlog.Error().Interface("panic", recovered).Str("path", c.Request.URL.Path).Msg("handler panic")
	c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleListArticles always answers 200 with a list; remote
// unavailability degrades to fallback data inside the store.
func (s *Server) handleListArticles(c *gin.Context) {
	items := s.store.GetArticles(c.Request.Context())
	if items == nil {
		items = []article.ListItem{}
	}

	c.Header("Cache-Control", cacheControl)
	c.JSON(http.StatusOK, listResponse{
		Success: true,
		Data:    items,
		Count:   len(items),
	})
}

func (s *Server) handleGetArticle(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Article ID is required"})
		return
	}

	a := s.store.GetArticle(c.Request.Context(), id)
	if a == nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: "Article with ID '" + id + "' not found"})
		return
	}

	rendered, err := markdown.Render(a.Content)
	if err != nil {
		s.zlog.Error().Err(err).Str("id", id).Msg("rendering article")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "Failed to fetch article"})
		return
	}

	c.Header("Cache-Control", cacheControl)
	c.JSON(http.StatusOK, detailResponse{
		Success: true,
		Data: articleDetail{
			Article:     *a,
			HTML:        rendered.HTML,
			Frontmatter: rendered.Frontmatter,
			ReadingTime: markdown.ReadingTime(a.Content),
		},
	})
}

// handleClearCache drops the retrieval layer's cache; the next request
// re-consults the remote source.
func (s *Server) handleClearCache(c *gin.Context) {
	s.store.ClearCache()
	c.JSON(http.StatusOK, gin.H{"success": true})
}
