// Package api exposes the HTTP surface of the CMS backend: the news-import
// scrape/import endpoints used by the admin UI, the public news listing, and
// a health check.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ponunion/cms/importer"
	"github.com/ponunion/cms/newsstore"
	"github.com/ponunion/cms/scraper"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Server wires the import service and the store to HTTP handlers.
type Server struct {
	importer   *importer.Service
	store      *newsstore.Store
	corsOrigin string
	log        *slog.Logger
}

// NewServer creates an API server.
func NewServer(svc *importer.Service, store *newsstore.Store, corsOrigin string, log *slog.Logger) *Server {
	return &Server{
		importer:   svc,
		store:      store,
		corsOrigin: corsOrigin,
		log:        log,
	}
}

// ListNewsResponse is the response for GET /api/news.
type ListNewsResponse struct {
	Items  []newsstore.News `json:"items"`
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
}

// Router configures the Gin router with all routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.corsMiddleware())

	api := router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/news", s.handleListNews)

	ni := api.Group("/news-import")
	ni.GET("/scrape", s.handleScrape)
	ni.POST("/import", s.handleImport)

	return router
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", s.corsOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleScrape handles GET /api/news-import/scrape. A listing-page fetch
// failure surfaces as 502 with the upstream status; everything else the
// scrape absorbs per item.
func (s *Server) handleScrape(c *gin.Context) {
	articles, err := s.importer.Scrape(c.Request.Context())
	if err != nil {
		var fetchErr *scraper.FetchError
		if errors.As(err, &fetchErr) {
			host := fetchErr.URL
			if u, perr := url.Parse(fetchErr.URL); perr == nil && u.Host != "" {
				host = u.Host
			}
			c.JSON(http.StatusBadGateway, gin.H{
				"error": fmt.Sprintf("Failed to fetch %s: %d", host, fetchErr.StatusCode),
			})
			return
		}

		s.log.Error("scrape failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scrape news"})
		return
	}

	if articles == nil {
		articles = []scraper.Article{}
	}
	c.JSON(http.StatusOK, articles)
}

// handleImport handles POST /api/news-import/import. The body is the
// administrator-selected subset of scraped articles.
func (s *Server) handleImport(c *gin.Context) {
	var items []scraper.Article
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, importer.Result{Message: importer.MsgNoneSelected})
		return
	}

	result, err := s.importer.Import(c.Request.Context(), items)
	if errors.Is(err, importer.ErrEmptyBatch) {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	if err != nil {
		s.log.Error("import failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// handleListNews handles GET /api/news with limit/offset pagination.
func (s *Server) handleListNews(c *gin.Context) {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = min(v, maxListLimit)
		}
	}

	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	items, total, err := s.store.ListNews(c.Request.Context(), limit, offset)
	if err != nil {
		s.log.Error("failed to list news", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if items == nil {
		items = []newsstore.News{}
	}
	c.JSON(http.StatusOK, ListNewsResponse{Items: items, Total: total, Limit: limit, Offset: offset})
}
