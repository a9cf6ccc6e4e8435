// Package handlers exposes the read-only HTTP surface over the collected
// posts, author profiles, and community summaries.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/moltwatch/moltwatch/models"
	"github.com/moltwatch/moltwatch/store"
)

type Server struct {
	store  *store.Store
	logger *slog.Logger
}

func NewServer(st *store.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		store:  st,
		logger: logger.With("component", "handlers"),
	}
}

// RegisterRoutes attaches the read API to an echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/_health", s.handleHealth)
	e.GET("/posts", s.handleListPosts)
	e.GET("/posts/:id", s.handleGetPost)
	e.GET("/authors/:id", s.handleGetAuthor)
	e.GET("/communities", s.handleListCommunities)
	e.GET("/status", s.handleStatus)
}

type apiError struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListPosts(c echo.Context) error {
	ctx := c.Request().Context()

	filter := store.PostFilter{
		Tier:     models.RiskTier(c.QueryParam("tier")),
		AuthorID: c.QueryParam("author"),
	}
	if v := c.QueryParam("community"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, apiError{Error: "community must be an integer"})
		}
		filter.Community = &id
	}
	if v := c.QueryParam("min_score"); v != "" {
		score, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, apiError{Error: "min_score must be an integer"})
		}
		filter.MinScore = score
	}
	if v := c.QueryParam("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return c.JSON(http.StatusBadRequest, apiError{Error: "limit must be a non-negative integer"})
		}
		filter.Limit = limit
	}
	if v := c.QueryParam("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			return c.JSON(http.StatusBadRequest, apiError{Error: "offset must be a non-negative integer"})
		}
		filter.Offset = offset
	}

	posts, err := s.store.ListPosts(ctx, filter)
	if err != nil {
		s.logger.Error("listing posts", "err", err)
		return c.JSON(http.StatusInternalServerError, apiError{Error: "failed to list posts"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"posts": posts,
		"count": len(posts),
	})
}

func (s *Server) handleGetPost(c echo.Context) error {
	ctx := c.Request().Context()

	post, err := s.store.GetPost(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, apiError{Error: "post not found"})
		}
		s.logger.Error("looking up post", "err", err)
		return c.JSON(http.StatusInternalServerError, apiError{Error: "failed to look up post"})
	}
	return c.JSON(http.StatusOK, post)
}

func (s *Server) handleGetAuthor(c echo.Context) error {
	ctx := c.Request().Context()

	topK := 10
	if v := c.QueryParam("partners"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, apiError{Error: "partners must be a non-negative integer"})
		}
		topK = n
	}

	profile, err := s.store.GetAuthorProfile(ctx, c.Param("id"), topK)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, apiError{Error: "author not found"})
		}
		s.logger.Error("looking up author", "err", err)
		return c.JSON(http.StatusInternalServerError, apiError{Error: "failed to look up author"})
	}
	return c.JSON(http.StatusOK, profile)
}

func (s *Server) handleListCommunities(c echo.Context) error {
	ctx := c.Request().Context()

	communities, err := s.store.ListCommunities(ctx)
	if err != nil {
		s.logger.Error("listing communities", "err", err)
		return c.JSON(http.StatusInternalServerError, apiError{Error: "failed to list communities"})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"communities": communities,
		"count":       len(communities),
	})
}

func (s *Server) handleStatus(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := s.store.GetStats(ctx)
	if err != nil {
		s.logger.Error("collecting stats", "err", err)
		return c.JSON(http.StatusInternalServerError, apiError{Error: "failed to collect stats"})
	}
	return c.JSON(http.StatusOK, stats)
}
