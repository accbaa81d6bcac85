// Package api serves the resolver, keyword research, snippets and the
// content planner over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/contentdesk/affkit/internal/planner"
	"github.com/contentdesk/affkit/internal/product"
	"github.com/contentdesk/affkit/internal/seo"
	"github.com/contentdesk/affkit/internal/snippet"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// ProductResolver resolves one product URL.
type ProductResolver interface {
	ResolveProduct(ctx context.Context, req product.Request) (*product.Record, product.Diagnostics, error)
}

// Researcher runs keyword research.
type Researcher interface {
	Research(ctx context.Context, req seo.Request) (*seo.Report, error)
}

// Outliner crawls competitor headings.
type Outliner interface {
	Outline(ctx context.Context, links []string) ([]seo.PageOutline, error)
}

// Deps are the services behind the routes. Metrics and Outliner are
// optional.
type Deps struct {
	Products   ProductResolver
	Researcher Researcher
	Outliner   Outliner
	Snippets   *snippet.Renderer
	Planner    *planner.Store
	// APIKey returns the key to use given the request header value.
	APIKey  func(override string) (string, error)
	Metrics http.Handler
	Uptime  func() time.Duration
	Version string

	AllowedOrigins []string
}

// Handlers holds the route handlers.
type Handlers struct {
	deps Deps
}

// NewRouter builds the gin engine with middleware and routes.
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), Logger(), CORS(deps.AllowedOrigins))

	h := &Handlers{deps: deps}
	r.GET("/healthz", h.Health)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	api := r.Group("/api")
	api.POST("/products/resolve", h.ResolveProduct)
	api.POST("/seo/research", h.Research)
	api.POST("/snippets", h.RenderSnippet)

	plan := api.Group("/planner")
	plan.GET("", h.ListClusters)
	plan.POST("", h.AddClusters)
	plan.DELETE("", h.ClearPlan)
	plan.GET("/stats", h.PlanStats)
	plan.POST("/import", h.ImportClusters)
	plan.GET("/:ref", h.GetCluster)
	plan.PATCH("/:ref", h.UpdateCluster)
	plan.DELETE("/:ref", h.DeleteCluster)
	plan.POST("/:ref/check", h.CheckKeyword)
	plan.DELETE("/:ref/keywords", h.RemoveKeywords)

	return r
}

// Server is the HTTP API server.
type Server struct {
	http *http.Server
}

// NewServer creates a server listening on addr.
func NewServer(addr string, deps Deps) *Server {
	return &Server{
		http: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(deps),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("API server listening")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("API server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down API server: %w", err)
	}
	return nil
}
