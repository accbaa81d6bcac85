package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/contentdesk/affkit/internal/product"
	"github.com/contentdesk/affkit/internal/reqctx"
	"github.com/contentdesk/affkit/internal/seo"
	"github.com/contentdesk/affkit/internal/serpapi"
	"github.com/contentdesk/affkit/internal/snippet"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Error       string              `json:"error"`
	RequestID   string              `json:"request_id"`
	Diagnostics product.Diagnostics `json:"diagnostics,omitempty"`
}

func fail(c *gin.Context, status int, err error) {
	failWith(c, status, err, nil)
}

func failWith(c *gin.Context, status int, err error, diags product.Diagnostics) {
	rerr := reqctx.NewRequestError(c.Request.Context(), err)
	_ = c.Error(rerr)
	c.AbortWithStatusJSON(status, errorResponse{
		Error:       err.Error(),
		RequestID:   reqctx.GetRequestContext(c.Request.Context()).RequestID,
		Diagnostics: diags,
	})
}

// apiKey resolves the SerpApi key for this request.
func (h *Handlers) apiKey(c *gin.Context) (string, error) {
	override := strings.TrimSpace(c.GetHeader(APIKeyHeader))
	if h.deps.APIKey == nil {
		if override == "" {
			return "", serpapi.ErrMissingAPIKey
		}
		return override, nil
	}
	return h.deps.APIKey(override)
}

// Health reports liveness.
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{"status": "ok", "version": h.deps.Version}
	if h.deps.Uptime != nil {
		body["uptime_seconds"] = int64(h.deps.Uptime().Seconds())
	}
	c.JSON(http.StatusOK, body)
}

type resolveRequest struct {
	URL string `json:"url" binding:"required"`
}

type resolveResponse struct {
	Record      *product.Record     `json:"record"`
	Diagnostics product.Diagnostics `json:"diagnostics"`
	Markdown    string              `json:"markdown"`
}

// ResolveProduct resolves a product URL. Without a SerpApi key only the
// page strategy can succeed.
func (h *Handlers) ResolveProduct(c *gin.Context) {
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	key, err := h.apiKey(c)
	if err != nil {
		reqctx.Logger(c.Request.Context()).Debug().Err(err).Msg("No API key, resolving without search")
	}

	rec, diags, err := h.deps.Products.ResolveProduct(c.Request.Context(), product.Request{URL: req.URL, APIKey: key})
	if err != nil {
		failWith(c, resolveStatus(err), err, diags)
		return
	}
	c.JSON(http.StatusOK, resolveResponse{
		Record:      rec,
		Diagnostics: diags,
		Markdown:    rec.MarkdownTable(),
	})
}

func resolveStatus(err error) int {
	switch {
	case errors.Is(err, product.ErrNoIdentifiableProduct):
		return http.StatusUnprocessableEntity
	case errors.Is(err, product.ErrAllStrategiesExhausted):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

type researchRequest struct {
	Keyword string `json:"keyword" binding:"required"`
	Country string `json:"country"`
	Outline bool   `json:"outline"`
}

type researchResponse struct {
	*seo.Report
	Prompt   string            `json:"prompt"`
	Outlines []seo.PageOutline `json:"outlines,omitempty"`
}

// Research runs keyword research, optionally crawling competitor outlines.
func (h *Handlers) Research(c *gin.Context) {
	var req researchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	key, err := h.apiKey(c)
	if err != nil {
		fail(c, http.StatusUnauthorized, err)
		return
	}

	report, err := h.deps.Researcher.Research(c.Request.Context(), seo.Request{
		Keyword: req.Keyword,
		Country: req.Country,
		APIKey:  key,
	})
	switch {
	case errors.Is(err, seo.ErrEmptyKeyword):
		fail(c, http.StatusBadRequest, err)
		return
	case errors.Is(err, serpapi.ErrMissingAPIKey):
		fail(c, http.StatusUnauthorized, err)
		return
	case err != nil:
		fail(c, http.StatusBadGateway, err)
		return
	}

	resp := researchResponse{Report: report, Prompt: report.Prompt()}
	if req.Outline && h.deps.Outliner != nil && len(report.Competitors) > 0 {
		outlines, err := h.deps.Outliner.Outline(c.Request.Context(), report.Links())
		if err != nil {
			fail(c, http.StatusGatewayTimeout, err)
			return
		}
		resp.Outlines = outlines
	}
	c.JSON(http.StatusOK, resp)
}

type snippetRequest struct {
	Design   string            `json:"design"`
	Products []snippet.Product `json:"products"`
	Pretty   bool              `json:"pretty"`
}

// RenderSnippet renders products as HTML. With ?format=html the HTML is
// returned as is instead of wrapped in JSON.
func (h *Handlers) RenderSnippet(c *gin.Context) {
	var req snippetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}

	design, err := snippet.ParseDesign(req.Design)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	if len(req.Products) == 0 {
		fail(c, http.StatusBadRequest, errors.New("products must not be empty"))
		return
	}

	html, err := h.deps.Snippets.Render(design, req.Products, snippet.Options{Pretty: req.Pretty})
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}

	if c.Query("format") == "html" {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}
	c.JSON(http.StatusOK, gin.H{"design": design, "html": html})
}
