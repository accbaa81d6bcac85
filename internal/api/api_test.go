package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/contentdesk/affkit/internal/planner"
	"github.com/contentdesk/affkit/internal/product"
	"github.com/contentdesk/affkit/internal/reqctx"
	"github.com/contentdesk/affkit/internal/seo"
	"github.com/contentdesk/affkit/internal/serpapi"
	"github.com/contentdesk/affkit/internal/snippet"
)

type fakeResolver struct {
	gotKey string
	rec    *product.Record
	diags  product.Diagnostics
	err    error
}

func (f *fakeResolver) ResolveProduct(ctx context.Context, req product.Request) (*product.Record, product.Diagnostics, error) {
	f.gotKey = req.APIKey
	return f.rec, f.diags, f.err
}

type fakeResearcher struct {
	gotReq seo.Request
	report *seo.Report
	err    error
}

func (f *fakeResearcher) Research(ctx context.Context, req seo.Request) (*seo.Report, error) {
	f.gotReq = req
	return f.report, f.err
}

type fakeOutliner struct {
	links []string
}

func (f *fakeOutliner) Outline(ctx context.Context, links []string) ([]seo.PageOutline, error) {
	f.links = links
	out := make([]seo.PageOutline, len(links))
	for i, l := range links {
		out[i] = seo.PageOutline{URL: l, Headings: []seo.Heading{{Level: 1, Text: "Title"}}}
	}
	return out, nil
}

func setupTestRouter(t *testing.T, deps Deps) (*gin.Engine, Deps) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if deps.Snippets == nil {
		deps.Snippets = snippet.NewRenderer()
	}
	if deps.Planner == nil {
		deps.Planner = planner.Open(filepath.Join(t.TempDir(), "plan.json"))
	}
	return NewRouter(deps), deps
}

func doJSON(r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func sampleRecord() *product.Record {
	return &product.Record{
		Code:        "B08N5WRWNW",
		URL:         "https://www.amazon.com/dp/B08N5WRWNW",
		Marketplace: "amazon.com",
		Title:       product.Some("Echo Dot"),
		Price:       product.Some("$49.99"),
		Rating:      product.Some("4.7"),
		Reviews:     product.None(),
		Images:      []string{"https://m.media-amazon.com/images/I/a.jpg"},
		SourceTier:  product.StrategyProductLookup,
	}
}

func TestHealth(t *testing.T) {
	r, _ := setupTestRouter(t, Deps{Version: "1.2.3", Uptime: func() time.Duration { return 90 * time.Second }})

	w := doJSON(r, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.EqualValues(t, 90, body["uptime_seconds"])
	assert.NotEmpty(t, w.Header().Get(reqctx.Header))
}

func TestRequestID_EchoesClientID(t *testing.T) {
	r, _ := setupTestRouter(t, Deps{})
	w := doJSON(r, http.MethodGet, "/healthz", nil, map[string]string{reqctx.Header: "trace-42"})
	assert.Equal(t, "trace-42", w.Header().Get(reqctx.Header))
}

func TestCORS(t *testing.T) {
	r, _ := setupTestRouter(t, Deps{AllowedOrigins: []string{"http://localhost:*"}})

	tests := []struct {
		name       string
		origin     string
		wantHeader bool
	}{
		{"allowed origin", "http://localhost:3000", true},
		{"other origin", "https://evil.example", false},
		{"no origin", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if tt.wantHeader {
				assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestResolveProduct(t *testing.T) {
	res := &fakeResolver{rec: sampleRecord(), diags: product.Diagnostics{
		{Strategy: product.StrategyProductLookup, Tier: 1, Outcome: product.OutcomeSucceeded},
	}}
	r, _ := setupTestRouter(t, Deps{
		Products: res,
		APIKey:   func(override string) (string, error) { return override, nil },
	})

	w := doJSON(r, http.MethodPost, "/api/products/resolve",
		map[string]string{"url": "https://www.amazon.com/dp/B08N5WRWNW"},
		map[string]string{APIKeyHeader: "secret"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Record      product.Record      `json:"record"`
		Diagnostics product.Diagnostics `json:"diagnostics"`
		Markdown    string              `json:"markdown"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "secret", res.gotKey)
	assert.Equal(t, "Echo Dot", body.Record.Title.String())
	assert.Len(t, body.Diagnostics, 1)
	assert.Contains(t, body.Markdown, "| **Product Name** | Echo Dot |")
}

func TestResolveProduct_Errors(t *testing.T) {
	diags := product.Diagnostics{
		{Strategy: product.StrategyProductLookup, Tier: 1, Outcome: product.OutcomeFailed, Reason: "boom"},
	}
	tests := []struct {
		name   string
		body   any
		err    error
		status int
	}{
		{"missing url", map[string]string{}, nil, http.StatusBadRequest},
		{"unidentifiable", map[string]string{"url": "https://example.com/"}, product.ErrNoIdentifiableProduct, http.StatusUnprocessableEntity},
		{"exhausted", map[string]string{"url": "https://www.amazon.com/dp/B000000000"}, &product.ExhaustedError{Attempts: diags}, http.StatusBadGateway},
		{"canceled", map[string]string{"url": "https://www.amazon.com/dp/B000000000"}, context.Canceled, http.StatusGatewayTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := setupTestRouter(t, Deps{Products: &fakeResolver{err: tt.err, diags: diags}})

			w := doJSON(r, http.MethodPost, "/api/products/resolve", tt.body, nil)
			assert.Equal(t, tt.status, w.Code)

			var body errorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
			assert.NotEmpty(t, body.RequestID)
			if tt.err != nil {
				assert.Len(t, body.Diagnostics, 1)
			}
		})
	}
}

func TestResolveProduct_NoKeyStillResolves(t *testing.T) {
	res := &fakeResolver{rec: sampleRecord()}
	r, _ := setupTestRouter(t, Deps{Products: res})

	w := doJSON(r, http.MethodPost, "/api/products/resolve", map[string]string{"url": "https://www.amazon.com/dp/B08N5WRWNW"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, res.gotKey)
}

func TestResearch(t *testing.T) {
	report := &seo.Report{
		Keyword:     "air fryer",
		Country:     "United Kingdom",
		Snippet:     "Hot air.",
		LSI:         []string{"best air fryer"},
		FAQs:        []string{"Is it healthy?"},
		Competitors: []seo.Competitor{{Position: 1, Title: "A", Link: "https://a.example/"}},
	}
	researcher := &fakeResearcher{report: report}
	outliner := &fakeOutliner{}
	r, _ := setupTestRouter(t, Deps{
		Researcher: researcher,
		Outliner:   outliner,
		APIKey:     func(override string) (string, error) { return "configured", nil },
	})

	w := doJSON(r, http.MethodPost, "/api/seo/research",
		map[string]any{"keyword": "air fryer", "country": "United Kingdom", "outline": true}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Keyword  string            `json:"keyword"`
		Snippet  string            `json:"snippet"`
		Prompt   string            `json:"prompt"`
		Outlines []seo.PageOutline `json:"outlines"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "air fryer", body.Keyword)
	assert.Equal(t, "Hot air.", body.Snippet)
	assert.True(t, strings.HasPrefix(body.Prompt, "Main Keyword: \"air fryer\""))
	assert.Equal(t, "configured", researcher.gotReq.APIKey)
	assert.Equal(t, "United Kingdom", researcher.gotReq.Country)
	assert.Equal(t, []string{"https://a.example/"}, outliner.links)
	require.Len(t, body.Outlines, 1)
}

func TestResearch_Errors(t *testing.T) {
	t.Run("no key", func(t *testing.T) {
		r, _ := setupTestRouter(t, Deps{Researcher: &fakeResearcher{}})
		w := doJSON(r, http.MethodPost, "/api/seo/research", map[string]string{"keyword": "x"}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("upstream failure", func(t *testing.T) {
		r, _ := setupTestRouter(t, Deps{Researcher: &fakeResearcher{err: &serpapi.APIError{StatusCode: 500, Message: "down"}}})
		w := doJSON(r, http.MethodPost, "/api/seo/research", map[string]string{"keyword": "x"}, map[string]string{APIKeyHeader: "k"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})

	t.Run("missing keyword", func(t *testing.T) {
		r, _ := setupTestRouter(t, Deps{Researcher: &fakeResearcher{}})
		w := doJSON(r, http.MethodPost, "/api/seo/research", map[string]string{}, map[string]string{APIKeyHeader: "k"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRenderSnippet(t *testing.T) {
	r, _ := setupTestRouter(t, Deps{})
	req := map[string]any{
		"design":   "vertical-card",
		"products": []map[string]any{{"title": "Echo <Dot>", "rating": 4.2, "link": "https://amzn.to/x"}},
	}

	w := doJSON(r, http.MethodPost, "/api/snippets", req, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Design string `json:"design"`
		HTML   string `json:"html"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "vertical-card", body.Design)
	assert.Contains(t, body.HTML, "Echo &lt;Dot&gt;")
	assert.Contains(t, body.HTML, snippet.Disclosure)

	w = doJSON(r, http.MethodPost, "/api/snippets?format=html", req, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "https://amzn.to/x")
}

func TestRenderSnippet_Errors(t *testing.T) {
	r, _ := setupTestRouter(t, Deps{})

	w := doJSON(r, http.MethodPost, "/api/snippets", map[string]any{"design": "nope", "products": []map[string]any{{}}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/snippets", map[string]any{"products": []map[string]any{}}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlannerRoutes(t *testing.T) {
	r, deps := setupTestRouter(t, Deps{})

	w := doJSON(r, http.MethodPost, "/api/planner",
		map[string]string{"text": "Cluster Label: Air Fryers Keywords: best air fryer; air fryer recipes\nCluster Label | Desks Keywords | standing desk"}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"added":2}`, w.Body.String())

	w = doJSON(r, http.MethodPost, "/api/planner/Air%20Fryers/check", map[string]string{"keyword": "best air fryer"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var cl planner.Cluster
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cl))
	assert.Equal(t, []string{"best air fryer"}, cl.CheckedKeywords)

	w = doJSON(r, http.MethodPatch, "/api/planner/"+cl.ID, map[string]bool{"done": true}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/planner/stats", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"clusters":2,"total":3,"completed":1,"pending":2}`, w.Body.String())

	w = doJSON(r, http.MethodGet, "/api/planner?filter=completed", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Clusters []planner.Cluster `json:"clusters"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Clusters, 1)
	assert.Equal(t, "Air Fryers", list.Clusters[0].Label)

	w = doJSON(r, http.MethodDelete, "/api/planner/Air%20Fryers/keywords", map[string][]string{"keywords": {"best air fryer"}}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cl))
	assert.Equal(t, "air fryer recipes", cl.Keywords)
	assert.Empty(t, cl.CheckedKeywords)

	w = doJSON(r, http.MethodDelete, "/api/planner/Desks", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, deps.Planner.All(), 1)

	w = doJSON(r, http.MethodDelete, "/api/planner", nil, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, deps.Planner.All())
}

func TestPlannerRoutes_Errors(t *testing.T) {
	r, _ := setupTestRouter(t, Deps{})

	w := doJSON(r, http.MethodGet, "/api/planner/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPost, "/api/planner", map[string]string{"text": "nothing to see"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/planner?filter=bogus", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPatch, "/api/planner/missing", map[string]bool{"done": true}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestImportClusters(t *testing.T) {
	r, deps := setupTestRouter(t, Deps{})

	req := httptest.NewRequest(http.MethodPost, "/api/planner/import",
		strings.NewReader("Cluster Label,Keywords\nDesks,standing desk; desk converter\n"))
	req.Header.Set("Content-Type", "text/csv")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"imported":1}`, w.Body.String())
	assert.Len(t, deps.Planner.All(), 1)
}

func TestImportClusters_XLSX(t *testing.T) {
	r, deps := setupTestRouter(t, Deps{})

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"Cluster Label", "Keywords"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"Desks", "standing desk; desk converter"}))
	var body bytes.Buffer
	_, err := f.WriteTo(&body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/planner/import", &body)
	req.Header.Set("Content-Type", xlsxContentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.JSONEq(t, `{"imported":1}`, w.Body.String())
	require.Len(t, deps.Planner.All(), 1)
	assert.Equal(t, "standing desk; desk converter", deps.Planner.All()[0].Keywords)

	req = httptest.NewRequest(http.MethodPost, "/api/planner/import", strings.NewReader("not a workbook"))
	req.Header.Set("Content-Type", xlsxContentType)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
