package serpapi

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const endpoint = "https://serpapi.com/search.json"

func newMockedClient(t *testing.T) *Client {
	t.Helper()
	c := NewClient(Options{})
	httpmock.ActivateNonDefault(c.HTTPClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return c
}

func TestSearch_SendsParamsAndKey(t *testing.T) {
	c := newMockedClient(t)

	httpmock.RegisterResponder("GET", endpoint, func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		assert.Equal(t, "amazon_product", q.Get("engine"))
		assert.Equal(t, "B08ABCDEF1", q.Get("product_id"))
		assert.Equal(t, "secret", q.Get("api_key"))
		assert.Equal(t, "json", q.Get("output"))
		return httpmock.NewStringResponse(200, `{"product_result":{"title":"Widget Pro","price":"$19.99","rating":4.5}}`), nil
	})

	resp, err := c.Search(context.Background(), "secret", Params{"engine": "amazon_product", "product_id": "B08ABCDEF1"})
	require.NoError(t, err)
	require.NotNil(t, resp.ProductResult)
	assert.Equal(t, "Widget Pro", resp.ProductResult.Title)
	assert.Equal(t, Text("$19.99"), resp.ProductResult.Price)
	assert.Equal(t, Text("4.5"), resp.ProductResult.Rating)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestSearch_ErrorField(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder("GET", endpoint,
		httpmock.NewStringResponder(200, `{"error":"Google hasn't returned any results for this query."}`))

	_, err := c.Search(context.Background(), "k", Params{"engine": "google", "q": "x"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.True(t, apiErr.NoResults())
	assert.True(t, IsNoResults(err))
}

func TestSearch_HTTPStatus(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder("GET", endpoint,
		httpmock.NewStringResponder(401, `{"error":"Invalid API key."}`))

	_, err := c.Search(context.Background(), "bad", Params{"engine": "google", "q": "x"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 401, apiErr.StatusCode)
	assert.Equal(t, "Invalid API key.", apiErr.Message)
	assert.False(t, IsNoResults(err))
}

func TestSearch_MalformedJSON(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder("GET", endpoint, httpmock.NewStringResponder(200, `{"organic_results": [`))

	_, err := c.Search(context.Background(), "k", Params{"engine": "amazon", "q": "x"})
	assert.ErrorIs(t, err, ErrDecode)
}

func TestSearch_RequiresKeyAndEngine(t *testing.T) {
	c := newMockedClient(t)

	_, err := c.Search(context.Background(), "", Params{"engine": "google"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = c.Search(context.Background(), "k", Params{"q": "x"})
	assert.ErrorIs(t, err, ErrMissingEngine)

	assert.Equal(t, 0, httpmock.GetTotalCallCount())
}

func TestSearch_NoRetryOnServerError(t *testing.T) {
	c := newMockedClient(t)
	httpmock.RegisterResponder("GET", endpoint, httpmock.NewStringResponder(503, `busy`))

	_, err := c.Search(context.Background(), "k", Params{"engine": "google", "q": "x"})
	require.Error(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}
