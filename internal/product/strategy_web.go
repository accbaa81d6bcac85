package product

import (
	"context"
	"regexp"
	"strings"

	"github.com/contentdesk/affkit/internal/serpapi"
)

// storefrontPrefix matches "Amazon.com: ", "Amazon.com : ", "Amazon.co.uk: " and the like.
var storefrontPrefix = regexp.MustCompile(`(?i)^amazon\.[a-z.]+\s?:\s*`)

// WebSearch runs a site-scoped general web search for the code.
type WebSearch struct {
	client Searcher
}

// NewWebSearch creates the general web-search strategy.
func NewWebSearch(client Searcher) *WebSearch {
	return &WebSearch{client: client}
}

// Name returns the strategy name
func (s *WebSearch) Name() string { return StrategyWebSearch }

// RequiresCode is true: the code scopes the search.
func (s *WebSearch) RequiresCode() bool { return true }

// Attempt searches "site:<host> <code>" in the marketplace locale.
func (s *WebSearch) Attempt(ctx context.Context, q Query) (*Record, error) {
	params := q.Marketplace.Locale.Apply(serpapi.Params{
		"engine": "google",
		"q":      "site:" + q.Marketplace.Host() + " " + q.Code,
	})
	resp, err := s.client.Search(ctx, q.APIKey, params)
	if err != nil {
		return nil, classify(s.Name(), err)
	}
	if len(resp.OrganicResults) == 0 {
		return nil, NewStrategyError(s.Name(), ErrCodeNotFound, "no organic results", nil)
	}

	item := resp.OrganicResults[0]
	rec := newRecord(q)
	rec.Title = Some(StripStorefrontPrefix(item.Title))
	if !rec.Title.Valid {
		return nil, NewStrategyError(s.Name(), ErrCodeIncomplete, "first result has no title", nil)
	}

	if item.RichSnippet != nil && item.RichSnippet.Top != nil {
		ext := item.RichSnippet.Top.DetectedExtensions
		rec.Rating = Some(ext.Rating.String())
		rec.Reviews = cleanCount(ext.Reviews.String())
		symbol := ext.Currency.String()
		if symbol == "" {
			symbol = q.Marketplace.CurrencySymbol
		}
		rec.Price = formatAmount(symbol, ext.Price)
		if !rec.Price.Valid {
			rec.Price = Some(ext.Price.String())
		}
	}
	rec.AddImage(string(item.Thumbnail))
	rec.SetDescription(item.Snippet)

	rec.SourceTier = s.Name()
	return rec, nil
}

// StripStorefrontPrefix removes a leading "Amazon.<tld>:" from a result title.
func StripStorefrontPrefix(title string) string {
	return strings.TrimSpace(storefrontPrefix.ReplaceAllString(strings.TrimSpace(title), ""))
}
