package product

import (
	"context"

	"github.com/contentdesk/affkit/internal/serpapi"
)

// KeywordSearch runs a marketplace search for the code and takes the first
// organic result.
type KeywordSearch struct {
	client Searcher
}

// NewKeywordSearch creates the keyword-style lookup strategy.
func NewKeywordSearch(client Searcher) *KeywordSearch {
	return &KeywordSearch{client: client}
}

// Name returns the strategy name
func (s *KeywordSearch) Name() string { return StrategyKeywordSearch }

// RequiresCode is true: the code is the search term.
func (s *KeywordSearch) RequiresCode() bool { return true }

// Attempt searches the marketplace for q.Code.
func (s *KeywordSearch) Attempt(ctx context.Context, q Query) (*Record, error) {
	resp, err := s.client.Search(ctx, q.APIKey, serpapi.Params{
		"engine": "amazon",
		"q":      q.Code,
		"domain": q.Marketplace.Domain,
	})
	if err != nil {
		return nil, classify(s.Name(), err)
	}
	if len(resp.OrganicResults) == 0 {
		return nil, NewStrategyError(s.Name(), ErrCodeNotFound, "no organic results", nil)
	}

	item := resp.OrganicResults[0]
	rec := newRecord(q)
	rec.Title = Some(item.Title)
	if !rec.Title.Valid {
		return nil, NewStrategyError(s.Name(), ErrCodeIncomplete, "first result has no title", nil)
	}

	rec.Price = Some(item.Price.String())
	if !rec.Price.Valid {
		rec.Price = formatAmount(q.Marketplace.CurrencySymbol, item.ExtractedPrice)
	}
	rec.Rating = Some(item.Rating.String())
	rec.Reviews = cleanCount(item.Reviews.String())
	rec.AddImage(string(item.Thumbnail))
	rec.SetDescription(item.Snippet)

	rec.SourceTier = s.Name()
	return rec, nil
}
