package product

import (
	"context"
	"strings"

	"github.com/contentdesk/affkit/internal/serpapi"
)

// ProductLookup queries the structured amazon_product engine by code.
type ProductLookup struct {
	client Searcher
}

// NewProductLookup creates the structured lookup strategy.
func NewProductLookup(client Searcher) *ProductLookup {
	return &ProductLookup{client: client}
}

// Name returns the strategy name
func (s *ProductLookup) Name() string { return StrategyProductLookup }

// RequiresCode is true: the engine is keyed by product code.
func (s *ProductLookup) RequiresCode() bool { return true }

// Attempt fetches the product payload and maps it onto a Record.
func (s *ProductLookup) Attempt(ctx context.Context, q Query) (*Record, error) {
	resp, err := s.client.Search(ctx, q.APIKey, serpapi.Params{
		"engine":     "amazon_product",
		"product_id": q.Code,
		"domain":     q.Marketplace.Domain,
	})
	if err != nil {
		return nil, classify(s.Name(), err)
	}

	p := resp.ProductResult
	if p == nil {
		return nil, NewStrategyError(s.Name(), ErrCodeNotFound, "response has no product_result", nil)
	}
	rec := newRecord(q)
	rec.Title = Some(p.Title)
	if !rec.Title.Valid {
		return nil, NewStrategyError(s.Name(), ErrCodeIncomplete, "product has no title", nil)
	}

	symbol := q.Marketplace.CurrencySymbol
	rec.Price = Some(p.Price.String())
	if !rec.Price.Valid {
		rec.Price = firstPrice(symbol, p.Prices)
	}
	if !rec.Price.Valid {
		rec.Price = firstPrice(symbol, resp.Prices)
	}
	if !rec.Price.Valid {
		rec.Price = formatAmount(symbol, p.ExtractedPrice)
	}

	rec.Rating = Some(p.Rating.String())
	rec.Reviews = cleanCount(p.Reviews.String())

	for _, img := range p.Images {
		rec.AddImage(string(img))
	}
	if len(rec.Images) == 0 {
		if p.MainImage != "" {
			rec.AddImage(string(p.MainImage))
		} else {
			rec.AddImage(string(p.Thumbnail))
		}
	}

	if len(p.AboutItem) > 0 {
		rec.SetDescription(strings.Join(p.AboutItem, " "))
	} else {
		rec.SetDescription(p.Description.String())
	}

	rec.SourceTier = s.Name()
	return rec, nil
}
