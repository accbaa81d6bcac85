package product

import (
	"context"
	"regexp"
	"strings"

	"github.com/contentdesk/affkit/internal/serpapi"
	"github.com/shopspring/decimal"
)

// Strategy names, also used as Record.SourceTier.
const (
	StrategyProductLookup = "product_lookup"
	StrategyKeywordSearch = "keyword_search"
	StrategyWebSearch     = "web_search"
	StrategyPageParse     = "page_parse"
)

// Strategy is one way of obtaining a product record.
type Strategy interface {
	Name() string
	// RequiresCode reports whether the strategy needs a product code and
	// must be skipped for URL-only queries.
	RequiresCode() bool
	Attempt(ctx context.Context, q Query) (*Record, error)
}

// Searcher runs a search API query.
type Searcher interface {
	Search(ctx context.Context, apiKey string, params serpapi.Params) (*serpapi.Response, error)
}

// formatAmount renders a numeric price with the marketplace currency symbol.
func formatAmount(symbol string, t serpapi.Text) Field {
	f, ok := t.Float()
	if !ok {
		return None()
	}
	return Some(symbol + decimal.NewFromFloat(f).StringFixed(2))
}

// firstPrice returns the first usable price text of entries.
func firstPrice(symbol string, entries []serpapi.PriceEntry) Field {
	for _, e := range entries {
		if p := Some(e.Price.String()); p.Valid {
			return p
		}
		if p := formatAmount(symbol, e.ExtractedPrice); p.Valid {
			return p
		}
	}
	return None()
}

var countToken = regexp.MustCompile(`(\d[\d,.]*)\s*([KkMm])?\b`)

// cleanCount reduces a review count such as "1,234 ratings" to its digits.
// A K or M suffix scales the number, so "1.2K ratings" becomes "1200".
// Without a suffix both "," and "." are read as thousands separators.
func cleanCount(s string) Field {
	m := countToken.FindStringSubmatch(s)
	if m == nil {
		return Some("")
	}
	num := strings.TrimRight(strings.ReplaceAll(m[1], ",", ""), ".")
	if m[2] == "" {
		return Some(strings.ReplaceAll(num, ".", ""))
	}

	d, err := decimal.NewFromString(num)
	if err != nil {
		return Some(strings.ReplaceAll(num, ".", ""))
	}
	scale := decimal.NewFromInt(1000)
	if strings.EqualFold(m[2], "m") {
		scale = decimal.NewFromInt(1000000)
	}
	return Some(d.Mul(scale).Truncate(0).String())
}
