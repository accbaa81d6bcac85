package product

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/contentdesk/affkit/internal/serpapi"
)

// CodeLength is the length of a product code (ASIN).
const CodeLength = 10

// Ordered code matchers; the first match wins. Each one requires the code
// to end at a path, query or fragment boundary so longer tokens are rejected.
var codePatterns = []*regexp.Regexp{
	regexp.MustCompile(`/dp/([A-Z0-9]{10})(?:[/?#&]|$)`),
	regexp.MustCompile(`/gp/product/([A-Z0-9]{10})(?:[/?#&]|$)`),
	regexp.MustCompile(`/product/([A-Z0-9]{10})(?:[/?#&]|$)`),
	regexp.MustCompile(`dp/([A-Z0-9]{10})(?:[/?#&]|$)`),
	regexp.MustCompile(`/([A-Z0-9]{10})/?(?:[?#].*)?$`),
}

// Query is the product identifier derived from a URL.
type Query struct {
	// Code is the product code, empty in URL-only mode.
	Code        string
	URL         string
	Marketplace Marketplace
	// APIKey is the caller's search API credential for this request.
	APIKey string
}

// HasCode reports whether a product code was found.
func (q Query) HasCode() bool {
	return q.Code != ""
}

// PageURL is the address the page strategy fetches: the canonical /dp/
// page when a code is known, otherwise the URL as given.
func (q Query) PageURL() string {
	if !q.HasCode() {
		return q.URL
	}
	return "https://" + q.Marketplace.Domain + "/dp/" + q.Code
}

// ParseQuery derives a Query from a user supplied URL. Empty or malformed
// input fails with ErrNoIdentifiableProduct; a valid URL without a code
// yields a URL-only query.
func ParseQuery(raw string) (Query, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Query{}, fmt.Errorf("%w: empty URL", ErrNoIdentifiableProduct)
	}

	candidate := raw
	if !strings.Contains(candidate, "://") {
		candidate = "https://" + candidate
	}
	u, err := url.Parse(candidate)
	if err != nil {
		return Query{}, fmt.Errorf("%w: %v", ErrNoIdentifiableProduct, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Query{}, fmt.Errorf("%w: unsupported scheme %q", ErrNoIdentifiableProduct, u.Scheme)
	}
	if u.Hostname() == "" || strings.ContainsAny(u.Hostname(), " \t") {
		return Query{}, fmt.Errorf("%w: missing host in %q", ErrNoIdentifiableProduct, raw)
	}

	// Match against path and query only so a bare host is never read as a code
	target := u.EscapedPath()
	if u.RawQuery != "" {
		target += "?" + u.RawQuery
	}

	return Query{
		Code:        ExtractCode(target),
		URL:         candidate,
		Marketplace: MarketplaceFor(u.Hostname()),
	}, nil
}

// ExtractCode returns the first product code found in s, or "".
func ExtractCode(s string) string {
	for _, re := range codePatterns {
		if m := re.FindStringSubmatch(s); m != nil {
			return m[1]
		}
	}
	return ""
}

// Marketplace is a storefront domain with the settings tied to it.
type Marketplace struct {
	Domain         string         `json:"domain"`
	CurrencySymbol string         `json:"currency_symbol"`
	Locale         serpapi.Locale `json:"locale"`
}

// Host is the domain without the www prefix, as used in site: searches.
func (m Marketplace) Host() string {
	return strings.TrimPrefix(m.Domain, "www.")
}

// DefaultMarketplace is used for hosts that are not a known storefront.
var DefaultMarketplace = Marketplace{
	Domain:         "www.amazon.com",
	CurrencySymbol: "$",
	Locale:         mustLocale("United States"),
}

var marketplaces = []Marketplace{
	DefaultMarketplace,
	{Domain: "www.amazon.co.uk", CurrencySymbol: "£", Locale: mustLocale("United Kingdom")},
	{Domain: "www.amazon.in", CurrencySymbol: "₹", Locale: mustLocale("India")},
	{Domain: "www.amazon.ca", CurrencySymbol: "$", Locale: mustLocale("Canada")},
	{Domain: "www.amazon.com.au", CurrencySymbol: "$", Locale: mustLocale("Australia")},
	{Domain: "www.amazon.de", CurrencySymbol: "€", Locale: mustLocale("Germany")},
	{Domain: "www.amazon.fr", CurrencySymbol: "€", Locale: DefaultMarketplace.Locale},
	{Domain: "www.amazon.it", CurrencySymbol: "€", Locale: DefaultMarketplace.Locale},
	{Domain: "www.amazon.es", CurrencySymbol: "€", Locale: DefaultMarketplace.Locale},
	{Domain: "www.amazon.co.jp", CurrencySymbol: "¥", Locale: DefaultMarketplace.Locale},
}

// MarketplaceFor maps a URL host to its storefront. Unknown hosts use the
// default marketplace.
func MarketplaceFor(host string) Marketplace {
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	for _, m := range marketplaces {
		h := m.Host()
		if host == h || strings.HasSuffix(host, "."+h) {
			return m
		}
	}
	return DefaultMarketplace
}

func mustLocale(country string) serpapi.Locale {
	l, ok := serpapi.LocaleFor(country)
	if !ok {
		panic("unknown locale " + country)
	}
	return l
}
