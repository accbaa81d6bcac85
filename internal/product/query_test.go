package product

import (
	"errors"
	"testing"
)

func TestParseQuery_Code(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"dp", "https://www.amazon.com/dp/B08ABCDEF1", "B08ABCDEF1"},
		{"dp with slug and ref", "https://www.amazon.com/Widget-Pro/dp/B08ABCDEF1/ref=sr_1_1?keywords=widget", "B08ABCDEF1"},
		{"gp product", "https://www.amazon.com/gp/product/B08ABCDEF1?th=1", "B08ABCDEF1"},
		{"product", "https://www.amazon.in/product/B08ABCDEF1", "B08ABCDEF1"},
		{"dp without leading slash", "https://amzn.example/xdp/B08ABCDEF1", "B08ABCDEF1"},
		{"trailing segment", "https://www.amazon.com/Widget-Pro/B08ABCDEF1", "B08ABCDEF1"},
		{"trailing segment with query", "https://www.amazon.com/Widget-Pro/B08ABCDEF1/?psc=1", "B08ABCDEF1"},
		{"no scheme", "amazon.com/dp/B08ABCDEF1", "B08ABCDEF1"},
		{"store front scenario", "https://www.example-store.com/dp/B08ABCDEF1", "B08ABCDEF1"},
		{"too long", "https://www.amazon.com/dp/B08ABCDEF12", ""},
		{"lowercase", "https://www.amazon.com/dp/b08abcdef1", ""},
		{"search page", "https://www.amazon.com/s?k=headphones", ""},
		{"host shaped like a code", "https://ABCDEFGHIJ", ""},
		{"host shaped like a code with slash", "https://ABCDEFGHIJ/", ""},
		{"subdomain shaped like a code", "https://B08ABCDEF1.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := ParseQuery(tt.url)
			if err != nil {
				t.Fatalf("ParseQuery(%q) failed: %v", tt.url, err)
			}
			if q.Code != tt.want {
				t.Errorf("Expected code %q, got %q", tt.want, q.Code)
			}
			if q.HasCode() != (tt.want != "") {
				t.Errorf("HasCode() = %v for code %q", q.HasCode(), q.Code)
			}
		})
	}
}

func TestParseQuery_Invalid(t *testing.T) {
	for _, in := range []string{"", "   ", "ftp://www.amazon.com/dp/B08ABCDEF1", "https://", "http://%zz"} {
		_, err := ParseQuery(in)
		if !errors.Is(err, ErrNoIdentifiableProduct) {
			t.Errorf("ParseQuery(%q): expected ErrNoIdentifiableProduct, got %v", in, err)
		}
	}
}

func TestParseQuery_URLOnlyKeepsURL(t *testing.T) {
	q, err := ParseQuery("https://www.amazon.com/s?k=headphones")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.PageURL() != "https://www.amazon.com/s?k=headphones" {
		t.Errorf("Expected raw URL as page URL, got %s", q.PageURL())
	}
}

func TestParseQuery_Marketplace(t *testing.T) {
	tests := []struct {
		url, domain, symbol, gl string
	}{
		{"https://www.amazon.co.uk/dp/B08ABCDEF1", "www.amazon.co.uk", "£", "uk"},
		{"https://smile.amazon.com/dp/B08ABCDEF1", "www.amazon.com", "$", "us"},
		{"https://amazon.in/dp/B08ABCDEF1", "www.amazon.in", "₹", "in"},
		{"https://www.example-store.com/dp/B08ABCDEF1", "www.amazon.com", "$", "us"},
	}
	for _, tt := range tests {
		q, err := ParseQuery(tt.url)
		if err != nil {
			t.Fatalf("ParseQuery(%q) failed: %v", tt.url, err)
		}
		if q.Marketplace.Domain != tt.domain {
			t.Errorf("%s: expected domain %s, got %s", tt.url, tt.domain, q.Marketplace.Domain)
		}
		if q.Marketplace.CurrencySymbol != tt.symbol {
			t.Errorf("%s: expected symbol %s, got %s", tt.url, tt.symbol, q.Marketplace.CurrencySymbol)
		}
		if q.Marketplace.Locale.GL != tt.gl {
			t.Errorf("%s: expected gl %s, got %s", tt.url, tt.gl, q.Marketplace.Locale.GL)
		}
	}
}
