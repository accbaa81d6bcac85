package urlutil

import "testing"

func TestValidate(t *testing.T) {
	valid := []string{
		"http://example.com",
		"https://www.amazon.com/dp/B08ABCDEF1",
		" https://example.com/path ",
	}
	for _, u := range valid {
		if err := ValidateURL(u); err != nil {
			t.Fatalf("expected valid, got error: %v", err)
		}
	}

	invalid := []string{"ftp://example.com", "//example.com", "http:///", "amazon.com/dp/x"}
	for _, u := range invalid {
		if err := ValidateURL(u); err == nil {
			t.Fatalf("expected invalid for %s", u)
		}
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, href, want string
	}{
		{"https://www.amazon.com/dp/B08ABCDEF1", "/images/a.jpg", "https://www.amazon.com/images/a.jpg"},
		{"https://www.amazon.com/dp/B08ABCDEF1", "//m.media-amazon.com/a.jpg", "https://m.media-amazon.com/a.jpg"},
		{"https://www.amazon.com/dp/B08ABCDEF1", "https://cdn.example.com/b.jpg", "https://cdn.example.com/b.jpg"},
		{"not a base", "a.jpg", "a.jpg"},
	}
	for _, tt := range tests {
		if got := ResolveURL(tt.base, tt.href); got != tt.want {
			t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.href, got, tt.want)
		}
	}
}

func TestHost(t *testing.T) {
	if got := Host("https://WWW.Amazon.co.uk/dp/x"); got != "amazon.co.uk" {
		t.Errorf("expected amazon.co.uk, got %q", got)
	}
	if got := Host("::"); got != "" {
		t.Errorf("expected empty host for invalid URL, got %q", got)
	}
}
