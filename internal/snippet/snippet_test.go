package snippet

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/antchfx/htmlquery"
	"github.com/contentdesk/affkit/internal/product"
)

func TestStars(t *testing.T) {
	tests := []struct {
		rating float64
		filled int
		label  string
	}{
		{4.5, 4, "(4.5)"},
		{3.5, 4, "(3.5)"},
		{4.6, 5, "(4.6)"},
		{4, 4, "(4.0)"},
		{0, 0, "(0.0)"},
	}
	for _, tt := range tests {
		got := string(Stars(tt.rating))
		if n := strings.Count(got, "&#9733;"); n != tt.filled {
			t.Errorf("rating %v: expected %d filled stars, got %d", tt.rating, tt.filled, n)
		}
		if n := strings.Count(got, "&#9734;"); n != 5-tt.filled {
			t.Errorf("rating %v: expected %d empty stars, got %d", tt.rating, 5-tt.filled, n)
		}
		if !strings.Contains(got, tt.label) {
			t.Errorf("rating %v: expected label %s in %s", tt.rating, tt.label, got)
		}
	}
}

func TestRating_Value(t *testing.T) {
	if v := Rating("4.2").Value(); v != 4.2 {
		t.Errorf("Expected 4.2, got %v", v)
	}
	if v := Rating("great").Value(); v != 0 {
		t.Errorf("Expected 0 for unparsable rating, got %v", v)
	}
}

func TestFeatures(t *testing.T) {
	got := Features("Tiny. Long battery life. Ok. Waterproof to 50m. Bright display. Extra sentence here.")
	want := []string{"Long battery life", "Waterproof to 50m", "Bright display"}
	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Expected %q, got %q", want[i], got[i])
		}
	}
}

func TestWithDefaults(t *testing.T) {
	p := Product{BadgeColor: "red; background: url(x)"}.WithDefaults()
	if p.Title != DefaultTitle || p.Link != DefaultLink || p.Image != DefaultImage {
		t.Errorf("Expected defaults, got %+v", p)
	}
	if p.Rating != DefaultRating || p.BadgeText != DefaultBadgeText {
		t.Errorf("Expected default rating and badge, got %+v", p)
	}
	if p.BadgeColor != DefaultBadgeColor {
		t.Errorf("Expected invalid color to fall back, got %s", p.BadgeColor)
	}
}

func TestRender_DetailedReview(t *testing.T) {
	r := NewRenderer()
	products := []Product{
		{Title: "Boot <X>", Link: "https://amzn.to/abc", Rating: "4.5", Pros: "Light\n\n Warm \n", Description: "Good<script>alert(1)</script>"},
		{Title: "Second"},
	}

	out, err := r.Render(DetailedReview, products, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "<script>") || strings.Contains(out, "<X>") {
		t.Errorf("Expected user text to be escaped or sanitized:\n%s", out)
	}

	doc, err := htmlquery.Parse(strings.NewReader(out))
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	links := htmlquery.Find(doc, "//a[@rel='nofollow sponsored']")
	if len(links) != 2 {
		t.Fatalf("Expected 2 product links, got %d", len(links))
	}
	if href := htmlquery.SelectAttr(links[0], "href"); href != "https://amzn.to/abc" {
		t.Errorf("Expected affiliate link, got %s", href)
	}
	if href := htmlquery.SelectAttr(links[1], "href"); href != "#" {
		t.Errorf("Expected default link, got %s", href)
	}

	title := htmlquery.FindOne(doc, "//h4")
	if got := htmlquery.InnerText(title); got != "Boot <X>" {
		t.Errorf("Expected title text, got %q", got)
	}

	pros := htmlquery.Find(links[0], ".//div[@class='pros']//li")
	if len(pros) != 2 || htmlquery.InnerText(pros[1]) != "✓ Warm" {
		t.Errorf("Unexpected pros list")
	}
	cons := htmlquery.Find(links[0], ".//div[@class='cons']//li")
	if len(cons) != 1 || htmlquery.InnerText(cons[0]) != "✗ No cons listed." {
		t.Errorf("Expected default cons entry")
	}

	disclosure := htmlquery.FindOne(doc, "//div[@class='disclosure']")
	if disclosure == nil || htmlquery.InnerText(disclosure) != Disclosure {
		t.Error("Expected disclosure at the end")
	}
}

func TestRender_FeaturedDealColor(t *testing.T) {
	r := NewRenderer()
	out, err := r.Render(FeaturedDeal, []Product{{}, {BadgeColor: "#123abc"}}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc, _ := htmlquery.Parse(strings.NewReader(out))
	badges := htmlquery.Find(doc, "//div[@class='badge']")
	if len(badges) != 2 {
		t.Fatalf("Expected 2 badges, got %d", len(badges))
	}
	if style := htmlquery.SelectAttr(badges[0], "style"); !strings.Contains(style, DealColor) {
		t.Errorf("Expected deal color in %s", style)
	}
	if style := htmlquery.SelectAttr(badges[1], "style"); !strings.Contains(style, "#123abc") {
		t.Errorf("Expected custom color in %s", style)
	}
}

func TestRender_AllDesigns(t *testing.T) {
	r := NewRenderer()
	for _, d := range Designs {
		out, err := r.Render(d, []Product{{Title: "Thing", Description: "Sturdy frame. Long warranty."}}, Options{Pretty: true})
		if err != nil {
			t.Errorf("%s: unexpected error: %v", d, err)
			continue
		}
		if !strings.Contains(out, "Thing") || !strings.Contains(out, Disclosure) {
			t.Errorf("%s: missing title or disclosure", d)
		}
	}

	if _, err := r.Render("spiral", []Product{{}}, Options{}); err == nil {
		t.Error("Expected error for unknown design")
	}
	if _, err := r.Render(VerticalCard, nil, Options{}); err == nil {
		t.Error("Expected error for no products")
	}
}

func TestFromRecord(t *testing.T) {
	rec := &product.Record{
		URL:         "https://www.amazon.com/dp/B08N5WRWNW",
		Title:       product.Some("Echo Dot"),
		Rating:      product.Some("4.7"),
		Images:      []string{"https://m.media-amazon.com/images/I/a.jpg"},
		Description: "Smart speaker.",
	}
	p := FromRecord(rec, "")
	if p.Title != "Echo Dot" || p.Link != rec.URL || p.Image != rec.Images[0] || p.Rating != "4.7" {
		t.Errorf("Unexpected product %+v", p)
	}
	if p = FromRecord(rec, "https://amzn.to/x"); p.Link != "https://amzn.to/x" {
		t.Errorf("Expected affiliate link, got %s", p.Link)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "boxes.yaml")
	os.WriteFile(yamlPath, []byte(`design: vertical-card
products:
  - title: Trail Boot
    rating: 4.4
    pros: |
      Light
      Warm
  - title: Road Shoe
    rating: "3"
`), 0644)

	f, err := LoadFile(yamlPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Design != VerticalCard || len(f.Products) != 2 {
		t.Fatalf("Unexpected file %+v", f)
	}
	if f.Products[0].Rating.Value() != 4.4 || f.Products[1].Rating.Value() != 3 {
		t.Errorf("Unexpected ratings %q %q", f.Products[0].Rating, f.Products[1].Rating)
	}
	if !strings.Contains(f.Products[0].Pros, "Warm") {
		t.Errorf("Expected block scalar pros, got %q", f.Products[0].Pros)
	}

	jsonPath := filepath.Join(dir, "boxes.json")
	os.WriteFile(jsonPath, []byte(`{"products":[{"title":"A","rating":5}]}`), 0644)
	f, err = LoadFile(jsonPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Products[0].Rating.Value() != 5 {
		t.Errorf("Expected rating 5, got %q", f.Products[0].Rating)
	}

	emptyPath := filepath.Join(dir, "empty.yaml")
	os.WriteFile(emptyPath, []byte("design: featured-deal\n"), 0644)
	if _, err := LoadFile(emptyPath); err == nil {
		t.Error("Expected error for a file without products")
	}
}
