package product

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/contentdesk/affkit/internal/engine"
)

const fullPage = `<!DOCTYPE html>
<html><head>
<title>Amazon.com: Widget Pro</title>
<meta name="description" content="Meta description">
</head><body>
<span id="productTitle">
    Widget   Pro, Black
</span>
<div id="corePrice_feature_div"><span class="a-price"><span class="a-offscreen">$19.99</span></span></div>
<span id="acrPopover" title="4.5 out of 5 stars"><span class="a-icon-alt">4.5 out of 5 stars</span></span>
<span id="acrCustomerReviewText">1,234 ratings</span>
<img id="landingImage"
     data-old-hires="https://m.media-amazon.com/images/I/main._AC_SL1500_.jpg"
     data-a-dynamic-image='{"https://m.media-amazon.com/images/I/main._AC_SX679_.jpg":[679,679],"https://m.media-amazon.com/images/I/alt._AC_SX425_.jpg":[425,425]}'>
<div id="feature-bullets"><ul>
  <li><span class="a-list-item">Long battery life</span></li>
  <li><span class="a-list-item">Water resistant</span></li>
</ul></div>
</body></html>`

func pageQuery(t *testing.T) Query {
	t.Helper()
	q, err := ParseQuery("https://www.amazon.com/dp/B08ABCDEF1")
	if err != nil {
		t.Fatal(err)
	}
	return q
}

func TestParsePage_Full(t *testing.T) {
	rec, err := ParsePage(pageQuery(t), "https://www.amazon.com/dp/B08ABCDEF1", fullPage)
	if err != nil {
		t.Fatalf("ParsePage failed: %v", err)
	}

	if rec.Title.String() != "Widget Pro, Black" {
		t.Errorf("Expected collapsed title, got %q", rec.Title)
	}
	if rec.Price.String() != "$19.99" {
		t.Errorf("Expected price $19.99, got %s", rec.Price)
	}
	if rec.Rating.String() != "4.5" {
		t.Errorf("Expected rating 4.5, got %s", rec.Rating)
	}
	if rec.Reviews.String() != "1234" {
		t.Errorf("Expected reviews 1234, got %s", rec.Reviews)
	}

	want := []string{
		"https://m.media-amazon.com/images/I/main.jpg",
		"https://m.media-amazon.com/images/I/alt.jpg",
	}
	if len(rec.Images) != len(want) {
		t.Fatalf("Expected images %v, got %v", want, rec.Images)
	}
	for i := range want {
		if rec.Images[i] != want[i] {
			t.Errorf("image %d: expected %s, got %s", i, want[i], rec.Images[i])
		}
	}

	if !strings.Contains(rec.Description, "Long battery life") || !strings.Contains(rec.Description, "Water resistant") {
		t.Errorf("Expected bullet description, got %q", rec.Description)
	}
}

func TestParsePage_ColorImagesScript(t *testing.T) {
	html := `<html><body><span id="productTitle">Widget</span>
<script type="text/javascript">
P.when('A').register("ImageBlockATF", function(A){
  var data = {
    'colorImages': { 'initial': [
      {"hiRes":"https://m.media-amazon.com/images/I/one._AC_SL1500_.jpg","large":"https://m.media-amazon.com/images/I/one._AC_.jpg","variant":"MAIN"},
      {"hiRes":null,"large":"https://m.media-amazon.com/images/I/two._AC_.jpg","variant":"PT01"}
    ]},
    'colorToAsin': {'initial': {}},
    'heroImage': {}
  };
  return data;
});
</script></body></html>`

	rec, err := ParsePage(pageQuery(t), "https://www.amazon.com/dp/B08ABCDEF1", html)
	if err != nil {
		t.Fatalf("ParsePage failed: %v", err)
	}
	want := []string{
		"https://m.media-amazon.com/images/I/one.jpg",
		"https://m.media-amazon.com/images/I/two.jpg",
	}
	if len(rec.Images) != 2 || rec.Images[0] != want[0] || rec.Images[1] != want[1] {
		t.Errorf("Expected %v, got %v", want, rec.Images)
	}
}

func TestParsePage_RegexFallback(t *testing.T) {
	html := `<html><body><span id="productTitle">Widget</span>
<script>var broken = {"hiRes":"https://m.media-amazon.com/images/I/raw._SL1500_.jpg", oops</script></body></html>`

	rec, err := ParsePage(pageQuery(t), "https://www.amazon.com/dp/B08ABCDEF1", html)
	if err != nil {
		t.Fatalf("ParsePage failed: %v", err)
	}
	if len(rec.Images) != 1 || rec.Images[0] != "https://m.media-amazon.com/images/I/raw.jpg" {
		t.Errorf("Expected regex image, got %v", rec.Images)
	}
}

func TestParsePage_MissingMarkersAreAbsent(t *testing.T) {
	html := `<html><head><meta name="description" content="Just a widget"></head>
<body><span id="productTitle">Widget</span></body></html>`

	rec, err := ParsePage(pageQuery(t), "https://www.amazon.com/dp/B08ABCDEF1", html)
	if err != nil {
		t.Fatalf("Expected success without price or rating, got %v", err)
	}
	if rec.Price.Valid || rec.Rating.Valid || rec.Reviews.Valid {
		t.Errorf("Expected absent price/rating/reviews, got %+v", rec)
	}
	if len(rec.Images) != 0 {
		t.Errorf("Expected no images, got %v", rec.Images)
	}
	if rec.Description != "Just a widget" {
		t.Errorf("Expected meta description, got %q", rec.Description)
	}
}

func TestParsePage_NoTitle(t *testing.T) {
	_, err := ParsePage(pageQuery(t), "https://www.amazon.com/dp/B08ABCDEF1", `<html><body>Robot Check</body></html>`)
	if !errors.Is(err, &StrategyError{Code: ErrCodeIncomplete}) {
		t.Errorf("Expected INCOMPLETE error, got %v", err)
	}
}

func TestPageParse_FetchesCanonicalURL(t *testing.T) {
	fetcher := &fakeFetcher{html: fullPage}
	s := NewPageParse(fetcher, nil)

	rec, err := s.Attempt(context.Background(), pageQuery(t))
	if err != nil {
		t.Fatalf("Attempt failed: %v", err)
	}
	if fetcher.calls[0] != "https://www.amazon.com/dp/B08ABCDEF1" {
		t.Errorf("Expected canonical URL, got %s", fetcher.calls[0])
	}
	if rec.SourceTier != StrategyPageParse {
		t.Errorf("Expected page tier, got %s", rec.SourceTier)
	}
}

func TestPageParse_Blocked(t *testing.T) {
	fetcher := &fakeFetcher{err: &engine.EngineError{Code: engine.ErrCodeBlocked, Message: "robot check page returned"}}
	_, err := NewPageParse(fetcher, nil).Attempt(context.Background(), pageQuery(t))

	var se *StrategyError
	if !errors.As(err, &se) || se.Code != ErrCodeBlocked {
		t.Errorf("Expected BLOCKED strategy error, got %v", err)
	}
}

func TestDynamicImageKeys(t *testing.T) {
	keys := dynamicImageKeys(`{"b.jpg":[1,1],"a.jpg":[2,2],"c.jpg":{"w":3}}`)
	if strings.Join(keys, ",") != "b.jpg,a.jpg,c.jpg" {
		t.Errorf("Expected keys in document order, got %v", keys)
	}
	if keys := dynamicImageKeys(`not json`); len(keys) != 0 {
		t.Errorf("Expected no keys for invalid JSON, got %v", keys)
	}
}

func TestObjectLiteralAfter(t *testing.T) {
	src := `x = {'colorImages': {'initial': [{"t": "a}b", "u": 'c{d'}]}, 'other': 1}`
	got := objectLiteralAfter(src, "'colorImages'")
	want := `{'initial': [{"t": "a}b", "u": 'c{d'}]}`
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if objectLiteralAfter(src, "'missing'") != "" {
		t.Error("Expected empty result for missing marker")
	}
}
