package metadata

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func TestDescribe(t *testing.T) {
	html := `<html><head>
	<title> Amazon.com: Widget </title>
	<meta name="description" content="A fine widget">
	<meta property="og:description" content="ignored">
	<meta property="og:image" content="https://m.media-amazon.com/images/I/a.jpg">
	<meta property="og:title" content="Widget">
	<link rel="canonical" href="https://www.amazon.com/dp/B000000001">
	</head><body></body></html>`

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}

	m := Describe(doc)
	if m.Title != "Amazon.com: Widget" {
		t.Errorf("Expected title 'Amazon.com: Widget', got '%s'", m.Title)
	}
	if m.Description != "A fine widget" {
		t.Errorf("Expected description 'A fine widget', got '%s'", m.Description)
	}
	if m.OGImage != "https://m.media-amazon.com/images/I/a.jpg" {
		t.Errorf("Unexpected og:image '%s'", m.OGImage)
	}
	if m.OGTitle != "Widget" {
		t.Errorf("Expected og:title 'Widget', got '%s'", m.OGTitle)
	}
	if m.Canonical != "https://www.amazon.com/dp/B000000001" {
		t.Errorf("Unexpected canonical '%s'", m.Canonical)
	}
}

func TestDescribe_Nil(t *testing.T) {
	if m := Describe(nil); m != (Meta{}) {
		t.Errorf("Expected zero Meta, got %+v", m)
	}
}
