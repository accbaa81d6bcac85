package serpapi

import (
	"encoding/json"
	"testing"
)

func TestImage_Decode(t *testing.T) {
	payload := `{"images":["https://m.media-amazon.com/a.jpg",{"link":"https://m.media-amazon.com/b.jpg"},{"thumbnail":"https://m.media-amazon.com/c.jpg"},null,7],
		"main_image":{"link":"https://m.media-amazon.com/main.jpg"}}`

	var pr ProductResult
	if err := json.Unmarshal([]byte(payload), &pr); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	want := []Image{"https://m.media-amazon.com/a.jpg", "https://m.media-amazon.com/b.jpg", "https://m.media-amazon.com/c.jpg", "", ""}
	if len(pr.Images) != len(want) {
		t.Fatalf("Expected %d images, got %d", len(want), len(pr.Images))
	}
	for i := range want {
		if pr.Images[i] != want[i] {
			t.Errorf("image %d: expected %q, got %q", i, want[i], pr.Images[i])
		}
	}
	if pr.MainImage != "https://m.media-amazon.com/main.jpg" {
		t.Errorf("Expected main image link, got %q", pr.MainImage)
	}
}

func TestText_Decode(t *testing.T) {
	tests := []struct {
		raw  string
		want Text
	}{
		{`"$19.99"`, "$19.99"},
		{`4.5`, "4.5"},
		{`1234`, "1234"},
		{`null`, ""},
		{`{"value":1}`, ""},
		{`"  padded "`, "padded"},
	}

	for _, tt := range tests {
		var got Text
		if err := json.Unmarshal([]byte(tt.raw), &got); err != nil {
			t.Errorf("%s: unexpected error %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.raw, tt.want, got)
		}
	}
}

func TestText_Float(t *testing.T) {
	if f, ok := Text("1,234").Float(); !ok || f != 1234 {
		t.Errorf("Expected 1234, got %v (%v)", f, ok)
	}
	if _, ok := Text("N/A").Float(); ok {
		t.Error("Expected N/A to be rejected")
	}
}

func TestParams_Canonical(t *testing.T) {
	p := Params{"q": "walking cane", "engine": "google", "gl": "us"}
	if got := p.Canonical(); got != "engine=google&gl=us&q=walking+cane" {
		t.Errorf("unexpected canonical form %q", got)
	}
}

func TestParams_CanonicalEscapesValues(t *testing.T) {
	injected := Params{"engine": "google", "q": "cane&gl=uk"}
	split := Params{"engine": "google", "q": "cane", "gl": "uk"}
	if injected.Canonical() == split.Canonical() {
		t.Errorf("Expected distinct canonical forms, both were %q", split.Canonical())
	}
	if got := injected.Canonical(); got != "engine=google&q=cane%26gl%3Duk" {
		t.Errorf("unexpected canonical form %q", got)
	}
}

func TestLocaleFor(t *testing.T) {
	l, ok := LocaleFor("bangladesh")
	if !ok || l.GoogleDomain != "google.com.bd" || l.GL != "bd" {
		t.Errorf("unexpected Bangladesh locale %+v", l)
	}
	l, ok = LocaleFor("Narnia")
	if ok || l.Country != DefaultCountry {
		t.Errorf("Expected fallback to %s, got %+v", DefaultCountry, l)
	}
	p := l.Apply(nil)
	if p["hl"] != "en" || p["google_domain"] != "google.com" || p["location"] != "United States" {
		t.Errorf("unexpected params %v", p)
	}
}
