// internal/engine/metadata/extractor.go
package metadata

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Meta is the document-level metadata of a page.
type Meta struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	OGTitle     string `json:"og_title,omitempty"`
	OGImage     string `json:"og_image,omitempty"`
	Canonical   string `json:"canonical,omitempty"`
}

// Describe extracts the <title>, description, OpenGraph and canonical tags.
func Describe(doc *goquery.Document) Meta {
	var m Meta
	if doc == nil {
		return m
	}

	m.Title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("meta").Each(func(i int, sel *goquery.Selection) {
		content := strings.TrimSpace(sel.AttrOr("content", ""))
		if content == "" {
			return
		}
		key := sel.AttrOr("name", sel.AttrOr("property", ""))
		switch strings.ToLower(key) {
		case "description":
			if m.Description == "" {
				m.Description = content
			}
		case "og:description":
			if m.Description == "" {
				m.Description = content
			}
		case "og:title":
			m.OGTitle = content
		case "og:image", "og:image:url":
			if m.OGImage == "" {
				m.OGImage = content
			}
		}
	})

	if href, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		m.Canonical = strings.TrimSpace(href)
	}

	return m
}
