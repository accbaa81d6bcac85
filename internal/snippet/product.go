package snippet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/contentdesk/affkit/internal/product"
	"github.com/goccy/go-yaml"
)

// Defaults applied to blank product fields.
const (
	DefaultTitle       = "Sample Product"
	DefaultLink        = "#"
	DefaultImage       = "https://via.placeholder.com/150"
	DefaultRating      = "4.5"
	DefaultDescription = "Great product description here."
	DefaultBadgeText   = "Best Choice"
	DefaultBadgeColor  = "#000000"
	DealColor          = "#ff9900"
)

var hexColor = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// Rating is a star rating given as a number or numeric text.
type Rating string

// UnmarshalYAML accepts scalars of any type.
func (r *Rating) UnmarshalYAML(data []byte) error {
	*r = Rating(strings.Trim(strings.TrimSpace(string(data)), `"'`))
	return nil
}

// UnmarshalJSON accepts strings and numbers.
func (r *Rating) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = ""
		return nil
	}
	*r = Rating(strings.Trim(string(data), `"`))
	return nil
}

// Value parses the rating. Unparsable text is 0.
func (r Rating) Value() float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(string(r)), 64)
	if err != nil {
		return 0
	}
	return f
}

// Product is one item rendered into a snippet. Pros and Cons hold one entry
// per line.
type Product struct {
	Title       string `json:"title" yaml:"title"`
	Link        string `json:"link" yaml:"link"`
	Image       string `json:"image" yaml:"image"`
	Rating      Rating `json:"rating" yaml:"rating"`
	Description string `json:"description" yaml:"description"`
	BadgeText   string `json:"badge_text" yaml:"badge_text"`
	BadgeColor  string `json:"badge_color" yaml:"badge_color"`
	Pros        string `json:"pros" yaml:"pros"`
	Cons        string `json:"cons" yaml:"cons"`
}

// WithDefaults fills blank fields. An invalid badge color counts as blank.
func (p Product) WithDefaults() Product {
	p.Title = orDefault(p.Title, DefaultTitle)
	p.Link = orDefault(p.Link, DefaultLink)
	p.Image = orDefault(p.Image, DefaultImage)
	p.Rating = Rating(orDefault(string(p.Rating), DefaultRating))
	p.Description = orDefault(p.Description, DefaultDescription)
	p.BadgeText = orDefault(p.BadgeText, DefaultBadgeText)
	p.BadgeColor = strings.TrimSpace(p.BadgeColor)
	if !hexColor.MatchString(p.BadgeColor) {
		p.BadgeColor = DefaultBadgeColor
	}
	return p
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

// FromRecord builds a snippet product from a resolved record. link is the
// affiliate link; the product URL is used when it is blank.
func FromRecord(r *product.Record, link string) Product {
	if strings.TrimSpace(link) == "" {
		link = r.URL
	}
	p := Product{
		Title:       r.Title.Or(""),
		Link:        link,
		Rating:      Rating(r.Rating.Or("")),
		Description: r.Description,
	}
	if len(r.Images) > 0 {
		p.Image = r.Images[0]
	}
	return p
}

// File is a snippet input file.
type File struct {
	Design   Design    `json:"design" yaml:"design"`
	Products []Product `json:"products" yaml:"products"`
}

// LoadFile reads a YAML or JSON snippet file. The format follows the
// extension; anything but .json is read as YAML.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snippet file: %w", err)
	}

	var f File
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &f)
	} else {
		err = yaml.Unmarshal(data, &f)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse snippet file %s: %w", path, err)
	}
	if len(f.Products) == 0 {
		return nil, fmt.Errorf("snippet file %s lists no products", path)
	}
	return &f, nil
}
