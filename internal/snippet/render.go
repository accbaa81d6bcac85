// Package snippet renders affiliate product boxes as embeddable HTML.
package snippet

import (
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/contentdesk/affkit/internal/utils/output"
	"github.com/microcosm-cc/bluemonday"
)

// Design is a snippet layout.
type Design string

const (
	DetailedReview Design = "detailed-review"
	BenefitBadge   Design = "benefit-badge"
	FeaturedDeal   Design = "featured-deal"
	FeatureCallout Design = "feature-callout"
	VerticalCard   Design = "vertical-card"
)

// Designs lists the layouts in display order.
var Designs = []Design{DetailedReview, BenefitBadge, FeaturedDeal, FeatureCallout, VerticalCard}

// Disclosure closes every rendered snippet.
const Disclosure = "As an Amazon Associate I earn from qualifying purchases."

const (
	noPros = "No pros listed."
	noCons = "No cons listed."
)

// ParseDesign accepts a design name, case-insensitively. Blank selects
// DetailedReview.
func ParseDesign(s string) (Design, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DetailedReview, nil
	}
	for _, d := range Designs {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown design %q (valid: %s)", s, designNames())
}

func designNames() string {
	names := make([]string, len(Designs))
	for i, d := range Designs {
		names[i] = string(d)
	}
	return strings.Join(names, ", ")
}

// Options control rendering.
type Options struct {
	// Pretty re-indents the generated HTML.
	Pretty bool
}

// Renderer turns products into HTML.
type Renderer struct {
	tmpl   *template.Template
	policy *bluemonday.Policy
}

// NewRenderer parses the design templates.
func NewRenderer() *Renderer {
	return &Renderer{
		tmpl:   template.Must(template.New("snippet").Parse(templates)),
		policy: bluemonday.UGCPolicy(),
	}
}

// view is the template data for one product.
type view struct {
	Product
	Stars       template.HTML
	Description template.HTML
	DealColor   string
	Pros        []string
	Cons        []string
	Features    []string
}

// Render renders every product in the design followed by the disclosure.
func (r *Renderer) Render(design Design, products []Product, opts Options) (string, error) {
	design, err := ParseDesign(string(design))
	if err != nil {
		return "", err
	}
	if len(products) == 0 {
		return "", fmt.Errorf("no products to render")
	}

	var sb strings.Builder
	for _, p := range products {
		if err := r.tmpl.ExecuteTemplate(&sb, string(design), r.view(p)); err != nil {
			return "", fmt.Errorf("failed to render %s: %w", design, err)
		}
	}
	if err := r.tmpl.ExecuteTemplate(&sb, "disclosure", Disclosure); err != nil {
		return "", fmt.Errorf("failed to render disclosure: %w", err)
	}

	if !opts.Pretty {
		return sb.String(), nil
	}
	return output.PrettyHTML(sb.String())
}

func (r *Renderer) view(p Product) view {
	p = p.WithDefaults()
	v := view{
		Product:     p,
		Stars:       Stars(p.Rating.Value()),
		Description: template.HTML(r.policy.Sanitize(p.Description)),
		DealColor:   p.BadgeColor,
		Pros:        lines(p.Pros, noPros),
		Cons:        lines(p.Cons, noCons),
		Features:    Features(p.Description),
	}
	if v.DealColor == DefaultBadgeColor {
		v.DealColor = DealColor
	}
	return v
}

// Stars renders five filled or empty stars for rating followed by the
// numeric value. Halves round to even.
func Stars(rating float64) template.HTML {
	filled := int(math.RoundToEven(rating))
	var sb strings.Builder
	sb.WriteString(`<div style="color: #ffa41c; font-size: 14px; margin: 3px 0 5px 0;">`)
	for i := 0; i < 5; i++ {
		if i < filled {
			sb.WriteString("&#9733;")
		} else {
			sb.WriteString("&#9734;")
		}
	}
	fmt.Fprintf(&sb, ` <span style="color: #666; font-size: 12px;">(%s)</span></div>`, formatRating(rating))
	return template.HTML(sb.String())
}

// formatRating always shows one decimal place at least: 4 -> "4.0".
func formatRating(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func lines(text, fallback string) []string {
	var out []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return []string{fallback}
	}
	return out
}

// Features returns up to three sentences of the description that are
// longer than five characters.
func Features(description string) []string {
	var out []string
	for _, s := range strings.Split(description, ".") {
		s = strings.TrimSpace(s)
		if len(s) <= 5 {
			continue
		}
		out = append(out, s)
		if len(out) == 3 {
			break
		}
	}
	return out
}
