package product

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/contentdesk/affkit/internal/engine"
	"github.com/contentdesk/affkit/internal/engine/metadata"
	"github.com/contentdesk/affkit/internal/utils/output"
	urlutil "github.com/contentdesk/affkit/internal/utils/url"
	"github.com/contentdesk/affkit/pkg/models"
	"github.com/dop251/goja"
	"github.com/rs/zerolog/log"
)

var (
	mainImageSelectors = []string{"#landingImage", "#imgBlkFront", "#ebooksImgBlkFront", "#main-image"}
	priceSelectors     = []string{
		"#corePrice_feature_div .a-price .a-offscreen",
		"#corePriceDisplay_desktop_feature_div .a-price .a-offscreen",
		"#apex_desktop .a-price .a-offscreen",
		"#priceblock_ourprice",
		"#priceblock_dealprice",
		"#price_inside_buybox",
		".a-price .a-offscreen",
	}

	hiResPattern  = regexp.MustCompile(`"hiRes"\s*:\s*"(https?://[^"]+)"`)
	largePattern  = regexp.MustCompile(`"large"\s*:\s*"(https?://[^"]+)"`)
	ratingPattern = regexp.MustCompile(`^\s*(\d+(?:[.,]\d+)?)`)
)

// PageParse fetches the product page and reads it structurally.
type PageParse struct {
	fetcher engine.Fetcher
	headers map[string]string
}

// NewPageParse creates the direct page strategy. headers are sent with
// every fetch on top of the fetcher's browser headers.
func NewPageParse(fetcher engine.Fetcher, headers map[string]string) *PageParse {
	return &PageParse{fetcher: fetcher, headers: headers}
}

// Name returns the strategy name
func (s *PageParse) Name() string { return StrategyPageParse }

// RequiresCode is false: URL-only queries fetch the URL as given.
func (s *PageParse) RequiresCode() bool { return false }

// Attempt fetches q.PageURL and parses it.
func (s *PageParse) Attempt(ctx context.Context, q Query) (*Record, error) {
	page, err := s.fetcher.Fetch(ctx, models.RequestOptions{
		URL:     q.PageURL(),
		Headers: s.headers,
	})
	if err != nil {
		return nil, classify(s.Name(), err)
	}

	rec, err := ParsePage(q, page.URL, page.HTML)
	if err != nil {
		var se *StrategyError
		if errors.As(err, &se) {
			se.Strategy = s.Name()
		}
		return nil, err
	}
	rec.SourceTier = s.Name()
	return rec, nil
}

// ParsePage builds a Record from a product page. A page without a product
// title is an INCOMPLETE failure; every other missing marker only leaves its
// field absent.
func ParsePage(q Query, pageURL, html string) (*Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, NewStrategyError(StrategyPageParse, ErrCodeParse, "failed to parse HTML", err)
	}

	rec := newRecord(q)
	rec.Title = Some(collapse(firstText(doc, "#productTitle", "#title span", "#title")))
	if !rec.Title.Valid {
		return nil, NewStrategyError(StrategyPageParse, ErrCodeIncomplete, "page has no product title", nil)
	}

	meta := metadata.Describe(doc)

	for _, img := range mainImages(doc) {
		rec.AddImage(urlutil.ResolveURL(pageURL, img))
	}
	if len(rec.Images) == 0 {
		for _, img := range colorImages(html) {
			rec.AddImage(img)
		}
	}
	if len(rec.Images) == 0 {
		for _, img := range scanImages(html) {
			rec.AddImage(img)
		}
	}
	if len(rec.Images) == 0 && meta.OGImage != "" {
		rec.AddImage(urlutil.ResolveURL(pageURL, meta.OGImage))
	}

	rec.Price = Some(firstText(doc, priceSelectors...))
	rec.Rating = pageRating(doc)
	rec.Reviews = cleanCount(firstText(doc, "#acrCustomerReviewText"))
	rec.SetDescription(pageDescription(doc, pageURL, meta))

	return rec, nil
}

// firstText returns the trimmed text of the first selector that yields any.
func firstText(doc *goquery.Document, selectors ...string) string {
	for _, sel := range selectors {
		var text string
		doc.Find(sel).EachWithBreak(func(i int, s *goquery.Selection) bool {
			text = strings.TrimSpace(s.Text())
			return text == ""
		})
		if text != "" {
			return text
		}
	}
	return ""
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// mainImages reads the main image element: its high resolution attribute
// first, then the keys of its responsive image map in document order.
func mainImages(doc *goquery.Document) []string {
	var out []string
	for _, sel := range mainImageSelectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		if hires := strings.TrimSpace(node.AttrOr("data-old-hires", "")); hires != "" {
			out = append(out, hires)
		}
		if raw, ok := node.Attr("data-a-dynamic-image"); ok {
			out = append(out, dynamicImageKeys(raw)...)
		}
		if len(out) > 0 {
			return out
		}
	}
	return out
}

// dynamicImageKeys returns the URL keys of a data-a-dynamic-image map,
// {"https://...jpg":[500,500], ...}, in the order they appear.
func dynamicImageKeys(raw string) []string {
	dec := json.NewDecoder(strings.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil
	}

	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return keys
		}
		key, ok := tok.(string)
		if !ok {
			return keys
		}
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return keys
		}
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// colorImages evaluates the inline 'colorImages' object literal of the image
// block script and returns the hiRes (else large) URL of each initial image.
func colorImages(html string) []string {
	literal := objectLiteralAfter(html, "'colorImages'")
	if literal == "" {
		literal = objectLiteralAfter(html, `"colorImages"`)
	}
	if literal == "" {
		return nil
	}

	vm := goja.New()
	timer := time.AfterFunc(time.Second, func() { vm.Interrupt("evaluation timed out") })
	defer timer.Stop()
	val, err := vm.RunString("(" + literal + ")")
	if err != nil {
		log.Debug().Err(err).Msg("colorImages literal did not evaluate")
		return nil
	}

	obj, ok := val.Export().(map[string]interface{})
	if !ok {
		return nil
	}
	initial, ok := obj["initial"].([]interface{})
	if !ok {
		return nil
	}

	var out []string
	for _, entry := range initial {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		for _, key := range []string{"hiRes", "large"} {
			if s, ok := m[key].(string); ok && isImageURL(s) {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// objectLiteralAfter returns the balanced {...} literal that follows marker,
// honoring quoted strings, or "" when none is found.
func objectLiteralAfter(src, marker string) string {
	i := strings.Index(src, marker)
	if i < 0 {
		return ""
	}
	open := strings.IndexByte(src[i+len(marker):], '{')
	if open < 0 {
		return ""
	}
	start := i + len(marker) + open

	depth := 0
	var quote byte
	for j := start; j < len(src); j++ {
		c := src[j]
		if quote != 0 {
			switch c {
			case '\\':
				j++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return src[start : j+1]
			}
		}
	}
	return ""
}

// scanImages is the last resort: regex over the raw body for hiRes, then
// large, image URLs.
func scanImages(html string) []string {
	for _, re := range []*regexp.Regexp{hiResPattern, largePattern} {
		var out []string
		for _, m := range re.FindAllStringSubmatch(html, -1) {
			out = append(out, m[1])
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func pageRating(doc *goquery.Document) Field {
	candidates := []string{
		doc.Find("#acrPopover").First().AttrOr("title", ""),
		firstText(doc, "#acrPopover span.a-icon-alt", "#averageCustomerReviews .a-icon-alt", "span.a-icon-alt"),
	}
	for _, c := range candidates {
		if m := ratingPattern.FindStringSubmatch(c); m != nil {
			return Some(strings.ReplaceAll(m[1], ",", "."))
		}
	}
	return None()
}

func pageDescription(doc *goquery.Document, pageURL string, meta metadata.Meta) string {
	if bullets := doc.Find("#feature-bullets ul").First(); bullets.Length() > 0 {
		if frag, err := goquery.OuterHtml(bullets); err == nil {
			if text, err := output.HTMLToMarkdown(pageURL, frag); err == nil && text != "" {
				return text
			}
		}
	}
	if desc := collapse(doc.Find("#productDescription").Text()); desc != "" {
		return desc
	}
	return meta.Description
}
