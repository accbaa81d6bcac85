package serpapi

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"
)

// Params is the query string sent to the search endpoint, engine included.
type Params map[string]string

// Engine returns the engine parameter.
func (p Params) Engine() string {
	return p["engine"]
}

// Clone returns a shallow copy of p.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Canonical renders the parameters as a stable, sorted and escaped query
// string.
func (p Params) Canonical() string {
	v := make(url.Values, len(p))
	for k, val := range p {
		v.Set(k, val)
	}
	return v.Encode()
}

// Text is a scalar that the API sends as a string or a number depending on
// the engine. Objects and arrays decode to the empty string.
type Text string

// UnmarshalJSON accepts strings, numbers and booleans.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(strings.TrimSpace(s))
	case '{', '[':
		*t = ""
	default:
		*t = Text(string(data))
	}
	return nil
}

// String returns the raw text.
func (t Text) String() string {
	return string(t)
}

// Float parses the text as a number, ignoring thousands separators.
func (t Text) Float() (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(string(t)), ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Image is an image reference sent either as a bare URL or as an object
// carrying the URL under "link", "image" or "thumbnail".
type Image string

// UnmarshalJSON accepts a string or an object with a URL field.
func (i *Image) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*i = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*i = Image(strings.TrimSpace(s))
		return nil
	}
	if data[0] != '{' {
		*i = ""
		return nil
	}
	var obj struct {
		Link      string `json:"link"`
		Image     string `json:"image"`
		Thumbnail string `json:"thumbnail"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	for _, s := range []string{obj.Link, obj.Image, obj.Thumbnail} {
		if s = strings.TrimSpace(s); s != "" {
			*i = Image(s)
			return nil
		}
	}
	*i = ""
	return nil
}

// Response is the subset of the search.json payload the tool reads.
type Response struct {
	Error            string            `json:"error,omitempty"`
	SearchMetadata   Metadata          `json:"search_metadata"`
	ProductResult    *ProductResult    `json:"product_result,omitempty"`
	Prices           []PriceEntry      `json:"prices,omitempty"`
	OrganicResults   []OrganicResult   `json:"organic_results,omitempty"`
	AnswerBox        *AnswerBox        `json:"answer_box,omitempty"`
	RelatedSearches  []RelatedSearch   `json:"related_searches,omitempty"`
	RelatedQuestions []RelatedQuestion `json:"related_questions,omitempty"`
}

// Metadata describes the search run on the API side.
type Metadata struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ProductResult is the amazon_product engine payload.
type ProductResult struct {
	Title          string       `json:"title"`
	Price          Text         `json:"price"`
	ExtractedPrice Text         `json:"extracted_price"`
	Prices         []PriceEntry `json:"prices"`
	Rating         Text         `json:"rating"`
	Reviews        Text         `json:"reviews"`
	Images         []Image      `json:"images"`
	MainImage      Image        `json:"main_image"`
	Thumbnail      Image        `json:"thumbnail"`
	AboutItem      []string     `json:"about_item"`
	Description    Text         `json:"description"`
}

// PriceEntry is one listed price.
type PriceEntry struct {
	Price          Text `json:"price"`
	ExtractedPrice Text `json:"extracted_price"`
}

// OrganicResult is a search result entry shared by the amazon and google engines.
type OrganicResult struct {
	Position       int          `json:"position"`
	Title          string       `json:"title"`
	Link           string       `json:"link"`
	Snippet        string       `json:"snippet"`
	Thumbnail      Image        `json:"thumbnail"`
	Rating         Text         `json:"rating"`
	Reviews        Text         `json:"reviews"`
	Price          Text         `json:"price"`
	ExtractedPrice Text         `json:"extracted_price"`
	RichSnippet    *RichSnippet `json:"rich_snippet,omitempty"`
}

// RichSnippet holds the structured extras Google attaches to a result.
type RichSnippet struct {
	Top *RichSnippetBlock `json:"top,omitempty"`
}

// RichSnippetBlock carries the detected extensions of a rich snippet.
type RichSnippetBlock struct {
	Extensions         []string           `json:"extensions,omitempty"`
	DetectedExtensions DetectedExtensions `json:"detected_extensions"`
}

// DetectedExtensions are the rating, review and price values Google parsed.
type DetectedExtensions struct {
	Rating   Text `json:"rating"`
	Reviews  Text `json:"reviews"`
	Price    Text `json:"price"`
	Currency Text `json:"currency"`
}

// AnswerBox is Google's featured answer.
type AnswerBox struct {
	Snippet string   `json:"snippet"`
	Answer  string   `json:"answer"`
	List    []string `json:"list"`
}

// RelatedSearch is one "searches related to" entry.
type RelatedSearch struct {
	Query string `json:"query"`
}

// RelatedQuestion is one "people also ask" entry.
type RelatedQuestion struct {
	Question string `json:"question"`
}
