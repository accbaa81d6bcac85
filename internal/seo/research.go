// Package seo runs keyword research against the web search engine.
package seo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/contentdesk/affkit/internal/serpapi"
	"github.com/rs/zerolog/log"
)

// NoSnippet is reported when the results carry no answer box.
const NoSnippet = "No direct snippet found."

// MaxCompetitors caps the organic results kept as competitors.
const MaxCompetitors = 10

// ErrEmptyKeyword is returned for a blank keyword.
var ErrEmptyKeyword = errors.New("keyword is required")

// Searcher runs a search API query.
type Searcher interface {
	Search(ctx context.Context, apiKey string, params serpapi.Params) (*serpapi.Response, error)
}

// Request is one research query.
type Request struct {
	Keyword string `json:"keyword"`
	Country string `json:"country"`
	APIKey  string `json:"-"`
}

// Competitor is one ranking page.
type Competitor struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Link     string `json:"link"`
}

// Report is the research result for one keyword.
type Report struct {
	Keyword     string       `json:"keyword"`
	Country     string       `json:"country"`
	Snippet     string       `json:"snippet"`
	LSI         []string     `json:"lsi_keywords"`
	FAQs        []string     `json:"faqs"`
	Competitors []Competitor `json:"competitors"`
}

// Researcher builds reports from search results.
type Researcher struct {
	client Searcher
}

// NewResearcher creates a Researcher.
func NewResearcher(client Searcher) *Researcher {
	return &Researcher{client: client}
}

// Research searches for req.Keyword in the requested country. A search with
// no results yields an empty report rather than an error.
func (r *Researcher) Research(ctx context.Context, req Request) (*Report, error) {
	keyword := strings.TrimSpace(req.Keyword)
	if keyword == "" {
		return nil, ErrEmptyKeyword
	}

	locale, ok := serpapi.LocaleFor(req.Country)
	if !ok && req.Country != "" {
		log.Debug().Str("country", req.Country).Msg("Unknown country, using default locale")
	}

	params := locale.Apply(serpapi.Params{"engine": "google", "q": keyword})
	report := &Report{
		Keyword:     keyword,
		Country:     locale.Country,
		Snippet:     NoSnippet,
		LSI:         []string{},
		FAQs:        []string{},
		Competitors: []Competitor{},
	}

	resp, err := r.client.Search(ctx, req.APIKey, params)
	if err != nil {
		if serpapi.IsNoResults(err) {
			return report, nil
		}
		return nil, fmt.Errorf("keyword research failed: %w", err)
	}

	report.Snippet = snippetOf(resp.AnswerBox)
	for _, s := range resp.RelatedSearches {
		if q := strings.TrimSpace(s.Query); q != "" {
			report.LSI = append(report.LSI, q)
		}
	}
	for _, q := range resp.RelatedQuestions {
		if text := strings.TrimSpace(q.Question); text != "" {
			report.FAQs = append(report.FAQs, text)
		}
	}
	for i, res := range resp.OrganicResults {
		if i == MaxCompetitors {
			break
		}
		pos := res.Position
		if pos == 0 {
			pos = i + 1
		}
		report.Competitors = append(report.Competitors, Competitor{Position: pos, Title: res.Title, Link: res.Link})
	}

	log.Debug().
		Str("keyword", keyword).
		Int("lsi", len(report.LSI)).
		Int("faqs", len(report.FAQs)).
		Int("competitors", len(report.Competitors)).
		Msg("Research completed")

	return report, nil
}

func snippetOf(box *serpapi.AnswerBox) string {
	if box == nil {
		return NoSnippet
	}
	switch {
	case strings.TrimSpace(box.Snippet) != "":
		return box.Snippet
	case strings.TrimSpace(box.Answer) != "":
		return box.Answer
	case len(box.List) > 0:
		return strings.Join(box.List, "\n")
	}
	return NoSnippet
}

// Links returns the competitor links in rank order.
func (r *Report) Links() []string {
	links := make([]string, 0, len(r.Competitors))
	for _, c := range r.Competitors {
		if c.Link != "" {
			links = append(links, c.Link)
		}
	}
	return links
}

// Prompt renders the block pasted into an AI writer.
func (r *Report) Prompt() string {
	faqs := make([]string, len(r.FAQs))
	for i, q := range r.FAQs {
		faqs[i] = "- " + q
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Main Keyword: \"%s\"\n", r.Keyword)
	fmt.Fprintf(&b, "Snippet Context: \"%s\"\n", r.Snippet)
	fmt.Fprintf(&b, "LSI Keywords: %s\n", strings.Join(r.LSI, ", "))
	fmt.Fprintf(&b, "FAQs: %s\n", strings.Join(faqs, "\n"))
	fmt.Fprintf(&b, "Competitors: %s\n", strings.Join(r.Links(), "\n"))
	return b.String()
}

// CompetitorsMarkdown lists the competitors as markdown links.
func (r *Report) CompetitorsMarkdown() string {
	var b strings.Builder
	for _, c := range r.Competitors {
		fmt.Fprintf(&b, "- [%s](%s)\n", c.Title, c.Link)
	}
	return b.String()
}
