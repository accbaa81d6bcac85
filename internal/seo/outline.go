package seo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	urlutil "github.com/contentdesk/affkit/internal/utils/url"
	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog/log"
)

// Heading is one h1-h3 heading of a page.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// PageOutline is the heading structure of one competitor page.
type PageOutline struct {
	URL      string    `json:"url"`
	Title    string    `json:"title,omitempty"`
	Headings []Heading `json:"headings"`
	Error    string    `json:"error,omitempty"`
}

// OutlinerOptions configures an Outliner.
type OutlinerOptions struct {
	UserAgent   string
	Parallelism int
	Timeout     time.Duration
	Delay       time.Duration
}

// Outliner crawls competitor pages and collects their headings.
type Outliner struct {
	opts OutlinerOptions
}

// NewOutliner creates an Outliner.
func NewOutliner(opts OutlinerOptions) *Outliner {
	if opts.Parallelism <= 0 {
		opts.Parallelism = 4
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 20 * time.Second
	}
	return &Outliner{opts: opts}
}

// Outline fetches every link and returns one outline per link in input
// order. Per-page failures are reported in PageOutline.Error.
func (o *Outliner) Outline(ctx context.Context, links []string) ([]PageOutline, error) {
	results := make([]PageOutline, len(links))
	var mu sync.Mutex

	c := colly.NewCollector(
		colly.Async(true),
		colly.AllowURLRevisit(),
		colly.UserAgent(o.opts.UserAgent),
	)
	c.SetRequestTimeout(o.opts.Timeout)
	if err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: o.opts.Parallelism,
		Delay:       o.opts.Delay,
	}); err != nil {
		return nil, fmt.Errorf("configure rate limits: %w", err)
	}

	indexOf := func(r *colly.Request) int {
		i, _ := strconv.Atoi(r.Ctx.Get("index"))
		return i
	}

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
		}
	})

	c.OnHTML("html", func(e *colly.HTMLElement) {
		i := indexOf(e.Request)
		title := strings.TrimSpace(e.ChildText("title"))
		var headings []Heading
		e.ForEach("h1, h2, h3", func(_ int, h *colly.HTMLElement) {
			text := strings.Join(strings.Fields(h.Text), " ")
			if text == "" {
				return
			}
			level, _ := strconv.Atoi(strings.TrimPrefix(h.Name, "h"))
			headings = append(headings, Heading{Level: level, Text: text})
		})

		mu.Lock()
		results[i].Title = title
		results[i].Headings = append(results[i].Headings, headings...)
		mu.Unlock()
	})

	c.OnError(func(r *colly.Response, err error) {
		if r == nil || r.Request == nil {
			return
		}
		i := indexOf(r.Request)
		mu.Lock()
		results[i].Error = err.Error()
		mu.Unlock()
		log.Debug().Str("url", r.Request.URL.String()).Err(err).Msg("Outline fetch failed")
	})

	for i, link := range links {
		results[i] = PageOutline{URL: link, Headings: []Heading{}}
		if err := urlutil.ValidateURL(link); err != nil {
			results[i].Error = err.Error()
			continue
		}
		reqCtx := colly.NewContext()
		reqCtx.Put("index", strconv.Itoa(i))
		if err := c.Request("GET", link, nil, reqCtx, nil); err != nil {
			results[i].Error = err.Error()
		}
	}
	c.Wait()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}
