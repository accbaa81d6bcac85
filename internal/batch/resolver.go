// internal/batch/resolver.go
package batch

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/contentdesk/affkit/internal/product"
	"github.com/rs/zerolog/log"
)

// Resolver resolves a single product URL.
type Resolver interface {
	Resolve(ctx context.Context, req product.Request) (*product.Record, product.Diagnostics, error)
}

// Item is the outcome for one input URL.
type Item struct {
	Index       int                 `json:"index"`
	URL         string              `json:"url"`
	Record      *product.Record     `json:"record,omitempty"`
	Diagnostics product.Diagnostics `json:"diagnostics"`
	Error       string              `json:"error,omitempty"`
	Duration    time.Duration       `json:"duration_ns"`

	err error
}

// Err returns the resolution error, if any.
func (i Item) Err() error {
	return i.err
}

// Runner resolves many URLs with bounded concurrency.
type Runner struct {
	resolver    Resolver
	concurrency int

	// OnDone is called once per finished item, possibly concurrently.
	OnDone func(Item)
}

// New creates a Runner. If concurrency <= 0, it auto-tunes based on system
// resources.
func New(resolver Resolver, concurrency int) *Runner {
	if concurrency <= 0 {
		concurrency = OptimalConcurrency()
	}
	return &Runner{
		resolver:    resolver,
		concurrency: concurrency,
	}
}

// Run resolves every URL and returns the items in input order. Blank lines
// and "#" comments should be removed by the caller; see ReadURLs.
func (r *Runner) Run(ctx context.Context, urls []string, apiKey string) []Item {
	items := make([]Item, len(urls))
	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup

	for i, u := range urls {
		items[i] = Item{Index: i, URL: u}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			items[i].setErr(fmt.Errorf("resolve skipped: %w", ctx.Err()))
			r.done(items[i])
			continue
		}

		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			defer func() { <-sem }()

			start := time.Now()
			rec, diag, err := r.resolver.Resolve(ctx, product.Request{URL: u, APIKey: apiKey})
			items[i].Record = rec
			items[i].Diagnostics = diag
			items[i].Duration = time.Since(start)
			if err != nil {
				items[i].setErr(err)
			}

			log.Debug().
				Int("index", i).
				Str("url", u).
				Bool("ok", err == nil).
				Dur("elapsed", items[i].Duration).
				Msg("Batch item resolved")

			r.done(items[i])
		}(i, u)
	}

	wg.Wait()
	return items
}

func (r *Runner) done(item Item) {
	if r.OnDone != nil {
		r.OnDone(item)
	}
}

func (i *Item) setErr(err error) {
	i.err = err
	i.Error = err.Error()
}

// Summary counts resolved and failed items.
type Summary struct {
	Total    int `json:"total"`
	Resolved int `json:"resolved"`
	Failed   int `json:"failed"`
}

// Summarize counts the outcomes of items.
func Summarize(items []Item) Summary {
	s := Summary{Total: len(items)}
	for _, it := range items {
		if it.Record != nil {
			s.Resolved++
		} else {
			s.Failed++
		}
	}
	return s
}

// CSVHeader is the column order of CSVRows.
var CSVHeader = append(append([]string{}, product.CSVHeader...), "error")

// CSVRows flattens items for spreadsheet export. Failed items keep their
// URL and error.
func CSVRows(items []Item) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		var row []string
		if it.Record != nil {
			row = it.Record.CSVRow()
		} else {
			row = make([]string, len(product.CSVHeader))
			row[0] = it.URL
		}
		rows = append(rows, append(row, it.Error))
	}
	return rows
}

// ReadURLs splits text into URLs, one per line, skipping blanks and "#"
// comments.
func ReadURLs(text string) []string {
	var urls []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls
}
