// Package planner keeps keyword clusters and their writing progress in a
// JSON file.
package planner

import (
	"fmt"
	"strings"
)

// Cluster is a group of keywords planned as related articles. Keywords is
// the raw ";"-separated list.
type Cluster struct {
	ID              string   `json:"id"`
	Label           string   `json:"label"`
	Keywords        string   `json:"keywords"`
	Done            bool     `json:"done"`
	CheckedKeywords []string `json:"checked_keywords"`
}

// KeywordList splits Keywords, dropping blanks.
func (c Cluster) KeywordList() []string {
	return splitKeywords(c.Keywords)
}

// IsChecked reports whether kw has been written.
func (c Cluster) IsChecked(kw string) bool {
	for _, k := range c.CheckedKeywords {
		if k == kw {
			return true
		}
	}
	return false
}

// Progress renders "checked/total".
func (c Cluster) Progress() string {
	return fmt.Sprintf("%d/%d", len(c.CheckedKeywords), len(c.KeywordList()))
}

func splitKeywords(s string) []string {
	var out []string
	for _, k := range strings.Split(s, ";") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Stats counts keywords across the plan. Completed counts checked keywords.
type Stats struct {
	Clusters  int `json:"clusters"`
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// Filter selects clusters by status.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterPending   Filter = "pending"
	FilterCompleted Filter = "completed"
)

// ParseFilter accepts all, pending or completed. Blank means all.
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, nil
	case FilterAll, FilterPending, FilterCompleted:
		return f, nil
	}
	return "", fmt.Errorf("unknown filter %q (valid: all, pending, completed)", s)
}

func (f Filter) match(c Cluster) bool {
	switch f {
	case FilterPending:
		return !c.Done
	case FilterCompleted:
		return c.Done
	}
	return true
}
