package planner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// DefaultPath is the plan file used when none is configured.
const DefaultPath = "content_planner.json"

var (
	ErrClusterNotFound = errors.New("cluster not found")
	ErrKeywordNotFound = errors.New("keyword not in cluster")
	ErrNoClusters      = errors.New("no clusters found in input")
	ErrInvalidCSV      = errors.New("invalid CSV")
	ErrInvalidXLSX     = errors.New("invalid XLSX workbook")
)

var clusterLine = regexp.MustCompile(`(?im)Cluster Label\s*[:|]\s*(.*?)\s*Keywords\s*[:|]\s*(.*)$`)

// Store is a plan backed by a JSON file. Every mutation is written through.
type Store struct {
	path     string
	mu       sync.Mutex
	clusters []Cluster
}

// Open loads the plan at path. A missing or unreadable file yields an
// empty plan.
func Open(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	s := &Store{path: path, clusters: []Cluster{}}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Debug().Err(err).Str("path", path).Msg("Failed to read plan, starting empty")
		}
		return s
	}
	var clusters []Cluster
	if err := json.Unmarshal(data, &clusters); err != nil {
		log.Debug().Err(err).Str("path", path).Msg("Corrupt plan file, starting empty")
		return s
	}
	for i := range clusters {
		if clusters[i].ID == "" {
			clusters[i].ID = uuid.NewString()
		}
		if clusters[i].CheckedKeywords == nil {
			clusters[i].CheckedKeywords = []string{}
		}
	}
	s.clusters = clusters
	return s
}

// Path returns the backing file.
func (s *Store) Path() string {
	return s.path
}

// save writes the plan atomically. Callers hold s.mu.
func (s *Store) save() error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(s.clusters); err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create plan directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".planner-*.json")
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to save plan: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// All returns a copy of every cluster in insertion order.
func (s *Store) All() []Cluster {
	return s.Filter(FilterAll)
}

// Filter returns copies of the clusters matching f.
func (s *Store) Filter(f Filter) []Cluster {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Cluster{}
	for _, c := range s.clusters {
		if f.match(c) {
			c.CheckedKeywords = append([]string{}, c.CheckedKeywords...)
			out = append(out, c)
		}
	}
	return out
}

// Find returns the cluster with the given ID or label.
func (s *Store) Find(ref string) (Cluster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(ref)
	if i < 0 {
		return Cluster{}, fmt.Errorf("%w: %s", ErrClusterNotFound, ref)
	}
	c := s.clusters[i]
	c.CheckedKeywords = append([]string{}, c.CheckedKeywords...)
	return c, nil
}

func (s *Store) index(ref string) int {
	ref = strings.TrimSpace(ref)
	for i, c := range s.clusters {
		if c.ID == ref {
			return i
		}
	}
	for i, c := range s.clusters {
		if c.Label == ref {
			return i
		}
	}
	return -1
}

func (s *Store) hasLabel(label string) bool {
	for _, c := range s.clusters {
		if c.Label == label {
			return true
		}
	}
	return false
}

// add appends new clusters, skipping labels already present. Callers hold s.mu.
func (s *Store) add(pairs [][2]string) int {
	added := 0
	for _, p := range pairs {
		label, keywords := strings.TrimSpace(p[0]), strings.TrimSpace(p[1])
		if label == "" || s.hasLabel(label) {
			continue
		}
		s.clusters = append(s.clusters, Cluster{
			ID:              uuid.NewString(),
			Label:           label,
			Keywords:        keywords,
			CheckedKeywords: []string{},
		})
		added++
	}
	return added
}

// AddFromText parses "Cluster Label : X Keywords: a; b" lines and adds the
// clusters whose label is new. It returns how many were added.
func (s *Store) AddFromText(text string) (int, error) {
	matches := clusterLine.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return 0, ErrNoClusters
	}
	pairs := make([][2]string, 0, len(matches))
	for _, m := range matches {
		pairs = append(pairs, [2]string{m[1], m[2]})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	added := s.add(pairs)
	log.Debug().Int("parsed", len(pairs)).Int("added", added).Msg("Clusters added from text")
	return added, s.save()
}

// Stats counts keywords across every cluster.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Stats{Clusters: len(s.clusters)}
	for _, c := range s.clusters {
		st.Total += len(c.KeywordList())
		st.Completed += len(c.CheckedKeywords)
	}
	st.Pending = st.Total - st.Completed
	return st
}

// SetDone marks a cluster complete or pending.
func (s *Store) SetDone(ref string, done bool) error {
	return s.update(ref, func(c *Cluster) error {
		c.Done = done
		return nil
	})
}

// CheckKeyword marks one keyword of a cluster written or not.
func (s *Store) CheckKeyword(ref, kw string, checked bool) error {
	kw = strings.TrimSpace(kw)
	return s.update(ref, func(c *Cluster) error {
		found := false
		for _, k := range c.KeywordList() {
			if k == kw {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("%w: %s", ErrKeywordNotFound, kw)
		}
		switch {
		case checked && !c.IsChecked(kw):
			c.CheckedKeywords = append(c.CheckedKeywords, kw)
		case !checked:
			c.CheckedKeywords = without(c.CheckedKeywords, kw)
		}
		return nil
	})
}

// RemoveKeywords drops keywords from a cluster, rewriting its list as
// "a; b".
func (s *Store) RemoveKeywords(ref string, kws ...string) error {
	return s.update(ref, func(c *Cluster) error {
		keep := c.KeywordList()
		for _, kw := range kws {
			kw = strings.TrimSpace(kw)
			keep = without(keep, kw)
			c.CheckedKeywords = without(c.CheckedKeywords, kw)
		}
		c.Keywords = strings.Join(keep, "; ")
		return nil
	})
}

// Delete removes a cluster.
func (s *Store) Delete(ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(ref)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrClusterNotFound, ref)
	}
	s.clusters = append(s.clusters[:i], s.clusters[i+1:]...)
	return s.save()
}

// Clear removes every cluster.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clusters = []Cluster{}
	return s.save()
}

func (s *Store) update(ref string, fn func(*Cluster) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(ref)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrClusterNotFound, ref)
	}
	if err := fn(&s.clusters[i]); err != nil {
		return err
	}
	return s.save()
}

func without(list []string, v string) []string {
	out := list[:0:0]
	for _, s := range list {
		if s != v {
			out = append(out, s)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}
