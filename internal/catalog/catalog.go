// Package catalog holds the fixed set of analytical questions the dashboard
// offers and the SQL each one runs. The catalog is built once at start-up
// from an embedded YAML document and never changes afterwards.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pkordes/stop-insights/internal/domain"
)

//go:embed queries.yaml
var defaultDocument []byte

// Entry pairs a question with the query text that answers it.
type Entry struct {
	Question string `yaml:"question"`
	Query    string `yaml:"query"`
}

// Catalog is an immutable, order-preserving question → query lookup.
// The zero value is an empty catalog. Safe for concurrent use.
type Catalog struct {
	entries []Entry
	index   map[string]int
}

type document struct {
	Entries []Entry `yaml:"entries"`
}

// Parse builds a Catalog from a YAML document with a top-level "entries"
// sequence. Questions must be unique and every query must be non-empty.
func Parse(doc []byte) (*Catalog, error) {
	var d document
	if err := yaml.Unmarshal(doc, &d); err != nil {
		return nil, fmt.Errorf("catalog.Parse: %w", err)
	}
	return New(d.Entries)
}

// New builds a Catalog from entries, preserving their order.
func New(entries []Entry) (*Catalog, error) {
	c := &Catalog{
		entries: make([]Entry, 0, len(entries)),
		index:   make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		if e.Question == "" {
			return nil, fmt.Errorf("catalog.New: entry %d: empty question: %w", i, domain.ErrValidation)
		}
		if strings.TrimSpace(e.Query) == "" {
			return nil, fmt.Errorf("catalog.New: %q: empty query: %w", e.Question, domain.ErrValidation)
		}
		if _, dup := c.index[e.Question]; dup {
			return nil, fmt.Errorf("catalog.New: duplicate question %q: %w", e.Question, domain.ErrValidation)
		}
		c.index[e.Question] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c, nil
}

// MustParse is like Parse but panics on error.
func MustParse(doc []byte) *Catalog {
	c, err := Parse(doc)
	if err != nil {
		panic(err)
	}
	return c
}

var defaultCatalog = MustParse(defaultDocument)

// Default returns the catalog of canned traffic-stop questions.
func Default() *Catalog {
	return defaultCatalog
}

// Lookup returns the query text for question, compared by exact string
// equality. Unknown questions fail with an error wrapping domain.ErrNotFound.
func (c *Catalog) Lookup(question string) (string, error) {
	i, ok := c.index[question]
	if !ok {
		return "", fmt.Errorf("catalog.Lookup: question %q: %w", question, domain.ErrNotFound)
	}
	return c.entries[i].Query, nil
}

// Questions returns the questions in display order. The slice is a copy.
func (c *Catalog) Questions() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Question
	}
	return out
}

// Entries returns every entry in display order. The slice is a copy.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.entries)
}
