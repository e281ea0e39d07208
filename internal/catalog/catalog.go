// Package catalog holds the built-in reasons and the random selection over them.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed reasons.yaml
var builtinYAML []byte

// MaxPick is the most reasons PickMultiple returns.
const MaxPick = 10

// ErrEmptyCatalog is returned when there is nothing to pick from.
var ErrEmptyCatalog = errors.New("catalog is empty")

// Category is a reason category.
type Category int

const (
	Random Category = iota
	Lazy
	Sarcastic
	Creative
	Relatable
	Professional
)

// ordered lists the real categories in display order.
var ordered = []Category{Lazy, Sarcastic, Creative, Relatable, Professional}

var names = map[Category]string{
	Random:       "random",
	Lazy:         "lazy",
	Sarcastic:    "sarcastic",
	Creative:     "creative",
	Relatable:    "relatable",
	Professional: "professional",
}

func (c Category) String() string {
	if n, ok := names[c]; ok {
		return n
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// ParseCategory resolves a category name. ok is false for unknown names.
func ParseCategory(name string) (Category, bool) {
	for c, n := range names {
		if n == name {
			return c, true
		}
	}
	return Random, false
}

// Options controls how the built-in catalog is assembled.
type Options struct {
	// Professional enables the professional category, which ships disabled.
	Professional bool
	// Rand overrides the random source. Defaults to a time-seeded source.
	Rand *rand.Rand
}

// Catalog is an immutable set of categorized reasons. Safe for concurrent use.
type Catalog struct {
	categories map[Category][]string
	active     []Category
	unique     []string

	mu  sync.Mutex
	rng *rand.Rand
}

// CategoryCount is the size of one category.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats summarises the catalog.
type Stats struct {
	Total      int             `json:"total"`
	Categories []CategoryCount `json:"categories"`
}

// Categorized is a reason together with the category it was drawn from.
type Categorized struct {
	Message  string `json:"message"`
	Category string `json:"category"`
}

// Load parses the embedded reasons and builds the catalog.
func Load(opts Options) (*Catalog, error) {
	var raw map[string][]string
	if err := yaml.Unmarshal(builtinYAML, &raw); err != nil {
		return nil, fmt.Errorf("parse builtin reasons: %w", err)
	}

	cats := make(map[Category][]string, len(raw))
	for name, list := range raw {
		c, ok := ParseCategory(name)
		if !ok || c == Random {
			return nil, fmt.Errorf("builtin reasons: unknown category %q", name)
		}
		if c == Professional && !opts.Professional {
			continue
		}
		cats[c] = list
	}

	cat := New(cats)
	if opts.Rand != nil {
		cat.rng = opts.Rand
	}
	return cat, nil
}

// New builds a catalog from explicit category lists. Random is ignored as a key.
func New(categories map[Category][]string) *Catalog {
	c := &Catalog{
		categories: make(map[Category][]string, len(categories)),
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	seen := make(map[string]bool)
	for _, cat := range ordered {
		list, ok := categories[cat]
		if !ok {
			continue
		}
		c.categories[cat] = append([]string(nil), list...)
		c.active = append(c.active, cat)
		for _, text := range list {
			if !seen[text] {
				seen[text] = true
				c.unique = append(c.unique, text)
			}
		}
	}
	return c
}

// WithRand replaces the random source and returns the catalog.
func (c *Catalog) WithRand(r *rand.Rand) *Catalog {
	c.mu.Lock()
	c.rng = r
	c.mu.Unlock()
	return c
}

// Unique returns the deduplicated union of every active category.
func (c *Catalog) Unique() []string {
	return append([]string(nil), c.unique...)
}

// Category returns the reasons of one active category.
func (c *Catalog) Category(cat Category) ([]string, bool) {
	list, ok := c.categories[cat]
	if !ok {
		return nil, false
	}
	return append([]string(nil), list...), true
}

// PickRandom draws uniformly from the deduplicated union.
func (c *Catalog) PickRandom() (string, error) {
	return c.pick(c.unique)
}

// PickRandomFromCategory draws from the named category. "random" and unknown
// names fall back to the full union.
func (c *Catalog) PickRandomFromCategory(name string) (string, error) {
	res, err := c.PickCategorized(name)
	return res.Message, err
}

// PickCategorized is PickRandomFromCategory that also reports which category
// was actually used.
func (c *Catalog) PickCategorized(name string) (Categorized, error) {
	cat, known := ParseCategory(name)
	list, active := c.categories[cat]
	switch {
	case !known, cat == Random, !active:
		text, err := c.pick(c.unique)
		return Categorized{Message: text, Category: Random.String()}, err
	default:
		text, err := c.pick(list)
		return Categorized{Message: text, Category: cat.String()}, err
	}
}

// PickMultiple returns count distinct reasons. count is clamped to [1, MaxPick]
// and to the size of the catalog.
func (c *Catalog) PickMultiple(count int) []string {
	if count < 1 {
		count = 1
	}
	if count > MaxPick {
		count = MaxPick
	}

	shuffled := append([]string(nil), c.unique...)
	c.mu.Lock()
	c.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	c.mu.Unlock()

	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}

// ListCategories returns the active category names followed by "random".
func (c *Catalog) ListCategories() []string {
	out := make([]string, 0, len(c.active)+1)
	for _, cat := range c.active {
		out = append(out, cat.String())
	}
	return append(out, Random.String())
}

// Stats reports the total number of distinct reasons and per-category counts.
func (c *Catalog) Stats() Stats {
	st := Stats{Total: len(c.unique), Categories: []CategoryCount{}}
	for _, cat := range c.active {
		st.Categories = append(st.Categories, CategoryCount{
			Name:  cat.String(),
			Count: len(c.categories[cat]),
		})
	}
	return st
}

func (c *Catalog) pick(list []string) (string, error) {
	if len(list) == 0 {
		return "", ErrEmptyCatalog
	}
	c.mu.Lock()
	i := c.rng.Intn(len(list))
	c.mu.Unlock()
	return list[i], nil
}
