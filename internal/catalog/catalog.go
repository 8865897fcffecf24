package catalog

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

var ErrUnknownIdentity = errors.New("identity not in catalog")

// Entry describes one champion identity: its shop cost tier, the traits it
// contributes to, and how many equivalent copies complete each star level.
type Entry struct {
	Key    string   `yaml:"key"`
	Name   string   `yaml:"name"`
	Cost   int      `yaml:"cost"`
	Traits []string `yaml:"traits"`
	// StarUp[0] is the copy count for 2-star, StarUp[1] for 3-star.
	// Defaults to 3 and 9 when omitted.
	StarUp []int `yaml:"star_up,omitempty"`
}

// Trait describes an activation ladder: Thresholds[i] units activate
// TierNames[i].
type Trait struct {
	Name       string   `yaml:"name"`
	Thresholds []int    `yaml:"thresholds"`
	TierNames  []string `yaml:"tiers"`
}

type file struct {
	Champions []Entry  `yaml:"champions"`
	Traits    []Trait  `yaml:"traits"`
	Items     []string `yaml:"items"`
}

// Catalog is the static reference data loaded once at startup and treated as
// read-only afterwards.
type Catalog struct {
	entries map[string]Entry
	traits  map[string]Trait
	items   map[string]bool
}

// Load reads and validates a catalog YAML file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

// Parse builds a catalog from raw YAML.
func Parse(raw []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Champions) == 0 {
		return nil, errors.New("catalog has no champions")
	}

	c := &Catalog{
		entries: make(map[string]Entry, len(f.Champions)),
		traits:  make(map[string]Trait, len(f.Traits)),
		items:   make(map[string]bool, len(f.Items)),
	}
	for _, it := range f.Items {
		c.items[it] = true
	}
	for _, e := range f.Champions {
		if e.Key == "" {
			return nil, errors.New("catalog champion with empty key")
		}
		if e.Cost < 1 || e.Cost > 5 {
			return nil, fmt.Errorf("champion %q: cost %d out of range", e.Key, e.Cost)
		}
		if len(e.StarUp) == 0 {
			e.StarUp = []int{3, 9}
		}
		if len(e.StarUp) != 2 || e.StarUp[0] < 2 || e.StarUp[1] <= e.StarUp[0] {
			return nil, fmt.Errorf("champion %q: bad star_up %v", e.Key, e.StarUp)
		}
		if _, dup := c.entries[e.Key]; dup {
			return nil, fmt.Errorf("duplicate champion key %q", e.Key)
		}
		c.entries[e.Key] = e
	}
	for _, t := range f.Traits {
		if t.Name == "" || len(t.Thresholds) == 0 || len(t.Thresholds) != len(t.TierNames) {
			return nil, fmt.Errorf("trait %q: thresholds and tiers must align", t.Name)
		}
		c.traits[t.Name] = t
	}
	return c, nil
}

// Lookup resolves a recognized identity. ok is false for identities with no
// catalog entry; fusion discards those as mismatches.
func (c *Catalog) Lookup(key string) (Entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// TraitTier returns the activated tier name for count units of a trait, or
// ok=false when the count activates nothing.
func (c *Catalog) TraitTier(name string, count int) (string, bool) {
	t, ok := c.traits[name]
	if !ok {
		return "", false
	}
	tier := ""
	for i, th := range t.Thresholds {
		if count >= th {
			tier = t.TierNames[i]
		}
	}
	return tier, tier != ""
}

// HasItem reports whether key is a known inventory item identity.
func (c *Catalog) HasItem(key string) bool { return c.items[key] }

// Keys returns all champion keys in sorted order.
func (c *Catalog) Keys() []string {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Size reports how many champion entries are loaded.
func (c *Catalog) Size() int { return len(c.entries) }
