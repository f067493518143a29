// Package catalog holds the static action definitions and star-field density
// profiles for each sky namespace.
package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

type Kind string

const (
	KindInPerson Kind = "in_person"
	KindOnline   Kind = "online"
)

type Phase string

const (
	PhaseBefore Phase = "before"
	PhaseDay    Phase = "day"
)

// ActionDefinition is immutable once loaded
type ActionDefinition struct {
	Key    string `json:"key" yaml:"key"`
	Label  string `json:"label" yaml:"label"`
	Kind   Kind   `json:"kind" yaml:"kind"`
	Weight int    `json:"weight" yaml:"weight"`
	Phase  Phase  `json:"phase,omitempty" yaml:"phase"`
}

// Catalog is the set of actions and render settings for one namespace
type Catalog struct {
	Name         string             `json:"name" yaml:"-"`
	CommentLimit int                `json:"commentLimit" yaml:"commentLimit"`
	Density      DensityProfile     `json:"density" yaml:"density"`
	Actions      []ActionDefinition `json:"actions" yaml:"actions"`

	byKey map[string]ActionDefinition
}

// Lookup finds an action by key
func (c *Catalog) Lookup(actionKey string) (ActionDefinition, bool) {
	def, ok := c.byKey[actionKey]
	return def, ok
}

// Weight returns the star weight of actionKey. Unknown keys count as 1.
func (c *Catalog) Weight(actionKey string) int {
	if def, ok := c.byKey[actionKey]; ok {
		return def.Weight
	}
	return 1
}

// Label returns the display label of actionKey, or the key itself when unknown
func (c *Catalog) Label(actionKey string) string {
	if def, ok := c.byKey[actionKey]; ok && def.Label != "" {
		return def.Label
	}
	return actionKey
}

// Selector picks the catalog that applies to a sky id
type Selector struct {
	campaign *Catalog
	member   *Catalog
}

func (s *Selector) For(skyID string) *Catalog {
	if strings.HasPrefix(strings.TrimSpace(skyID), MemberPrefix) {
		return s.member
	}
	return s.campaign
}

// ForRef is For on an already parsed sky id
func (s *Selector) ForRef(ref SkyRef) *Catalog {
	if ref.Namespace == NamespaceMember {
		return s.member
	}
	return s.campaign
}

//go:embed catalog.yaml
var defaultCatalogYAML []byte

var defaultSelector *Selector

func init() {
	sel, err := Load(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog.yaml is invalid: %v", err))
	}
	defaultSelector = sel
}

// Default returns the selector built from the embedded catalog document
func Default() *Selector {
	return defaultSelector
}

type document struct {
	Catalogs map[string]*Catalog `yaml:"catalogs"`
}

// Load parses and validates a catalog document. Both the campaign and the
// member catalogs must be present.
func Load(data []byte) (*Selector, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog document: %w", err)
	}

	sel := &Selector{}
	for _, name := range []string{NamespaceCampaign, NamespaceMember} {
		cat, ok := doc.Catalogs[name]
		if !ok || cat == nil {
			return nil, fmt.Errorf("catalog %q is missing", name)
		}
		cat.Name = name
		if err := cat.normalize(); err != nil {
			return nil, fmt.Errorf("catalog %q: %w", name, err)
		}
		if name == NamespaceMember {
			sel.member = cat
		} else {
			sel.campaign = cat
		}
	}
	return sel, nil
}

func (c *Catalog) normalize() error {
	if err := c.Density.validate(); err != nil {
		return err
	}
	if c.CommentLimit <= 0 {
		c.CommentLimit = DefaultCommentLimit
	}

	c.byKey = make(map[string]ActionDefinition, len(c.Actions))
	for i := range c.Actions {
		def := &c.Actions[i]
		def.Key = strings.TrimSpace(def.Key)
		if def.Key == "" {
			return fmt.Errorf("action %d has an empty key", i)
		}
		if _, dup := c.byKey[def.Key]; dup {
			return fmt.Errorf("duplicate action key %q", def.Key)
		}

		switch def.Kind {
		case "":
			def.Kind = KindInPerson
		case KindInPerson, KindOnline:
		default:
			return fmt.Errorf("action %q has unknown kind %q", def.Key, def.Kind)
		}

		switch def.Phase {
		case "", PhaseBefore, PhaseDay:
		default:
			return fmt.Errorf("action %q has unknown phase %q", def.Key, def.Phase)
		}

		if def.Weight <= 0 {
			def.Weight = 1
		}
		c.byKey[def.Key] = *def
	}
	return nil
}
