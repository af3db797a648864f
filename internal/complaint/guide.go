package complaint

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"consumer-assistant/internal/textnorm"
)

//go:embed guide.yaml
var defaultGuideYAML []byte

// PairSeparator joins a category and subtype in classification labels.
const PairSeparator = " > "

// Field is a declared complaint form field.
type Field struct {
	Name   string `yaml:"name"`
	Label  string `yaml:"label"`
	Prompt string `yaml:"prompt"`
	// List marks a field whose answer is a list of items. An explicit "none"
	// answer is an empty list, which still satisfies the field.
	List bool `yaml:"list"`
}

// Subtype holds the reference data for one category subtype.
type Subtype struct {
	Name              string   `yaml:"name"`
	RequiredDocuments []string `yaml:"required_documents"`
	Guidance          string   `yaml:"guidance"`
}

// Category groups subtypes.
type Category struct {
	Name     string    `yaml:"name"`
	Subtypes []Subtype `yaml:"subtypes"`
}

// Guide is the static complaint reference data: the declared fields in collection
// order and the category > subtype taxonomy.
type Guide struct {
	Fields     []Field    `yaml:"fields"`
	Categories []Category `yaml:"categories"`
}

// Pair is a classified (category, subtype).
type Pair struct {
	Category string
	Subtype  string
}

// String renders the pair as a classification label.
func (p Pair) String() string {
	return p.Category + PairSeparator + p.Subtype
}

// DefaultGuide returns the built-in guide.
func DefaultGuide() (*Guide, error) {
	return ParseGuide(defaultGuideYAML)
}

// LoadGuide reads a guide from a YAML file. An empty path returns the default guide.
func LoadGuide(path string) (*Guide, error) {
	if path == "" {
		return DefaultGuide()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category guide %s: %w", path, err)
	}
	return ParseGuide(data)
}

// ParseGuide decodes and validates a YAML guide.
func ParseGuide(data []byte) (*Guide, error) {
	var g Guide
	if err := yaml.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGuide, err)
	}
	if err := g.validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

func (g *Guide) validate() error {
	if len(g.Fields) == 0 {
		return fmt.Errorf("%w: no fields declared", ErrInvalidGuide)
	}
	seen := make(map[string]bool, len(g.Fields))
	for i, f := range g.Fields {
		if f.Name == "" || f.Prompt == "" {
			return fmt.Errorf("%w: field %d needs a name and a prompt", ErrInvalidGuide, i)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: duplicate field %q", ErrInvalidGuide, f.Name)
		}
		seen[f.Name] = true
	}
	if len(g.Categories) == 0 {
		return fmt.Errorf("%w: no categories declared", ErrInvalidGuide)
	}
	for _, c := range g.Categories {
		if c.Name == "" || len(c.Subtypes) == 0 {
			return fmt.Errorf("%w: category %q needs a name and subtypes", ErrInvalidGuide, c.Name)
		}
		if strings.Contains(c.Name, strings.TrimSpace(PairSeparator)) {
			return fmt.Errorf("%w: category %q contains the pair separator", ErrInvalidGuide, c.Name)
		}
	}
	return nil
}

// Pairs enumerates every category > subtype label in guide order.
func (g *Guide) Pairs() []string {
	var out []string
	for _, c := range g.Categories {
		for _, s := range c.Subtypes {
			out = append(out, Pair{Category: c.Name, Subtype: s.Name}.String())
		}
	}
	return out
}

// Lookup returns the subtype reference data for a pair.
func (g *Guide) Lookup(p Pair) (Subtype, bool) {
	for _, c := range g.Categories {
		if c.Name != p.Category {
			continue
		}
		for _, s := range c.Subtypes {
			if s.Name == p.Subtype {
				return s, true
			}
		}
	}
	return Subtype{}, false
}

// ParsePair validates a free-form classification label such as "สินค้า > ไม่ตรงปก"
// against the guide. Surrounding quotes, whitespace and case are ignored; the
// returned pair uses the guide's spelling.
func (g *Guide) ParsePair(label string) (Pair, error) {
	label = strings.TrimSpace(label)
	if line, _, ok := strings.Cut(label, "\n"); ok {
		label = line
	}
	cat, sub, ok := strings.Cut(label, ">")
	if !ok {
		return Pair{}, fmt.Errorf("%w: %q", ErrUnknownCategory, label)
	}
	cat, sub = textnorm.Normalize(cat), textnorm.Normalize(sub)
	for _, c := range g.Categories {
		if textnorm.Normalize(c.Name) != cat {
			continue
		}
		for _, s := range c.Subtypes {
			if textnorm.Normalize(s.Name) == sub {
				return Pair{Category: c.Name, Subtype: s.Name}, nil
			}
		}
	}
	return Pair{}, fmt.Errorf("%w: %q", ErrUnknownCategory, label)
}

// Field returns a declared field by name or label.
func (g *Guide) Field(name string) (Field, bool) {
	name = strings.TrimSpace(name)
	for _, f := range g.Fields {
		if f.Name == name || (f.Label != "" && f.Label == name) {
			return f, true
		}
	}
	return Field{}, false
}

// ResolveField is Field with a *FieldError for undeclared names.
func (g *Guide) ResolveField(name string) (Field, error) {
	f, ok := g.Field(name)
	if !ok {
		return Field{}, &FieldError{Name: strings.TrimSpace(name)}
	}
	return f, nil
}

// FieldNames returns the declared field names in order.
func (g *Guide) FieldNames() []string {
	out := make([]string, len(g.Fields))
	for i, f := range g.Fields {
		out[i] = f.Name
	}
	return out
}
