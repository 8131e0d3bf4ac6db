package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var templatesYAML []byte

type Template struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

type Catalog struct {
	templates []Template
	byID      map[string]Template
}

type file struct {
	Templates []Template `yaml:"templates"`
}

// Parse decodes a catalog document. Ids must be unique and non-empty.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode template catalog: %w", err)
	}
	if len(f.Templates) == 0 {
		return nil, fmt.Errorf("template catalog is empty")
	}
	c := &Catalog{byID: make(map[string]Template, len(f.Templates))}
	for _, t := range f.Templates {
		t.ID = strings.TrimSpace(t.ID)
		if t.ID == "" {
			return nil, fmt.Errorf("template without id")
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("duplicate template id %q", t.ID)
		}
		c.byID[t.ID] = t
		c.templates = append(c.templates, t)
	}
	return c, nil
}

// Default is the catalog compiled into the binary.
func Default() *Catalog {
	c, err := Parse(templatesYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// List returns the templates in catalog order. The slice is a copy.
func (c *Catalog) List() []Template {
	out := make([]Template, len(c.templates))
	copy(out, c.templates)
	return out
}

func (c *Catalog) Get(id string) (Template, bool) {
	t, ok := c.byID[id]
	return t, ok
}

func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

func (c *Catalog) IDs() []string {
	out := make([]string, 0, len(c.templates))
	for _, t := range c.templates {
		out = append(out, t.ID)
	}
	return out
}
