// Package taxonomy resolves the option lists behind the dependent select
// fields of the wizard: the static brand → model → variant tree and the
// taxonomy derived from live inventory.
package taxonomy

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Option is a single selectable value. Extra carries renderer hints such as
// the swatch hex of a color.
type Option struct {
	Value string            `json:"value"`
	Label string            `json:"label"`
	Extra map[string]string `json:"extra,omitempty"`
}

// Brand is one entry of the taxonomy tree.
type Brand struct {
	Image  string              `yaml:"image" json:"image"`
	Models map[string][]string `yaml:"models" json:"models"`
}

// Tree maps brand name to its models and variants.
type Tree map[string]Brand

// Load reads a taxonomy tree from a YAML file.
func Load(path string) (Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading taxonomy: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML taxonomy tree and checks that names are non-blank and
// variants are unique within their model.
func Parse(data []byte) (Tree, error) {
	var tree Tree
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("parsing taxonomy: %w", err)
	}
	for brand, b := range tree {
		if strings.TrimSpace(brand) == "" {
			return nil, fmt.Errorf("taxonomy: blank brand name")
		}
		for model, variants := range b.Models {
			if strings.TrimSpace(model) == "" {
				return nil, fmt.Errorf("taxonomy: blank model name under %s", brand)
			}
			seen := make(map[string]bool, len(variants))
			for _, v := range variants {
				if seen[v] {
					return nil, fmt.Errorf("taxonomy: duplicate variant %q under %s %s", v, brand, model)
				}
				seen[v] = true
			}
		}
	}
	return tree, nil
}

// BrandOptions lists every brand, sorted by label. A nil tree (still
// loading) yields an empty list.
func (t Tree) BrandOptions() []Option {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	return options(names)
}

// ModelOptions lists the models of brand. Unknown or empty brands yield an
// empty list.
func (t Tree) ModelOptions(brand string) []Option {
	b, ok := t[brand]
	if brand == "" || !ok {
		return []Option{}
	}
	names := make([]string, 0, len(b.Models))
	for name := range b.Models {
		names = append(names, name)
	}
	return options(names)
}

// VariantOptions lists the variants of brand → model.
func (t Tree) VariantOptions(brand, model string) []Option {
	if brand == "" || model == "" {
		return []Option{}
	}
	variants, ok := t[brand].Models[model]
	if !ok {
		return []Option{}
	}
	return options(variants)
}

// Image returns the image reference of brand, or "" when unknown.
func (t Tree) Image(brand string) string {
	return t[brand].Image
}

// options turns names into value==label options sorted by label, dropping
// blanks and duplicates.
func options(names []string) []Option {
	seen := make(map[string]bool, len(names))
	out := make([]Option, 0, len(names))
	for _, n := range names {
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, Option{Value: n, Label: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// Values is a convenience for tests and the CLI: the option values in order.
func Values(opts []Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}
