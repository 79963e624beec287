package taxonomy

import (
	"fmt"

	"github.com/mobilkita/tradein/internal/inventory"
)

// Level is a depth in the product-derived taxonomy.
type Level string

const (
	LevelBrand        Level = "brand"
	LevelModel        Level = "model"
	LevelVariant      Level = "variant"
	LevelTransmission Level = "transmission"
	LevelColor        Level = "color"
)

// Levels lists the derived levels from shallowest to deepest.
var Levels = []Level{LevelBrand, LevelModel, LevelVariant, LevelTransmission, LevelColor}

// ParseLevel maps a level name to a Level.
func ParseLevel(s string) (Level, error) {
	for _, l := range Levels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown taxonomy level: %q", s)
}

func (l Level) depth() int {
	for i, lv := range Levels {
		if lv == l {
			return i
		}
	}
	return -1
}

// Selection holds the choices made at the shallower levels. Only the fields
// above the requested level are consulted.
type Selection struct {
	Brand        string
	Model        string
	Variant      string
	Transmission string
}

func (s Selection) at(depth int) string {
	switch depth {
	case 0:
		return s.Brand
	case 1:
		return s.Model
	case 2:
		return s.Variant
	case 3:
		return s.Transmission
	}
	return ""
}

// Derived returns the distinct values at level among available products that
// match every shallower selection. A missing ancestor selection yields an
// empty list, matching the disabled state of the dependent field.
func Derived(level Level, sel Selection, products []inventory.Product) []Option {
	depth := level.depth()
	if depth < 0 {
		return []Option{}
	}
	for d := 0; d < depth; d++ {
		if sel.at(d) == "" {
			return []Option{}
		}
	}

	var names []string
	for _, p := range products {
		if !p.Available() || !matches(p, sel, depth) {
			continue
		}
		names = append(names, productField(p, depth))
	}

	opts := options(names)
	if level == LevelColor {
		for i := range opts {
			opts[i].Extra = map[string]string{"hex": SwatchHex(opts[i].Value)}
		}
	}
	return opts
}

func matches(p inventory.Product, sel Selection, depth int) bool {
	for d := 0; d < depth; d++ {
		if productField(p, d) != sel.at(d) {
			return false
		}
	}
	return true
}

func productField(p inventory.Product, depth int) string {
	switch depth {
	case 0:
		return p.Brand
	case 1:
		return p.Model
	case 2:
		return p.Variant
	case 3:
		return p.Transmission
	case 4:
		return p.CarColor
	}
	return ""
}
