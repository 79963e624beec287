package taxonomy

import (
	"golang.org/x/text/cases"
)

// NeutralHex is the swatch shown for colors missing from the table.
const NeutralHex = "#9e9e9e"

// swatches maps marketplace color names (Indonesian, as listed by dealers)
// to display hex codes.
var swatches = map[string]string{
	"Putih":        "#ffffff",
	"Hitam":        "#000000",
	"Silver":       "#c0c0c0",
	"Abu-abu":      "#808080",
	"Merah":        "#d32f2f",
	"Merah Marun":  "#800000",
	"Biru":         "#1976d2",
	"Biru Dongker": "#1a237e",
	"Hijau":        "#388e3c",
	"Kuning":       "#fbc02d",
	"Oranye":       "#f57c00",
	"Coklat":       "#6d4c41",
	"Krem":         "#f5f5dc",
	"Ungu":         "#7b1fa2",
	"Emas":         "#d4af37",
}

// foldedSwatches is swatches keyed by case-folded name.
var foldedSwatches = func() map[string]string {
	m := make(map[string]string, len(swatches))
	for name, hex := range swatches {
		m[foldName(name)] = hex
	}
	return m
}()

// foldName builds a fresh Caser per call; Casers are stateful.
func foldName(s string) string {
	return cases.Fold().String(s)
}

// SwatchHex returns the display hex for a color name, ignoring case, or
// NeutralHex when the name is unknown.
func SwatchHex(name string) string {
	if hex, ok := foldedSwatches[foldName(name)]; ok {
		return hex
	}
	return NeutralHex
}

// ColorOptions lists every known color with its swatch, sorted by label.
func ColorOptions() []Option {
	names := make([]string, 0, len(swatches))
	for name := range swatches {
		names = append(names, name)
	}
	opts := options(names)
	for i := range opts {
		opts[i].Extra = map[string]string{"hex": swatches[opts[i].Value]}
	}
	return opts
}
