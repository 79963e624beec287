// Package inventory provides read access to the live car inventory that the
// new-car preference options are derived from.
package inventory

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Status values of a product. Anything other than StatusSold counts as
// available.
const (
	StatusAvailable = "available"
	StatusBooked    = "booked"
	StatusSold      = "sold"
)

// Product is one car in stock.
type Product struct {
	ID           string `yaml:"id" json:"id"`
	Brand        string `yaml:"brand" json:"brand"`
	Model        string `yaml:"model" json:"model"`
	Variant      string `yaml:"variant" json:"variant"`
	Transmission string `yaml:"transmission" json:"transmission"`
	CarColor     string `yaml:"carColor" json:"carColor"`
	Year         int    `yaml:"year,omitempty" json:"year,omitempty"`
	Price        int64  `yaml:"price,omitempty" json:"price,omitempty"`
	Status       string `yaml:"status" json:"status"`
}

// Available reports whether the product can still be offered.
func (p Product) Available() bool {
	return !strings.EqualFold(strings.TrimSpace(p.Status), StatusSold)
}

// Source supplies the current inventory list.
type Source interface {
	Products(ctx context.Context) ([]Product, error)
}

// FileSource reads products from a YAML file on every call.
type FileSource struct {
	Path string
}

// Products implements Source.
func (f FileSource) Products(ctx context.Context) ([]Product, error) {
	if f.Path == "" {
		return nil, nil
	}
	return Load(f.Path)
}

// Static is a fixed in-memory inventory.
type Static []Product

// Products implements Source.
func (s Static) Products(ctx context.Context) ([]Product, error) {
	return append([]Product(nil), s...), nil
}

// Load reads a YAML list of products.
func Load(path string) ([]Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inventory: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML list of products. Every product needs an ID.
func Parse(data []byte) ([]Product, error) {
	var products []Product
	if err := yaml.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("parsing inventory: %w", err)
	}
	for i, p := range products {
		if strings.TrimSpace(p.ID) == "" {
			return nil, fmt.Errorf("inventory item %d: missing id", i)
		}
	}
	return products, nil
}
