package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mobilkita/tradein/internal/config"
	"github.com/mobilkita/tradein/internal/inventory"
	"github.com/mobilkita/tradein/internal/taxonomy"
)

var optionsFlags struct {
	brand        string
	model        string
	variant      string
	transmission string
	derived      bool
	json         bool
}

var optionsCmd = &cobra.Command{
	Use:   "options <brand|model|variant|transmission|color>",
	Short: "Print the options of one taxonomy level",
	Long: `Print the options of one taxonomy level given the selections above it.

Without --derived the static taxonomy is used. With --derived the options
are computed from the available inventory, so sold cars are left out.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"brand", "model", "variant", "transmission", "color"},
	RunE:      runOptions,
}

func init() {
	optionsCmd.Flags().StringVar(&optionsFlags.brand, "brand", "", "Selected brand")
	optionsCmd.Flags().StringVar(&optionsFlags.model, "model", "", "Selected model")
	optionsCmd.Flags().StringVar(&optionsFlags.variant, "variant", "", "Selected variant")
	optionsCmd.Flags().StringVar(&optionsFlags.transmission, "transmission", "", "Selected transmission")
	optionsCmd.Flags().BoolVar(&optionsFlags.derived, "derived", false, "Derive options from the available inventory")
	optionsCmd.Flags().BoolVar(&optionsFlags.json, "json", false, "Print options as JSON")
}

func runOptions(cmd *cobra.Command, args []string) error {
	level, err := taxonomy.ParseLevel(args[0])
	if err != nil {
		return err
	}
	sel := taxonomy.Selection{
		Brand:        optionsFlags.brand,
		Model:        optionsFlags.model,
		Variant:      optionsFlags.variant,
		Transmission: optionsFlags.transmission,
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var opts []taxonomy.Option
	if optionsFlags.derived {
		products, err := loadProducts(cmd, cfg)
		if err != nil {
			return err
		}
		opts = taxonomy.Derived(level, sel, products)
	} else {
		tree, err := loadTree(cfg)
		if err != nil {
			return err
		}
		opts = staticOptions(tree, level, sel)
	}
	return printOptions(os.Stdout, opts, optionsFlags.json)
}

// loadProducts reads the configured inventory. NATS is only started when the
// inventory lives there.
func loadProducts(cmd *cobra.Command, cfg *config.Config) ([]inventory.Product, error) {
	if cfg.InventorySource != config.InventoryFromNATS {
		return inventory.FileSource{Path: cfg.InventoryFile}.Products(cmd.Context())
	}
	e, err := openEnv()
	if err != nil {
		return nil, err
	}
	defer e.Close()
	kv, err := e.inventoryStore(cmd.Context())
	if err != nil {
		return nil, err
	}
	return kv.Products(cmd.Context())
}

// staticOptions resolves a level from the taxonomy tree. Transmission and
// color come from fixed lists once their parent is chosen.
func staticOptions(tree taxonomy.Tree, level taxonomy.Level, sel taxonomy.Selection) []taxonomy.Option {
	switch level {
	case taxonomy.LevelBrand:
		return tree.BrandOptions()
	case taxonomy.LevelModel:
		return tree.ModelOptions(sel.Brand)
	case taxonomy.LevelVariant:
		return tree.VariantOptions(sel.Brand, sel.Model)
	case taxonomy.LevelTransmission:
		if sel.Variant == "" {
			return []taxonomy.Option{}
		}
		return taxonomy.TransmissionOptions()
	case taxonomy.LevelColor:
		if sel.Transmission == "" {
			return []taxonomy.Option{}
		}
		return taxonomy.ColorOptions()
	}
	return []taxonomy.Option{}
}

func printOptions(w io.Writer, opts []taxonomy.Option, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(opts)
	}
	if len(opts) == 0 {
		_, err := fmt.Fprintln(w, "(no options)")
		return err
	}
	for _, o := range opts {
		line := o.Label
		if hex := o.Extra["hex"]; hex != "" {
			line += "  " + hex
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
