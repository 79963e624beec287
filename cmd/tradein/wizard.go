package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mobilkita/tradein/internal/form"
	"github.com/mobilkita/tradein/internal/inventory"
	"github.com/mobilkita/tradein/internal/requests"
	"github.com/mobilkita/tradein/internal/taxonomy"
	tuiwizard "github.com/mobilkita/tradein/internal/tui/wizard"
	"github.com/mobilkita/tradein/internal/wizard"
)

var wizardFlags struct {
	flavor        string
	set           []string
	noAutoAdvance bool
}

var wizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Run a request wizard",
	Long: `Run the trade-in, sell or notify wizard in the terminal.

Fields can be prefilled with --set field=value (repeatable), for example
--set brand=Toyota --set name="Budi Santoso". Submitted requests are stored
in the request stream; list them with 'tradein requests list'.`,
	RunE: runWizard,
}

func init() {
	wizardCmd.Flags().StringVarP(&wizardFlags.flavor, "flavor", "f", string(wizard.TradeIn), "Wizard flavor: trade-in, sell or notify")
	wizardCmd.Flags().StringArrayVar(&wizardFlags.set, "set", nil, "Prefill a field (field=value), repeatable")
	wizardCmd.Flags().BoolVar(&wizardFlags.noAutoAdvance, "no-auto-advance", false, "Do not move focus automatically after a field is filled")
}

// parsePrefill merges config prefill with --set pairs; flags win.
func parsePrefill(fromConfig map[string]string, pairs []string) (form.Values, error) {
	values := form.Values{}
	for k, v := range fromConfig {
		f, ok := form.ParseField(k)
		if !ok {
			return nil, fmt.Errorf("config prefill: unknown field %q", k)
		}
		values[f] = v
	}
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q, expected field=value", pair)
		}
		f, ok := form.ParseField(strings.TrimSpace(k))
		if !ok {
			return nil, fmt.Errorf("--set: unknown field %q", k)
		}
		values[f] = v
	}
	return values, nil
}

func runWizard(cmd *cobra.Command, args []string) error {
	flavor, err := wizard.ParseFlavor(wizardFlags.flavor)
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	prefill, err := parsePrefill(e.cfg.Prefill, wizardFlags.set)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := e.requestStore(ctx)
	if err != nil {
		return err
	}
	source, kv, err := e.inventorySource(ctx)
	if err != nil {
		return err
	}

	opts := tuiwizard.Options{
		Wizard: wizard.Options{
			Flavor:       flavor,
			Prefill:      prefill,
			PhonePrefix:  e.cfg.PhonePrefix,
			Showrooms:    e.cfg.Showrooms,
			Submitter:    requests.Submitter{Store: store},
			AdvanceDelay: time.Duration(e.cfg.AutoAdvanceDelayMs) * time.Millisecond,
		},
		AutoAdvance: e.cfg.AutoAdvance && !wizardFlags.noAutoAdvance,
		LoadTaxonomy: func(ctx context.Context) (taxonomy.Tree, error) {
			return loadTree(e.cfg)
		},
		LoadInventory: source.Products,
	}
	if kv != nil {
		opts.WatchInventory = func(ctx context.Context, onChange func([]inventory.Product)) error {
			return kv.Watch(ctx, onChange)
		}
	}

	results, err := tuiwizard.Run(ctx, opts)
	if err != nil {
		return err
	}
	for _, res := range results {
		fmt.Printf("Request submitted: %s\n", res.Data["reference"])
	}
	return nil
}
