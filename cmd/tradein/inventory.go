package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mobilkita/tradein/internal/inventory"
)

var inventoryCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Manage the inventory bucket",
	Long: `Manage the inventory stored in the embedded NATS key-value bucket.
Set inventory_source to "nats" to have the wizard derive new-car options
from it.`,
}

var inventoryImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import products from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInventoryImport,
}

var inventoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products in the bucket",
	RunE:  runInventoryList,
}

var inventoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a product from the bucket",
	Args:  cobra.ExactArgs(1),
	RunE:  runInventoryDelete,
}

func init() {
	inventoryCmd.AddCommand(inventoryImportCmd)
	inventoryCmd.AddCommand(inventoryListCmd)
	inventoryCmd.AddCommand(inventoryDeleteCmd)
}

func runInventoryImport(cmd *cobra.Command, args []string) error {
	products, err := inventory.Load(args[0])
	if err != nil {
		return err
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	kv, err := e.inventoryStore(cmd.Context())
	if err != nil {
		return err
	}
	n, err := kv.Import(cmd.Context(), products)
	if err != nil {
		return fmt.Errorf("imported %d of %d products: %w", n, len(products), err)
	}
	fmt.Printf("Imported %d products\n", n)
	return nil
}

func runInventoryList(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	kv, err := e.inventoryStore(cmd.Context())
	if err != nil {
		return err
	}
	products, err := kv.Products(cmd.Context())
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Println("No products")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tBRAND\tMODEL\tVARIANT\tTRANSMISSION\tCOLOR\tSTATUS")
	for _, p := range products {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n", p.ID, p.Brand, p.Model, p.Variant, p.Transmission, p.CarColor, p.Status)
	}
	return w.Flush()
}

func runInventoryDelete(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	kv, err := e.inventoryStore(cmd.Context())
	if err != nil {
		return err
	}
	if err := kv.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Printf("Deleted %s\n", args[0])
	return nil
}
