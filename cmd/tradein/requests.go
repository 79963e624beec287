package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mobilkita/tradein/internal/wizard"
)

var requestsFlags struct {
	flavor string
	json   bool
}

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Inspect submitted requests",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List submitted requests",
	RunE:  runRequestsList,
}

func init() {
	requestsCmd.AddCommand(requestsListCmd)
	requestsListCmd.Flags().StringVarP(&requestsFlags.flavor, "flavor", "f", "", "Only list one flavor: trade-in, sell or notify")
	requestsListCmd.Flags().BoolVar(&requestsFlags.json, "json", false, "Print requests as JSON")
}

func runRequestsList(cmd *cobra.Command, args []string) error {
	flavor := ""
	if requestsFlags.flavor != "" {
		f, err := wizard.ParseFlavor(requestsFlags.flavor)
		if err != nil {
			return err
		}
		flavor = string(f)
	}

	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	store, err := e.requestStore(cmd.Context())
	if err != nil {
		return err
	}
	list, err := store.List(cmd.Context(), flavor)
	if err != nil {
		return fmt.Errorf("failed to list requests: %w", err)
	}

	if requestsFlags.json {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(list)
	}
	if len(list) == 0 {
		fmt.Println("No requests")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tFLAVOR\tREFERENCE\tNAME\tPHONE\tSUBMITTED")
	for _, r := range list {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Flavor, r.Reference, r.Payload["name"], r.Payload["phone"], r.SubmittedAt.Local().Format(time.DateTime))
	}
	return w.Flush()
}
