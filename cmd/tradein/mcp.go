package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mobilkita/tradein/internal/mcpserver"
)

var mcpFlags struct {
	port     int
	noSubmit bool
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the wizard tools over MCP",
	Long: `Serve option resolution, step validation and request submission as MCP
tools over streamable HTTP at /mcp. Runs until interrupted.`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().IntVarP(&mcpFlags.port, "port", "p", 0, "Port to listen on (0 picks a free port)")
	mcpCmd.Flags().BoolVar(&mcpFlags.noSubmit, "no-submit", false, "Do not expose the submit-request tool")
}

func runMCP(cmd *cobra.Command, args []string) error {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	tree, err := loadTree(e.cfg)
	if err != nil {
		return err
	}
	source, _, err := e.inventorySource(ctx)
	if err != nil {
		return err
	}

	cfg := mcpserver.Config{
		Tree:        tree,
		Inventory:   source,
		Showrooms:   e.cfg.Showrooms,
		PhonePrefix: e.cfg.PhonePrefix,
		Addr:        fmt.Sprintf("127.0.0.1:%d", mcpFlags.port),
	}
	if !mcpFlags.noSubmit {
		store, err := e.requestStore(ctx)
		if err != nil {
			return err
		}
		cfg.Requests = store
	}

	srv := mcpserver.New(cfg)
	if _, err := srv.Start(ctx); err != nil {
		return fmt.Errorf("failed to start MCP server: %w", err)
	}
	fmt.Printf("MCP server listening at %s\n", srv.URL())

	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")
	return srv.Stop()
}
