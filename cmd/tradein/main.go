package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/mobilkita/tradein/internal/logger"
	"github.com/mobilkita/tradein/internal/tui/theme"
)

const (
	logoText1 = "▀█▀ █▀█ ▄▀█ █▀▄ █▀▀ ▄▄ █ █▄ █"
	logoText2 = " █  █▀▄ █▀█ █▄▀ ██▄    █ █ ▀█"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	// Ensure logger is closed on exit
	defer func() { _ = logger.Close() }()

	// Trace context and baggage travel with submitted requests in NATS headers
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tradein",
	Short: "Trade-in, sell and stock notification request wizards",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

tradein runs the request wizards of the used-car storefront in the terminal:
trade in your car for a new one, sell your car, or get notified when a car
is back in stock. Options cascade from a brand/model/variant taxonomy and the
live inventory; submitted requests are stored in embedded NATS JetStream.`

	rootCmd.AddCommand(wizardCmd)
	rootCmd.AddCommand(optionsCmd)
	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(requestsCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(setupCmd)
}
