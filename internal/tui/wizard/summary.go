package wizard

import (
	"fmt"
	"strings"

	"charm.land/glamour/v2"

	core "github.com/mobilkita/tradein/internal/wizard"
)

// summaryMarkdown describes a submitted request. Payload keys are listed in
// the flavor's payload order.
func summaryMarkdown(flavor core.Flavor, res core.Result, payload core.Payload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Thank you!\n\nYour **%s** request has been received.", flavor.Title())
	if ref := res.Data["reference"]; ref != "" {
		fmt.Fprintf(&b, " Reference: `%s`.", ref)
	}
	b.WriteString("\n\n| Field | Value |\n|---|---|\n")
	for _, key := range core.PayloadKeys(flavor) {
		if v, ok := payload[key]; ok {
			fmt.Fprintf(&b, "| %s | %s |\n", key, strings.ReplaceAll(v, "|", "\\|"))
		}
	}
	return b.String()
}

// renderSummary renders the submitted request with glamour.
// Falls back to the raw markdown if rendering fails.
func renderSummary(flavor core.Flavor, res core.Result, payload core.Payload, width int) string {
	content := summaryMarkdown(flavor, res, payload)
	if width > 120 {
		width = 120
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimSuffix(rendered, "\n")
}
