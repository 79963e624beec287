package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string // lipgloss.Color is a string type
	Secondary string

	// Background hierarchy (dark→light)
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface2 string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string

	// Lazy-built styles
	styles     *Styles
	stylesOnce sync.Once
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

// buildStyles constructs the pre-built styles from theme colors.
func (t *Theme) buildStyles() *Styles {
	c := lipgloss.Color
	return &Styles{
		ModalContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(c(t.Secondary)).
			Background(c(t.BgBase)).
			Padding(1, 2),
		ModalTitle: lipgloss.NewStyle().
			Foreground(c(t.Primary)).
			Bold(true),
		StepActive: lipgloss.NewStyle().
			Foreground(c(t.Secondary)).
			Bold(true),
		StepInactive: lipgloss.NewStyle().
			Foreground(c(t.FgMuted)),

		Label: lipgloss.NewStyle().
			Foreground(c(t.FgSubtle)),
		LabelFocused: lipgloss.NewStyle().
			Foreground(c(t.Secondary)).
			Bold(true),
		Value: lipgloss.NewStyle().
			Foreground(c(t.FgBase)),
		Placeholder: lipgloss.NewStyle().
			Foreground(c(t.FgMuted)),
		FieldError: lipgloss.NewStyle().
			Foreground(c(t.Error)),

		OptionNormal: lipgloss.NewStyle().
			Foreground(c(t.FgBase)).
			PaddingLeft(2),
		OptionSelected: lipgloss.NewStyle().
			Foreground(c(t.BgBase)).
			Background(c(t.Secondary)).
			PaddingLeft(2),

		Banner: lipgloss.NewStyle().
			Foreground(c(t.Warning)).
			Bold(true),
		ErrorBanner: lipgloss.NewStyle().
			Foreground(c(t.Error)).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(c(t.Success)).
			Bold(true),

		HintKey: lipgloss.NewStyle().
			Foreground(c(t.FgSubtle)).
			Bold(true),
		HintDesc: lipgloss.NewStyle().
			Foreground(c(t.FgMuted)),
		HintSeparator: lipgloss.NewStyle().
			Foreground(c(t.BgSurface2)),

		ButtonNormal: lipgloss.NewStyle().
			Foreground(c(t.FgBase)).
			Background(c(t.BgSurface0)).
			Padding(0, 2).
			MarginLeft(1).
			MarginRight(1),
		ButtonDisabled: lipgloss.NewStyle().
			Foreground(c(t.FgMuted)).
			Background(c(t.BgMantle)).
			Padding(0, 2).
			MarginLeft(1).
			MarginRight(1),
		ButtonFocused: lipgloss.NewStyle().
			Foreground(c(t.BgBase)).
			Background(c(t.Secondary)).
			Bold(true).
			Padding(0, 2).
			MarginLeft(1).
			MarginRight(1),
	}
}

// Swatch renders a color dot in hex. Unparseable values fall back to the
// muted foreground.
func (t *Theme) Swatch(hex string) string {
	if !ValidHex(hex) {
		hex = t.FgMuted
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex)).Render("●")
}

// Progress renders a bar of width cells, filled to done/total with a
// gradient from Primary to Secondary.
func (t *Theme) Progress(done, total, width int) string {
	if total <= 0 || width <= 0 {
		return ""
	}
	filled := width * done / total
	var out string
	for i := 0; i < width; i++ {
		if i >= filled {
			out += lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgSurface2)).Render("━")
			continue
		}
		pos := 0.0
		if width > 1 {
			pos = float64(i) / float64(width-1)
		}
		out += lipgloss.NewStyle().Foreground(lipgloss.Color(InterpolateColor(t.Primary, t.Secondary, pos))).Render("━")
	}
	return out
}
