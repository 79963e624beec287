package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mobilkita/tradein/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// Button represents a single button in the button bar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with consistent styling.
type ButtonBar struct {
	buttons []Button
	width   int
	theme   *theme.Theme
}

// NewButtonBar creates a new button bar with the given buttons.
func NewButtonBar(th *theme.Theme, buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		width:   60,
		theme:   th,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// Render renders the button bar centered in its width.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}
	s := b.theme.S()

	var rendered []string
	for _, btn := range b.buttons {
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(btn.Label))
		case ButtonFocused:
			rendered = append(rendered, s.ButtonFocused.Render(btn.Label))
		default:
			rendered = append(rendered, s.ButtonNormal.Render(btn.Label))
		}
	}

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}

// CreateBackNextButtons creates the Back/Next button set of a wizard step.
// nextLabel is "Next" or "Submit"; busy disables both while a submission
// is in flight.
func CreateBackNextButtons(backEnabled, busy bool, nextLabel string) []Button {
	back := Button{Label: "← Back", State: ButtonNormal}
	if !backEnabled || busy {
		back.State = ButtonDisabled
	}
	next := Button{Label: nextLabel, State: ButtonFocused}
	if busy {
		next.State = ButtonDisabled
	}
	return []Button{back, next}
}
