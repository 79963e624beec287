package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	ModalContainer lipgloss.Style
	ModalTitle     lipgloss.Style
	StepActive     lipgloss.Style
	StepInactive   lipgloss.Style

	Label        lipgloss.Style
	LabelFocused lipgloss.Style
	Value        lipgloss.Style
	Placeholder  lipgloss.Style
	FieldError   lipgloss.Style

	OptionNormal   lipgloss.Style
	OptionSelected lipgloss.Style

	Banner      lipgloss.Style
	ErrorBanner lipgloss.Style
	Success     lipgloss.Style

	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	ButtonNormal   lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonFocused  lipgloss.Style
}
