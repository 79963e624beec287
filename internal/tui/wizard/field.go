package wizard

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mobilkita/tradein/internal/form"
	"github.com/mobilkita/tradein/internal/taxonomy"
	"github.com/mobilkita/tradein/internal/tui/theme"
	"github.com/mobilkita/tradein/internal/validate"
	core "github.com/mobilkita/tradein/internal/wizard"
)

// maxDropdownRows caps the number of options shown below an open select.
const maxDropdownRows = 6

// placeholders for typed inputs.
var placeholders = map[core.Kind]string{
	core.KindDate:   "YYYY-MM-DD",
	core.KindNumber: "e.g. 50.000",
	core.KindPhone:  "812 3456 7890",
	core.KindEmail:  "name@example.com",
}

// fieldInput is the on-screen control of one form field: a text input for
// typed fields or a dropdown for selects.
type fieldInput struct {
	field form.Field
	kind  core.Kind

	input textinput.Model

	open   bool
	cursor int
	filter string
}

func newFieldInput(field form.Field, th *theme.Theme) *fieldInput {
	f := &fieldInput{field: field, kind: core.KindOf(field)}
	if f.kind == core.KindSelect {
		return f
	}

	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = placeholders[f.kind]
	if f.kind == core.KindText {
		input.Placeholder = validate.Label(field)
	}

	// Configure styles for textinput (using lipgloss v2)
	styles := textinput.Styles{
		Focused: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgBase)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(th.Secondary)),
		},
		Blurred: textinput.StyleState{
			Text:        lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgSubtle)),
			Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgMuted)),
			Prompt:      lipgloss.NewStyle().Foreground(lipgloss.Color(th.FgMuted)),
		},
		Cursor: textinput.CursorStyle{
			Color: lipgloss.Color(th.Primary),
			Shape: tea.CursorBar,
			Blink: true,
		},
	}
	input.SetStyles(styles)
	input.SetWidth(50)
	f.input = input
	return f
}

func (f *fieldInput) isSelect() bool {
	return f.kind == core.KindSelect
}

// focus gives keyboard focus to a text input. Selects have no cursor.
func (f *fieldInput) focus() tea.Cmd {
	if f.isSelect() {
		return nil
	}
	return f.input.Focus()
}

func (f *fieldInput) blur() {
	f.close()
	if !f.isSelect() {
		f.input.Blur()
	}
}

func (f *fieldInput) openDropdown(value string, opts []taxonomy.Option) {
	f.open = true
	f.filter = ""
	f.cursor = 0
	for i, o := range opts {
		if o.Value == value {
			f.cursor = i
			break
		}
	}
}

func (f *fieldInput) close() {
	f.open = false
	f.filter = ""
	f.cursor = 0
}

// visible filters opts by the typed filter, case-insensitively on the label.
func (f *fieldInput) visible(opts []taxonomy.Option) []taxonomy.Option {
	if f.filter == "" {
		return opts
	}
	q := strings.ToLower(f.filter)
	var out []taxonomy.Option
	for _, o := range opts {
		if strings.Contains(strings.ToLower(o.Label), q) {
			out = append(out, o)
		}
	}
	return out
}

// move shifts the dropdown cursor, clamped to the n visible options.
func (f *fieldInput) move(delta, n int) {
	f.cursor += delta
	if f.cursor >= n {
		f.cursor = n - 1
	}
	if f.cursor < 0 {
		f.cursor = 0
	}
}

// typed appends to or trims the filter.
func (f *fieldInput) typed(key tea.KeyPressMsg) bool {
	switch key.String() {
	case "backspace":
		if r := []rune(f.filter); len(r) > 0 {
			f.filter = string(r[:len(r)-1])
			f.cursor = 0
		}
		return true
	}
	if key.Text != "" {
		f.filter += key.Text
		f.cursor = 0
		return true
	}
	return false
}

// height is the number of lines the control occupies below its label.
func (f *fieldInput) height(opts []taxonomy.Option) int {
	if !f.open {
		return 1
	}
	n := len(f.visible(opts))
	if n > maxDropdownRows {
		n = maxDropdownRows
	}
	if n == 0 {
		n = 1
	}
	return 1 + n
}

// render draws the control. value is the stored value of a select.
func (f *fieldInput) render(th *theme.Theme, value string, opts []taxonomy.Option, focused bool) string {
	s := th.S()
	if !f.isSelect() {
		return f.input.View()
	}

	var head string
	switch {
	case value != "":
		head = s.Value.Render(labelOf(value, opts))
		if hex := hexOf(value, opts); hex != "" {
			head = th.Swatch(hex) + " " + head
		}
	case len(opts) == 0:
		head = s.Placeholder.Render("No options")
	default:
		head = s.Placeholder.Render("Select " + strings.ToLower(validate.Label(f.field)))
	}
	arrow := "▸ "
	if f.open {
		arrow = "▾ "
	}
	if focused {
		arrow = s.LabelFocused.Render(arrow)
	} else {
		arrow = s.Placeholder.Render(arrow)
	}
	if !f.open {
		return arrow + head
	}

	lines := []string{arrow + s.Placeholder.Render("Filter: ") + s.Value.Render(f.filter)}
	vis := f.visible(opts)
	if len(vis) == 0 {
		lines = append(lines, s.Placeholder.Render("  no match"))
		return strings.Join(lines, "\n")
	}

	start := 0
	if f.cursor >= maxDropdownRows {
		start = f.cursor - maxDropdownRows + 1
	}
	end := start + maxDropdownRows
	if end > len(vis) {
		end = len(vis)
	}
	for i := start; i < end; i++ {
		o := vis[i]
		label := o.Label
		if hex := o.Extra["hex"]; hex != "" {
			label = th.Swatch(hex) + " " + label
		}
		if i == f.cursor {
			lines = append(lines, s.OptionSelected.Render(label))
		} else {
			lines = append(lines, s.OptionNormal.Render(label))
		}
	}
	return strings.Join(lines, "\n")
}

func labelOf(value string, opts []taxonomy.Option) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Label
		}
	}
	return value
}

func hexOf(value string, opts []taxonomy.Option) string {
	for _, o := range opts {
		if o.Value == value {
			return o.Extra["hex"]
		}
	}
	return ""
}
