package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mobilkita/tradein/internal/advance"
	"github.com/mobilkita/tradein/internal/form"
	"github.com/mobilkita/tradein/internal/inventory"
	"github.com/mobilkita/tradein/internal/logger"
	"github.com/mobilkita/tradein/internal/taxonomy"
	"github.com/mobilkita/tradein/internal/tui/theme"
	"github.com/mobilkita/tradein/internal/validate"
	core "github.com/mobilkita/tradein/internal/wizard"
)

// termsField is the focus target of the terms checkbox on the last step.
const termsField form.Field = "terms"

// Options configures the wizard screen.
type Options struct {
	// Wizard configures the core state machine. Scroller and Registry are
	// supplied by the screen.
	Wizard      core.Options
	AutoAdvance bool
	Theme       *theme.Theme

	// Loaders run asynchronously after start. Nil loaders are skipped.
	LoadTaxonomy  func(ctx context.Context) (taxonomy.Tree, error)
	LoadInventory func(ctx context.Context) ([]inventory.Product, error)
	// WatchInventory, when set, streams inventory changes into the screen.
	WatchInventory func(ctx context.Context, onChange func([]inventory.Product)) error
}

// Model is the BubbleTea model of the request wizard. It renders the current
// step of a core wizard and routes input into it.
type Model struct {
	ctx   context.Context
	wiz   *core.Wizard
	theme *theme.Theme

	inputs  map[form.Field]*fieldInput
	refs    *advance.Refs
	mounted map[form.Field]bool
	send    func(tea.Msg)
	auto    bool

	loadTaxonomy  func(ctx context.Context) (taxonomy.Tree, error)
	loadInventory func(ctx context.Context) ([]inventory.Product, error)
	loading       int

	focus  int // index into targets()
	offset int // first body line shown

	spinner     spinner.Model
	submitting  bool
	lastPayload core.Payload
	results     []core.Result
	summary     string
	banner      string
	submitErr   string
	cancelled   bool

	width  int
	height int
}

// NewModel builds the screen and its core wizard.
func NewModel(ctx context.Context, opts Options) (*Model, error) {
	th := opts.Theme
	if th == nil {
		th = theme.NewCatppuccinMocha()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(th.Primary))

	m := &Model{
		ctx:           ctx,
		theme:         th,
		inputs:        make(map[form.Field]*fieldInput, len(form.All)),
		refs:          advance.NewRefs(),
		mounted:       map[form.Field]bool{},
		send:          func(tea.Msg) {},
		auto:          opts.AutoAdvance,
		loadTaxonomy:  opts.LoadTaxonomy,
		loadInventory: opts.LoadInventory,
		spinner:       s,
		width:         80,
		height:        30,
	}

	wo := opts.Wizard
	wo.Scroller = m
	wo.Registry = nil
	if opts.AutoAdvance {
		wo.Registry = m.refs
	}
	w, err := core.New(wo)
	if err != nil {
		return nil, err
	}
	m.wiz = w

	for _, f := range form.All {
		m.inputs[f] = newFieldInput(f, th)
	}
	m.syncInputs()
	m.mountRefs()
	return m, nil
}

// Run starts the wizard screen and blocks until the user quits. It returns
// the results of every successful submission made in the session.
func Run(ctx context.Context, opts Options) ([]core.Result, error) {
	m, err := NewModel(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer m.Close()

	p := tea.NewProgram(m)
	m.send = p.Send

	if opts.WatchInventory != nil {
		err := opts.WatchInventory(ctx, func(products []inventory.Product) {
			p.Send(InventoryLoadedMsg{Products: products})
		})
		if err != nil {
			logger.Warn("Inventory watch unavailable: %v", err)
		}
	}
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	finalModel, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}
	wm, ok := finalModel.(*Model)
	if !ok {
		return nil, fmt.Errorf("unexpected model type")
	}
	return wm.results, nil
}

// Close stops pending auto-advance timers.
func (m *Model) Close() {
	m.wiz.Close()
}

// Wizard returns the core wizard driven by the screen.
func (m *Model) Wizard() *core.Wizard {
	return m.wiz
}

// Cancelled reports whether the user quit before finishing.
func (m *Model) Cancelled() bool {
	return m.cancelled
}

// Init starts the asynchronous loads and focuses the first field.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.setFocus(0)}
	if m.loadTaxonomy != nil {
		m.loading++
		load, ctx := m.loadTaxonomy, m.ctx
		cmds = append(cmds, func() tea.Msg {
			tree, err := load(ctx)
			return TaxonomyLoadedMsg{Tree: tree, Err: err}
		})
	}
	if m.loadInventory != nil {
		m.loading++
		load, ctx := m.loadInventory, m.ctx
		cmds = append(cmds, func() tea.Msg {
			products, err := load(ctx)
			return InventoryLoadedMsg{Products: products, Err: err}
		})
	}
	if m.loading > 0 {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// Update handles messages for the wizard.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	m.mountRefs()
	m.ensureVisible()
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, in := range m.inputs {
			if !in.isSelect() {
				in.input.SetWidth(m.modalWidth() - 10)
			}
		}
		return nil

	case spinner.TickMsg:
		if m.loading == 0 && !m.busy() {
			return nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return cmd

	case TaxonomyLoadedMsg:
		m.doneLoading()
		if msg.Err != nil {
			logger.Warn("Loading taxonomy failed: %v", msg.Err)
			m.banner = "Could not load the car catalog. Brand options are unavailable."
			return nil
		}
		m.wiz.SetTaxonomy(msg.Tree)
		return nil

	case InventoryLoadedMsg:
		if msg.Err != nil {
			m.doneLoading()
			logger.Warn("Loading inventory failed: %v", msg.Err)
			m.banner = "Could not load the showroom stock. New car options are unavailable."
			return nil
		}
		if m.loading > 0 && m.loadInventory != nil {
			m.doneLoading()
		}
		m.wiz.SetInventory(msg.Products)
		return nil

	case FocusFieldMsg:
		return m.focusField(msg.Field, false)

	case OpenDropdownMsg:
		return m.focusField(msg.Field, true)

	case SubmitDoneMsg:
		return m.submitDone(msg.Err)
	}

	// Forward everything else (cursor blink) to the focused input
	if in := m.inputs[m.focused()]; in != nil && !in.isSelect() {
		var cmd tea.Cmd
		in.input, cmd = in.input.Update(msg)
		return cmd
	}
	return nil
}

func (m *Model) doneLoading() {
	if m.loading > 0 {
		m.loading--
	}
}

func (m *Model) busy() bool {
	return m.submitting || m.wiz.IsSubmitting()
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		m.cancelled = true
		return tea.Quit
	}
	if m.busy() {
		return nil
	}

	if m.wiz.Submitted() {
		switch key {
		case "enter":
			m.wiz.Restart()
			m.summary = ""
			return m.enterStep()
		case "esc", "q":
			return tea.Quit
		}
		return nil
	}

	f := m.focused()
	in := m.inputs[f]
	if in != nil && in.open {
		return m.handleDropdownKey(in, msg)
	}
	if in == nil && f != termsField {
		return nil
	}

	switch key {
	case "esc":
		m.commit()
		if !m.wiz.Back() {
			m.cancelled = true
			return tea.Quit
		}
		return m.enterStep()
	case "ctrl+n":
		return m.next()
	case "tab", "down":
		m.commit()
		return m.setFocus(m.focus + 1)
	case "shift+tab", "up":
		m.commit()
		return m.setFocus(m.focus - 1)
	case "enter":
		switch {
		case f == termsField:
			return m.next()
		case in.isSelect():
			in.openDropdown(m.wiz.Get(f), m.wiz.Options(f))
			return nil
		}
		m.commit()
		if m.focus == len(m.targets())-1 {
			return m.next()
		}
		return m.setFocus(m.focus + 1)
	case "space", " ":
		if f == termsField {
			m.wiz.AcceptTerms(!m.wiz.TermsAccepted())
			return nil
		}
		if in.isSelect() {
			in.openDropdown(m.wiz.Get(f), m.wiz.Options(f))
			return nil
		}
	}

	if f == termsField {
		return nil
	}
	if in.isSelect() {
		// Typing on a closed select opens it filtered by the typed text
		if msg.Text != "" {
			in.openDropdown(m.wiz.Get(f), m.wiz.Options(f))
			in.typed(msg)
		}
		return nil
	}
	var cmd tea.Cmd
	in.input, cmd = in.input.Update(msg)
	return cmd
}

func (m *Model) handleDropdownKey(in *fieldInput, msg tea.KeyPressMsg) tea.Cmd {
	opts := in.visible(m.wiz.Options(in.field))
	switch msg.String() {
	case "esc":
		in.close()
		return nil
	case "up":
		in.move(-1, len(opts))
		return nil
	case "down":
		in.move(1, len(opts))
		return nil
	case "tab":
		in.close()
		return m.setFocus(m.focus + 1)
	case "enter":
		if len(opts) == 0 {
			return nil
		}
		return m.choose(in, opts[in.cursor])
	}
	in.typed(msg)
	return nil
}

// choose commits a select option. With auto-advance off, focus moves on
// immediately; otherwise the controller moves it after its delay.
func (m *Model) choose(in *fieldInput, opt taxonomy.Option) tea.Cmd {
	in.close()
	m.wiz.Set(in.field, opt.Value)
	m.syncInputs()
	if !m.auto {
		return m.setFocus(m.focus + 1)
	}
	return nil
}

// commit writes the focused text input into the wizard.
func (m *Model) commit() {
	f := m.focused()
	in := m.inputs[f]
	if in == nil || in.isSelect() {
		return
	}
	if v := in.input.Value(); v != m.wiz.Get(f) {
		m.wiz.Set(f, v)
	}
	m.syncInputs()
}

// syncInputs shows the stored (normalized) values in the text inputs.
func (m *Model) syncInputs() {
	for f, in := range m.inputs {
		if !in.isSelect() {
			in.input.SetValue(m.wiz.Get(f))
		}
	}
}

// next advances, or submits on the last step. Submission runs as a command
// so the screen keeps rendering the spinner.
func (m *Model) next() tea.Cmd {
	m.commit()
	m.submitErr = ""

	if !m.wiz.IsLastStep() {
		if err := m.wiz.Next(m.ctx); err != nil {
			return m.setFocus(m.focus)
		}
		return m.enterStep()
	}

	// Failures that need no submitter are handled synchronously so the
	// wizard's scroll callbacks run on the event loop.
	if !m.wiz.Validate().Valid() || !m.wiz.TermsAccepted() {
		err := m.wiz.Next(m.ctx)
		if errors.Is(err, validate.ErrTermsNotAccepted) {
			return m.setFocus(len(m.targets()) - 1)
		}
		return m.setFocus(m.focus)
	}

	m.submitting = true
	m.lastPayload = m.wiz.Payload()
	w, ctx := m.wiz, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return SubmitDoneMsg{Err: w.Submit(ctx)}
	})
}

func (m *Model) submitDone(err error) tea.Cmd {
	m.submitting = false

	var subErr *core.SubmissionError
	switch {
	case err == nil:
		res := m.wiz.LastResult()
		m.results = append(m.results, res)
		m.summary = renderSummary(m.wiz.Flavor(), res, m.lastPayload, m.modalWidth()-6)
		m.enterStep()
		return nil
	case errors.As(err, &subErr):
		m.submitErr = subErr.Error()
	case errors.Is(err, core.ErrInvalidStep):
	case errors.Is(err, validate.ErrTermsNotAccepted):
		return m.setFocus(len(m.targets()) - 1)
	default:
		m.submitErr = err.Error()
	}
	return m.setFocus(m.focus)
}

// enterStep resets the screen for the wizard's current step.
func (m *Model) enterStep() tea.Cmd {
	for _, in := range m.inputs {
		in.blur()
	}
	m.syncInputs()
	m.offset = 0
	return m.setFocus(0)
}

// targets lists the focusable controls of the current step.
func (m *Model) targets() []form.Field {
	t := m.wiz.Fields()
	if m.wiz.IsLastStep() {
		t = append(t, termsField)
	}
	return t
}

func (m *Model) focused() form.Field {
	t := m.targets()
	if m.focus < 0 || m.focus >= len(t) {
		return ""
	}
	return t[m.focus]
}

func (m *Model) indexOf(field form.Field) int {
	for i, f := range m.targets() {
		if f == field {
			return i
		}
	}
	return -1
}

// setFocus moves focus to target i, clamped to the step's targets.
func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.targets())
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	for _, in := range m.inputs {
		in.blur()
	}
	m.focus = i
	if in := m.inputs[m.focused()]; in != nil {
		return in.focus()
	}
	return nil
}

func (m *Model) focusField(field form.Field, open bool) tea.Cmd {
	if m.busy() || m.wiz.Submitted() {
		return nil
	}
	i := m.indexOf(field)
	if i < 0 {
		return nil
	}
	if i != m.focus {
		m.commit()
	}
	cmd := m.setFocus(i)
	if in := m.inputs[field]; open && in != nil && in.isSelect() {
		in.openDropdown(m.wiz.Get(field), m.wiz.Options(field))
	}
	return cmd
}

// ScrollTo focuses field and brings it into view. It reports false when the
// field is not on screen.
func (m *Model) ScrollTo(field form.Field) bool {
	i := m.indexOf(field)
	if i < 0 {
		return false
	}
	m.setFocus(i)
	m.ensureVisible()
	return true
}

// ScrollTop shows the top of the step.
func (m *Model) ScrollTop() {
	m.offset = 0
	m.setFocus(0)
}

func (m *Model) mountRefs() {
	send := func(msg tea.Msg) { m.send(msg) }
	mount(m.refs, m.mounted, m.wiz.Fields(), send)
}

func (m *Model) modalWidth() int {
	w := m.width - 10
	if w < 60 {
		w = 60
	}
	if w > 100 {
		w = 100 // Max width for readability
	}
	return w
}

// bodyHeight is the number of body lines that fit between the header and
// the buttons.
func (m *Model) bodyHeight() int {
	h := m.height - 14
	if h < 6 {
		h = 6
	}
	return h
}

// ensureVisible scrolls the body so the focused block is on screen.
func (m *Model) ensureVisible() {
	_, starts, heights := m.body()
	if m.focus >= len(starts) {
		return
	}
	start, h := starts[m.focus], heights[m.focus]
	view := m.bodyHeight()
	if start < m.offset {
		m.offset = start
	}
	if start+h > m.offset+view {
		m.offset = start + h - view
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View renders the wizard UI.
func (m *Model) View() tea.View {
	var view tea.View
	view.AltScreen = true

	content := m.renderModal()

	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(content).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// Render returns the modal as plain content, without the screen canvas.
func (m *Model) Render() string {
	return m.renderModal()
}

func (m *Model) renderModal() string {
	s := m.theme.S()
	width := m.modalWidth()
	var sections []string

	if m.wiz.Submitted() {
		sections = append(sections,
			s.Success.Render(m.wiz.Flavor().Title()+" - Request Submitted"),
			"",
			m.summary,
			"",
			renderHintBar(m.theme, "enter", "new request", "esc", "quit"),
		)
		return m.place(s.ModalContainer.Width(width).Render(strings.Join(sections, "\n")))
	}

	steps := m.wiz.Steps()
	n := m.wiz.StepNumber()
	title := fmt.Sprintf("%s - Step %d of %d: %s", m.wiz.Flavor().Title(), n, len(steps), m.wiz.Step().Title())
	sections = append(sections, s.ModalTitle.Render(title))
	sections = append(sections, m.theme.Progress(n, len(steps), width-6))

	var crumbs []string
	for i, st := range steps {
		if i == n-1 {
			crumbs = append(crumbs, s.StepActive.Render(st.Title()))
		} else {
			crumbs = append(crumbs, s.StepInactive.Render(st.Title()))
		}
	}
	sections = append(sections, strings.Join(crumbs, s.StepInactive.Render(" › ")), "")

	if m.loading > 0 {
		sections = append(sections, m.spinner.View()+" "+s.Placeholder.Render("Loading catalog..."))
	}
	if m.banner != "" {
		sections = append(sections, s.Banner.Render(m.banner))
	}

	lines, _, _ := m.body()
	end := m.offset + m.bodyHeight()
	if end > len(lines) {
		end = len(lines)
	}
	start := m.offset
	if start > end {
		start = end
	}
	sections = append(sections, strings.Join(lines[start:end], "\n"))

	if m.submitErr != "" {
		sections = append(sections, s.ErrorBanner.Render(m.submitErr))
	}
	if m.busy() {
		sections = append(sections, m.spinner.View()+" "+s.Placeholder.Render("Submitting..."))
	}

	nextLabel := "Next →"
	if m.wiz.IsLastStep() {
		nextLabel = "Submit"
	}
	bar := NewButtonBar(m.theme, CreateBackNextButtons(n > 1, m.busy(), nextLabel))
	bar.SetWidth(width - 6)
	sections = append(sections, "", bar.Render(), "")
	sections = append(sections, renderHintBar(m.theme,
		"tab", "next field",
		"enter", "select",
		"ctrl+n", strings.ToLower(nextLabel),
		"esc", "back",
	))

	return m.place(s.ModalContainer.Width(width).Render(strings.Join(sections, "\n")))
}

func (m *Model) place(modal string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

// body renders the step's blocks. starts and heights index the focus
// targets.
func (m *Model) body() (lines []string, starts []int, heights []int) {
	s := m.theme.S()

	if m.wiz.Step() == validate.StepReview {
		lines = append(lines, m.review()...)
		lines = append(lines, "")
	}

	for i, f := range m.targets() {
		focused := i == m.focus
		var block []string
		if f == termsField {
			box := "[ ]"
			if m.wiz.TermsAccepted() {
				box = "[x]"
			}
			label := box + " I agree to the terms and conditions"
			if focused {
				label = s.LabelFocused.Render(label)
			} else {
				label = s.Label.Render(label)
			}
			block = append(block, label)
			if err := m.wiz.TermsError(); err != nil {
				block = append(block, s.FieldError.Render(err.Error()))
			}
		} else {
			in := m.inputs[f]
			label := validate.Label(f)
			if focused {
				label = s.LabelFocused.Render(label)
			} else {
				label = s.Label.Render(label)
			}
			block = append(block, label)
			block = append(block, strings.Split(in.render(m.theme, m.wiz.Get(f), m.wiz.Options(f), focused), "\n")...)
			if msg := m.wiz.Error(f); msg != "" {
				block = append(block, s.FieldError.Render(msg))
			}
			block = append(block, "")
		}
		starts = append(starts, len(lines))
		heights = append(heights, len(block))
		lines = append(lines, block...)
	}
	return lines, starts, heights
}

// review lists what the earlier steps collected.
func (m *Model) review() []string {
	s := m.theme.S()
	values := m.wiz.Values()
	var out []string
	for _, st := range m.wiz.Steps() {
		if st == validate.StepReview {
			continue
		}
		out = append(out, s.StepActive.Render(st.Title()))
		for _, f := range m.wiz.Flavor().VisibleFields(st, values) {
			v := values[f]
			if v == "" {
				v = "-"
			}
			out = append(out, "  "+s.Label.Render(validate.Label(f)+": ")+s.Value.Render(v))
		}
	}
	return out
}
