package wizard

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/require"

	"github.com/mobilkita/tradein/internal/advance"
	"github.com/mobilkita/tradein/internal/form"
	"github.com/mobilkita/tradein/internal/inventory"
	"github.com/mobilkita/tradein/internal/taxonomy"
	"github.com/mobilkita/tradein/internal/tui/testfixtures"
	core "github.com/mobilkita/tradein/internal/wizard"
)

var (
	enterKey    = tea.KeyPressMsg{Code: tea.KeyEnter}
	tabKey      = tea.KeyPressMsg{Code: tea.KeyTab}
	shiftTabKey = tea.KeyPressMsg{Code: tea.KeyTab, Mod: tea.ModShift}
	escKey      = tea.KeyPressMsg{Code: tea.KeyEscape}
	spaceKey    = tea.KeyPressMsg{Code: tea.KeySpace}
	nextKey     = tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl}
	backspace   = tea.KeyPressMsg{Code: tea.KeyBackspace}
)

func newTestModel(t *testing.T, flavor core.Flavor, sub core.Submitter, auto bool, timers *testfixtures.ManualTimers) *Model {
	t.Helper()
	opts := Options{
		Wizard: core.Options{
			Flavor:      flavor,
			PhonePrefix: testfixtures.PhonePrefix,
			Showrooms:   testfixtures.Showrooms,
			Tree:        taxonomy.Default(),
			Submitter:   sub,
		},
		AutoAdvance: auto,
	}
	if timers != nil {
		opts.Wizard.AdvanceOptions = []advance.Option{advance.WithAfterFunc(timers.AfterFunc)}
	}
	m, err := NewModel(context.Background(), opts)
	require.NoError(t, err)
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: testfixtures.TestTermWidth, Height: testfixtures.TestTermHeight})
	return m
}

func press(m *Model, keys ...tea.KeyPressMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// collect runs cmd and any batched commands, returning the messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func submitDone(t *testing.T, cmd tea.Cmd) SubmitDoneMsg {
	t.Helper()
	for _, msg := range collect(cmd) {
		if done, ok := msg.(SubmitDoneMsg); ok {
			return done
		}
	}
	t.Fatal("expected a SubmitDoneMsg")
	return SubmitDoneMsg{}
}

func TestSelectingFromDropdown(t *testing.T) {
	m := newTestModel(t, core.TradeIn, nil, false, nil)
	w := m.Wizard()
	require.Equal(t, form.Brand, m.focused())

	press(m, enterKey)
	require.True(t, m.inputs[form.Brand].open)

	typeText(m, "toy")
	press(m, enterKey)
	require.Equal(t, "Toyota", w.Get(form.Brand))
	require.False(t, m.inputs[form.Brand].open)
	require.Equal(t, form.Model, m.focused(), "focus moves on without auto-advance")

	press(m, enterKey, enterKey)
	require.Equal(t, "Avanza", w.Get(form.Model))
	require.Equal(t, form.Variant, m.focused())

	// Changing the brand resets the model
	press(m, shiftTabKey, shiftTabKey, enterKey)
	typeText(m, "honda")
	press(m, enterKey)
	require.Equal(t, "Honda", w.Get(form.Brand))
	require.Empty(t, w.Get(form.Model))
}

func TestDropdownFilter(t *testing.T) {
	m := newTestModel(t, core.TradeIn, nil, false, nil)

	press(m, enterKey)
	typeText(m, "zz")
	require.Contains(t, m.Render(), "no match")

	press(m, backspace, backspace)
	require.Empty(t, m.inputs[form.Brand].filter)
	require.Contains(t, m.Render(), "Daihatsu")

	press(m, escKey)
	require.False(t, m.inputs[form.Brand].open)
	require.Empty(t, m.Wizard().Get(form.Brand))
	require.False(t, m.Cancelled(), "esc closes the dropdown first")
}

func TestTypingOnSelectOpensFiltered(t *testing.T) {
	m := newTestModel(t, core.TradeIn, nil, false, nil)

	typeText(m, "hy")
	in := m.inputs[form.Brand]
	require.True(t, in.open)
	require.Equal(t, "hy", in.filter)

	press(m, enterKey)
	require.Equal(t, "Hyundai", m.Wizard().Get(form.Brand))
}

func TestTextInputCommitsNormalizedValue(t *testing.T) {
	m := newTestModel(t, core.TradeIn, nil, false, nil)

	m.Update(FocusFieldMsg{Field: form.TravelDistance})
	require.Equal(t, form.TravelDistance, m.focused())

	typeText(m, "50.000")
	press(m, tabKey)
	require.Equal(t, "50000", m.Wizard().Get(form.TravelDistance))
	require.Equal(t, "50000", m.inputs[form.TravelDistance].input.Value())
}

func TestNextShowsErrorsAndFocusesFirstInvalid(t *testing.T) {
	m := newTestModel(t, core.TradeIn, nil, false, nil)
	w := m.Wizard()

	m.Update(FocusFieldMsg{Field: form.TravelDistance})
	press(m, nextKey)

	require.Equal(t, 1, w.StepNumber())
	require.NotEmpty(t, w.Error(form.Brand))
	require.Equal(t, form.Brand, m.focused())
	require.Contains(t, m.Render(), w.Error(form.Brand))

	// Editing a field clears its error
	press(m, enterKey, enterKey)
	require.Empty(t, w.Error(form.Brand))
}

func TestStepNavigation(t *testing.T) {
	m := newTestModel(t, core.Notify, nil, false, nil)
	w := m.Wizard()
	testfixtures.Fill(w, testfixtures.NotifyNewCar())

	press(m, nextKey)
	require.Equal(t, 2, w.StepNumber())
	require.Equal(t, form.Name, m.focused())
	require.Contains(t, m.Render(), "Step 2 of 3: Contact Info")

	press(m, escKey)
	require.Equal(t, 1, w.StepNumber())
	require.False(t, m.Cancelled())

	cmd := press(m, escKey)
	require.NotNil(t, cmd)
	require.True(t, m.Cancelled())
}

func TestEnterOnLastFieldAdvances(t *testing.T) {
	m := newTestModel(t, core.Notify, nil, false, nil)
	w := m.Wizard()
	testfixtures.Fill(w, testfixtures.NotifyNewCar())
	press(m, nextKey)

	typeText(m, "Budi")
	press(m, enterKey)
	require.Equal(t, form.Phone, m.focused())
	typeText(m, "81234567890")
	press(m, enterKey)
	typeText(m, "budi@example.com")
	press(m, enterKey)

	require.Equal(t, core.Notify.Steps()[2], w.Step())
	require.Equal(t, "+62 81234567890", w.Get(form.Phone))
}

func TestReviewListsValuesAndRequiresTerms(t *testing.T) {
	sub := testfixtures.NewMockSubmitter()
	m := newTestModel(t, core.Notify, sub, false, nil)
	w := m.Wizard()
	testfixtures.Fill(w, testfixtures.NotifyNewCar())
	press(m, nextKey)
	testfixtures.Fill(w, testfixtures.Contact())
	m.syncInputs()
	press(m, nextKey)
	require.True(t, w.IsLastStep())

	view := m.Render()
	require.Contains(t, view, "Avanza")
	require.Contains(t, view, "budi@example.com")
	require.Contains(t, view, "[ ] I agree")

	press(m, nextKey)
	require.Error(t, w.TermsError())
	require.Equal(t, termsField, m.focused())
	require.False(t, w.Submitted())

	press(m, spaceKey)
	require.True(t, w.TermsAccepted())
	require.Contains(t, m.Render(), "[x] I agree")

	done := submitDone(t, press(m, nextKey))
	require.NoError(t, done.Err)
	m.Update(done)

	require.True(t, w.Submitted())
	require.Len(t, m.results, 1)
	require.Len(t, sub.Payloads(), 1)
	require.Equal(t, "Avanza", sub.Payloads()[0]["model"])
	require.Contains(t, m.Render(), "Request Submitted")

	press(m, enterKey)
	require.False(t, w.Submitted())
	require.Equal(t, 1, w.StepNumber())
	require.Empty(t, w.Get(form.NewBrand))
}

func TestSubmissionFailureKeepsState(t *testing.T) {
	sub := testfixtures.NewMockSubmitter()
	sub.Reject("stock changed")
	m := newTestModel(t, core.Notify, sub, false, nil)
	w := m.Wizard()
	testfixtures.Fill(w, testfixtures.NotifyNewCar())
	press(m, nextKey)
	testfixtures.Fill(w, testfixtures.Contact())
	m.syncInputs()
	press(m, nextKey)
	w.AcceptTerms(true)

	cmd := press(m, nextKey)
	require.True(t, m.busy())
	require.Contains(t, m.Render(), "Submitting")

	// Input is ignored while the submission is in flight
	press(m, escKey)
	require.True(t, w.IsLastStep())

	m.Update(submitDone(t, cmd))
	require.False(t, m.busy())
	require.False(t, w.Submitted())
	require.True(t, w.IsLastStep())
	require.Equal(t, "Toyota", w.Get(form.NewBrand))
	require.Contains(t, m.Render(), "stock changed")
}

func TestAutoAdvanceOpensNextDropdown(t *testing.T) {
	timers := &testfixtures.ManualTimers{}
	m := newTestModel(t, core.TradeIn, nil, true, timers)
	var sent []tea.Msg
	m.send = func(msg tea.Msg) { sent = append(sent, msg) }

	press(m, enterKey)
	typeText(m, "toy")
	press(m, enterKey)
	require.Equal(t, form.Brand, m.focused(), "focus waits for the controller")
	require.Equal(t, 1, timers.Pending())

	timers.FireAll()
	require.Equal(t, []tea.Msg{OpenDropdownMsg{Field: form.Model}}, sent)

	m.Update(sent[0])
	require.Equal(t, form.Model, m.focused())
	require.True(t, m.inputs[form.Model].open)
}

func TestAutoAdvanceIgnoresUnmountedField(t *testing.T) {
	m := newTestModel(t, core.TradeIn, nil, true, &testfixtures.ManualTimers{})

	m.Update(FocusFieldMsg{Field: form.Email})
	require.Equal(t, form.Brand, m.focused())
	require.False(t, m.ScrollTo(form.Email))

	_, ok := m.refs.Ref(form.Email)
	require.False(t, ok)
	_, ok = m.refs.Ref(form.Brand)
	require.True(t, ok)
}

func TestLoadMessages(t *testing.T) {
	m, err := NewModel(context.Background(), Options{
		Wizard: core.Options{Flavor: core.TradeIn},
		LoadTaxonomy: func(ctx context.Context) (taxonomy.Tree, error) {
			return nil, errors.New("file not found")
		},
		LoadInventory: func(ctx context.Context) ([]inventory.Product, error) {
			return testfixtures.Products(), nil
		},
	})
	require.NoError(t, err)
	t.Cleanup(m.Close)

	m.Init()
	require.Equal(t, 2, m.loading)
	require.Contains(t, m.Render(), "Loading catalog")
	require.Empty(t, m.Wizard().Options(form.Brand))

	m.Update(TaxonomyLoadedMsg{Err: errors.New("file not found")})
	require.Contains(t, m.Render(), "Could not load the car catalog")

	products, _ := m.loadInventory(context.Background())
	m.Update(InventoryLoadedMsg{Products: products})
	require.Zero(t, m.loading)
	require.ElementsMatch(t, []string{"Honda", "Toyota"}, taxonomy.Values(m.Wizard().Options(form.NewBrand)))
	require.NotContains(t, m.Render(), "Loading catalog")
}

// bodyText joins the rendered step body the way it appears in the modal.
func bodyText(m *Model) string {
	lines, _, _ := m.body()
	return strings.Join(lines, "\n") + "\n"
}

func TestNewCarStepGolden(t *testing.T) {
	m := newTestModel(t, core.Notify, nil, false, nil)
	testfixtures.Fill(m.Wizard(), testfixtures.NotifyNewCar())

	testfixtures.CompareGolden(t, filepath.Join("testdata", "notify_new_car_step.golden"), bodyText(m))
}

func TestReviewStepGolden(t *testing.T) {
	m := newTestModel(t, core.Notify, nil, false, nil)
	w := m.Wizard()
	testfixtures.Fill(w, testfixtures.NotifyNewCar())
	press(m, nextKey)
	testfixtures.Fill(w, testfixtures.Contact())
	m.syncInputs()
	press(m, nextKey)
	require.True(t, w.IsLastStep())

	testfixtures.CompareGolden(t, filepath.Join("testdata", "notify_review_step.golden"), bodyText(m))

	press(m, spaceKey)
	testfixtures.CompareGolden(t, filepath.Join("testdata", "notify_review_terms_accepted.golden"), bodyText(m))
}

func TestViewUsesAltScreen(t *testing.T) {
	m := newTestModel(t, core.Sell, nil, false, nil)
	require.True(t, m.View().AltScreen)
	require.True(t, strings.Contains(m.Render(), "Sell Your Car - Step 1 of 3"))
}
