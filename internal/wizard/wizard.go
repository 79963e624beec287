// Package wizard sequences the steps of a request wizard: it validates each
// step before moving on, points the UI at the first invalid field, and on the
// last step assembles the payload and hands it to a Submitter.
//
// The package knows nothing about rendering. A UI drives it through Set,
// Next, Back and Submit and supplies focus handles (advance.Registry) and a
// Scroller.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mobilkita/tradein/internal/advance"
	"github.com/mobilkita/tradein/internal/form"
	"github.com/mobilkita/tradein/internal/inventory"
	"github.com/mobilkita/tradein/internal/logger"
	"github.com/mobilkita/tradein/internal/taxonomy"
	"github.com/mobilkita/tradein/internal/validate"
)

var (
	// ErrInvalidStep means the current step has field errors; see Errors.
	ErrInvalidStep = errors.New("step has invalid fields")
	// ErrSubmitInFlight rejects a submit while another is awaiting the
	// Submitter.
	ErrSubmitInFlight = errors.New("submission already in progress")
	// ErrNotFinalStep rejects Submit before the last step.
	ErrNotFinalStep = errors.New("submit is only possible from the last step")
	// ErrNoSubmitter is returned when the wizard was built without one.
	ErrNoSubmitter = errors.New("no submitter configured")
)

// Result is what a Submitter reports back. A transport failure is returned
// as an error instead; Success false with Error set is a server-side
// rejection.
type Result struct {
	Success bool
	Data    map[string]string
	Error   string
}

// Submitter delivers a final payload.
type Submitter interface {
	Submit(ctx context.Context, flavor Flavor, payload Payload) (Result, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, flavor Flavor, payload Payload) (Result, error)

// Submit implements Submitter.
func (f SubmitterFunc) Submit(ctx context.Context, flavor Flavor, payload Payload) (Result, error) {
	return f(ctx, flavor, payload)
}

// SubmissionError reports a failed submission. Form state and step are
// untouched; the user can retry.
type SubmissionError struct {
	Flavor  Flavor
	Message string // server-side rejection, if any
	Err     error  // transport failure, if any
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submitting %s request: %v", e.Flavor, e.Err)
	}
	return fmt.Sprintf("submitting %s request: %s", e.Flavor, e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Scroller brings a field into view. ScrollTo returns false when the field
// has no rendered handle; the wizard then falls back to ScrollTop.
type Scroller interface {
	ScrollTo(field form.Field) bool
	ScrollTop()
}

type noScroll struct{}

func (noScroll) ScrollTo(form.Field) bool { return false }
func (noScroll) ScrollTop()               {}

// Options configures a Wizard.
type Options struct {
	Flavor      Flavor
	Defaults    form.Values
	Prefill     form.Values // applied once, at construction
	PhonePrefix string
	Showrooms   []string
	Tree        taxonomy.Tree
	Products    []inventory.Product
	Submitter   Submitter
	Scroller    Scroller

	// Auto-advance. A nil Registry disables it.
	Registry       advance.Registry
	AdvanceDelay   time.Duration
	AdvanceOptions []advance.Option
}

// Wizard is the state machine of one wizard instance.
type Wizard struct {
	mu sync.Mutex

	flavor    Flavor
	steps     []validate.Step
	store     *form.Store
	validator validate.Validator
	advance   *advance.Controller
	submitter Submitter
	scroller  Scroller
	catalog   Catalog

	step       int
	submitted  bool
	submitting bool
	errors     validate.Errors
	terms      bool
	termsErr   error
	last       Result
}

// New builds a wizard positioned on the first step.
func New(opts Options) (*Wizard, error) {
	if _, err := ParseFlavor(string(opts.Flavor)); err != nil {
		return nil, err
	}
	catalog := NewCatalog(opts.Flavor, opts.Showrooms).WithTree(opts.Tree).WithProducts(opts.Products)
	store := form.NewStore(form.Config{
		Defaults:    opts.Defaults,
		PhonePrefix: opts.PhonePrefix,
		Options:     catalog,
	})
	if len(opts.Prefill) > 0 {
		store.Prefill(opts.Prefill)
	}

	w := &Wizard{
		flavor:    opts.Flavor,
		steps:     opts.Flavor.Steps(),
		store:     store,
		validator: validate.New(store.PhonePrefix()),
		submitter: opts.Submitter,
		scroller:  opts.Scroller,
		catalog:   catalog,
		errors:    validate.Errors{},
	}
	if w.scroller == nil {
		w.scroller = noScroll{}
	}
	if opts.Registry != nil {
		w.advance = advance.New(opts.Registry, opts.Flavor.Table(opts.AdvanceDelay), opts.AdvanceOptions...)
	}
	logger.Debug("Wizard %s created with %d steps", opts.Flavor, len(w.steps))
	return w, nil
}

// Flavor returns the wizard flavor.
func (w *Wizard) Flavor() Flavor {
	return w.flavor
}

// Steps returns the ordered steps.
func (w *Wizard) Steps() []validate.Step {
	return append([]validate.Step(nil), w.steps...)
}

// Step returns the current step.
func (w *Wizard) Step() validate.Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.steps[w.step]
}

// StepNumber returns the current step, counting from 1.
func (w *Wizard) StepNumber() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step + 1
}

// IsLastStep reports whether Next would submit.
func (w *Wizard) IsLastStep() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step == len(w.steps)-1
}

// Submitted reports whether the last submission succeeded and the wizard
// has not been restarted since.
func (w *Wizard) Submitted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitted
}

// LastResult returns the result of the last successful submission.
func (w *Wizard) LastResult() Result {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// Restart leaves the Submitted state for a fresh run on step 1.
func (w *Wizard) Restart() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitted = false
}

// IsSubmitting reports whether a submission is awaiting the Submitter. UIs
// disable their submit control while it is true.
func (w *Wizard) IsSubmitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Get returns the value of field.
func (w *Wizard) Get(field form.Field) string {
	return w.store.Get(field)
}

// Values returns a snapshot of every value.
func (w *Wizard) Values() form.Values {
	return w.store.Snapshot()
}

// Options returns the options of a select field for the current values.
func (w *Wizard) Options(field form.Field) []taxonomy.Option {
	return w.store.Options(field)
}

// Fields returns the fields of the current step that apply to the current
// values, in display order.
func (w *Wizard) Fields() []form.Field {
	step := w.Step()
	return w.flavor.VisibleFields(step, w.store.Snapshot())
}

// Errors returns a copy of the current field errors.
func (w *Wizard) Errors() validate.Errors {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(validate.Errors, len(w.errors))
	for f, msg := range w.errors {
		out[f] = msg
	}
	return out
}

// Error returns the error of field, or "".
func (w *Wizard) Error(field form.Field) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.errors[field]
}

// Set is the single entry point for user input. It updates the store, drops
// the field's error and, on a first fill, schedules auto-advance.
func (w *Wizard) Set(field form.Field, value string) form.Change {
	ch := w.store.Set(field, value)

	w.mu.Lock()
	delete(w.errors, field)
	for _, reset := range ch.Reset {
		delete(w.errors, reset)
	}
	w.mu.Unlock()

	if w.advance != nil && ch.Filled() {
		w.advance.NotifyFilled(field, ch.Value, ch.WasEmpty())
	}
	return ch
}

// AcceptTerms sets the terms checkbox and clears its error.
func (w *Wizard) AcceptTerms(accepted bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.terms = accepted
	w.termsErr = nil
}

// TermsAccepted reports the terms checkbox.
func (w *Wizard) TermsAccepted() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.terms
}

// TermsError returns the pending terms error, if any.
func (w *Wizard) TermsError() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.termsErr
}

// SetTaxonomy installs a loaded taxonomy tree.
func (w *Wizard) SetTaxonomy(tree taxonomy.Tree) {
	w.mu.Lock()
	w.catalog = w.catalog.WithTree(tree)
	catalog := w.catalog
	w.mu.Unlock()
	w.store.SetOptions(catalog)
}

// SetInventory installs a new inventory snapshot; derived options are
// recomputed on the next Options call.
func (w *Wizard) SetInventory(products []inventory.Product) {
	w.mu.Lock()
	w.catalog = w.catalog.WithProducts(products)
	catalog := w.catalog
	w.mu.Unlock()
	w.store.SetOptions(catalog)
}

// Validate runs the current step's validator without changing state.
func (w *Wizard) Validate() validate.Errors {
	return w.validator.Step(w.Step(), w.store.Snapshot())
}

// Payload assembles the payload the current values would submit.
func (w *Wizard) Payload() Payload {
	return BuildPayload(w.flavor, w.store.Snapshot())
}

// Next validates the current step and moves forward. On the last step it
// submits instead. It returns ErrInvalidStep when the step has errors.
func (w *Wizard) Next(ctx context.Context) error {
	if w.IsLastStep() {
		return w.Submit(ctx)
	}

	step := w.Step()
	errs := w.validator.Step(step, w.store.Snapshot())
	if !errs.Valid() {
		w.fail(step, errs)
		return ErrInvalidStep
	}

	w.mu.Lock()
	w.step++
	w.errors = validate.Errors{}
	w.mu.Unlock()
	w.scroller.ScrollTop()
	logger.Debug("Wizard %s advanced to step %d", w.flavor, w.StepNumber())
	return nil
}

// Back moves to the previous step without validating. It returns false on
// the first step.
func (w *Wizard) Back() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.step == 0 {
		return false
	}
	w.step--
	w.errors = validate.Errors{}
	return true
}

// fail stores errs and scrolls to the first invalid field.
func (w *Wizard) fail(step validate.Step, errs validate.Errors) {
	w.mu.Lock()
	w.errors = errs
	w.mu.Unlock()

	first, ok := errs.First(w.flavor.Fields(step))
	if !ok || !w.scroller.ScrollTo(first) {
		w.scroller.ScrollTop()
	}
	logger.Debug("Wizard %s step %s invalid: %d errors", w.flavor, step, len(errs))
}

// Submit re-validates the last step, requires terms acceptance and hands
// the payload to the Submitter. On success the form is reset to its initial
// values, the wizard returns to step 1 and Submitted reports true. On
// failure nothing changes and a *SubmissionError is returned.
func (w *Wizard) Submit(ctx context.Context) error {
	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmitInFlight
	}
	if w.step != len(w.steps)-1 {
		w.mu.Unlock()
		return ErrNotFinalStep
	}
	step := w.steps[w.step]
	w.mu.Unlock()

	errs := w.validator.Step(step, w.store.Snapshot())
	if !errs.Valid() {
		w.fail(step, errs)
		return ErrInvalidStep
	}
	if err := validate.Terms(w.TermsAccepted()); err != nil {
		w.mu.Lock()
		w.termsErr = err
		w.mu.Unlock()
		return err
	}
	if w.submitter == nil {
		return ErrNoSubmitter
	}

	w.mu.Lock()
	if w.submitting {
		w.mu.Unlock()
		return ErrSubmitInFlight
	}
	w.submitting = true
	w.mu.Unlock()

	payload := w.Payload()
	logger.Info("Submitting %s request with %d fields", w.flavor, len(payload))
	res, err := w.submitter.Submit(ctx, w.flavor, payload)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false

	if err != nil {
		logger.Error("Submitting %s request failed: %v", w.flavor, err)
		return &SubmissionError{Flavor: w.flavor, Err: err}
	}
	if !res.Success {
		logger.Warn("%s request rejected: %s", w.flavor, res.Error)
		return &SubmissionError{Flavor: w.flavor, Message: res.Error}
	}

	w.store.Reset()
	w.step = 0
	w.errors = validate.Errors{}
	w.terms = false
	w.termsErr = nil
	w.submitted = true
	w.last = res
	logger.Info("%s request submitted", w.flavor)
	return nil
}

// Close stops pending auto-advance timers.
func (w *Wizard) Close() {
	if w.advance != nil {
		w.advance.Stop()
	}
}
