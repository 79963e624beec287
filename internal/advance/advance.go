// Package advance moves the user to the next logical field once the current
// one receives its first value: after a short delay it focuses the next
// input or opens the next option list.
//
// Auto-advance is a convenience. A transition that does not fire leaves the
// wizard fully usable, so misfires are logged and never reported.
package advance

import (
	"sync"
	"time"

	"github.com/mobilkita/tradein/internal/form"
	"github.com/mobilkita/tradein/internal/logger"
)

// Action is what happens to the target field.
type Action int

const (
	Focus Action = iota
	OpenDropdown
)

func (a Action) String() string {
	switch a {
	case Focus:
		return "focus"
	case OpenDropdown:
		return "openDropdown"
	}
	return "unknown"
}

// Ref is the handle the rendering layer supplies for one field.
type Ref interface {
	Focus()
	OpenDropdown()
}

// Registry resolves field handles at fire time. A missing handle (field not
// rendered) makes the transition a no-op.
type Registry interface {
	Ref(field form.Field) (Ref, bool)
}

// Entry is one row of a transition table.
type Entry struct {
	Target form.Field
	Action Action
	Delay  time.Duration
}

// Table maps a trigger field to its transition.
type Table map[form.Field]Entry

// Only returns the entries whose trigger and target are both in fields.
func (t Table) Only(fields []form.Field) Table {
	in := make(map[form.Field]bool, len(fields))
	for _, f := range fields {
		in[f] = true
	}
	out := Table{}
	for trigger, e := range t {
		if in[trigger] && in[e.Target] {
			out[trigger] = e
		}
	}
	return out
}

// Timer is the part of *time.Timer the controller needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Controller.
type Option func(*Controller)

// WithAfterFunc replaces the timer implementation, for tests.
func WithAfterFunc(fn AfterFunc) Option {
	return func(c *Controller) {
		c.afterFunc = fn
	}
}

// Controller schedules transitions. At most one timer per trigger is
// pending at a time; refilling a trigger while its timer is pending does
// not schedule a second one.
type Controller struct {
	mu        sync.Mutex
	registry  Registry
	table     Table
	afterFunc AfterFunc
	pending   map[form.Field]Timer
	stopped   bool
}

// New creates a controller over registry and table.
func New(registry Registry, table Table, opts ...Option) *Controller {
	c := &Controller{
		registry:  registry,
		table:     table,
		afterFunc: realAfterFunc,
		pending:   make(map[form.Field]Timer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NotifyFilled reports that field now holds value. The transition is
// scheduled only when the field was empty before (wasEmpty) and is non-empty
// now. It returns whether a timer was scheduled.
func (c *Controller) NotifyFilled(field form.Field, value string, wasEmpty bool) bool {
	if !wasEmpty || value == "" {
		return false
	}
	entry, ok := c.table[field]
	if !ok {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return false
	}
	if _, busy := c.pending[field]; busy {
		return false
	}
	c.pending[field] = c.afterFunc(entry.Delay, func() { c.fire(field, entry) })
	logger.Debug("auto-advance scheduled: %s -> %s (%s in %s)", field, entry.Target, entry.Action, entry.Delay)
	return true
}

func (c *Controller) fire(trigger form.Field, entry Entry) {
	c.mu.Lock()
	delete(c.pending, trigger)
	stopped := c.stopped
	c.mu.Unlock()
	if stopped || c.registry == nil {
		return
	}

	ref, ok := c.registry.Ref(entry.Target)
	if !ok || ref == nil {
		logger.Debug("auto-advance skipped: no handle for %s", entry.Target)
		return
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("auto-advance %s -> %s panicked: %v", trigger, entry.Target, r)
		}
	}()
	switch entry.Action {
	case Focus:
		ref.Focus()
	case OpenDropdown:
		ref.OpenDropdown()
	}
}

// Pending returns the number of scheduled transitions.
func (c *Controller) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Stop cancels pending transitions; later notifications are ignored.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	for f, t := range c.pending {
		t.Stop()
		delete(c.pending, f)
	}
}

// Refs is a mutable Registry for rendering layers that mount and unmount
// fields.
type Refs struct {
	mu   sync.RWMutex
	refs map[form.Field]Ref
}

// NewRefs creates an empty registry.
func NewRefs() *Refs {
	return &Refs{refs: make(map[form.Field]Ref)}
}

// Register mounts the handle of field.
func (r *Refs) Register(field form.Field, ref Ref) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refs[field] = ref
}

// Unregister unmounts the handle of field.
func (r *Refs) Unregister(field form.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.refs, field)
}

// Ref implements Registry.
func (r *Refs) Ref(field form.Field) (Ref, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ref, ok := r.refs[field]
	return ref, ok
}
