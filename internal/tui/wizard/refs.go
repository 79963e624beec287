package wizard

import (
	tea "charm.land/bubbletea/v2"

	"github.com/mobilkita/tradein/internal/advance"
	"github.com/mobilkita/tradein/internal/form"
)

// fieldRef is the handle auto-advance holds for a mounted field. Timer
// callbacks run on their own goroutine, so the handle only posts a message
// into the program's event loop.
type fieldRef struct {
	field form.Field
	send  func(tea.Msg)
}

func (r fieldRef) Focus() {
	r.send(FocusFieldMsg{Field: r.field})
}

func (r fieldRef) OpenDropdown() {
	r.send(OpenDropdownMsg{Field: r.field})
}

// mount registers refs for exactly the given fields.
func mount(refs *advance.Refs, mounted map[form.Field]bool, fields []form.Field, send func(tea.Msg)) {
	want := make(map[form.Field]bool, len(fields))
	for _, f := range fields {
		want[f] = true
		if !mounted[f] {
			refs.Register(f, fieldRef{field: f, send: send})
			mounted[f] = true
		}
	}
	for f := range mounted {
		if !want[f] {
			refs.Unregister(f)
			delete(mounted, f)
		}
	}
}
