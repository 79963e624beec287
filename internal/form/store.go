package form

import (
	"sync"

	"github.com/mobilkita/tradein/internal/taxonomy"
)

// Values maps fields to their current value. Absent and "" both mean empty.
type Values map[Field]string

// Clone returns an independent copy.
func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// OptionSource derives the option list of a select field from the current
// values of its ancestors.
type OptionSource interface {
	Options(field Field, values Values) []taxonomy.Option
}

// Change describes the effect of one Set call.
type Change struct {
	Field    Field
	Value    string  // stored value after normalization
	Previous string  // value before the call
	Reset    []Field // descendants that were cleared
}

// WasEmpty reports whether the field was empty before the call.
func (c Change) WasEmpty() bool {
	return c.Previous == ""
}

// Filled reports an empty → non-empty transition, the only kind that
// triggers auto-advance.
func (c Change) Filled() bool {
	return c.Previous == "" && c.Value != ""
}

// Changed reports whether the stored value differs from before.
func (c Change) Changed() bool {
	return c.Previous != c.Value
}

// Config configures a Store.
type Config struct {
	Defaults    Values
	PhonePrefix string
	Options     OptionSource
}

// Store holds the values of one wizard instance. All methods are safe for
// concurrent use; each Set is applied atomically together with its cascade
// resets.
type Store struct {
	mu          sync.RWMutex
	initial     Values
	values      Values
	edited      map[Field]bool
	phonePrefix string
	options     OptionSource
}

// NewStore creates a store seeded with cfg.Defaults.
func NewStore(cfg Config) *Store {
	prefix := cfg.PhonePrefix
	if prefix == "" {
		prefix = DefaultPhonePrefix
	}
	s := &Store{
		phonePrefix: prefix,
		options:     cfg.Options,
		edited:      make(map[Field]bool),
	}
	s.initial = make(Values, len(cfg.Defaults))
	for f, v := range cfg.Defaults {
		s.initial[f] = s.normalize(f, v)
	}
	s.values = s.initial.Clone()
	return s
}

// PhonePrefix returns the display prefix applied to phone values.
func (s *Store) PhonePrefix() string {
	return s.phonePrefix
}

func (s *Store) normalize(f Field, v string) string {
	switch {
	case f == Phone:
		return NormalizePhone(s.phonePrefix, v)
	case IsNumeric(f):
		return StripThousands(v)
	}
	return v
}

// Set stores value for field and clears every descendant of field when the
// stored value changed.
func (s *Store) Set(field Field, value string) Change {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.values[field]
	v := s.normalize(field, value)
	s.values[field] = v
	s.edited[field] = true

	ch := Change{Field: field, Value: v, Previous: prev}
	if v == prev {
		return ch
	}
	for _, d := range Descendants(field) {
		if s.values[d] != "" {
			ch.Reset = append(ch.Reset, d)
		}
		s.values[d] = ""
	}
	return ch
}

// Prefill merges external values (URL parameters, a user profile) into the
// state and into the reset baseline. Fields the user already edited are
// left alone.
func (s *Store) Prefill(values Values) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for f, v := range values {
		if s.edited[f] {
			continue
		}
		nv := s.normalize(f, v)
		s.values[f] = nv
		s.initial[f] = nv
	}
}

// Get returns the value of field.
func (s *Store) Get(field Field) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[field]
}

// Snapshot returns a copy of the current values.
func (s *Store) Snapshot() Values {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Clone()
}

// Edited reports whether the user has set field since the last Reset.
func (s *Store) Edited(field Field) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.edited[field]
}

// Reset restores the initial values and forgets edits.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = s.initial.Clone()
	s.edited = make(map[Field]bool)
}

// SetOptions swaps the option source, e.g. once the taxonomy has loaded.
func (s *Store) SetOptions(src OptionSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.options = src
}

// Options returns the option list of field for the current state. Fields
// without a source, or whose ancestors are unset, yield an empty list.
func (s *Store) Options(field Field) []taxonomy.Option {
	s.mu.RLock()
	src := s.options
	snapshot := s.values.Clone()
	s.mu.RUnlock()

	if src == nil {
		return []taxonomy.Option{}
	}
	opts := src.Options(field, snapshot)
	if opts == nil {
		return []taxonomy.Option{}
	}
	return opts
}
