package testfixtures

import (
	"context"
	"sync"
	"time"

	"github.com/mobilkita/tradein/internal/advance"
	"github.com/mobilkita/tradein/internal/wizard"
)

// MockSubmitter records submissions and answers with a configurable result.
type MockSubmitter struct {
	mu       sync.Mutex
	payloads []wizard.Payload
	result   wizard.Result
	err      error
}

// NewMockSubmitter creates a submitter that accepts everything.
func NewMockSubmitter() *MockSubmitter {
	return &MockSubmitter{
		result: wizard.Result{Success: true, Data: map[string]string{"id": "1", "reference": FixedReference}},
	}
}

// Submit implements wizard.Submitter.
func (m *MockSubmitter) Submit(ctx context.Context, flavor wizard.Flavor, payload wizard.Payload) (wizard.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payloads = append(m.payloads, payload)
	return m.result, m.err
}

// Reject makes later submissions fail server-side with message.
func (m *MockSubmitter) Reject(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = wizard.Result{Success: false, Error: message}
}

// Fail makes later submissions fail in transport.
func (m *MockSubmitter) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Payloads returns the submitted payloads.
func (m *MockSubmitter) Payloads() []wizard.Payload {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]wizard.Payload(nil), m.payloads...)
}

// ManualTimers captures auto-advance callbacks so tests fire them on demand.
type ManualTimers struct {
	mu  sync.Mutex
	fns []func()
}

type manualTimer struct{}

func (manualTimer) Stop() bool { return true }

// AfterFunc implements advance.AfterFunc.
func (m *ManualTimers) AfterFunc(d time.Duration, f func()) advance.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fns = append(m.fns, f)
	return manualTimer{}
}

// Pending returns the number of captured callbacks.
func (m *ManualTimers) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fns)
}

// FireAll runs and forgets every captured callback.
func (m *ManualTimers) FireAll() {
	m.mu.Lock()
	fns := m.fns
	m.fns = nil
	m.mu.Unlock()
	for _, f := range fns {
		f()
	}
}
