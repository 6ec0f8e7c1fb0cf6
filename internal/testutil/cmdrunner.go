// Package testutil provides mocks, fixtures and helpers shared by the
// package tests.
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// CommandCall records a command invocation for assertion purposes.
type CommandCall struct {
	Name string
	Args []string
}

// DynamicResponseFunc is consulted before the canned responses. Returning
// handled=false falls through to the normal lookup.
type DynamicResponseFunc func(ctx context.Context, name string, args []string) ([]byte, error, bool)

// MockRunner returns canned responses based on command patterns and records
// all calls. It satisfies exec.CommandRunner.
type MockRunner struct {
	mu              sync.Mutex
	Responses       map[string][]byte
	Errors          map[string]error
	Calls           []CommandCall
	DynamicResponse DynamicResponseFunc
}

// NewMockRunner creates a MockRunner with initialized maps.
func NewMockRunner() *MockRunner {
	return &MockRunner{
		Responses: make(map[string][]byte),
		Errors:    make(map[string]error),
	}
}

// Run records the call and returns the canned response for
// "name arg1 arg2 ...". Exact keys win over prefix keys, and errors win over
// responses.
func (m *MockRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, CommandCall{Name: name, Args: args})
	dynamic := m.DynamicResponse
	m.mu.Unlock()

	// Dynamic responses may block (e.g. waiting on a test gate), so they run
	// without holding the lock.
	if dynamic != nil {
		if resp, err, handled := dynamic(ctx, name, args); handled {
			return resp, err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := makeKey(name, args)

	if err, ok := m.Errors[key]; ok {
		return nil, err
	}
	if resp, ok := m.Responses[key]; ok {
		return resp, nil
	}

	for k, err := range m.Errors {
		if strings.HasPrefix(key, k) {
			return nil, err
		}
	}
	for k, resp := range m.Responses {
		if strings.HasPrefix(key, k) {
			return resp, nil
		}
	}

	return nil, fmt.Errorf("unexpected command: %s", key)
}

// SetResponse configures a canned response for a command.
func (m *MockRunner) SetResponse(name string, args []string, response []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Responses[makeKey(name, args)] = response
}

// SetError configures an error response for a command.
func (m *MockRunner) SetError(name string, args []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Errors[makeKey(name, args)] = err
}

// GetCalls returns a copy of all recorded calls.
func (m *MockRunner) GetCalls() []CommandCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]CommandCall, len(m.Calls))
	copy(result, m.Calls)
	return result
}

// Reset clears all recorded calls.
func (m *MockRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = nil
}

func makeKey(name string, args []string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}
