package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockGenerator is a test implementation of the Generator interface. It
// replays queued responses and errors in call order and records every request.
type MockGenerator struct {
	// Handler, when set, computes the reply instead of the queues.
	Handler   func(req Request) (Response, error)
	responses []Response
	errors    []error
	calls     []Request
	mu        sync.Mutex
}

// NewMockGenerator creates a mock that returns the given responses in order.
func NewMockGenerator(responses ...Response) *MockGenerator {
	return &MockGenerator{responses: responses}
}

// NewMockGeneratorText is a convenience wrapper returning plain text replies.
func NewMockGeneratorText(texts ...string) *MockGenerator {
	responses := make([]Response, len(texts))
	for i, t := range texts {
		responses[i] = Response{Text: t}
	}
	return NewMockGenerator(responses...)
}

// FailWith queues err for the call at position index (0-based).
func (m *MockGenerator) FailWith(index int, err error) *MockGenerator {
	m.mu.Lock()
	defer m.mu.Unlock()
	for len(m.errors) <= index {
		m.errors = append(m.errors, nil)
	}
	m.errors[index] = err
	return m
}

// Generate records the request and returns the next queued reply.
func (m *MockGenerator) Generate(_ context.Context, req Request) (Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := len(m.calls)
	m.calls = append(m.calls, req)

	if m.Handler != nil {
		return m.Handler(req)
	}

	if idx < len(m.errors) && m.errors[idx] != nil {
		return Response{}, m.errors[idx]
	}
	if idx < len(m.responses) {
		return m.responses[idx], nil
	}

	return Response{}, fmt.Errorf("no more mock responses (call %d, responses: %d)", idx, len(m.responses))
}

// Calls returns a copy of the recorded requests.
func (m *MockGenerator) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}

// CallCount returns the number of Generate calls so far.
func (m *MockGenerator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
