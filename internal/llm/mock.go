package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockResponse is one queued answer for MockProvider. A non-nil Err is
// returned instead of Text.
type MockResponse struct {
	Text string
	Err  error
}

// MockProvider answers from a FIFO queue and records every request. Once the
// queue is empty each call fails with ErrUnavailable.
type MockProvider struct {
	mu      sync.Mutex
	pending []MockResponse
	Calls   []Request
}

// NewMockProvider queues the given responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{pending: responses}
}

func (m *MockProvider) Complete(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.pending) == 0 {
		return nil, fmt.Errorf("mock: %w: queue is empty", ErrUnavailable)
	}

	next := m.pending[0]
	m.pending = m.pending[1:]
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Text: next.Text, Model: "mock"}, nil
}

func (m *MockProvider) ModelID() string { return "mock" }

// CallCount returns the number of Complete calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
