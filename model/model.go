package model

import (
	"context"
	"fmt"
	"sync"
)

// Message is one turn of a chat exchange. Role is "system", "user" or
// "assistant".
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Response is the model's free-text answer.
type Response struct {
	Content string `json:"content"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
}

// Model is the minimal interface agents require to drive generation. Any
// timeout or retry policy belongs to the implementation, not the callers.
type Model interface {
	Chat(ctx context.Context, messages []Message) (*Response, error)
	Info() Info
}

// MockModel is a lightweight in-memory Model useful for tests & examples.
// Responses are returned in order; when exhausted the last one repeats.
type MockModel struct {
	mu        sync.Mutex
	responses []string
	calls     [][]Message
	err       error
}

// NewMockModel creates a mock returning the given canned responses.
func NewMockModel(responses ...string) *MockModel {
	return &MockModel{responses: responses}
}

// NewFailingMockModel creates a mock whose Chat always returns err.
func NewFailingMockModel(err error) *MockModel {
	return &MockModel{err: err}
}

// Chat records the exchange and returns the next canned response.
func (m *MockModel) Chat(_ context.Context, messages []Message) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.calls = append(m.calls, messages)
	if len(m.responses) == 0 {
		return nil, fmt.Errorf("mock model has no responses configured")
	}
	idx := len(m.calls) - 1
	if idx >= len(m.responses) {
		idx = len(m.responses) - 1
	}
	return &Response{Content: m.responses[idx]}, nil
}

// Info identifies the mock.
func (m *MockModel) Info() Info { return Info{Name: "mock", Provider: "mock"} }

// Calls returns the exchanges seen so far.
func (m *MockModel) Calls() [][]Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([][]Message, len(m.calls))
	copy(calls, m.calls)
	return calls
}
