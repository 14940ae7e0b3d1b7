// Package testutil holds fluent helpers for constructing envelopes in tests.
package testutil

import (
	"time"

	"github.com/hupe1980/brandmesh/core"
)

// MessageBuilder provides a fluent helper for constructing message envelopes
// in tests. Example:
//
//	msg := NewMessageBuilder().To("brand-manager").Action("get-profile").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type MessageBuilder struct {
	id            string
	from          string
	to            string
	kind          core.Kind
	correlationID string
	timestamp     time.Time
	action        string
	input         map[string]any
	output        any
	errCode       string
	errMessage    string
	retryable     bool
}

// NewMessageBuilder creates a builder defaulting to a task from "test-caller".
func NewMessageBuilder() *MessageBuilder {
	return &MessageBuilder{from: "test-caller", kind: core.KindTask}
}

// ID overrides the auto-generated message ID (chainable). Use mainly where
// determinism matters.
func (b *MessageBuilder) ID(id string) *MessageBuilder { b.id = id; return b }

// From sets the sender name (chainable).
func (b *MessageBuilder) From(from string) *MessageBuilder { b.from = from; return b }

// To sets the recipient agent name (chainable).
func (b *MessageBuilder) To(to string) *MessageBuilder { b.to = to; return b }

// Correlation sets the correlation ID (chainable).
func (b *MessageBuilder) Correlation(id string) *MessageBuilder { b.correlationID = id; return b }

// Timestamp overrides the envelope timestamp (chainable).
func (b *MessageBuilder) Timestamp(ts time.Time) *MessageBuilder { b.timestamp = ts; return b }

// Action sets the task action and switches the kind to task (chainable).
func (b *MessageBuilder) Action(action string) *MessageBuilder {
	b.kind = core.KindTask
	b.action = action
	return b
}

// Input sets one task input field (chainable).
func (b *MessageBuilder) Input(key string, value any) *MessageBuilder {
	b.kind = core.KindTask
	if b.input == nil {
		b.input = map[string]any{}
	}
	b.input[key] = value
	return b
}

// Result switches the kind to result carrying the given output (chainable).
func (b *MessageBuilder) Result(output any) *MessageBuilder {
	b.kind = core.KindResult
	b.output = output
	return b
}

// Error switches the kind to error with the given payload (chainable).
func (b *MessageBuilder) Error(code, message string, retryable bool) *MessageBuilder {
	b.kind = core.KindError
	b.errCode = code
	b.errMessage = message
	b.retryable = retryable
	return b
}

// Build assembles the envelope.
func (b *MessageBuilder) Build() *core.Message {
	m := core.NewMessage(b.from, b.to, b.kind, b.correlationID)
	if b.id != "" {
		m.ID = b.id
	}
	if !b.timestamp.IsZero() {
		m.Timestamp = b.timestamp
	}
	switch b.kind {
	case core.KindTask:
		m.Task = &core.TaskPayload{Action: b.action, Input: b.input}
	case core.KindResult:
		m.Result = &core.ResultPayload{Success: true, Output: b.output}
	case core.KindError:
		m.Error = &core.ErrorPayload{Code: b.errCode, Message: b.errMessage, Retryable: b.retryable}
	}
	return m
}
