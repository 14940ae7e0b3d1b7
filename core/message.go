package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind discriminates the payload variant carried by a Message.
type Kind string

const (
	// KindTask is a request addressed to an agent by name.
	KindTask Kind = "task"
	// KindResult is a successful answer correlated to a task.
	KindResult Kind = "result"
	// KindError is a failed answer correlated to a task.
	KindError Kind = "error"
)

// TaskPayload names the action to perform and its free-form input.
type TaskPayload struct {
	Action string         `json:"action"`
	Input  map[string]any `json:"input,omitempty"`
}

// ResultPayload carries the successful output of a task.
type ResultPayload struct {
	Success bool `json:"success"`
	Output  any  `json:"output,omitempty"`
}

// ErrorPayload carries a structured failure answer. Retryable hints whether
// re-dispatching the same task could succeed.
type ErrorPayload struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// Message is the envelope exchanged between callers and agents. Exactly one
// of Task/Result/Error is set, matching Kind. Envelopes are treated as
// immutable once handed off; every result or error echoes the originating
// task's ID as its CorrelationID.
type Message struct {
	ID            string         `json:"id"`
	From          string         `json:"from"`
	To            string         `json:"to"`
	Kind          Kind           `json:"kind"`
	CorrelationID string         `json:"correlation_id,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
	Task          *TaskPayload   `json:"task,omitempty"`
	Result        *ResultPayload `json:"result,omitempty"`
	Error         *ErrorPayload  `json:"error,omitempty"`
}

// NewMessage creates a bare envelope with a fresh unique ID. Payload shape
// correctness for the given kind is the caller's contract; construction never
// validates or fails.
func NewMessage(from, to string, kind Kind, correlationID string) *Message {
	return &Message{
		ID:            NewID(),
		From:          from,
		To:            to,
		Kind:          kind,
		CorrelationID: correlationID,
		Timestamp:     time.Now().UTC(),
	}
}

// NewTask builds a task envelope addressed to an agent by name.
func NewTask(from, to, action string, input map[string]any) *Message {
	m := NewMessage(from, to, KindTask, "")
	m.Task = &TaskPayload{Action: action, Input: input}
	return m
}

// ReplyResult builds the success answer to this task: sender and recipient
// are swapped and CorrelationID is set to the task's ID.
func (m *Message) ReplyResult(output any) *Message {
	r := NewMessage(m.To, m.From, KindResult, m.ID)
	r.Result = &ResultPayload{Success: true, Output: output}
	return r
}

// ReplyError builds the failure answer to this task.
func (m *Message) ReplyError(code, message string, retryable bool) *Message {
	r := NewMessage(m.To, m.From, KindError, m.ID)
	r.Error = &ErrorPayload{Code: code, Message: message, Retryable: retryable}
	return r
}

// Action returns the task action or "" for non-task envelopes.
func (m *Message) Action() string {
	if m.Task == nil {
		return ""
	}
	return m.Task.Action
}

func (m *Message) String() string {
	return fmt.Sprintf("Message{ID: %s, From: %s, To: %s, Kind: %s}", m.ID, m.From, m.To, m.Kind)
}

// NewID generates a new unique identifier for messages and records.
func NewID() string { return uuid.NewString() }
