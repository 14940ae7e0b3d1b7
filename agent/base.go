package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/brandmesh/core"
	"github.com/hupe1980/brandmesh/internal/util"
	"github.com/hupe1980/brandmesh/logging"
)

// HandlerFunc executes one action against a task envelope and returns the
// result output. A returned error becomes a correlated error envelope; a
// *util.ValidationError maps to BAD_MESSAGE, anything else to INTERNAL.
type HandlerFunc func(ctx context.Context, task *core.Message) (any, error)

// BaseAgent bundles identity, capability metadata and the action dispatch
// table shared by every concrete agent. Embed it and register handlers at
// construction time; registration is not goroutine-safe and must finish
// before the first Handle call.
type BaseAgent struct {
	name         string
	description  string
	version      string
	capabilities []core.Capability
	handlers     map[string]HandlerFunc
	logger       logging.Logger
}

// NewBaseAgent constructs a BaseAgent with the given identity.
func NewBaseAgent(name, description, version string, logger logging.Logger) BaseAgent {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return BaseAgent{
		name:        name,
		description: description,
		version:     version,
		handlers:    make(map[string]HandlerFunc),
		logger:      logger,
	}
}

// Name returns the agent's unique dispatch name.
func (b *BaseAgent) Name() string { return b.name }

// Description returns a human-readable description of the agent's purpose.
func (b *BaseAgent) Description() string { return b.description }

// Version returns the agent's version string.
func (b *BaseAgent) Version() string { return b.version }

// Capabilities returns the declared capability list in registration order.
func (b *BaseAgent) Capabilities() []core.Capability {
	out := make([]core.Capability, len(b.capabilities))
	copy(out, b.capabilities)
	return out
}

// RegisterHandler binds an action to its handler and declares the capability.
func (b *BaseAgent) RegisterHandler(cap core.Capability, fn HandlerFunc) {
	b.capabilities = append(b.capabilities, cap)
	b.handlers[cap.Name] = fn
}

// Logger returns the agent's logger.
func (b *BaseAgent) Logger() logging.Logger { return b.logger }

// Handle implements the envelope contract for every embedded agent: protocol
// problems and handler failures alike come back as error envelopes correlated
// to the incoming message, never as Go errors.
func (b *BaseAgent) Handle(ctx context.Context, msg *core.Message) *core.Message {
	if msg.Kind != core.KindTask || msg.Task == nil {
		return msg.ReplyError(core.CodeBadMessage,
			fmt.Sprintf("agent %s handles task envelopes, got kind %q", b.name, msg.Kind), false)
	}

	fn, ok := b.handlers[msg.Task.Action]
	if !ok {
		return msg.ReplyError(core.CodeUnknownAction,
			fmt.Sprintf("agent %s does not support action %q", b.name, msg.Task.Action), false)
	}

	output, err := fn(ctx, msg)
	if err != nil {
		b.logger.Warn("action failed", "agent", b.name, "action", msg.Task.Action, "error", err)
		var ve *util.ValidationError
		if errors.As(err, &ve) {
			return msg.ReplyError(core.CodeBadMessage, ve.Error(), false)
		}
		return msg.ReplyError(core.CodeInternal, err.Error(), true)
	}

	return msg.ReplyResult(output)
}

// inputString reads a string field from the task input, "" when absent or of
// another type.
func inputString(task *core.Message, field string) string {
	if task.Task == nil || task.Task.Input == nil {
		return ""
	}
	s, _ := task.Task.Input[field].(string)
	return s
}
