package core

import "context"

// Capability is the machine-readable description of one action an agent
// supports. Schemas map field names to type hints ("string", "number",
// "object", ...). They are documentation for discovery tooling; the core
// does not enforce them at runtime.
type Capability struct {
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	InputSchema  map[string]string `json:"input_schema,omitempty"`
	OutputSchema map[string]string `json:"output_schema,omitempty"`
}

// Agent is the contract every BrandMesh agent implements. Agents are
// dispatched uniformly by name and never by concrete type.
//
// Handle receives a task envelope and answers with a correlated result or
// error envelope. It never returns a Go error: protocol problems (wrong kind,
// unknown action) and business failures alike surface as KindError envelopes
// so heterogeneous agents stay interoperable. Implementations must respect
// context cancellation on store and model I/O.
//
// An agent may hold exclusive references to collaborators (a model client, a
// tenant's MemoryStore) injected at construction, but must not share mutable
// state with other agents except through the store.
type Agent interface {
	Name() string
	Description() string
	Version() string
	Capabilities() []Capability
	Handle(ctx context.Context, msg *Message) *Message
}

// Well-known agent names used for attribution in shared state. The tenant
// registry seeds brand fields under the brand manager's name so guidelines
// can be assembled before the agent ever runs.
const (
	BrandManagerName = "brand-manager"
	AnalyticsName    = "analytics"
)

// AgentInfo is the discovery snapshot external tooling may rely on.
type AgentInfo struct {
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Version      string       `json:"version"`
	Capabilities []Capability `json:"capabilities"`
}

// DescribeAgent captures an agent's identity for capability discovery.
func DescribeAgent(a Agent) AgentInfo {
	return AgentInfo{
		Name:         a.Name(),
		Description:  a.Description(),
		Version:      a.Version(),
		Capabilities: a.Capabilities(),
	}
}
