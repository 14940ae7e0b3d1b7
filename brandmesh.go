// Package brandmesh provides a high-level façade over the tenant registry and
// agent collection that make up a multi-tenant brand content system. Most
// applications interact with this package by:
//  1. Creating a BrandMesh via New() with a data root for durable state
//  2. Registering one or more agents (brand manager, analytics, custom)
//  3. Dispatching task envelopes to agents by name
//
// The façade delegates tenant lifecycle to tenant.Registry while keeping
// setup and usage ergonomics concise. Defaults are safe for local
// development; production deployments typically supply a structured logger.
package brandmesh

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hupe1980/brandmesh/core"
	"github.com/hupe1980/brandmesh/logging"
	"github.com/hupe1980/brandmesh/tenant"
)

// Options configures the BrandMesh instance.
type Options struct {
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// BrandMesh is the high-level façade aggregating the tenant registry and the
// registered agents.
type BrandMesh struct {
	opts     Options
	registry *tenant.Registry

	mu     sync.RWMutex
	agents map[string]core.Agent
}

// New creates a BrandMesh rooted at dataRoot and initializes the tenant
// registry, restoring any persisted tenants.
func New(ctx context.Context, dataRoot string, optFns ...func(o *Options)) (*BrandMesh, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	registry := tenant.NewRegistry(dataRoot, tenant.WithLogger(opts.Logger))
	if err := registry.Init(ctx); err != nil {
		return nil, fmt.Errorf("init tenant registry: %w", err)
	}

	return &BrandMesh{
		opts:     opts,
		registry: registry,
		agents:   make(map[string]core.Agent),
	}, nil
}

// Tenants returns the tenant registry for lifecycle operations.
func (m *BrandMesh) Tenants() *tenant.Registry { return m.registry }

// RegisterAgent adds an agent under its unique name.
func (m *BrandMesh) RegisterAgent(a core.Agent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.agents[a.Name()]; exists {
		return fmt.Errorf("agent %q already registered", a.Name())
	}
	m.agents[a.Name()] = a
	return nil
}

// Agent returns a registered agent by name.
func (m *BrandMesh) Agent(name string) (core.Agent, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.agents[name]
	return a, ok
}

// Agents returns a discovery snapshot of every registered agent, sorted by
// name.
func (m *BrandMesh) Agents() []core.AgentInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]core.AgentInfo, 0, len(m.agents))
	for _, a := range m.agents {
		out = append(out, core.DescribeAgent(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Dispatch routes an envelope to the agent named in To and returns the
// agent's answer. An unknown recipient comes back as a correlated error
// envelope, never a Go error, so callers handle exactly one failure shape.
func (m *BrandMesh) Dispatch(ctx context.Context, msg *core.Message) *core.Message {
	m.mu.RLock()
	a, ok := m.agents[msg.To]
	m.mu.RUnlock()

	if !ok {
		return msg.ReplyError(core.CodeUnknownAgent,
			fmt.Sprintf("no agent registered under name %q", msg.To), false)
	}

	start := time.Now()
	reply := a.Handle(ctx, msg)
	logging.LogDispatch(m.opts.Logger, msg.To, msg.Action(), time.Since(start), reply.Kind == core.KindResult)
	return reply
}
