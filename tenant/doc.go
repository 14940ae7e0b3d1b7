// Package tenant implements the resource registry that owns the full set of
// tenants. For each tenant it lazily-but-eagerly provisions a durable memory
// store and a credential-scoped executor, persists tenant records in a single
// JSON manifest, and renders brand guidelines from store contents.
//
// Agents never construct stores or executors themselves; they receive
// references from the registry. Because Update can refresh a tenant's
// executor mid-lifetime, callers should re-fetch collaborator references from
// the registry rather than cache them long-term.
package tenant
