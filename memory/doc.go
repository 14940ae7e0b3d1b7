// Package memory contains concrete MemoryStore implementations. The store
// interface and MemoryEntry type reside in the core package. Import
// github.com/hupe1980/brandmesh/core and depend on core.MemoryStore in your
// code; select an implementation (the durable FileStore or the volatile
// InMemoryStore) at wiring time.
//
// Rationale: keeps domain contracts centralized while allowing pluggable
// backends (embedded databases, remote stores, etc.) to be added without
// introducing dependency cycles.
package memory
