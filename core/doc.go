// Package core contains the domain contracts shared by every BrandMesh
// package: the message envelope protocol agents exchange, the Agent capability
// contract, and the tagged MemoryStore interface. Implementations live in
// sibling packages (memory, agent, tenant) and depend on core; keeping the
// contracts centralized avoids dependency cycles between them.
package core
