// Package logging provides a minimal logging interface and adapters for BrandMesh.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the registry and agents use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - BrandMeshLogger with contextual helpers (tenant, agent, correlation)
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewDefaultSlogLogger()
//	reg := tenant.NewRegistry(dataRoot, tenant.WithLogger(logger))
//
// All Logger methods take slog-style key-value pairs after the message;
// BrandMeshLogger follows the same convention.
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
