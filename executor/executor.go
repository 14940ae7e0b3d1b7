// Package executor provides the credential-scoped collaborator the tenant
// registry provisions per tenant. It owns the tenant's outbound platform
// credentials and its output directory; publishing adapters for real networks
// plug in behind the same surface, with the built-in local-file platform
// writing rendered content into the tenant's output directory.
package executor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/hupe1980/brandmesh/logging"
)

// PlatformLocalFile is the platform every tenant gets by default.
const PlatformLocalFile = "local-file"

// ErrUnknownPlatform is returned when publishing to a platform the executor
// holds no configuration for.
var ErrUnknownPlatform = errors.New("unknown platform")

// Options configure an Executor.
type Options struct {
	Logger logging.Logger
}

// Executor performs outbound platform actions for exactly one tenant.
// Credentials are opaque key-value pairs passed through to integrations;
// the executor never interprets them.
type Executor struct {
	tenantID  string
	outputDir string
	logger    logging.Logger

	mu    sync.RWMutex
	creds map[string]map[string]string
}

// New creates an executor for a tenant, eagerly creating its output
// directory. The platforms map is copied; later mutation by the caller does
// not leak in.
func New(tenantID, outputDir string, platforms map[string]map[string]string, optFns ...func(o *Options)) (*Executor, error) {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", outputDir, err)
	}

	return &Executor{
		tenantID:  tenantID,
		outputDir: outputDir,
		logger:    opts.Logger,
		creds:     copyCredentials(platforms),
	}, nil
}

// copyCredentials deep-copies the platforms map so later mutation by the
// caller does not leak in.
func copyCredentials(in map[string]map[string]string) map[string]map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]map[string]string, len(in))
	for platform, creds := range in {
		cp := make(map[string]string, len(creds))
		for k, v := range creds {
			cp[k] = v
		}
		out[platform] = cp
	}
	return out
}

// TenantID returns the owning tenant's identifier.
func (e *Executor) TenantID() string { return e.tenantID }

// OutputDir returns the tenant's output directory.
func (e *Executor) OutputDir() string { return e.outputDir }

// Platforms returns the configured platform names, sorted.
func (e *Executor) Platforms() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.creds)+1)
	for name := range e.creds {
		names = append(names, name)
	}
	if _, configured := e.creds[PlatformLocalFile]; !configured {
		names = append(names, PlatformLocalFile)
	}
	sort.Strings(names)
	return names
}

// Credentials returns a copy of the credential map for a platform. The
// local-file platform needs none and always reports ok.
func (e *Executor) Credentials(platform string) (map[string]string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	creds, ok := e.creds[platform]
	if !ok {
		if platform == PlatformLocalFile {
			return map[string]string{}, true
		}
		return nil, false
	}
	out := make(map[string]string, len(creds))
	for k, v := range creds {
		out[k] = v
	}
	return out, true
}

// Publish writes content for a platform. The built-in local-file platform
// writes <outputDir>/<name> atomically and returns the file path; any other
// platform without a registered adapter yields ErrUnknownPlatform.
func (e *Executor) Publish(_ context.Context, platform, name string, content []byte) (string, error) {
	if platform != PlatformLocalFile {
		if _, ok := e.Credentials(platform); !ok {
			return "", fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
		}
		return "", fmt.Errorf("%w: no adapter registered for %s", ErrUnknownPlatform, platform)
	}

	path := filepath.Join(e.outputDir, filepath.Base(name))

	tmp, err := os.CreateTemp(e.outputDir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("publish %s: %w", name, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("publish %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("publish %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("publish %s: %w", name, err)
	}

	e.logger.Debug("published content", "tenant", e.tenantID, "platform", platform, "path", path)
	return path, nil
}
