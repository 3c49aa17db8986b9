// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup
// to receive events about builds, cache operations, template persistence
// and HTTP API requests.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so library packages never
// import a metrics backend.
//
// # Usage
//
// Register hooks at application startup. [Logging] reports every event to
// a logger and is what figtree --verbose installs:
//
//	l := observability.NewLogging(logger)
//	observability.SetPipelineHooks(l)
//	observability.SetCacheHooks(l)
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnBuildStart(ctx, doc.Name, nodeCount)
//	// ... build ...
//	observability.Pipeline().OnBuildComplete(ctx, doc.Name, templates, warnings, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the build pipeline.
type PipelineHooks interface {
	// Load events
	OnLoadStart(ctx context.Context, source string)
	OnLoadComplete(ctx context.Context, source string, nodeCount int, duration time.Duration, err error)

	// Build events
	OnBuildStart(ctx context.Context, document string, nodeCount int)
	OnBuildComplete(ctx context.Context, document string, templates, warnings int, duration time.Duration, err error)

	// Persist events
	OnPersistStart(ctx context.Context, backend string, templates int)
	OnPersistComplete(ctx context.Context, backend string, templates int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Server Hooks
// =============================================================================

// ServerHooks receives events from the HTTP API.
type ServerHooks interface {
	// OnRequest records an incoming request.
	OnRequest(ctx context.Context, method, path string)

	// OnResponse records a completed response.
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLoadStart(context.Context, string)                                     {}
func (NoopPipelineHooks) OnLoadComplete(context.Context, string, int, time.Duration, error)       {}
func (NoopPipelineHooks) OnBuildStart(context.Context, string, int)                               {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, string, int, int, time.Duration, error) {}
func (NoopPipelineHooks) OnPersistStart(context.Context, string, int)                             {}
func (NoopPipelineHooks) OnPersistComplete(context.Context, string, int, time.Duration, error)    {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks is a no-op implementation of ServerHooks.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

// hookSet is the set of hooks in effect.
type hookSet struct {
	pipeline PipelineHooks
	cache    CacheHooks
	server   ServerHooks
}

func noopHooks() hookSet {
	return hookSet{NoopPipelineHooks{}, NoopCacheHooks{}, NoopServerHooks{}}
}

var (
	hooksMu sync.RWMutex
	hooks   = noopHooks()
)

func current() hookSet {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return hooks
}

func update(fn func(*hookSet)) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	fn(&hooks)
}

// SetPipelineHooks registers pipeline hooks. Call it at startup, before
// any build; nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(s *hookSet) { s.pipeline = h })
	}
}

// SetCacheHooks registers cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(s *hookSet) { s.cache = h })
	}
}

// SetServerHooks registers HTTP API hooks. nil is ignored.
func SetServerHooks(h ServerHooks) {
	if h != nil {
		update(func(s *hookSet) { s.server = h })
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks { return current().pipeline }

// Cache returns the registered cache hooks.
func Cache() CacheHooks { return current().cache }

// Server returns the registered HTTP API hooks.
func Server() ServerHooks { return current().server }

// Reset restores the no-op hooks. Tests use it to clean up.
func Reset() { update(func(s *hookSet) { *s = noopHooks() }) }
