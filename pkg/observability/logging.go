package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Logging reports every hook event to a logger at debug level, failures
// at warn level. It implements all hook interfaces.
type Logging struct {
	logger *log.Logger
}

// NewLogging creates logging hooks writing to l.
func NewLogging(l *log.Logger) *Logging {
	return &Logging{logger: l.WithPrefix("hooks")}
}

var (
	_ PipelineHooks = (*Logging)(nil)
	_ CacheHooks    = (*Logging)(nil)
	_ ServerHooks   = (*Logging)(nil)
)

func (h *Logging) done(msg string, err error, kv ...any) {
	if err != nil {
		h.logger.Warn(msg, append(kv, "err", err)...)
		return
	}
	h.logger.Debug(msg, kv...)
}

func (h *Logging) OnLoadStart(_ context.Context, source string) {
	h.logger.Debug("load", "source", source)
}

func (h *Logging) OnLoadComplete(_ context.Context, source string, nodes int, d time.Duration, err error) {
	h.done("loaded", err, "source", source, "nodes", nodes, "took", d)
}

func (h *Logging) OnBuildStart(_ context.Context, document string, nodes int) {
	h.logger.Debug("build", "document", document, "nodes", nodes)
}

func (h *Logging) OnBuildComplete(_ context.Context, document string, templates, warnings int, d time.Duration, err error) {
	h.done("built", err, "document", document, "templates", templates, "warnings", warnings, "took", d)
}

func (h *Logging) OnPersistStart(_ context.Context, backend string, templates int) {
	h.logger.Debug("persist", "backend", backend, "templates", templates)
}

func (h *Logging) OnPersistComplete(_ context.Context, backend string, templates int, d time.Duration, err error) {
	h.done("persisted", err, "backend", backend, "templates", templates, "took", d)
}

func (h *Logging) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "key", keyType)
}

func (h *Logging) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "key", keyType)
}

func (h *Logging) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "key", keyType, "bytes", size)
}

func (h *Logging) OnRequest(_ context.Context, method, path string) {
	h.logger.Debug("request", "method", method, "path", path)
}

func (h *Logging) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "path", path, "status", status, "took", d)
}
