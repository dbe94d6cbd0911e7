package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/conceptmap/pkg/observability"
)

// logHooks writes pipeline and cache events as debug log lines.
type logHooks struct {
	logger *log.Logger
}

func installDebugHooks(l *log.Logger) {
	h := &logHooks{logger: l}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}

func (h *logHooks) OnAnalyzeStart(_ context.Context, concepts, edges int) {
	h.logger.Debug("analyze start", "concepts", concepts, "edges", edges)
}

func (h *logHooks) OnAnalyzeComplete(_ context.Context, components, locked int, d time.Duration, err error) {
	h.logger.Debug("analyze done", "components", components, "locked", locked, "duration", d, "error", err)
}

func (h *logHooks) OnLayoutStart(_ context.Context, nodes int) {
	h.logger.Debug("layout start", "nodes", nodes)
}

func (h *logHooks) OnLayoutComplete(_ context.Context, nodes, iterations int, d time.Duration, err error) {
	h.logger.Debug("layout done", "nodes", nodes, "iterations", iterations, "duration", d, "error", err)
}

func (h *logHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("render start", "format", format)
}

func (h *logHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	h.logger.Debug("render done", "format", format, "bytes", size, "duration", d, "error", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
