package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level; failed solves are
// logged as errors.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnSolveStart(_ context.Context, strategy string, vertices, edges int) {
	h.logger.Debug("solve started", "strategy", strategy, "vertices", vertices, "edges", edges)
}

func (h *LogHooks) OnSolveComplete(_ context.Context, strategy string, s SolveSummary, err error) {
	if err != nil {
		h.logger.Error("solve failed", "strategy", strategy, "err", err)
		return
	}
	h.logger.Debug("solve finished",
		"strategy", strategy,
		"weight", s.Weight,
		"size", s.Size,
		"complete", s.Complete,
		"iterations", s.Iterations,
		"cached", s.Cached,
		"elapsed", s.Duration.Round(time.Millisecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Info("response", "method", method, "route", route, "status", status, "elapsed", d.Round(time.Microsecond))
}

// Register installs h for every hook category.
func (h *LogHooks) Register() {
	SetSolveHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

var (
	_ SolveHooks = (*LogHooks)(nil)
	_ CacheHooks = (*LogHooks)(nil)
	_ HTTPHooks  = (*LogHooks)(nil)
)
