// Package serve keeps a registry available to readers while content
// changes underneath it.
//
// Live holds the current registry behind an atomic pointer; readers never
// lock and never see a half-built registry. Watcher rebuilds on change and
// swaps only published results. Server exposes the live registry as MCP
// tools over stdio.
package serve

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jorge-barreto/folio/internal/pipeline"
	"github.com/jorge-barreto/folio/internal/registry"
)

// Live is the currently served registry.
type Live struct {
	p atomic.Pointer[registry.Registry]

	rebuildMu sync.Mutex
}

// NewLive returns a Live serving reg, which may be nil.
func NewLive(reg *registry.Registry) *Live {
	l := &Live{}
	if reg != nil {
		l.p.Store(reg)
	}
	return l
}

// Current returns the registry being served, or nil if none has been
// published yet.
func (l *Live) Current() *registry.Registry {
	return l.p.Load()
}

// Swap publishes reg and returns the registry it replaced.
func (l *Live) Swap(reg *registry.Registry) *registry.Registry {
	return l.p.Swap(reg)
}

// Rebuild runs fn and swaps in its registry when the run published.
// Concurrent calls run one at a time, so the served registry always comes
// from the most recently finished run.
func (l *Live) Rebuild(ctx context.Context, fn RebuildFunc) *pipeline.Outcome {
	l.rebuildMu.Lock()
	defer l.rebuildMu.Unlock()

	out := fn(ctx)
	if out.Published() {
		l.Swap(out.Registry)
	}
	return out
}
