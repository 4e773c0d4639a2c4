// Package pipeline drives one registry build from raw modules to a
// published (or rejected) registry.
//
//	Gathering -> Building -> Validating -> Published
//	     \           \            \
//	      `-----------`------------`----> Rejected
//
// Nothing is published unless every stage succeeds. A rejected run keeps
// whatever diagnostics it produced so the caller can show them; the caller
// decides whether to keep serving a previous registry.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jorge-barreto/folio/internal/content"
	"github.com/jorge-barreto/folio/internal/integrity"
	"github.com/jorge-barreto/folio/internal/logging"
	"github.com/jorge-barreto/folio/internal/registry"
)

// GatherFunc produces the modules for one run.
type GatherFunc func(ctx context.Context) ([]content.Module, error)

// Modules returns a GatherFunc that always yields mods.
func Modules(mods ...content.Module) GatherFunc {
	return func(context.Context) ([]content.Module, error) {
		return mods, nil
	}
}

// Options configures a run.
type Options struct {
	Parallel bool // use BuildParallel
	Workers  int  // BuildParallel concurrency
	Check    integrity.Options
}

// Outcome is the result of a run.
type Outcome struct {
	RunID    uuid.UUID
	State    State
	Registry *registry.Registry // non-nil only when Published
	Report   *integrity.Report  // never nil
	// BuildErrs holds the builder's typed errors when the Building stage
	// rejected the run.
	BuildErrs registry.BuildErrors
	// Err is set when a stage failed for a reason other than content
	// (gather I/O, cancellation).
	Err     error
	Modules int
	Timings []StageTiming
}

// Published reports whether the run produced a registry.
func (o *Outcome) Published() bool { return o.State == Published }

type run struct {
	out     *Outcome
	m       machine
	t       timings
	logger  *slog.Logger
	current State
}

func (r *run) enter(s State) {
	if err := r.m.advance(s); err != nil {
		panic(err)
	}
	r.current = s
	if !s.Terminal() {
		r.t.start(s)
		r.logger.Debug("pipeline." + s.String())
	}
}

func (r *run) leave() {
	d := r.t.end(r.current)
	r.logger.Debug("pipeline.stage.done", "stage", r.current.String(), "elapsed", FormatDuration(d))
}

func (r *run) reject(err error) *Outcome {
	r.leave()
	r.enter(Rejected)
	r.out.State = Rejected
	r.out.Registry = nil
	if err != nil && r.out.Err == nil {
		r.out.Err = err
	}
	r.out.Timings = r.t
	errs, warns := r.out.Report.Counts()
	r.logger.Warn("pipeline.rejected", "errors", errs, "warnings", warns, "err", r.out.Err)
	return r.out
}

// Run executes one build. It never returns nil.
func Run(ctx context.Context, gather GatherFunc, opts Options) *Outcome {
	id := uuid.New()
	r := &run{
		out:    &Outcome{RunID: id, Report: &integrity.Report{}},
		logger: logging.FromContext(ctx).With("run", id.String()),
	}

	r.enter(Gathering)
	modules, err := gather(ctx)
	if err != nil {
		r.out.Report.Add(integrity.Finding{
			Severity: integrity.SeverityError,
			Message:  fmt.Sprintf("gathering modules: %v", err),
		})
		return r.reject(err)
	}
	r.out.Modules = len(modules)
	r.leave()

	r.enter(Building)
	var reg *registry.Registry
	if opts.Parallel {
		reg, err = registry.BuildParallel(ctx, modules, opts.Workers)
	} else {
		reg, err = registry.Build(modules)
	}
	if err != nil {
		var batch registry.BuildErrors
		if !errors.As(err, &batch) {
			r.out.Report.Add(integrity.Finding{
				Severity: integrity.SeverityError,
				Message:  fmt.Sprintf("building registry: %v", err),
			})
			return r.reject(err)
		}
		r.out.BuildErrs = batch
		for _, e := range batch {
			r.out.Report.Add(findingFor(e))
		}
		r.out.Report.Sort()
		return r.reject(nil)
	}
	r.leave()

	r.enter(Validating)
	r.out.Report = integrity.Check(reg, opts.Check)
	if r.out.Report.HasErrors() {
		return r.reject(nil)
	}
	r.leave()

	r.enter(Published)
	r.out.State = Published
	r.out.Registry = reg
	r.out.Timings = r.t
	_, warns := r.out.Report.Counts()
	r.logger.Info("pipeline.published",
		"entries", reg.Len(), "warnings", warns, "fingerprint", reg.Fingerprint())
	return r.out
}

// findingFor converts a typed build error into a report record.
func findingFor(err error) integrity.Finding {
	f := integrity.Finding{Severity: integrity.SeverityError, Message: err.Error()}
	var (
		dup   *registry.DuplicateKeyError
		empty *registry.EmptyContentError
		inv   *registry.InvalidNamespaceError
	)
	switch {
	case errors.As(err, &dup):
		f.Namespace, f.Key, f.SourceRef = dup.Namespace, dup.Key, dup.Second
	case errors.As(err, &empty):
		f.Namespace, f.Key, f.SourceRef = empty.Namespace, empty.Key, empty.SourceRef
	case errors.As(err, &inv):
		f.Namespace, f.Key, f.SourceRef = inv.Namespace, inv.Key, inv.SourceRef
	}
	return f
}
