package registry

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/jorge-barreto/folio/internal/content"
)

// scanned is the map-phase output for one module: the entries that passed
// per-entry validation and the errors found while checking them.
type scanned struct {
	entries []content.Entry
	errs    []error
}

// scanModule validates a module in isolation. It touches no shared state, so
// any number of modules can be scanned concurrently.
func scanModule(m content.Module) scanned {
	var out scanned

	for i, seg := range m.Namespace {
		if err := content.ValidateSegment(seg, fmt.Sprintf("namespace segment %d", i+1)); err != nil {
			// Every key in the module would inherit the bad segment; one
			// error per module is enough.
			out.errs = append(out.errs, &InvalidNamespaceError{
				Namespace: m.Namespace.Clone(),
				SourceRef: m.SourceRef,
				Reason:    ReasonBadSegment,
				Detail:    err.Error(),
			})
			return out
		}
	}

	for _, e := range m.Normalize() {
		if err := content.ValidateSegment(e.Key, "key"); err != nil {
			out.errs = append(out.errs, &InvalidNamespaceError{
				Namespace: e.Namespace,
				Key:       e.Key,
				SourceRef: e.SourceRef,
				Reason:    ReasonBadKey,
				Detail:    err.Error(),
			})
			continue
		}
		if content.IsBlank(e.Body) {
			out.errs = append(out.errs, &EmptyContentError{
				Namespace: e.Namespace,
				Key:       e.Key,
				SourceRef: e.SourceRef,
			})
		}
		// Blank entries still take part in collision detection so that an
		// author sees every problem at an address in one build.
		out.entries = append(out.entries, e)
	}
	return out
}

// builder is the single writer of the reduce phase.
type builder struct {
	index map[string]*content.Entry
	order []*content.Entry
	errs  []error
}

func newBuilder() *builder {
	return &builder{index: make(map[string]*content.Entry)}
}

func (b *builder) reduce(s scanned) {
	b.errs = append(b.errs, s.errs...)
	for i := range s.entries {
		e := &s.entries[i]
		c := e.Composite()
		if first, ok := b.index[c]; ok {
			b.errs = append(b.errs, &DuplicateKeyError{
				Namespace: e.Namespace,
				Key:       e.Key,
				First:     first.SourceRef,
				Second:    e.SourceRef,
			})
			continue
		}
		b.index[c] = e
		b.order = append(b.order, e)
	}
}

func (b *builder) finish() (*Registry, error) {
	b.errs = append(b.errs, leafPrefixCollisions(b.order)...)
	if len(b.errs) > 0 {
		sortErrors(b.errs)
		return nil, BuildErrors(b.errs)
	}
	entries := make([]content.Entry, len(b.order))
	for i, e := range b.order {
		entries[i] = *e
	}
	return FromEntries(entries), nil
}

// Build merges modules into a Registry in a single pass. Every problem is
// collected; on any error the Registry is nil and the error is a BuildErrors
// batch whose elements are *DuplicateKeyError, *EmptyContentError or
// *InvalidNamespaceError.
//
// Input order only decides which module a DuplicateKeyError names first.
// Collisions are never resolved by precedence.
func Build(modules []content.Module) (*Registry, error) {
	b := newBuilder()
	for _, m := range modules {
		b.reduce(scanModule(m))
	}
	return b.finish()
}

// BuildParallel produces the same result as Build, scanning modules on up to
// workers goroutines before a sequential reduce. workers <= 0 means
// runtime.NumCPU().
func BuildParallel(ctx context.Context, modules []content.Module, workers int) (*Registry, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	results := make([]scanned, len(modules))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, m := range modules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = scanModule(m)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	b := newBuilder()
	for _, s := range results {
		b.reduce(s)
	}
	return b.finish()
}

// leafPrefixCollisions finds keys that are also used as a namespace prefix,
// e.g. an entry "temas/cicd" next to an entry under "temas/cicd/...". It
// sorts leaf composites and namespace prefixes together and looks for equal
// neighbours, which is O(E log E).
func leafPrefixCollisions(entries []*content.Entry) []error {
	type item struct {
		s      string
		prefix bool
		entry  *content.Entry
	}
	items := make([]item, 0, len(entries)*2)
	seenPrefix := make(map[string]bool)
	for _, e := range entries {
		items = append(items, item{s: e.Composite(), entry: e})
		for _, p := range e.Namespace.Prefixes() {
			ps := p.String()
			if seenPrefix[ps] {
				continue
			}
			seenPrefix[ps] = true
			items = append(items, item{s: ps, prefix: true, entry: e})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].s != items[j].s {
			return items[i].s < items[j].s
		}
		// Leaves sort before the prefix with the same string.
		return !items[i].prefix && items[j].prefix
	})

	var errs []error
	for i := 0; i+1 < len(items); i++ {
		leaf, next := items[i], items[i+1]
		if leaf.prefix || !next.prefix || leaf.s != next.s {
			continue
		}
		errs = append(errs, &InvalidNamespaceError{
			Namespace: leaf.entry.Namespace,
			Key:       leaf.entry.Key,
			SourceRef: leaf.entry.SourceRef,
			Reason:    ReasonLeafPrefixCollision,
			Detail: fmt.Sprintf("key %q is also a namespace (used by %s in %q)",
				leaf.s, next.entry.SourceRef, next.entry.Namespace.String()),
		})
	}
	return errs
}
