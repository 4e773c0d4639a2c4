// Package registry merges content modules into one immutable lookup table
// and answers topic queries against it.
//
// A Registry is produced by Build (or BuildParallel) and never changes
// afterwards; there are no mutating methods. Any number of goroutines may
// call Resolve, Lookup and the listing methods concurrently without locking.
// Rebuilding means calling Build again and swapping the pointer the readers
// use; see internal/serve.
//
// Entries are keyed by a flat composite string, namespace segments and key
// joined by "/". Slashes are forbidden inside segments, so the flattening
// preserves the tree without building one.
package registry

import (
	"fmt"
	"sort"

	"github.com/zeebo/xxh3"

	"github.com/jorge-barreto/folio/internal/content"
)

// Registry is the published set of content entries.
type Registry struct {
	// index maps composite -> entry. When constructed through FromEntries
	// with duplicate addresses, the first entry wins here while all remains
	// complete, so the integrity checker can still see the duplicates.
	index map[string]*content.Entry

	// all holds every entry sorted by composite, then source ref.
	all []*content.Entry

	// keys maps a namespace string to its sorted keys.
	keys map[string][]string

	// namespaces is every namespace that holds an entry, plus every prefix
	// of those, plus the root. Keyed by namespace string.
	namespaces map[string]content.Path

	fingerprint string
}

// FromEntries builds a Registry directly from entries, without any of the
// builder's validation. It exists for paths that reconstruct an already
// published registry (snapshots, tests). Callers must run the integrity
// checker on the result before serving it.
func FromEntries(entries []content.Entry) *Registry {
	r := &Registry{
		index:      make(map[string]*content.Entry, len(entries)),
		all:        make([]*content.Entry, 0, len(entries)),
		keys:       make(map[string][]string),
		namespaces: map[string]content.Path{"": nil},
	}
	for i := range entries {
		e := entries[i]
		e.Namespace = e.Namespace.Clone()
		r.all = append(r.all, &e)
	}
	sort.SliceStable(r.all, func(i, j int) bool {
		ci, cj := r.all[i].Composite(), r.all[j].Composite()
		if ci != cj {
			return ci < cj
		}
		return r.all[i].SourceRef < r.all[j].SourceRef
	})

	h := xxh3.New()
	for _, e := range r.all {
		c := e.Composite()
		if _, dup := r.index[c]; dup {
			continue
		}
		r.index[c] = e

		ns := e.Namespace.String()
		r.keys[ns] = append(r.keys[ns], e.Key)
		for _, p := range e.Namespace.Prefixes() {
			r.namespaces[p.String()] = p
		}

		h.WriteString(c)
		h.WriteString("\x00")
		h.WriteString(e.Body)
		h.WriteString("\x00")
	}
	for ns := range r.keys {
		sort.Strings(r.keys[ns])
	}
	r.fingerprint = fmt.Sprintf("%016x", h.Sum64())
	return r
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.all)
}

// Lookup returns the entry at exactly (ns, key), with no ancestor fallback.
func (r *Registry) Lookup(ns content.Path, key string) (*content.Entry, bool) {
	e, ok := r.index[content.Composite(ns, key)]
	return e, ok
}

// Entries returns every entry sorted by composite key. The slice is a copy;
// the entries themselves are shared and must not be modified.
func (r *Registry) Entries() []*content.Entry {
	out := make([]*content.Entry, len(r.all))
	copy(out, r.all)
	return out
}

// Keys returns the sorted keys defined directly in ns.
func (r *Registry) Keys(ns content.Path) []string {
	keys := r.keys[ns.String()]
	out := make([]string, len(keys))
	copy(out, keys)
	return out
}

// HasNamespace reports whether ns holds entries or is a prefix of a
// namespace that does. The root namespace always exists.
func (r *Registry) HasNamespace(ns content.Path) bool {
	_, ok := r.namespaces[ns.String()]
	return ok
}

// Namespaces returns every known namespace sorted by string form, starting
// with the root.
func (r *Registry) Namespaces() []content.Path {
	names := make([]string, 0, len(r.namespaces))
	for name := range r.namespaces {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]content.Path, len(names))
	for i, name := range names {
		out[i] = r.namespaces[name].Clone()
	}
	return out
}

// Children returns the immediate child namespaces of ns, sorted.
func (r *Registry) Children(ns content.Path) []content.Path {
	var out []content.Path
	for _, p := range r.Namespaces() {
		if len(p) == len(ns)+1 && p.HasPrefix(ns) {
			out = append(out, p)
		}
	}
	return out
}

// Fingerprint is an xxh3 digest over every (composite, body) pair in sorted
// order. Registries with identical content have identical fingerprints,
// whatever order their modules were discovered in.
func (r *Registry) Fingerprint() string {
	return r.fingerprint
}

// nearest returns the deepest prefix of ns that is a known namespace.
func (r *Registry) nearest(ns content.Path) content.Path {
	for i := len(ns); i > 0; i-- {
		if r.HasNamespace(ns[:i]) {
			return ns[:i].Clone()
		}
	}
	return nil
}
